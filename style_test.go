package stylecache

import (
	"errors"
	"strings"
	"testing"

	"github.com/unkn0wn-root/stylecache/sink"
	"github.com/unkn0wn-root/stylecache/token"
)

// buttonStyles reads the cached token so the produced CSS follows the
// derivation chain end to end.
func buttonStyles(ct *CachedToken) func() []token.Value {
	return func() []token.Value {
		color, _ := ct.Token.Get("primaryColor")
		return []token.Value{token.Object(
			token.F(".btn", token.Object(
				token.F("color", color),
			)),
		)}
	}
}

func TestRegisterStyleDeduplicates(t *testing.T) {
	calls := 0
	th := disableTheme(&calls)
	hooks := &countingHooks{}
	mem := sink.NewMemory()
	r := mustRegistry(t, Options{Sink: mem, Hooks: hooks})

	ct := mustToken(t, r, th, []token.Value{baseToken("#1890ff")}, TokenOptions{})
	sc := StyleContext{Theme: th, Token: ct, Path: []string{"button", "primary"}}

	produced := 0
	produce := func() []token.Value {
		produced++
		return buttonStyles(ct)()
	}

	handles := make([]*StyleHandle, 0, 5)
	for i := 0; i < 5; i++ {
		h, err := r.RegisterStyle(sc, produce)
		if err != nil {
			t.Fatalf("RegisterStyle #%d: %v", i, err)
		}
		handles = append(handles, h)
	}

	if mem.Len() != 1 {
		t.Fatalf("5 identical registrations materialized %d nodes", mem.Len())
	}
	if produced != 1 {
		t.Fatalf("producer ran %d times", produced)
	}
	if hooks.styleCompiled != 1 || hooks.styleReused != 4 {
		t.Fatalf("compiled=%d reused=%d", hooks.styleCompiled, hooks.styleReused)
	}

	node := mem.Nodes()[0]
	if node.CSSText != ".btn{color:#1890ff;}" {
		t.Fatalf("compiled text = %s", node.CSSText)
	}
	if node.Key != handles[0].Key() {
		t.Fatalf("node key %q != handle key %q", node.Key, handles[0].Key())
	}
	for _, h := range handles[1:] {
		if h.Key() != handles[0].Key() {
			t.Fatalf("handle keys diverged")
		}
	}
}

func TestRegisterStyleKeyScoping(t *testing.T) {
	calls := 0
	th := disableTheme(&calls)
	mem := sink.NewMemory()
	r := mustRegistry(t, Options{Sink: mem})
	ct := mustToken(t, r, th, []token.Value{baseToken("#1890ff")}, TokenOptions{})

	// same producer output under different paths stays distinct: the key
	// dedupes by context, not by content
	a, err := r.RegisterStyle(StyleContext{Token: ct, Path: []string{"button"}}, buttonStyles(ct))
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.RegisterStyle(StyleContext{Token: ct, Path: []string{"card"}}, buttonStyles(ct))
	if err != nil {
		t.Fatal(err)
	}
	if a.Key() == b.Key() || mem.Len() != 2 {
		t.Fatalf("paths must scope keys: %q vs %q, nodes=%d", a.Key(), b.Key(), mem.Len())
	}

	// a different token under the same path is a different registration
	ct2 := mustToken(t, r, th, []token.Value{baseToken("#f5222d")}, TokenOptions{})
	c, err := r.RegisterStyle(StyleContext{Token: ct2, Path: []string{"button"}}, buttonStyles(ct2))
	if err != nil {
		t.Fatal(err)
	}
	if c.Key() == a.Key() || mem.Len() != 3 {
		t.Fatalf("token key must scope style keys")
	}
}

func TestRegisterStyleHashScoping(t *testing.T) {
	calls := 0
	th := disableTheme(&calls)
	mem := sink.NewMemory()
	r := mustRegistry(t, Options{Sink: mem})

	ct := mustToken(t, r, th, []token.Value{baseToken("#1890ff")}, TokenOptions{Salt: "tenant-a"})
	if _, err := r.RegisterStyle(StyleContext{Token: ct, Path: []string{"button"}}, buttonStyles(ct)); err != nil {
		t.Fatal(err)
	}

	css := mem.Nodes()[0].CSSText
	want := ".btn." + ct.HashID + "{color:#1890ff;}"
	if css != want {
		t.Fatalf("\n got %s\nwant %s", css, want)
	}
}

func TestRegisterStyleLayer(t *testing.T) {
	calls := 0
	th := disableTheme(&calls)
	mem := sink.NewMemory()
	r := mustRegistry(t, Options{Sink: mem})
	ct := mustToken(t, r, th, []token.Value{baseToken("#1890ff")}, TokenOptions{})

	if _, err := r.RegisterStyle(StyleContext{Token: ct, Path: []string{"button"}, Layer: "components"}, buttonStyles(ct)); err != nil {
		t.Fatal(err)
	}
	if css := mem.Nodes()[0].CSSText; css != "@layer components{.btn{color:#1890ff;}}" {
		t.Fatalf("layer wrap missing: %s", css)
	}
}

func TestReleaseLazyByDefault(t *testing.T) {
	calls := 0
	th := disableTheme(&calls)
	mem := sink.NewMemory()
	r := mustRegistry(t, Options{Sink: mem})
	ct := mustToken(t, r, th, []token.Value{baseToken("#1890ff")}, TokenOptions{})
	sc := StyleContext{Token: ct, Path: []string{"button"}}

	produced := 0
	produce := func() []token.Value { produced++; return buttonStyles(ct)() }

	h, err := r.RegisterStyle(sc, produce)
	if err != nil {
		t.Fatal(err)
	}
	h.Release()

	// parked: node and entry survive for remount reuse
	if mem.Len() != 1 || r.Stats().Styles != 1 {
		t.Fatalf("lazy policy dropped state: nodes=%d entries=%d", mem.Len(), r.Stats().Styles)
	}

	h2, err := r.RegisterStyle(sc, produce)
	if err != nil {
		t.Fatal(err)
	}
	if produced != 1 || mem.Len() != 1 {
		t.Fatalf("remount should reuse the parked entry: produced=%d nodes=%d", produced, mem.Len())
	}
	h2.Release()
}

func TestReleaseAutoClear(t *testing.T) {
	calls := 0
	th := disableTheme(&calls)
	hooks := &countingHooks{}
	mem := sink.NewMemory()
	r := mustRegistry(t, Options{Sink: mem, AutoClear: true, Hooks: hooks})
	ct := mustToken(t, r, th, []token.Value{baseToken("#1890ff")}, TokenOptions{})
	sc := StyleContext{Token: ct, Path: []string{"button"}}

	h1, err := r.RegisterStyle(sc, buttonStyles(ct))
	if err != nil {
		t.Fatal(err)
	}
	h2, err := r.RegisterStyle(sc, buttonStyles(ct))
	if err != nil {
		t.Fatal(err)
	}

	h1.Release()
	if mem.Len() != 1 {
		t.Fatalf("node removed while still referenced")
	}
	h1.Release() // idempotent per lease
	h2.Release()
	if mem.Len() != 0 || r.Stats().Styles != 0 {
		t.Fatalf("autoClear left nodes=%d entries=%d", mem.Len(), r.Stats().Styles)
	}
	if hooks.styleEvicted != 1 {
		t.Fatalf("styleEvicted = %d", hooks.styleEvicted)
	}
}

func TestSwapNeverDropsToZero(t *testing.T) {
	calls := 0
	th := disableTheme(&calls)
	rs := newRecordingSink()
	r := mustRegistry(t, Options{Sink: rs, AutoClear: true})

	update := func(h *StyleHandle, old *CachedToken, color string) (*StyleHandle, *CachedToken) {
		t.Helper()
		ct := mustToken(t, r, th, []token.Value{baseToken(color)}, TokenOptions{})
		nh, err := h.Swap(StyleContext{Token: ct, Path: []string{"button"}}, buttonStyles(ct))
		if err != nil {
			t.Fatalf("Swap: %v", err)
		}
		old.Release()
		return nh, ct
	}

	ct := mustToken(t, r, th, []token.Value{baseToken("#1890ff")}, TokenOptions{})
	h, err := r.RegisterStyle(StyleContext{Token: ct, Path: []string{"button"}}, buttonStyles(ct))
	if err != nil {
		t.Fatal(err)
	}

	h, ct = update(h, ct, "#f5222d")
	h, ct = update(h, ct, "#52c41a")

	if rs.Len() != 1 {
		t.Fatalf("after two swaps nodes = %d", rs.Len())
	}
	if css := rs.inner.Nodes()[0].CSSText; css != ".btn{color:#52c41a;}" {
		t.Fatalf("latest style lost: %s", css)
	}
	// at no observable instant was the style absent
	for i, n := range rs.observedLens() {
		if n < 1 {
			t.Fatalf("observation %d saw an empty sink: %v", i, rs.observedLens())
		}
	}

	h.Release()
	ct.Release()
}

func TestSwapKeepsOldLeaseOnError(t *testing.T) {
	calls := 0
	th := disableTheme(&calls)
	mem := sink.NewMemory()
	r := mustRegistry(t, Options{Sink: mem, AutoClear: true})
	ct := mustToken(t, r, th, []token.Value{baseToken("#1890ff")}, TokenOptions{})

	h, err := r.RegisterStyle(StyleContext{Token: ct, Path: []string{"button"}}, buttonStyles(ct))
	if err != nil {
		t.Fatal(err)
	}

	bad := func() []token.Value { return []token.Value{token.String("not a style")} }
	if _, err := h.Swap(StyleContext{Token: ct, Path: []string{"other"}}, bad); err == nil {
		t.Fatalf("swap to a broken producer must fail")
	}
	if mem.Len() != 1 {
		t.Fatalf("failed swap disturbed the live node, nodes = %d", mem.Len())
	}
	h.Release()
	if mem.Len() != 0 {
		t.Fatalf("old lease no longer releasable")
	}
}

func TestRegisterStyleErrors(t *testing.T) {
	calls := 0
	th := disableTheme(&calls)
	r := mustRegistry(t, Options{})
	ct := mustToken(t, r, th, []token.Value{baseToken("#1890ff")}, TokenOptions{})

	if _, err := r.RegisterStyle(StyleContext{Token: ct}, nil); err != ErrNilProducer {
		t.Fatalf("nil producer: %v", err)
	}
	if _, err := r.RegisterStyle(StyleContext{}, buttonStyles(ct)); err != ErrNoToken {
		t.Fatalf("missing token: %v", err)
	}

	bad := func() []token.Value { return []token.Value{token.String("not a style")} }
	_, err := r.RegisterStyle(StyleContext{Token: ct, Path: []string{"x"}}, bad)
	var re *RegisterError
	if !errors.As(err, &re) || re.CompileErr == nil || re.SinkErr != nil {
		t.Fatalf("compile failure: %v", err)
	}

	rf := mustRegistry(t, Options{Sink: failSink{err: errTest}})
	ctf := mustToken(t, rf, th, []token.Value{baseToken("#1890ff")}, TokenOptions{})
	_, err = rf.RegisterStyle(StyleContext{Token: ctf, Path: []string{"x"}}, buttonStyles(ctf))
	if !errors.As(err, &re) || re.SinkErr == nil {
		t.Fatalf("sink failure: %v", err)
	}
	if !errors.Is(err, errTest) {
		t.Fatalf("cause not unwrapped: %v", err)
	}
	// a failed create leaves no entry behind
	if rf.Stats().Styles != 0 {
		t.Fatalf("failed registration cached an entry")
	}
}

func TestRegisterStyleDisabled(t *testing.T) {
	calls := 0
	th := disableTheme(&calls)
	mem := sink.NewMemory()
	r := mustRegistry(t, Options{Disabled: true, Sink: mem})
	ct := mustToken(t, r, th, []token.Value{baseToken("#1890ff")}, TokenOptions{})
	sc := StyleContext{Token: ct, Path: []string{"button"}}

	h1, err := r.RegisterStyle(sc, buttonStyles(ct))
	if err != nil {
		t.Fatal(err)
	}
	h2, err := r.RegisterStyle(sc, buttonStyles(ct))
	if err != nil {
		t.Fatal(err)
	}
	// pass-through: no dedup, each registration owns a node
	if mem.Len() != 2 {
		t.Fatalf("disabled registry deduped, nodes = %d", mem.Len())
	}
	h1.Release()
	if mem.Len() != 1 {
		t.Fatalf("release must drop exactly the own node, nodes = %d", mem.Len())
	}
	h2.Release()
	if mem.Len() != 0 {
		t.Fatalf("nodes left: %d", mem.Len())
	}
}

func TestRegisterStyleIntoBuffer(t *testing.T) {
	calls := 0
	th := disableTheme(&calls)
	buf := sink.NewBuffer()
	r := mustRegistry(t, Options{Sink: buf})
	ct := mustToken(t, r, th, []token.Value{baseToken("#1890ff")}, TokenOptions{})

	if _, err := r.RegisterStyle(StyleContext{Token: ct, Path: []string{"button"}}, buttonStyles(ct)); err != nil {
		t.Fatal(err)
	}
	if got := buf.CSS(); got != ".btn{color:#1890ff;}" {
		t.Fatalf("buffer collected %s", got)
	}
	man := buf.Manifest()
	if len(man.Entries) != 1 || !strings.Contains(man.Entries[0].CSSText, ".btn") {
		t.Fatalf("manifest = %+v", man.Entries)
	}
}
