package token

import (
	"bytes"
	"testing"
)

func TestGetSetPreservesOrder(t *testing.T) {
	v := Object(
		F("b", Number(2)),
		F("a", Number(1)),
	)

	if got, ok := v.Get("a"); !ok || got.Float() != 1 {
		t.Fatalf("Get(a): ok=%v got=%v", ok, got)
	}
	if _, ok := v.Get("missing"); ok {
		t.Fatalf("Get(missing) should miss")
	}

	// replacing keeps position; appending goes last
	v2 := v.Set("b", Number(20)).Set("c", Number(3))
	keys := make([]string, 0, v2.Len())
	for _, f := range v2.Fields() {
		keys = append(keys, f.Key)
	}
	if len(keys) != 3 || keys[0] != "b" || keys[1] != "a" || keys[2] != "c" {
		t.Fatalf("unexpected field order: %v", keys)
	}
	if got, _ := v2.Get("b"); got.Float() != 20 {
		t.Fatalf("Set(b) did not replace, got %v", got.Float())
	}

	// original untouched (copy-on-write)
	if got, _ := v.Get("b"); got.Float() != 2 {
		t.Fatalf("Set mutated the receiver: %v", got.Float())
	}
}

func TestMergeShallowLastWins(t *testing.T) {
	base := Object(
		F("primaryColor", String("#1890ff")),
		F("fontSize", Number(14)),
		F("nested", Object(F("a", Number(1)), F("b", Number(2)))),
	)
	overlay := Object(
		F("fontSize", Number(16)),
		F("nested", Object(F("a", Number(9)))),
		F("extra", String("x")),
	)

	m := base.Merge(overlay)

	if got, _ := m.Get("fontSize"); got.Float() != 16 {
		t.Fatalf("overlay should win: %v", got.Float())
	}
	if got, _ := m.Get("primaryColor"); got.Text() != "#1890ff" {
		t.Fatalf("untouched field lost: %q", got.Text())
	}
	// shallow: the nested object is replaced wholesale, not deep-merged
	nested, _ := m.Get("nested")
	if nested.Len() != 1 {
		t.Fatalf("merge must be shallow, nested has %d fields", nested.Len())
	}
	if _, ok := m.Get("extra"); !ok {
		t.Fatalf("new overlay field missing")
	}
}

func TestMergeNonObject(t *testing.T) {
	if got := String("a").Merge(String("b")); got.Text() != "b" {
		t.Fatalf("non-object merge: overlay should win, got %q", got.Text())
	}
	if got := Object(F("a", Number(1))).Merge(Value{}); got.Len() != 1 {
		t.Fatalf("zero overlay must be a no-op")
	}
}

func TestJSONRoundTripKeepsOrder(t *testing.T) {
	v := Object(
		F("zeta", Number(1)),
		F("alpha", Object(
			F("second", String("s:2")),
			F("first", List(Number(1), String("two"))),
		)),
	)

	b, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want := `{"zeta":1,"alpha":{"second":"s:2","first":[1,"two"]}}`
	if string(b) != want {
		t.Fatalf("encoded form:\n got %s\nwant %s", b, want)
	}

	var back Value
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	b2, err := back.MarshalJSON()
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if !bytes.Equal(b, b2) {
		t.Fatalf("round trip not stable:\n got %s\nwant %s", b2, b)
	}
}

func TestJSONRejectsTrailing(t *testing.T) {
	var v Value
	if err := v.UnmarshalJSON([]byte(`{"a":1} {"b":2}`)); err == nil {
		t.Fatalf("trailing data should be rejected")
	}
}
