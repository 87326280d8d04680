// Package csstext compiles nested style-description values into flat CSS
// text. Input objects mix three kinds of keys: camelCase property names with
// leaf values, selector strings (where '&' substitutes the accumulated
// parent selector), and at-rules. Output is plain rule syntax with no
// whitespace beautification, e.g.
//
//	.box{width:93px;line-height:1;background-color:#1890ff;}
//
// Rules are emitted depth-first in insertion order; the declarations of a
// level form one block that precedes the level's nested blocks.
package csstext

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/unkn0wn-root/stylecache/token"
)

// Options control one compilation pass.
type Options struct {
	// Root seeds the parent selector chain. When empty, top-level keys
	// must themselves be selectors or at-rules.
	Root string

	// HashClass, when set, is compounded (no descendant space) onto every
	// top-level selector so all rules of a registration are scoped to the
	// hash-bearing class.
	HashClass string
}

// Compile renders one style-description value to CSS text.
func Compile(style token.Value, opts Options) (string, error) {
	if style.Kind() != token.KindObject {
		return "", fmt.Errorf("csstext: style root is %s, want object", style.Kind())
	}
	var b strings.Builder
	root := normalizeSelector(opts.Root)
	if err := emitLevel(&b, root, style, 0, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

func emitLevel(b *strings.Builder, sel string, style token.Value, depth int, opts Options) error {
	var decls strings.Builder
	var nested strings.Builder

	for _, f := range style.Fields() {
		switch f.Value.Kind() {
		case token.KindObject:
			if err := emitNested(&nested, sel, f.Key, f.Value, depth, opts); err != nil {
				return err
			}
		case token.KindString, token.KindNumber, token.KindList:
			if err := appendDecl(&decls, f.Key, f.Value); err != nil {
				return err
			}
		default:
			return fmt.Errorf("csstext: %q has invalid value", f.Key)
		}
	}

	if decls.Len() > 0 {
		if sel == "" {
			return fmt.Errorf("csstext: declarations outside any selector")
		}
		b.WriteString(sel)
		b.WriteByte('{')
		b.WriteString(decls.String())
		b.WriteByte('}')
	}
	b.WriteString(nested.String())
	return nil
}

func emitNested(b *strings.Builder, sel, key string, style token.Value, depth int, opts Options) error {
	switch {
	case strings.HasPrefix(key, "@keyframes"):
		return emitKeyframes(b, key, style)
	case strings.HasPrefix(key, "@media"),
		strings.HasPrefix(key, "@supports"),
		strings.HasPrefix(key, "@container"),
		strings.HasPrefix(key, "@layer"):
		// conditional group rules keep the accumulated selector inside
		var inner strings.Builder
		if err := emitLevel(&inner, sel, style, depth, opts); err != nil {
			return err
		}
		b.WriteString(normalizeSelector(key))
		b.WriteByte('{')
		b.WriteString(inner.String())
		b.WriteByte('}')
		return nil
	case strings.HasPrefix(key, "@"):
		// declaration at-rules (@font-face and friends): block as-is
		return emitLevel(b, normalizeSelector(key), style, depth+1, opts)
	default:
		child := resolveSelector(sel, key)
		if depth == 0 && opts.HashClass != "" {
			child = compound(child, opts.HashClass)
		}
		return emitLevel(b, child, style, depth+1, opts)
	}
}

func emitKeyframes(b *strings.Builder, key string, style token.Value) error {
	var inner strings.Builder
	for _, f := range style.Fields() {
		if f.Value.Kind() != token.KindObject {
			return fmt.Errorf("csstext: keyframe %q is not a block", f.Key)
		}
		// frame selectors (from, to, percentages) are used verbatim
		if err := emitLevel(&inner, normalizeSelector(f.Key), f.Value, 1, Options{}); err != nil {
			return err
		}
	}
	b.WriteString(normalizeSelector(key))
	b.WriteByte('{')
	b.WriteString(inner.String())
	b.WriteByte('}')
	return nil
}

func appendDecl(b *strings.Builder, prop string, v token.Value) error {
	name := hyphenate(prop)
	switch v.Kind() {
	case token.KindString:
		writeDecl(b, name, v.Text())
	case token.KindNumber:
		writeDecl(b, name, formatNumber(name, v.Float()))
	case token.KindList:
		// fallback values: one declaration per item, in order
		for _, it := range v.Items() {
			switch it.Kind() {
			case token.KindString:
				writeDecl(b, name, it.Text())
			case token.KindNumber:
				writeDecl(b, name, formatNumber(name, it.Float()))
			default:
				return fmt.Errorf("csstext: %q has nested list value", prop)
			}
		}
	}
	return nil
}

func writeDecl(b *strings.Builder, name, value string) {
	b.WriteString(name)
	b.WriteByte(':')
	b.WriteString(value)
	b.WriteByte(';')
}

func formatNumber(name string, f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if unitless[name] {
		return s
	}
	return s + "px"
}

// resolveSelector computes the effective selector of a child key under the
// accumulated parent chain. Both sides may be comma lists; every child part
// resolves against every parent part. '&' in a child part substitutes the
// parent; otherwise parts join with the descendant combinator.
func resolveSelector(parent, key string) string {
	children := splitSelector(key)
	if parent == "" {
		return strings.Join(children, ",")
	}
	parents := strings.Split(parent, ",")

	out := make([]string, 0, len(parents)*len(children))
	for _, c := range children {
		for _, p := range parents {
			if strings.Contains(c, "&") {
				out = append(out, strings.ReplaceAll(c, "&", p))
			} else {
				out = append(out, p+" "+c)
			}
		}
	}
	return strings.Join(out, ",")
}

// compound appends .class to every part of a comma-joined selector.
func compound(sel, class string) string {
	parts := strings.Split(sel, ",")
	for i, p := range parts {
		parts[i] = p + "." + class
	}
	return strings.Join(parts, ",")
}

// splitSelector splits a selector key on commas and newlines and collapses
// internal whitespace, so multi-selector keys share one declaration block.
func splitSelector(key string) []string {
	raw := strings.FieldsFunc(key, func(r rune) bool { return r == ',' || r == '\n' })
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = normalizeSelector(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeSelector(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// hyphenate converts camelCase property names to CSS form. Names already
// containing '-' (custom properties, pre-hyphenated) pass through; a leading
// capital marks a vendor prefix (WebkitMask -> -webkit-mask).
func hyphenate(prop string) string {
	if strings.Contains(prop, "-") {
		return prop
	}
	var b strings.Builder
	b.Grow(len(prop) + 4)
	for i := 0; i < len(prop); i++ {
		c := prop[i]
		if c >= 'A' && c <= 'Z' {
			b.WriteByte('-')
			b.WriteByte(c + ('a' - 'A'))
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// unitless lists hyphenated property names whose numeric values carry no
// implicit px unit.
var unitless = map[string]bool{
	"animation-iteration-count": true,
	"aspect-ratio":              true,
	"column-count":              true,
	"columns":                   true,
	"flex":                      true,
	"flex-grow":                 true,
	"flex-shrink":               true,
	"font-weight":               true,
	"grid-column":               true,
	"grid-column-end":           true,
	"grid-column-start":         true,
	"grid-row":                  true,
	"grid-row-end":              true,
	"grid-row-start":            true,
	"line-clamp":                true,
	"line-height":               true,
	"opacity":                   true,
	"order":                     true,
	"orphans":                   true,
	"scale":                     true,
	"tab-size":                  true,
	"widows":                    true,
	"z-index":                   true,
	"zoom":                      true,
}
