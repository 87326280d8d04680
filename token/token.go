// Package token models design tokens as generic tagged values.
//
// A token is an arbitrarily nested record of strings, numbers, lists and
// ordered mappings. There is deliberately no fixed schema: themes derive
// richer tokens from smaller base tokens, and style producers read whatever
// fields they need. Field order inside an object is preserved and is
// significant for key generation - two objects with the same fields in a
// different order serialize to different cache keys.
//
// Values are immutable by convention. Mutating helpers (Set, Merge) return
// a new Value and never touch the receiver's backing storage.
package token

// Kind discriminates the value variants.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindNumber
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Field is a single entry of an object value. Order matters.
type Field struct {
	Key   string
	Value Value
}

// F is a shorthand field constructor for building object literals.
func F(key string, v Value) Field { return Field{Key: key, Value: v} }

// Value is a tagged token value. The zero Value is KindInvalid.
type Value struct {
	kind   Kind
	str    string
	num    float64
	items  []Value
	fields []Field
}

func String(s string) Value  { return Value{kind: KindString, str: s} }
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

func List(items ...Value) Value {
	return Value{kind: KindList, items: items}
}

func Object(fields ...Field) Value {
	return Value{kind: KindObject, fields: fields}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsZero() bool { return v.kind == KindInvalid }

// Text returns the string payload; empty for non-string values.
func (v Value) Text() string { return v.str }

// Float returns the numeric payload; 0 for non-number values.
func (v Value) Float() float64 { return v.num }

// Items returns the backing list slice. Callers must not mutate it.
func (v Value) Items() []Value { return v.items }

// Fields returns the backing field slice. Callers must not mutate it.
func (v Value) Fields() []Field { return v.fields }

// Len returns the number of items (list) or fields (object); 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.items)
	case KindObject:
		return len(v.fields)
	default:
		return 0
	}
}

// Get looks up a top-level object field by key.
func (v Value) Get(key string) (Value, bool) {
	for _, f := range v.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Set returns a copy of v with the field replaced in place (preserving its
// position) or appended when absent. Non-object receivers become a fresh
// single-field object.
func (v Value) Set(key string, val Value) Value {
	if v.kind != KindObject {
		return Object(F(key, val))
	}
	out := make([]Field, len(v.fields), len(v.fields)+1)
	copy(out, v.fields)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = val
			return Value{kind: KindObject, fields: out}
		}
	}
	out = append(out, F(key, val))
	return Value{kind: KindObject, fields: out}
}

// Merge shallow-merges overlay on top of v: overlay fields overwrite same-key
// fields of v at the top level only (last write wins), new fields append in
// overlay order. If either side is not an object the overlay wins outright,
// unless the overlay is the zero Value.
func (v Value) Merge(overlay Value) Value {
	if overlay.IsZero() {
		return v
	}
	if v.kind != KindObject || overlay.kind != KindObject {
		return overlay
	}
	out := v
	for _, f := range overlay.fields {
		out = out.Set(f.Key, f.Value)
	}
	return out
}
