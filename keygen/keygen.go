// Package keygen derives short deterministic cache keys from token values.
//
// A key is a fast non-cryptographic digest of the value's canonical textual
// form, rendered as exactly KeyLen lowercase base-36 characters so it is safe
// to splice into CSS class names and cache paths. The contract is
// deterministic, salt-sensitive and practically collision-resistant, NOT
// injective. With a 6-character base-36 alphabet the space is 36^6 (~2.2e9)
// keys; the chance of any collision among N live keys is roughly
// N^2/(2*36^6), i.e. ~0.002% for a thousand keys. A collision makes two
// registrations share a style node.
package keygen

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/unkn0wn-root/stylecache/token"
)

// KeyLen is the fixed length of generated keys.
const KeyLen = 6

const keyAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// saltSep separates the canonical form from the salt inside the digest
// input. It cannot appear unescaped in canonical output.
const saltSep = '\x1f'

// Serialize returns the key for a value under an optional salt.
// Equal (content, salt) pairs always map to the same key regardless of how
// the value was built; a different salt yields a different key for the same
// content (test/tenant isolation).
func Serialize(v token.Value, salt string) string {
	d := xxhash.New()
	_, _ = d.WriteString(Canonical(v))
	if salt != "" {
		_, _ = d.Write([]byte{saltSep})
		_, _ = d.WriteString(salt)
	}
	return encode(d.Sum64())
}

// HashStrings returns the key for an ordered string sequence. Positions are
// significant: {"a","bc"} and {"ab","c"} never canonicalize alike.
func HashStrings(parts []string, salt string) string {
	items := make([]token.Value, len(parts))
	for i, p := range parts {
		items[i] = token.String(p)
	}
	return Serialize(token.List(items...), salt)
}

// Canonical renders the value's canonical textual form. Structural
// delimiters occurring inside string content are escaped, so no value can
// forge the shape of another.
func Canonical(v token.Value) string {
	var b strings.Builder
	appendCanonical(&b, v)
	return b.String()
}

func appendCanonical(b *strings.Builder, v token.Value) {
	switch v.Kind() {
	case token.KindString:
		b.WriteByte('s')
		escapeInto(b, v.Text())
	case token.KindNumber:
		b.WriteByte('n')
		b.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, 64))
	case token.KindList:
		b.WriteByte('[')
		for i, it := range v.Items() {
			if i > 0 {
				b.WriteByte('|')
			}
			appendCanonical(b, it)
		}
		b.WriteByte(']')
	case token.KindObject:
		b.WriteByte('{')
		for i, f := range v.Fields() {
			if i > 0 {
				b.WriteByte('|')
			}
			escapeInto(b, f.Key)
			b.WriteByte(':')
			appendCanonical(b, f.Value)
		}
		b.WriteByte('}')
	default:
		b.WriteByte('_')
	}
}

// escapeInto writes s with structural characters prefixed by '~'.
func escapeInto(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '{', '}', '[', ']', '|', ':', '~', saltSep:
			b.WriteByte('~')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
}

// encode folds the 64-bit digest and renders it as KeyLen base-36 chars,
// zero-padded on the left.
func encode(sum uint64) string {
	// fold the high half in so the base-36 truncation keeps entropy
	// from all 64 bits
	mixed := sum ^ (sum >> 32)

	var out [KeyLen]byte
	for i := KeyLen - 1; i >= 0; i-- {
		out[i] = keyAlphabet[mixed%36]
		mixed /= 36
	}
	return string(out[:])
}
