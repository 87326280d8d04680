package codec

import "github.com/unkn0wn-root/stylecache/token"

// Token serializes token values through their order-preserving JSON form.
// This is the only codec safe for the derivation memo: reflection-based
// codecs decode nested records into Go maps, which destroys field order and
// with it key determinism. The zero value is ready to use.
type Token struct{}

var _ Codec[token.Value] = Token{}

func (Token) Encode(v token.Value) ([]byte, error) { return v.MarshalJSON() }

func (Token) Decode(b []byte) (token.Value, error) {
	var v token.Value
	err := v.UnmarshalJSON(b)
	return v, err
}
