package codec

// Bytes is an identity codec for []byte values. Useful when the payload is
// already serialized elsewhere and only the byte-store plumbing is needed.
type Bytes struct{}

func (Bytes) Encode(b []byte) ([]byte, error) { return b, nil }
func (Bytes) Decode(b []byte) ([]byte, error) { return b, nil }

// String is a trivial codec for Go string values (compiled CSS text is one).
// Assumes UTF-8 by convention and performs no validation.
type String struct{}

func (String) Encode(s string) ([]byte, error) { return []byte(s), nil }
func (String) Decode(b []byte) (string, error) { return string(b), nil }
