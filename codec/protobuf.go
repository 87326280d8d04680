package codec

import "google.golang.org/protobuf/proto"

// Protobuf adapts a generated proto message type as a Codec. Embedders that
// already model style manifests as proto messages plug them in with a
// constructor for the concrete type.
type Protobuf[T proto.Message] struct {
	new func() T // e.g. func() *stylepb.Manifest { return &stylepb.Manifest{} }
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.Marshal(v)
}
func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}
