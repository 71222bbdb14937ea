package codec

import (
	"errors"

	"google.golang.org/protobuf/proto"
)

// ErrNilMessageCtor is returned by Protobuf.Decode when no message
// constructor was configured.
var ErrNilMessageCtor = errors.New("codec: nil protobuf message constructor")

// Protobuf is a Codec for generated proto messages. Encoding uses
// deterministic marshaling (defined ordering for map entries); note that
// protobuf's deterministic mode is only stable within a single protobuf
// library version, which is sufficient for in-process digests but not for
// digests persisted across deployments with mixed versions.
//
// The zero value is NOT ready to use. Construct with NewProtobuf.
type Protobuf[T proto.Message] struct {
	new func() T // constructor for a concrete message, e.g. func() *pb.User { return &pb.User{} }
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.MarshalOptions{Deterministic: true}.Marshal(v)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	var zero T
	if c.new == nil {
		return zero, ErrNilMessageCtor
	}
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}
