package digest

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/unkn0wn-root/hashcell/codec"
)

// ErrNilCodec is returned by Encoded.Sum64 when no codec was configured.
var ErrNilCodec = errors.New("digest: nil codec")

// Encoded digests a value by encoding it with a deterministic codec and
// hashing the resulting bytes. Works for any value the codec can represent;
// the codec MUST be deterministic (codec.CBOR, codec.Msgpack and codec.JSON
// qualify) or cached digests will not match recomputed ones.
type Encoded[V any] struct {
	// Codec produces the canonical byte form of a value. Required.
	Codec codec.Codec[V]
	// Hash maps the encoded bytes to a digest. Defaults to xxhash.Sum64.
	Hash func([]byte) uint64
}

var _ Digester[struct{}] = Encoded[struct{}]{}

func (d Encoded[V]) Sum64(v V) (uint64, error) {
	if d.Codec == nil {
		return 0, ErrNilCodec
	}
	b, err := d.Codec.Encode(v)
	if err != nil {
		return 0, fmt.Errorf("digest: encode: %w", err)
	}
	if d.Hash != nil {
		return d.Hash(b), nil
	}
	return xxhash.Sum64(b), nil
}
