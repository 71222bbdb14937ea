// Package codec defines the serialization contract used by hashcell.
//
// Codecs serve two roles: producing the byte representation a digester hashes,
// and (de)serializing memoized results for byte providers. When a codec feeds
// a digester, Encode MUST be deterministic: the same logical value must encode
// to the same bytes on every call, or cached and recomputed digests diverge.
// The codecs in this package are configured for deterministic output by
// default; see the individual types for the guarantees they make.
package codec

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
