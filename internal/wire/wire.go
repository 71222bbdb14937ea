// Package wire frames memo entries for byte providers. Every entry carries
// the digest it was stored under so reads can reject foreign or torn writes
// even when a provider key was reused.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const version byte = 1

// header: magic(4) | ver(1) | sum(u64 be) | vlen(u32 be)
const headerLen = 4 + 1 + 8 + 4

var (
	ErrCorrupt = errors.New("hashcell: corrupt memo entry")
	magic4     = [...]byte{'H', 'C', 'E', 'L'}
)

// Encode frames payload under the given digest.
func Encode(sum uint64, payload []byte) []byte {
	b := make([]byte, 0, headerLen+len(payload))
	b = append(b, magic4[:]...)
	b = append(b, version)
	b = binary.BigEndian.AppendUint64(b, sum)
	b = binary.BigEndian.AppendUint32(b, uint32(len(payload)))
	return append(b, payload...)
}

// Decode validates framing and returns the embedded digest and payload.
// Trailing bytes beyond the declared payload length are rejected.
func Decode(b []byte) (sum uint64, payload []byte, err error) {
	if len(b) < headerLen || !bytes.Equal(b[:4], magic4[:]) || b[4] != version {
		return 0, nil, ErrCorrupt
	}
	sum = binary.BigEndian.Uint64(b[5:13])
	vlen := int(binary.BigEndian.Uint32(b[13:headerLen]))
	if vlen != len(b)-headerLen {
		return 0, nil, ErrCorrupt
	}
	return sum, b[headerLen:], nil
}
