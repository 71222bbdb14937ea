package hashcell

import (
	"cmp"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/unkn0wn-root/hashcell/digest"
)

// ErrNilDigester is returned by Sum when the cell has no digester configured.
var ErrNilDigester = errors.New("hashcell: nil digester")

// zeroSum replaces a computed digest of 0 so that storers can use 0 as the
// "slot empty" sentinel. Applied uniformly (Sum, SumOf, NewWithSum) so every
// path reports the same digest for a given value.
const zeroSum = math.MaxUint64 >> 2

// Summer is the hashing capability a cell exposes to consumers: anything
// that can produce a cached-or-computed 64-bit digest of itself.
type Summer interface {
	Sum() (uint64, error)
}

// Cell wraps a value together with a lazily populated digest slot. The slot
// is purely an optimization: equality, ordering and formatting see only the
// value, and a cached digest always equals what a from-scratch hash of the
// current value would produce.
//
// A cell is single-owner: any number of readers may call Get/Sum/IsHashed,
// but Mut requires exclusive access (see AtomicSum for the one relaxation).
type Cell[V any] struct {
	d     digest.Digester[V]
	slot  Storer
	value V
}

var _ Summer = (*Cell[int])(nil)

// Option configures a cell at construction.
type Option func(*settings)

type settings struct {
	slot Storer
}

// WithStorer selects where the cell keeps its digest. Default is an
// in-struct SumCell.
func WithStorer(s Storer) Option {
	return func(o *settings) { o.slot = s }
}

// New wraps value with an empty digest slot.
func New[V any](value V, d digest.Digester[V], opts ...Option) *Cell[V] {
	var o settings
	for _, opt := range opts {
		opt(&o)
	}
	if o.slot == nil {
		o.slot = &SumCell{}
	}
	return &Cell[V]{d: d, slot: o.slot, value: value}
}

// NewWithSum wraps value with the slot pre-populated by a caller-supplied
// digest. The cell trusts sum without verification: the caller is obliged to
// supply exactly what d.Sum64(value) would produce, otherwise every
// consistency guarantee of the cell is void. A sum of 0 is stored in its
// remapped form, matching what Sum would have computed.
func NewWithSum[V any](value V, d digest.Digester[V], sum uint64, opts ...Option) *Cell[V] {
	c := New(value, d, opts...)
	if sum == 0 {
		sum = zeroSum
	}
	c.slot.LoadOrStore(func() (uint64, error) { return sum, nil })
	return c
}

// Get returns the wrapped value for reading. Never touches the digest slot.
// The result must be treated as read-only; all mutation goes through Mut.
func (c *Cell[V]) Get() V {
	return c.value
}

// Mut clears the digest slot, then returns a mutable view of the value.
// Invalidation is unconditional: it happens whether or not the caller goes on
// to change anything, because the cell cannot observe what a handed-out
// pointer is used for. The slot is cleared before the pointer escapes.
func (c *Cell[V]) Mut() *V {
	c.slot.Clear()
	return &c.value
}

// Set replaces the wrapped value wholesale, invalidating the slot first.
func (c *Cell[V]) Set(v V) {
	c.slot.Clear()
	c.value = v
}

// Sum returns the value's digest, computing and caching it on the first call
// after construction or invalidation. On a hit the value is not touched.
// After a successful call IsHashed reports true. Fails only if the digester
// fails; the slot stays empty in that case.
func (c *Cell[V]) Sum() (uint64, error) {
	return c.slot.LoadOrStore(c.compute)
}

func (c *Cell[V]) compute() (uint64, error) {
	if c.d == nil {
		return 0, ErrNilDigester
	}
	n, err := c.d.Sum64(c.value)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		n = zeroSum
	}
	return n, nil
}

// WriteSum feeds the cached-or-computed digest into a caller-supplied
// accumulator as 8 big-endian bytes. Any hash.Hash, maphash.Hash or plain
// buffer works as the destination. Populates the slot on a miss, exactly
// like Sum.
func (c *Cell[V]) WriteSum(w io.Writer) error {
	s, err := c.Sum()
	if err != nil {
		return err
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], s)
	_, err = w.Write(b[:])
	return err
}

// IsHashed reports whether the slot currently holds a digest. Pure query.
func (c *Cell[V]) IsHashed() bool {
	_, ok := c.slot.Load()
	return ok
}

// Cached returns the stored digest without computing anything; ok is false
// when the slot is empty.
func (c *Cell[V]) Cached() (uint64, bool) {
	return c.slot.Load()
}

// Into unwraps the cell, returning the value.
func (c *Cell[V]) Into() V {
	return c.value
}

// String formats the wrapped value only. Cache state is invisible here, as
// it is to every value-semantic operation.
func (c *Cell[V]) String() string {
	return fmt.Sprint(c.value)
}

// Equal reports value equality between two cells, blind to cache state.
// When both slots happen to be populated and the digests differ, the values
// are known unequal without being compared; this shortcut requires both
// cells to share one digester, which containers in this module guarantee.
func Equal[V comparable](a, b *Cell[V]) bool {
	if sa, aok := a.Cached(); aok {
		if sb, bok := b.Cached(); bok && sa != sb {
			return false
		}
	}
	return a.value == b.value
}

// Compare orders two cells by value only.
func Compare[V cmp.Ordered](a, b *Cell[V]) int {
	return cmp.Compare(a.value, b.value)
}

// SumOf digests a bare value the way a cell wrapping it would, including the
// zero-digest remap. Lets containers look values up without allocating a
// cell.
func SumOf[V any](d digest.Digester[V], v V) (uint64, error) {
	if d == nil {
		return 0, ErrNilDigester
	}
	n, err := d.Sum64(v)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		n = zeroSum
	}
	return n, nil
}
