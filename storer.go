package hashcell

import "sync/atomic"

// Storer is the cache slot: it holds at most one digest between
// invalidations. Implementations may rely on digests being nonzero; the cell
// remaps a computed 0 before it reaches the slot (see zeroSum).
type Storer interface {
	// Clear empties the slot.
	Clear()
	// Load returns the stored digest; ok is false when the slot is empty.
	Load() (sum uint64, ok bool)
	// LoadOrStore returns the stored digest, or runs compute and stores its
	// result. On compute error nothing is stored.
	LoadOrStore(compute func() (uint64, error)) (uint64, error)
}

// SumCell is the default slot: a single word using 0 as the empty sentinel.
// Not safe for concurrent use; pair it with the cell's single-owner
// discipline.
type SumCell struct {
	n uint64
}

var _ Storer = (*SumCell)(nil)

func (s *SumCell) Clear() { s.n = 0 }

func (s *SumCell) Load() (uint64, bool) {
	if s.n == 0 {
		return 0, false
	}
	return s.n, true
}

func (s *SumCell) LoadOrStore(compute func() (uint64, error)) (uint64, error) {
	if s.n != 0 {
		return s.n, nil
	}
	n, err := compute()
	if err != nil {
		return 0, err
	}
	s.n = n
	return n, nil
}

// AtomicSum is a slot usable by concurrent hashing readers: Sum and IsHashed
// may race freely against each other. Mutation remains single-owner; a Mut
// racing a Sum is still a caller bug. Concurrent first computations may both
// run compute, with the losers overwriting an identical digest.
type AtomicSum struct {
	n atomic.Uint64
}

var _ Storer = (*AtomicSum)(nil)

func (s *AtomicSum) Clear() { s.n.Store(0) }

func (s *AtomicSum) Load() (uint64, bool) {
	n := s.n.Load()
	if n == 0 {
		return 0, false
	}
	return n, true
}

func (s *AtomicSum) LoadOrStore(compute func() (uint64, error)) (uint64, error) {
	if n := s.n.Load(); n != 0 {
		return n, nil
	}
	n, err := compute()
	if err != nil {
		return 0, err
	}
	s.n.Store(n)
	return n, nil
}

// NoStore never retains a digest: every Sum recomputes and IsHashed is
// always false. Useful for values that are cheap to hash or mutate too often
// for caching to pay off. Digests are identical to what the caching slots
// produce.
type NoStore struct{}

var _ Storer = NoStore{}

func (NoStore) Clear() {}

func (NoStore) Load() (uint64, bool) { return 0, false }

func (NoStore) LoadOrStore(compute func() (uint64, error)) (uint64, error) {
	return compute()
}
