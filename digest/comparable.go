package digest

import "hash/maphash"

// Comparable digests comparable values with the runtime's maphash, using a
// seed fixed at construction. Digests are stable within a process but not
// across processes; do not use it to key a shared provider. Sum64 never
// fails.
//
// Construct with NewComparable so the seed is set. The zero value hashes
// with the zero seed, which maphash rejects.
type Comparable[V comparable] struct {
	seed maphash.Seed
}

func NewComparable[V comparable]() Comparable[V] {
	return Comparable[V]{seed: maphash.MakeSeed()}
}

func (d Comparable[V]) Sum64(v V) (uint64, error) {
	return maphash.Comparable(d.seed, v), nil
}
