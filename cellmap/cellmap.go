// Package cellmap provides hash containers keyed by hashcell cells. Lookups
// and inserts go through Cell.Sum, so a key's digest is computed once and
// reused for every later operation on the same (unmutated) cell.
//
// All cells in one container must have been built with the container's
// digester. Keys must not be mutated (via Mut or Set) while they are inside
// a container; a mutated key's digest no longer matches its bucket.
package cellmap

import (
	"github.com/unkn0wn-root/hashcell"
	"github.com/unkn0wn-root/hashcell/digest"
)

type entry[K comparable, E any] struct {
	cell *hashcell.Cell[K]
	val  E
}

// Map is a hash map whose keys are cells. Buckets are keyed by digest;
// value equality disambiguates digest collisions.
type Map[K comparable, E any] struct {
	d       digest.Digester[K]
	buckets map[uint64][]entry[K, E]
	length  int
}

// NewMap builds an empty map keyed through d. The same d must be used for
// every cell stored or looked up.
func NewMap[K comparable, E any](d digest.Digester[K]) *Map[K, E] {
	return &Map[K, E]{
		d:       d,
		buckets: make(map[uint64][]entry[K, E]),
	}
}

// Len returns the number of stored entries.
func (m *Map[K, E]) Len() int { return m.length }

// Put stores val under key, populating key's digest slot on the way in.
// Returns the previous value when the key was already present.
func (m *Map[K, E]) Put(key *hashcell.Cell[K], val E) (prev E, replaced bool, err error) {
	var zero E
	sum, err := key.Sum()
	if err != nil {
		return zero, false, err
	}
	bucket := m.buckets[sum]
	for i, e := range bucket {
		if e.cell.Get() == key.Get() {
			prev = e.val
			bucket[i] = entry[K, E]{cell: key, val: val}
			return prev, true, nil
		}
	}
	m.buckets[sum] = append(bucket, entry[K, E]{cell: key, val: val})
	m.length++
	return zero, false, nil
}

// Get returns the value stored under key.
func (m *Map[K, E]) Get(key *hashcell.Cell[K]) (E, bool, error) {
	var zero E
	sum, err := key.Sum()
	if err != nil {
		return zero, false, err
	}
	return m.lookup(sum, key.Get())
}

// GetValue looks a bare value up without allocating a cell: the value is
// digested with the map's own digester.
func (m *Map[K, E]) GetValue(key K) (E, bool, error) {
	var zero E
	sum, err := hashcell.SumOf(m.d, key)
	if err != nil {
		return zero, false, err
	}
	return m.lookup(sum, key)
}

func (m *Map[K, E]) lookup(sum uint64, key K) (E, bool, error) {
	var zero E
	for _, e := range m.buckets[sum] {
		if e.cell.Get() == key {
			return e.val, true, nil
		}
	}
	return zero, false, nil
}

// Delete removes the entry stored under key, reporting whether one existed.
func (m *Map[K, E]) Delete(key *hashcell.Cell[K]) (bool, error) {
	sum, err := key.Sum()
	if err != nil {
		return false, err
	}
	bucket := m.buckets[sum]
	for i, e := range bucket {
		if e.cell.Get() == key.Get() {
			bucket[i] = bucket[len(bucket)-1]
			bucket = bucket[:len(bucket)-1]
			if len(bucket) == 0 {
				delete(m.buckets, sum)
			} else {
				m.buckets[sum] = bucket
			}
			m.length--
			return true, nil
		}
	}
	return false, nil
}

// Range calls fn for every entry until fn returns false. Iteration order is
// unspecified. Keys must not be mutated from inside fn.
func (m *Map[K, E]) Range(fn func(key *hashcell.Cell[K], val E) bool) {
	for _, bucket := range m.buckets {
		for _, e := range bucket {
			if !fn(e.cell, e.val) {
				return
			}
		}
	}
}

// Set is a hash set of cells, built on Map.
type Set[V comparable] struct {
	m *Map[V, struct{}]
}

// NewSet builds an empty set keyed through d.
func NewSet[V comparable](d digest.Digester[V]) *Set[V] {
	return &Set[V]{m: NewMap[V, struct{}](d)}
}

// Len returns the number of members.
func (s *Set[V]) Len() int { return s.m.Len() }

// Add inserts c, populating its digest slot. Reports whether c's value was
// already a member.
func (s *Set[V]) Add(c *hashcell.Cell[V]) (existed bool, err error) {
	_, existed, err = s.m.Put(c, struct{}{})
	return existed, err
}

// Contains reports membership of c's value.
func (s *Set[V]) Contains(c *hashcell.Cell[V]) (bool, error) {
	_, ok, err := s.m.Get(c)
	return ok, err
}

// ContainsValue reports membership of a bare value, digested with the set's
// digester.
func (s *Set[V]) ContainsValue(v V) (bool, error) {
	_, ok, err := s.m.GetValue(v)
	return ok, err
}

// Remove deletes c's value from the set, reporting whether it was a member.
func (s *Set[V]) Remove(c *hashcell.Cell[V]) (bool, error) {
	return s.m.Delete(c)
}
