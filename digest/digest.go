// Package digest defines the hashing capability a hashcell.Cell relies on:
// the algorithm that reduces a value to the 64-bit digest stored in the
// cell's cache slot.
//
// A Digester MUST be deterministic for the lifetime of the cells using it:
// the same value must produce the same digest on every call (same algorithm,
// same seed). A digester whose output drifts between calls breaks the cell's
// core invariant that a cached digest equals a from-scratch recomputation.
package digest

// Digester computes a stable 64-bit digest of a value.
type Digester[V any] interface {
	Sum64(V) (uint64, error)
}

// Func adapts a plain function to a Digester.
type Func[V any] func(V) (uint64, error)

func (f Func[V]) Sum64(v V) (uint64, error) { return f(v) }
