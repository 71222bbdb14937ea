// Package hashcell implements a transparent memoizing wrapper around a value
// so that its (potentially expensive) hash is computed at most once between
// mutations. A Cell owns a value plus a lazily populated digest slot; the slot
// is cleared unconditionally whenever mutable access is requested, before the
// caller can touch the value, so a stale digest can never coexist with a
// handed-out mutable view.
//
// Components:
//   - Cell[V]: the wrapper. Get (read-only, never invalidates), Mut
//     (invalidate-then-expose), Sum (read-or-populate the slot), IsHashed.
//   - digest.Digester[V]: the algorithm that reduces a value to a 64-bit
//     digest. Encoded (deterministic codec + xxhash), Comparable (runtime
//     maphash), Func (plain function).
//   - Storer: where the digest lives. SumCell (default in-struct slot),
//     AtomicSum (lock-free concurrent readers), NoStore (never caches).
//   - cellmap: hash set/map keyed by cells, reusing cached digests.
//   - memostore: digest-addressed memoization of derived results in a byte
//     Provider (BigCache, Ristretto, Redis).
//
// Equality, ordering and formatting of cells delegate to the wrapped value
// only; cache state is invisible to every value-semantic operation. The cell
// assumes single-owner, sequential access: callers must not hold a mutable
// view while hashing or comparing the same cell.
package hashcell
