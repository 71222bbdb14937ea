// Package provider defines the byte-store abstraction memostore persists
// into.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the []byte previously passed to Set for the same key, with no added
// metadata, transcoding or mutation. Internal transforms (compression etc.)
// must be fully reversed before bytes are returned.
//
// The "memo:<ns>:" keyspace is owned by memostore. Foreign writes under it
// fail wire validation and are deleted on read.
package provider

import (
	"context"
	"time"
)

// Provider is a minimal byte store with TTLs. Must be safe for concurrent
// use.
type Provider interface {
	// Get returns (value, true, nil) on hit and (nil, false, nil) on miss.
	// IO or remote errors are returned as (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key with the given TTL. A non-positive TTL
	// means no expiry. Stores that cannot honor per-entry TTLs may apply a
	// global policy instead.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
