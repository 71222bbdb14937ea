// Package memostore memoizes derived results in a byte provider, addressed
// by the digest of the input they were derived from. Inputs are anything
// implementing hashcell.Summer, which every Cell does: mutating a cell
// changes its digest, so memo entries for the old value simply become
// unreachable. No explicit invalidation is needed on mutation.
//
// Every stored entry embeds its own digest (see internal/wire); reads that
// fail framing, digest or codec validation delete the entry and report a
// miss, so a corrupted provider self-heals.
package memostore

import (
	"context"
	"fmt"
	"time"

	"github.com/unkn0wn-root/hashcell"
	"github.com/unkn0wn-root/hashcell/codec"
	"github.com/unkn0wn-root/hashcell/internal/util"
	"github.com/unkn0wn-root/hashcell/internal/wire"
	"github.com/unkn0wn-root/hashcell/provider"
)

// Options tune a Store. Namespace, Provider and Codec are required; the rest
// have defaults.
type Options[R any] struct {
	// Namespace isolates this store's keys, e.g. "render", "parse".
	Namespace string
	Provider  provider.Provider
	Codec     codec.Codec[R]

	Logger     hashcell.Logger // nil => no logging
	DefaultTTL time.Duration   // 0 => 10m
	Disabled   bool            // pass-through mode: every Get misses
}

// Store memoizes results of type R keyed by input digest.
type Store[R any] struct {
	ns      string
	p       provider.Provider
	codec   codec.Codec[R]
	log     hashcell.Logger
	ttl     time.Duration
	enabled bool
}

func New[R any](opts Options[R]) (*Store[R], error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("memostore: provider is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("memostore: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("memostore: namespace is required")
	}

	s := &Store[R]{
		ns:      opts.Namespace,
		p:       opts.Provider,
		codec:   opts.Codec,
		enabled: !opts.Disabled,
	}
	s.log = coalesce[hashcell.Logger](opts.Logger, hashcell.NopLogger{})
	s.ttl = coalesce[time.Duration](opts.DefaultTTL, 10*time.Minute)
	return s, nil
}

func (s *Store[R]) Enabled() bool { return s.enabled }

func (s *Store[R]) Close(ctx context.Context) error {
	return s.p.Close(ctx)
}

// Get returns the memoized result for key's current digest. Computing the
// digest populates key's cache slot as a side effect, exactly as any other
// hashing consumer would.
func (s *Store[R]) Get(ctx context.Context, key hashcell.Summer) (R, bool, error) {
	var zero R
	if !s.enabled {
		return zero, false, nil
	}
	sum, err := key.Sum()
	if err != nil {
		return zero, false, err
	}
	k := s.memoKey(sum)
	raw, ok, err := s.p.Get(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}
	gotSum, payload, err := wire.Decode(raw)
	if err != nil {
		s.selfHeal(ctx, k, "corrupt")
		return zero, false, nil
	}
	if gotSum != sum {
		// foreign write under our key
		s.selfHeal(ctx, k, "sum_mismatch")
		return zero, false, nil
	}
	r, err := s.codec.Decode(payload)
	if err != nil {
		s.selfHeal(ctx, k, "result_decode")
		return zero, false, nil
	}
	return r, true, nil
}

// Set stores result under key's current digest. A ttl of 0 uses the store
// default.
func (s *Store[R]) Set(ctx context.Context, key hashcell.Summer, result R, ttl time.Duration) error {
	if !s.enabled {
		return nil
	}
	if ttl == 0 {
		ttl = s.ttl
	}
	sum, err := key.Sum()
	if err != nil {
		return err
	}
	payload, err := s.codec.Encode(result)
	if err != nil {
		return err
	}
	return s.p.Set(ctx, s.memoKey(sum), wire.Encode(sum, payload), ttl)
}

// Do returns the memoized result for key, or runs compute and stores its
// result. Store failures after a successful compute are logged, not
// returned: the computed result is still handed back.
func (s *Store[R]) Do(ctx context.Context, key hashcell.Summer, compute func(context.Context) (R, error)) (R, error) {
	if r, ok, err := s.Get(ctx, key); err != nil {
		var zero R
		return zero, err
	} else if ok {
		return r, nil
	}
	r, err := compute(ctx)
	if err != nil {
		var zero R
		return zero, err
	}
	if err := s.Set(ctx, key, r, 0); err != nil {
		s.log.Warn("memo store failed; returning computed result", hashcell.Fields{"ns": s.ns, "err": err})
	}
	return r, nil
}

// Invalidate drops the memo entry for key's current digest. Only needed when
// a result became wrong for an unchanged input (e.g. the compute function
// itself changed); value mutations need nothing.
func (s *Store[R]) Invalidate(ctx context.Context, key hashcell.Summer) error {
	if !s.enabled {
		return nil
	}
	sum, err := key.Sum()
	if err != nil {
		return err
	}
	return s.p.Del(ctx, s.memoKey(sum))
}

func (s *Store[R]) selfHeal(ctx context.Context, storageKey, reason string) {
	_ = s.p.Del(ctx, storageKey)
	s.log.Debug("dropped invalid memo entry", hashcell.Fields{"key": storageKey, "reason": reason})
}

func (s *Store[R]) memoKey(sum uint64) string {
	return util.MemoKey("memo:"+s.ns, sum)
}

// coalesce returns def when v is the zero value of T, otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
