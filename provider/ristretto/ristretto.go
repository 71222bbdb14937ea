// Package ristretto adapts dgraph-io/ristretto to the provider interface.
// Entry cost is the payload length in bytes; admission is probabilistic, so
// a Set may be silently dropped under pressure and surface later as a miss.
package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/hashcell/provider"
)

type Store struct {
	c *rc.Cache
}

var _ provider.Provider = (*Store)(nil)

type Config struct {
	// NumCounters is the number of admission counters (~10x expected keys).
	NumCounters int64
	// MaxCost caps total payload bytes held.
	MaxCost int64
	// BufferItems sizes the Get buffer; 64 is the recommended default.
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// unexpected entry shape; drop it
		s.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	cost := int64(len(value))
	if ttl > 0 {
		s.c.SetWithTTL(key, value, cost, ttl)
	} else {
		s.c.Set(key, value, cost)
	}
	return nil
}

func (s *Store) Del(_ context.Context, key string) error {
	s.c.Del(key)
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.c.Close()
	return nil
}
