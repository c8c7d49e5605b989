package cachedstore

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/geoharbor/ingest/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store wraps another Store with caching. Concurrent misses for the same
// key share a single read from the underlying store.
type Store struct {
	underlying store.Store
	backend    Backend
	group      singleflight.Group
}

// New creates a new cached store wrapping the given store.
func New(underlying store.Store, backend Backend) *Store {
	return &Store{
		underlying: underlying,
		backend:    backend,
	}
}

// ReadObject reads an object, checking the cache first.
func (s *Store) ReadObject(ctx context.Context, key string) ([]byte, error) {
	if data, ok := s.backend.Get(key); ok {
		return data, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		data, err := s.underlying.ReadObject(ctx, key)
		if err != nil {
			return nil, err
		}
		s.backend.Set(key, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// List delegates to the underlying store when it supports listing.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	l, ok := s.underlying.(store.Lister)
	if !ok {
		return nil, nil
	}
	return l.List(ctx, prefix)
}

// Close closes the underlying store.
func (s *Store) Close() error {
	return s.underlying.Close()
}

// Stats returns cache statistics.
func (s *Store) Stats() Stats {
	return s.backend.Stats()
}
