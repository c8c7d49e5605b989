// Package lru implements least-recently-used cache eviction, optionally with
// a time-to-live per entry.
package lru

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/geoharbor/ingest/internal/store/cachedstore/cachestrategy"
)

var _ cachestrategy.Strategy = (*Strategy)(nil)

// cache is the subset shared by the plain and expiring LRU caches.
type cache interface {
	Get(key string) ([]byte, bool)
	Add(key string, value []byte) bool
	Len() int
}

// Strategy implements LRU eviction.
type Strategy struct {
	cache cache
}

// New creates a new LRU strategy holding up to capacity objects.
func New(capacity int) (*Strategy, error) {
	c, err := lru.New[string, []byte](capacity)
	if err != nil {
		return nil, err
	}
	return &Strategy{cache: c}, nil
}

// NewExpiring creates an LRU strategy whose entries also expire after ttl.
// Remote objects can change; the ttl bounds how stale a cached copy gets.
func NewExpiring(capacity int, ttl time.Duration) *Strategy {
	return &Strategy{cache: expirable.NewLRU[string, []byte](capacity, nil, ttl)}
}

// Get retrieves a value by key.
func (s *Strategy) Get(key string) ([]byte, bool) {
	return s.cache.Get(key)
}

// Add adds a value to the cache and reports whether an eviction occurred.
func (s *Strategy) Add(key string, value []byte) bool {
	return s.cache.Add(key, value)
}

// Len returns the number of items in the cache.
func (s *Strategy) Len() int {
	return s.cache.Len()
}
