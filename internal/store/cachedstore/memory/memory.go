// Package memory implements an in-memory cache backend.
package memory

import (
	"sync/atomic"

	"github.com/geoharbor/ingest/internal/stats"
	"github.com/geoharbor/ingest/internal/store/cachedstore"
	"github.com/geoharbor/ingest/internal/store/cachedstore/cachestrategy"
)

var _ cachedstore.Backend = (*Backend)(nil)

// Backend is a thread-safe in-memory cache backend. It reports hits, misses
// and size to a stats collector.
type Backend struct {
	strategy  cachestrategy.Strategy
	collector stats.Collector

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// New creates a new memory backend with the given eviction strategy.
// The collector is optional; if nil, a no-op collector is used.
func New(strategy cachestrategy.Strategy, collector stats.Collector) *Backend {
	if collector == nil {
		collector = stats.NewNoop()
	}
	return &Backend{
		strategy:  strategy,
		collector: collector,
	}
}

// Get returns the cached object for key and records a hit or a miss.
func (b *Backend) Get(key string) ([]byte, bool) {
	data, ok := b.strategy.Get(key)
	if !ok {
		b.misses.Add(1)
		b.collector.IncCounter(stats.MetricCacheMisses, 1)
		return nil, false
	}
	b.hits.Add(1)
	b.collector.IncCounter(stats.MetricCacheHits, 1)
	return data, true
}

// Set caches data under key. Objects pushed out by the strategy are
// counted as evictions.
func (b *Backend) Set(key string, data []byte) {
	if b.strategy.Add(key, data) {
		b.evictions.Add(1)
		b.collector.IncCounter(stats.MetricCacheEvictions, 1)
	}
	b.collector.SetGauge(stats.MetricCacheSize, int64(b.strategy.Len()))
}

// Stats returns a snapshot of the counters.
func (b *Backend) Stats() cachedstore.Stats {
	return cachedstore.Stats{
		Hits:      b.hits.Load(),
		Misses:    b.misses.Load(),
		Evictions: b.evictions.Load(),
		Size:      b.strategy.Len(),
	}
}
