// Package prometheus provides a Prometheus-based stats collector.
package prometheus

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/geoharbor/ingest/internal/stats"
)

// help documents the metrics the library emits. Unknown names use the name
// itself as help text.
var help = map[string]string{
	stats.MetricStreamsOpened:     "Compressed streams opened by decompressors.",
	stats.MetricChunksRead:        "Decompressed chunks delivered to readers.",
	stats.MetricBytesDecompressed: "Decompressed bytes delivered to readers.",
	stats.MetricReadErrors:        "Read loops that ended with an error.",
	stats.MetricReadSeconds:       "Duration of complete read loops.",
	stats.MetricBytesCompressed:   "Compressed bytes written by compressors.",
	stats.MetricCacheHits:         "Object cache hits.",
	stats.MetricCacheMisses:       "Object cache misses.",
	stats.MetricCacheEvictions:    "Objects evicted from the object cache.",
	stats.MetricCacheSize:         "Objects held in the object cache.",
}

// readBuckets spans a millisecond to about a minute.
var readBuckets = prometheus.ExponentialBuckets(0.001, 4, 9)

// Collector implements stats.Collector using Prometheus metrics.
// Metrics are registered lazily on first use.
type Collector struct {
	registry prometheus.Registerer

	mu      sync.Mutex
	metrics map[string]prometheus.Collector
}

var _ stats.Collector = (*Collector)(nil)

// New creates a new Prometheus collector.
// If registry is nil, prometheus.DefaultRegisterer is used.
func New(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	return &Collector{
		registry: registry,
		metrics:  make(map[string]prometheus.Collector),
	}
}

// IncCounter increments a counter metric.
func (c *Collector) IncCounter(name string, delta int64) {
	lookup(c, name, func(opts prometheus.Opts) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts(opts))
	}).Add(float64(delta))
}

// SetGauge sets a gauge metric.
func (c *Collector) SetGauge(name string, value int64) {
	lookup(c, name, func(opts prometheus.Opts) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts(opts))
	}).Set(float64(value))
}

// ObserveHistogram records a value in a histogram.
func (c *Collector) ObserveHistogram(name string, value float64) {
	lookup(c, name, func(opts prometheus.Opts) prometheus.Histogram {
		return prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    opts.Name,
			Help:    opts.Help,
			Buckets: readBuckets,
		})
	}).Observe(value)
}

// lookup returns the metric registered under name, creating and registering
// it on first use. A metric registered elsewhere under the same name is
// adopted.
func lookup[M prometheus.Collector](c *Collector, name string, create func(prometheus.Opts) M) M {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.metrics[name].(M); ok {
		return existing
	}

	text, ok := help[name]
	if !ok {
		text = name
	}
	m := create(prometheus.Opts{Name: name, Help: text})

	if err := c.registry.Register(m); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(M); ok {
				m = existing
			}
		}
		// Otherwise the unregistered metric still counts locally.
	}
	c.metrics[name] = m
	return m
}
