// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Read path metrics.
	MetricStreamsOpened     = "ingest_streams_opened_total"
	MetricChunksRead        = "ingest_chunks_read_total"
	MetricBytesDecompressed = "ingest_bytes_decompressed_total"
	MetricReadErrors        = "ingest_read_errors_total"
	MetricReadSeconds       = "ingest_read_seconds"

	// Write path metrics.
	MetricBytesCompressed = "ingest_bytes_compressed_total"

	// Object cache metrics.
	MetricCacheHits      = "ingest_cache_hits_total"
	MetricCacheMisses    = "ingest_cache_misses_total"
	MetricCacheEvictions = "ingest_cache_evictions_total"
	MetricCacheSize      = "ingest_cache_size"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
