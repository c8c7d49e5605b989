package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/geoharbor/ingest/internal/stats"
)

func TestCollector_LogsUpdates(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := NewAtLevel(zap.New(core), zapcore.InfoLevel)

	c.IncCounter(stats.MetricChunksRead, 2)
	c.SetGauge(stats.MetricCacheSize, 9)
	c.ObserveHistogram(stats.MetricReadSeconds, 0.25)

	entries := logs.AllUntimed()
	if len(entries) != 3 {
		t.Fatalf("logged %d entries, want 3", len(entries))
	}
	want := []string{"counter", "gauge", "histogram"}
	for i, e := range entries {
		if e.Message != want[i] {
			t.Errorf("entry %d message = %q, want %q", i, e.Message, want[i])
		}
		if e.LoggerName != "stats" {
			t.Errorf("entry %d logger = %q, want %q", i, e.LoggerName, "stats")
		}
	}
	if got := entries[0].ContextMap()["metric"]; got != stats.MetricChunksRead {
		t.Errorf("metric field = %v, want %s", got, stats.MetricChunksRead)
	}
}

func TestCollector_BelowLevelIsDropped(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := New(zap.New(core))
	c.IncCounter(stats.MetricChunksRead, 1)
	if logs.Len() != 0 {
		t.Errorf("debug metrics should be filtered at info level, got %d entries", logs.Len())
	}
}

func TestNew_NilLogger(t *testing.T) {
	New(nil).IncCounter(stats.MetricChunksRead, 1)
}
