package stats

import "testing"

func TestNoop(t *testing.T) {
	var c Collector = NewNoop()
	c.IncCounter(MetricChunksRead, 1)
	c.SetGauge(MetricCacheSize, 1)
	c.ObserveHistogram(MetricReadSeconds, 1)
}
