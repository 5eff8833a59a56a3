// Package monitoring - metrics.go provides simple counters.
//
// DESIGN: Lightweight in-memory counters for operational metrics. For
// production, export these to Prometheus or similar.
package monitoring

import (
	"strings"
	"sync/atomic"

	"github.com/sajtmaskin/prompt-gateway/internal/engine"
)

// MetricsCollector counts optimizations per outcome.
type MetricsCollector struct {
	requests    atomic.Int64
	direct      atomic.Int64
	summarized  atomic.Int64
	phased      atomic.Int64
	hardCapHits atomic.Int64
	charsIn     atomic.Int64
	charsOut    atomic.Int64
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

// RecordOptimization records one engine decision.
func (mc *MetricsCollector) RecordOptimization(meta engine.StrategyMeta) {
	mc.requests.Add(1)
	switch meta.Strategy {
	case engine.StrategyDirect:
		mc.direct.Add(1)
	case engine.StrategySummarize:
		mc.summarized.Add(1)
	case engine.StrategyPhased:
		mc.phased.Add(1)
	}
	if strings.HasSuffix(meta.Reason, engine.HardCapSuffix) {
		mc.hardCapHits.Add(1)
	}
	mc.charsIn.Add(int64(meta.OriginalLength))
	mc.charsOut.Add(int64(meta.OptimizedLength))
}

// MetricsSnapshot is the JSON shape served by the metrics endpoint.
type MetricsSnapshot struct {
	Requests    int64 `json:"requests"`
	Direct      int64 `json:"direct"`
	Summarized  int64 `json:"summarized"`
	Phased      int64 `json:"phased"`
	HardCapHits int64 `json:"hard_cap_hits"`
	CharsIn     int64 `json:"chars_in"`
	CharsOut    int64 `json:"chars_out"`
}

// Snapshot returns current counter values.
func (mc *MetricsCollector) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Requests:    mc.requests.Load(),
		Direct:      mc.direct.Load(),
		Summarized:  mc.summarized.Load(),
		Phased:      mc.phased.Load(),
		HardCapHits: mc.hardCapHits.Load(),
		CharsIn:     mc.charsIn.Load(),
		CharsOut:    mc.charsOut.Load(),
	}
}
