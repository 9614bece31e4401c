package generation

import (
	"time"

	"github.com/rcrowley/go-metrics"
)

// Metrics counts dispatched requests per outcome and times them.
type Metrics struct {
	registry metrics.Registry
	requests metrics.Counter
	success  metrics.Counter
	errors   metrics.Counter
	latency  metrics.Timer
}

// MetricsSummary is a point-in-time reading of Metrics.
type MetricsSummary struct {
	Requests    int64
	Success     int64
	Errors      int64
	MeanLatency time.Duration
	MaxLatency  time.Duration
}

// NewMetrics registers the generation metrics in r, or in a fresh registry when r is nil.
func NewMetrics(r metrics.Registry) *Metrics {
	if r == nil {
		r = metrics.NewRegistry()
	}
	return &Metrics{
		registry: r,
		requests: metrics.GetOrRegisterCounter("generation.requests", r),
		success:  metrics.GetOrRegisterCounter("generation.success", r),
		errors:   metrics.GetOrRegisterCounter("generation.errors", r),
		latency:  metrics.GetOrRegisterTimer("generation.latency", r),
	}
}

// Registry exposes the underlying registry for reporters.
func (m *Metrics) Registry() metrics.Registry {
	return m.registry
}

func (m *Metrics) observe(ok bool, elapsed time.Duration) {
	m.requests.Inc(1)
	if ok {
		m.success.Inc(1)
	} else {
		m.errors.Inc(1)
	}
	m.latency.Update(elapsed)
}

// Summary reads the current values.
func (m *Metrics) Summary() MetricsSummary {
	snap := m.latency.Snapshot()
	return MetricsSummary{
		Requests:    m.requests.Count(),
		Success:     m.success.Count(),
		Errors:      m.errors.Count(),
		MeanLatency: time.Duration(snap.Mean()),
		MaxLatency:  time.Duration(snap.Max()),
	}
}
