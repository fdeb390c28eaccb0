// Copyright 2024 The xstats Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// promMetrics is a Metrics implementation that publishes every counter,
// timer, and histogram to a Prometheus registry, mirroring the reference
// corpus's GlobalMetricsRegistry singleton pattern but scoped to a single
// Metrics instance rather than a process-wide global.
type promMetrics struct {
	reg *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*promCounter
	timers     map[string]*promTimer
	histograms map[string]*promHistogram
}

// NewPrometheus returns a Metrics collection whose values are registered
// with reg (or a fresh registry if reg is nil) and retrievable via Gather.
func NewPrometheus(reg *prometheus.Registry) Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &promMetrics{
		reg:        reg,
		counters:   map[string]*promCounter{},
		timers:     map[string]*promTimer{},
		histograms: map[string]*promHistogram{},
	}
}

// Registry returns the underlying Prometheus registry, for wiring into an
// HTTP handler (e.g. promhttp.HandlerFor).
func (m *promMetrics) Registry() *prometheus.Registry {
	return m.reg
}

func (m *promMetrics) Counter(name string) Counter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.counters[name]; ok {
		return c
	}
	pc := prometheus.NewCounter(prometheus.CounterOpts{Name: name})
	m.reg.MustRegister(pc)
	c := &promCounter{c: pc}
	m.counters[name] = c
	return c
}

func (m *promMetrics) Timer(name string) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.timers[name]; ok {
		return t
	}
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    name,
		Buckets: prometheus.DefBuckets,
	})
	m.reg.MustRegister(h)
	t := &promTimer{h: h}
	m.timers[name] = t
	return t
}

func (m *promMetrics) Histogram(name string) Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.histograms[name]; ok {
		return h
	}
	ph := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    name,
		Buckets: prometheus.DefBuckets,
	})
	m.reg.MustRegister(ph)
	h := &promHistogram{h: ph}
	m.histograms[name] = h
	return h
}

func (m *promMetrics) All() map[string]any {
	families, err := m.reg.Gather()
	if err != nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

type promCounter struct {
	c prometheus.Counter
	v atomic.Uint64
}

func (c *promCounter) Incr() {
	c.c.Inc()
	c.v.Add(1)
}

func (c *promCounter) Add(n uint64) {
	c.c.Add(float64(n))
	c.v.Add(n)
}

func (c *promCounter) Value() uint64 { return c.v.Load() }

type promTimer struct {
	h       prometheus.Histogram
	mu      sync.Mutex
	started time.Time
	total   int64
}

func (t *promTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.started = time.Now()
}

func (t *promTimer) Stop() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started.IsZero() {
		return 0
	}
	d := timeSince(t.started)
	t.h.Observe(d.Seconds())
	t.total += d.Nanoseconds()
	t.started = time.Time{}
	return d.Nanoseconds()
}

func (t *promTimer) Value() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

type promHistogram struct {
	h prometheus.Histogram
}

func (h *promHistogram) Observe(v float64) { h.h.Observe(v) }
func (h *promHistogram) Value() any        { return nil } // observations are exported via the registry, not read back
