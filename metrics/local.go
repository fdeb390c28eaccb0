// Copyright 2024 The xstats Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// localMetrics is a bare in-process Metrics implementation with no external
// export path. It is the default returned by New().
type localMetrics struct {
	mu         sync.Mutex
	counters   map[string]*localCounter
	timers     map[string]*localTimer
	histograms map[string]*localHistogram
}

func newLocal() *localMetrics {
	return &localMetrics{
		counters:   map[string]*localCounter{},
		timers:     map[string]*localTimer{},
		histograms: map[string]*localHistogram{},
	}
}

func (m *localMetrics) Counter(name string) Counter {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.counters[name]
	if !ok {
		c = &localCounter{}
		m.counters[name] = c
	}
	return c
}

func (m *localMetrics) Timer(name string) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.timers[name]
	if !ok {
		t = &localTimer{}
		m.timers[name] = t
	}
	return t
}

func (m *localMetrics) Histogram(name string) Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.histograms[name]
	if !ok {
		h = &localHistogram{}
		m.histograms[name] = h
	}
	return h
}

func (m *localMetrics) All() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]any, len(m.counters)+len(m.timers)+len(m.histograms))
	for k, v := range m.counters {
		out[k] = v.Value()
	}
	for k, v := range m.timers {
		out[k] = v.Value()
	}
	for k, v := range m.histograms {
		out[k] = v.Value()
	}
	return out
}

type localCounter struct {
	v atomic.Uint64
}

func (c *localCounter) Incr()         { c.v.Add(1) }
func (c *localCounter) Add(n uint64)  { c.v.Add(n) }
func (c *localCounter) Value() uint64 { return c.v.Load() }

type localTimer struct {
	mu      sync.Mutex
	started time.Time
	total   int64
}

func (t *localTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.started = time.Now()
}

func (t *localTimer) Stop() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started.IsZero() {
		return 0
	}
	d := timeSince(t.started).Nanoseconds()
	t.total += d
	t.started = time.Time{}
	return d
}

func (t *localTimer) Value() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

type localHistogram struct {
	mu     sync.Mutex
	values []float64
}

func (h *localHistogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.values = append(h.values, v)
}

func (h *localHistogram) Value() any {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]float64, len(h.values))
	copy(out, h.values)
	return out
}
