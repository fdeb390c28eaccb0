// Copyright 2024 The xstats Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package metrics contains helpers for instrumenting the sampler runtime.
package metrics

import "time"

// Counter is a monotonically increasing value.
type Counter interface {
	Incr()
	Add(n uint64)
	Value() uint64
}

// Timer accumulates elapsed time across possibly-multiple start/stop cycles.
type Timer interface {
	Start()
	Stop() int64 // returns elapsed nanoseconds for this start/stop cycle
	Value() int64
}

// Histogram records a distribution of observed values.
type Histogram interface {
	Observe(v float64)
	Value() any
}

// Metrics is a named collection of counters, timers, and histograms.
type Metrics interface {
	Counter(name string) Counter
	Timer(name string) Timer
	Histogram(name string) Histogram
	All() map[string]any
}

// New returns a new in-process Metrics collection that is not exported to
// Prometheus. Use NewPrometheus for a collection registered with a
// Prometheus registry.
func New() Metrics {
	return newLocal()
}

// Well-known metric names. The sampler package records SamplePasses,
// SampleDuration, SourceFailures and SinkFailures; PolledSessions is not
// recorded by it.
const (
	SamplePasses   = "sampler_sample_passes"
	SampleDuration = "sampler_sample_duration_seconds"
	PolledSessions = "sampler_polled_sessions"

	// SourceFailures counts name-cache and values-fetch failures absorbed
	// from source adapters.
	SourceFailures = "sampler_source_adapter_failures"
	// SinkFailures counts Output failures absorbed from sink adapters.
	SinkFailures = "sampler_sink_adapter_failures"
)

// timeSince is overridable in tests; production code always uses time.Since.
var timeSince = time.Since
