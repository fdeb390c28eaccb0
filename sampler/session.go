// Copyright 2024 The xstats Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package sampler

import (
	"github.com/google/uuid"

	"github.com/xstats-io/sampler/logging"
	"github.com/xstats-io/sampler/metrics"
)

// SessionConfig configures a new Session. A nil SessionConfig yields
// {IntervalMS: 0, DurationMS: 0, Name: <auto-generated>}, i.e. a manual,
// infinite-lifetime session.
type SessionConfig struct {
	Name       string
	IntervalMS uint64 // 0 => manual, only sampled via explicit Sample calls
	DurationMS uint64 // 0 => infinite lifetime once started
}

// Session binds a set of sources to a set of sinks under a shared timing
// policy.
type Session struct {
	Name       Name
	IntervalMS uint64
	DurationMS uint64

	startTime      int64
	lastSampleTime int64
	active         bool
	valid          bool

	sources []*Source
	sinks   []*Sink

	registry *Registry
	clock    Clock
	logger   logging.Logger
	metrics  metrics.Metrics
}

// Option configures optional Session collaborators at creation time.
type Option func(*Session)

// WithRegistry places the new session in r instead of the package-level
// default registry.
func WithRegistry(r *Registry) Option {
	return func(s *Session) { s.registry = r }
}

// WithClock overrides the session's monotonic-cycle clock. Defaults to
// NewRealClock().
func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithLogger overrides the session's logger. Defaults to a no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithMetrics attaches a metrics.Metrics collection to the session. Absent
// this option, the session records no metrics.
func WithMetrics(m metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// NewSession creates a new, inactive session and places it in the process
// registry (or the registry supplied via WithRegistry). conf may be nil.
func NewSession(conf *SessionConfig, opts ...Option) *Session {
	if conf == nil {
		conf = &SessionConfig{}
	}

	name := conf.Name
	if name == "" {
		name = "session-" + uuid.NewString()[:8]
	}

	s := &Session{
		Name:       Name(name),
		IntervalMS: conf.IntervalMS,
		DurationMS: conf.DurationMS,
		valid:      true,
		logger:     logging.NewNoOpLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.clock == nil {
		s.clock = NewRealClock()
	}
	if s.registry == nil {
		s.registry = DefaultRegistry()
	}

	s.registry.add(s)
	return s
}

// Start activates the session, resetting its clock. Repeatable: a second
// Start call resets start_time and last_sample_time again.
func (s *Session) Start() {
	now := s.clock.NowCycles()
	s.startTime = now
	s.lastSampleTime = now
	s.active = true
}

// Stop deactivates the session. Idempotent.
func (s *Session) Stop() {
	s.active = false
}

// IsActive reports whether the session is active, self-expiring it first if
// DurationMS has elapsed since Start.
func (s *Session) IsActive() bool {
	if !s.active {
		return false
	}
	if s.DurationMS > 0 {
		elapsedMS := elapsedMillis(s.clock, s.startTime)
		if elapsedMS >= 0 && uint64(elapsedMS) >= s.DurationMS {
			s.active = false
		}
	}
	return s.active
}

// Valid reports whether the session has not yet been freed.
func (s *Session) Valid() bool { return s.valid }

// Sources returns the session's registered sources, including invalid
// (unregistered) ones, in registration order.
func (s *Session) Sources() []*Source {
	return s.sources
}

// Sinks returns the session's registered sinks, including invalid
// (unregistered) ones, in registration order.
func (s *Session) Sinks() []*Sink {
	return s.sinks
}

// Metrics returns the session's metrics.Metrics collection, or nil if none
// was attached via WithMetrics.
func (s *Session) Metrics() metrics.Metrics {
	return s.metrics
}

// Free stops the session (if active), releases all per-source/per-sink
// state, and removes the session from its registry.
func (s *Session) Free() {
	if s.active {
		s.Stop()
	}
	s.sources = nil
	s.sinks = nil
	s.valid = false
	s.registry.remove(s)
}

// elapsedMillis returns the number of milliseconds elapsed since `since` on
// clock, or -1 if the clock reports a non-positive tick rate (a degrade-
// gracefully case per spec.md §4.8/§8.1).
func elapsedMillis(clock Clock, since int64) int64 {
	tps := clock.TicksPerSecond()
	if tps <= 0 {
		return -1
	}
	elapsedTicks := clock.NowCycles() - since
	return elapsedTicks * 1000 / tps
}
