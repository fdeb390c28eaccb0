// Copyright 2024 The xstats Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package sampler

import "context"

// Registry is a process-wide collection of live sessions, used by the
// polling driver. Per spec.md §5, Registry is not internally locked: all
// mutating operations (session create/free, register/unregister source or
// sink, set/clear filter) must be called from the same thread that drives
// Poll/Sample, or be externally serialized by the caller.
type Registry struct {
	sessions []*Session
}

// NewRegistry returns a new, empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

var globalRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry that NewSession uses
// when no WithRegistry option is supplied.
func DefaultRegistry() *Registry {
	return globalRegistry
}

// add inserts session into the registry. Go's append already grows the
// backing array by amortized doubling, which satisfies spec.md §9's
// "grows by doubling" requirement without any manual capacity-management
// code; appending to a slice cannot fail short of the process running out
// of memory, so the spec's "registry growth failure degrades gracefully"
// clause has no code path to exercise here.
func (r *Registry) add(s *Session) {
	r.sessions = append(r.sessions, s)
}

// remove drops session from the registry. It is a no-op if session is not
// present (e.g. double Free).
func (r *Registry) remove(s *Session) {
	for i, sess := range r.sessions {
		if sess == s {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			return
		}
	}
}

// Sessions returns the registry's live sessions, in insertion order.
func (r *Registry) Sessions() []*Session {
	return r.sessions
}

// Poll walks the registry and calls Sample on each session that is valid,
// active, has interval_ms > 0, and whose interval has elapsed. It returns
// the number of sessions sampled. Manual sessions (interval_ms == 0) and
// expired sessions are skipped, as is any session whose clock reports a
// non-positive tick rate.
func (r *Registry) Poll(ctx context.Context) int {
	polled := 0
	for _, s := range r.sessions {
		if s == nil || !s.valid || s.IntervalMS == 0 {
			continue
		}
		if !s.IsActive() {
			continue
		}
		elapsedMS := elapsedMillis(s.clock, s.lastSampleTime)
		if elapsedMS < 0 || uint64(elapsedMS) < s.IntervalMS {
			continue
		}
		if err := s.Sample(ctx); err == nil {
			polled++
		}
	}
	return polled
}
