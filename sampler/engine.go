// Copyright 2024 The xstats Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package sampler

import (
	"context"

	"github.com/xstats-io/sampler/metrics"
)

// Sample performs one sampling pass over the session: for each valid
// source, it lazily discovers names/IDs, fetches the (filtered) values, and
// fans the result out to every valid sink, per spec.md §4.5. Per-source and
// per-sink failures are isolated: they do not prevent other sources or
// sinks from being processed, and Sample itself only returns an error if
// the session is invalid. last_sample_time is updated unconditionally on a
// successful call, even if individual sources failed this pass.
func (s *Session) Sample(ctx context.Context) error {
	if !s.valid {
		return newError(InvalidArgument, "sample: session %q is invalid", s.Name)
	}

	var timer metrics.Timer
	if s.metrics != nil {
		timer = s.metrics.Timer(metrics.SampleDuration)
		timer.Start()
	}

	for _, src := range s.sources {
		if !src.valid {
			continue
		}
		s.sampleSource(ctx, src)
	}

	s.lastSampleTime = s.clock.NowCycles()

	if s.metrics != nil {
		s.metrics.Counter(metrics.SamplePasses).Incr()
		timer.Stop()
	}

	return nil
}

// sampleSource implements spec.md §4.5 step 2 for a single source.
func (s *Session) sampleSource(ctx context.Context, src *Source) {
	if err := src.ensureCached(ctx); err != nil {
		s.logger.Debug("source %q: name cache unavailable: %v", src.Name, err)
		s.countSourceFailure()
		return
	}
	if !src.cached {
		// Probe returned <= 0 stats, or the adapter isn't ready yet; retry
		// on the next pass.
		return
	}

	n := src.filteredCount
	values := src.filteredValues[:n]
	filled, err := src.ops.ValuesGet(ctx, src.SourceID, src.filteredIDs[:n], values, src.user)
	if err != nil || filled < 0 {
		s.logger.Debug("source %q: values_get failed: %v", src.Name, err)
		s.countSourceFailure()
		return
	}
	if filled < n {
		n = filled
	}
	values = values[:n]

	// names, like values, must be reindexed through filteredIdx: it is the
	// same subsequence-of-the-full-cache projection as filteredIDs, not the
	// full (unfiltered) name array.
	names := make([]Name, n)
	for i := 0; i < n; i++ {
		orig := src.filteredIdx[i]
		src.values[orig] = values[i]
		names[i] = src.names[orig]
	}

	s.fanOut(ctx, src, names, src.filteredIDs[:n], values)
}

// fanOut implements spec.md §4.5 step 2d: deliver one source's sample to
// every valid sink, in registration order, with per-sink failure isolation.
// names is already aligned with ids/values; it is withheld per sink only
// when that sink set the NoNames flag.
func (s *Session) fanOut(ctx context.Context, src *Source, names []Name, ids []ID, values []int64) {
	for _, sink := range s.sinks {
		if !sink.valid {
			continue
		}
		var sinkNames []Name
		if sink.Flags&NoNames == 0 {
			sinkNames = names
		}
		if err := sink.ops.Output(ctx, src.Name, src.SourceID, sinkNames, ids, values, sink.user); err != nil {
			s.logger.Debug("sink %q: output failed for source %q: %v", sink.Name, src.Name, err)
			s.countSinkFailure()
		}
	}
}

func (s *Session) countSourceFailure() {
	if s.metrics != nil {
		s.metrics.Counter(metrics.SourceFailures).Incr()
	}
}

func (s *Session) countSinkFailure() {
	if s.metrics != nil {
		s.metrics.Counter(metrics.SinkFailures).Incr()
	}
}
