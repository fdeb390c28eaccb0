// Copyright 2024 The xstats Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package sampler

import "time"

// Clock is the monotonic-cycle clock the sampling engine and polling driver
// consume, per spec.md §1's scope note that the clock is an external
// collaborator. NowCycles returns an opaque, monotonically non-decreasing
// count of ticks; TicksPerSecond converts a tick delta to wall-clock time.
type Clock interface {
	NowCycles() int64
	TicksPerSecond() int64
}

// realClock is the default Clock, backed by the runtime's monotonic clock
// reading (time.Since always reads the monotonic component of a time.Time
// taken from time.Now).
type realClock struct {
	epoch time.Time
}

// NewRealClock returns a Clock backed by the wall/monotonic clock, with
// nanosecond resolution.
func NewRealClock() Clock {
	return &realClock{epoch: time.Now()}
}

func (c *realClock) NowCycles() int64 {
	return time.Since(c.epoch).Nanoseconds()
}

func (c *realClock) TicksPerSecond() int64 {
	return int64(time.Second)
}
