// Copyright 2024 The xstats Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package sampler

import "context"

// XStatsNamesGet returns the cache-snapshot names for source, or for every
// valid source in registration order if source is nil. If out is nil, it
// returns the count only, without copying any names.
func (s *Session) XStatsNamesGet(source *Source, out []Name) (int, error) {
	if !s.valid {
		return 0, newError(InvalidArgument, "session %q is invalid", s.Name)
	}

	if source != nil {
		if out == nil {
			return len(source.names), nil
		}
		n := copy(out, source.names)
		return n, nil
	}

	if out == nil {
		total := 0
		for _, src := range s.sources {
			if src.valid {
				total += len(src.names)
			}
		}
		return total, nil
	}

	total := 0
	for _, src := range s.sources {
		if !src.valid {
			continue
		}
		if total >= len(out) {
			break
		}
		total += copy(out[total:], src.names)
	}
	return total, nil
}

// XStatsGet reads values from the cached values table (i.e. the last
// sample), without triggering a new sample. If ids is nil, the first
// min(len(out), cached count) entries are returned in cache order. If ids
// is non-nil, out[i] receives the cached value for ids[i] (zero if the ID
// is unknown to source).
func (s *Session) XStatsGet(source *Source, ids []ID, out []int64) (int, error) {
	if !s.valid {
		return 0, newError(InvalidArgument, "session %q is invalid", s.Name)
	}

	if ids != nil {
		if source == nil {
			return 0, newError(InvalidArgument, "xstats_get: ids given but source is nil")
		}
		n := len(ids)
		if n > len(out) {
			n = len(out)
		}
		for i := 0; i < n; i++ {
			v, _ := source.cachedValue(ids[i])
			out[i] = v
		}
		return n, nil
	}

	if source != nil {
		n := len(source.values)
		if n > len(out) {
			n = len(out)
		}
		copy(out, source.values[:n])
		return n, nil
	}

	total := 0
	for _, src := range s.sources {
		if !src.valid {
			continue
		}
		if total >= len(out) {
			break
		}
		total += copy(out[total:], src.values)
	}
	return total, nil
}

// cachedValue returns the cached value for id, and whether id was found in
// the cache.
func (src *Source) cachedValue(id ID) (int64, bool) {
	for i, cid := range src.ids {
		if cid == id {
			return src.values[i], true
		}
	}
	return 0, false
}

// XStatsReset calls Reset on the adapter (if it implements ResetOps) for
// source, or for every valid source that supports reset if source is nil,
// then zeroes the corresponding cached values on success. Failure of one
// source's reset does not abort the others in an all-sources call.
func (s *Session) XStatsReset(ctx context.Context, source *Source, ids []ID) error {
	if !s.valid {
		return newError(InvalidArgument, "session %q is invalid", s.Name)
	}

	if source != nil {
		return resetSource(ctx, source, ids)
	}

	var firstErr error
	for _, src := range s.sources {
		if !src.valid {
			continue
		}
		if err := resetSource(ctx, src, ids); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func resetSource(ctx context.Context, src *Source, ids []ID) error {
	if src.resetter == nil {
		return nil
	}
	if err := src.resetter.Reset(ctx, src.SourceID, ids, src.user); err != nil {
		return wrapError(AdapterFailure, err, "source %q: reset failed", src.Name)
	}

	if ids == nil {
		for i := range src.values {
			src.values[i] = 0
		}
		return nil
	}
	for _, id := range ids {
		for i, cid := range src.ids {
			if cid == id {
				src.values[i] = 0
				break
			}
		}
	}
	return nil
}
