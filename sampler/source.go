// Copyright 2024 The xstats Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package sampler

import (
	"context"

	"github.com/xstats-io/sampler/pkg/match"
)

// MaxFilterPatterns bounds the number of glob patterns a single filter may
// hold, per spec.md §6.6.
const MaxFilterPatterns = 32

// SourceOps is the capability set a source adapter provides.
//
// NamesGet probes the available stat count when out is nil (it must not
// touch out in that case), or fills out (up to len(out)) with NameID
// entries and returns the count filled. ValuesGet fetches the values of
// the given ids, in order, into out.
type SourceOps interface {
	NamesGet(ctx context.Context, sourceID uint16, out []NameID, user any) (int, error)
	ValuesGet(ctx context.Context, sourceID uint16, ids []ID, out []int64, user any) (int, error)
}

// ResetOps is the optional reset capability a source adapter may provide in
// addition to SourceOps, by implementing this interface on the same value.
// ids == nil resets every stat on the source.
type ResetOps interface {
	Reset(ctx context.Context, sourceID uint16, ids []ID, user any) error
}

// Source is a registered stat source bound to a session.
type Source struct {
	session  *Session
	Name     Name
	SourceID uint16
	ops      SourceOps
	resetter ResetOps
	user     any
	valid    bool

	// cached name/ID/value table. Frozen once cached is true; see
	// ensureCached.
	cached bool
	names  []Name
	ids    []ID
	values []int64

	// filter state.
	patterns       []string
	compiled       []match.Pattern
	filterActive   bool
	filteredIDs    []ID
	filteredIdx    []int // original index into names/ids/values for each filteredIDs entry
	filteredCount  int
	filteredValues []int64
}

// RegisterSource registers a new source on session. It fails if session is
// invalid, ops is nil, name is empty, or name does not fit MaxNameLen.
func (s *Session) RegisterSource(name string, sourceID uint16, ops SourceOps, user any) (*Source, error) {
	if !s.valid {
		return nil, newError(InvalidArgument, "register source %q: session %q is invalid", name, s.Name)
	}
	if ops == nil {
		return nil, newError(InvalidArgument, "register source %q: ops is nil", name)
	}
	if name == "" {
		return nil, newError(InvalidArgument, "register source: name is empty")
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	src := &Source{
		session:  s,
		Name:     Name(name),
		SourceID: sourceID,
		ops:      ops,
		user:     user,
		valid:    true,
	}
	if r, ok := ops.(ResetOps); ok {
		src.resetter = r
	}

	s.sources = append(s.sources, src)
	s.logger.Debug("registered source %q (id=%d) on session %q", name, sourceID, s.Name)
	return src, nil
}

// Unregister marks src invalid. Its storage is reclaimed when the owning
// session is freed.
func (src *Source) Unregister() {
	src.valid = false
}

// Valid reports whether src is still registered.
func (src *Source) Valid() bool { return src.valid }

// CachedCount returns the frozen cached stat count, or 0 if the source has
// not yet been sampled successfully.
func (src *Source) CachedCount() int { return len(src.ids) }

// XStatsCount returns the filtered count if a filter is active, else the
// full cached count.
func (src *Source) XStatsCount() (int, error) {
	if !src.valid {
		return 0, newError(InvalidArgument, "source %q is invalid", src.Name)
	}
	if src.filterActive {
		return src.filteredCount, nil
	}
	return len(src.ids), nil
}

// GetXStatsName scans the cached name table for id and returns its name.
func (src *Source) GetXStatsName(id ID) (Name, error) {
	for i, cid := range src.ids {
		if cid == id {
			return src.names[i], nil
		}
	}
	return "", newError(NotFound, "source %q: id %d not found", src.Name, id)
}

// ensureCached populates the source's name/ID/value cache on first use. Per
// spec.md §4.2, once populated the cached count is frozen for the life of
// the source record: later growth on the adapter side is ignored until the
// source is unregistered and re-registered. Any failure (or a non-positive
// probe count) leaves the source uncached so the engine retries on the
// next sampling pass; it is not treated as an error by callers that only
// care whether data is available this pass.
func (src *Source) ensureCached(ctx context.Context) error {
	if src.cached {
		return nil
	}

	n, err := src.ops.NamesGet(ctx, src.SourceID, nil, src.user)
	if err != nil {
		return wrapError(AdapterFailure, err, "source %q: names_get probe failed", src.Name)
	}
	if n <= 0 {
		return nil
	}

	buf := make([]NameID, n)
	filled, err := src.ops.NamesGet(ctx, src.SourceID, buf, src.user)
	if err != nil {
		return wrapError(AdapterFailure, err, "source %q: names_get fill failed", src.Name)
	}
	if filled <= 0 {
		return nil
	}
	if filled > n {
		filled = n
	}

	names := make([]Name, filled)
	ids := make([]ID, filled)
	for i := 0; i < filled; i++ {
		names[i] = buf[i].Name
		ids[i] = buf[i].ID
	}

	src.names = names
	src.ids = ids
	src.values = make([]int64, filled)
	src.filteredValues = make([]int64, filled)
	src.cached = true
	src.recomputeFilter()
	return nil
}

// SetFilter replaces the active filter patterns and eagerly recomputes the
// filtered ID projection against the existing cache (per spec.md §9's
// resolution of the eager-vs-lazy recompute question). Patterns must be
// non-empty and at most MaxFilterPatterns long.
func (src *Source) SetFilter(patterns []string) error {
	if !src.valid {
		return newError(InvalidArgument, "source %q is invalid", src.Name)
	}
	if len(patterns) == 0 {
		return newError(InvalidArgument, "set filter on source %q: empty pattern list", src.Name)
	}
	if len(patterns) > MaxFilterPatterns {
		return newError(ResourceExhausted, "set filter on source %q: %d patterns exceeds limit %d", src.Name, len(patterns), MaxFilterPatterns)
	}

	compiled := make([]match.Pattern, len(patterns))
	copied := make([]string, len(patterns))
	for i, p := range patterns {
		cp, err := match.Compile(p)
		if err != nil {
			return wrapError(InvalidArgument, err, "set filter on source %q: invalid pattern %q", src.Name, p)
		}
		compiled[i] = cp
		copied[i] = p
	}

	src.patterns = copied
	src.compiled = compiled
	src.filterActive = true
	src.recomputeFilter()
	return nil
}

// ClearFilter releases the active filter and restores the filtered
// projection to the full cached ID list.
func (src *Source) ClearFilter() {
	src.patterns = nil
	src.compiled = nil
	src.filterActive = false
	src.recomputeFilter()
}

// GetFilter returns the active filter patterns. The returned slice is
// borrowed from src and is only valid until the next call that mutates the
// filter.
func (src *Source) GetFilter() []string {
	return src.patterns
}

// recomputeFilter rebuilds filteredIDs/filteredCount from the cached name
// table. With no active filter, filteredIDs is the same sequence as ids.
func (src *Source) recomputeFilter() {
	if !src.cached {
		return
	}
	if cap(src.filteredIDs) < len(src.ids) {
		src.filteredIDs = make([]ID, len(src.ids))
		src.filteredIdx = make([]int, len(src.ids))
	}

	if !src.filterActive {
		src.filteredIDs = src.filteredIDs[:len(src.ids)]
		src.filteredIdx = src.filteredIdx[:len(src.ids)]
		copy(src.filteredIDs, src.ids)
		for i := range src.ids {
			src.filteredIdx[i] = i
		}
		src.filteredCount = len(src.ids)
		return
	}

	src.filteredIDs = src.filteredIDs[:0]
	src.filteredIdx = src.filteredIdx[:0]
	for i, name := range src.names {
		if match.MatchAny(src.compiled, string(name)) {
			src.filteredIDs = append(src.filteredIDs, src.ids[i])
			src.filteredIdx = append(src.filteredIdx, i)
		}
	}
	src.filteredCount = len(src.filteredIDs)
}
