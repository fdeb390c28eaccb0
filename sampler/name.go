// Copyright 2024 The xstats Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package sampler

// MaxNameLen is the maximum length of a stat name, including a conceptual
// terminator, per spec.md §6.6.
const MaxNameLen = 128

// Name is an opaque stat name. The runtime uses it only for filter matching
// and pass-through to sinks.
type Name string

// validateName reports an error if name would not fit in the fixed-capacity
// name representation.
func validateName(name string) error {
	if len(name) >= MaxNameLen {
		return newError(InvalidArgument, "name %q exceeds maximum length %d", name, MaxNameLen-1)
	}
	return nil
}

// ID is a stat identifier, unique within a single source's name table but
// not globally unique. The pair (source, ID) is the addressable unit.
type ID uint64

// NameID pairs a stat name with its identifier, as reported by
// SourceOps.NamesGet.
type NameID struct {
	Name Name
	ID   ID
}
