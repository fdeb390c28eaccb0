// Copyright 2024 The xstats Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package sampler

import "context"

// SinkFlags is a bitfield of sink capability flags.
type SinkFlags uint32

const (
	// NoNames indicates the sink does not need the names array on each
	// sampling pass; the runtime passes nil in its place to save the
	// caller from marshaling names it will discard.
	NoNames SinkFlags = 1 << 0
)

// SinkOps is the capability set a sink consumer provides.
type SinkOps interface {
	Output(ctx context.Context, sourceName Name, sourceID uint16, names []Name, ids []ID, values []int64, user any) error
}

// Sink is a registered stat consumer bound to a session.
type Sink struct {
	session *Session
	Name    Name
	ops     SinkOps
	Flags   SinkFlags
	user    any
	valid   bool
}

// RegisterSink registers a new sink on session. It fails if session is
// invalid, ops is nil, name is empty, or name does not fit MaxNameLen.
func (s *Session) RegisterSink(name string, ops SinkOps, flags SinkFlags, user any) (*Sink, error) {
	if !s.valid {
		return nil, newError(InvalidArgument, "register sink %q: session %q is invalid", name, s.Name)
	}
	if ops == nil {
		return nil, newError(InvalidArgument, "register sink %q: ops is nil", name)
	}
	if name == "" {
		return nil, newError(InvalidArgument, "register sink: name is empty")
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	sink := &Sink{
		session: s,
		Name:    Name(name),
		ops:     ops,
		Flags:   flags,
		user:    user,
		valid:   true,
	}
	s.sinks = append(s.sinks, sink)
	s.logger.Debug("registered sink %q on session %q", name, s.Name)
	return sink, nil
}

// Unregister marks sink invalid. Its storage is reclaimed when the owning
// session is freed. There is no guarantee the sink receives a final drain
// notification.
func (sink *Sink) Unregister() {
	sink.valid = false
}

// Valid reports whether sink is still registered.
func (sink *Sink) Valid() bool { return sink.valid }
