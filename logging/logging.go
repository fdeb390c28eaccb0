// Copyright 2024 The xstats Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package logging provides the logger interface used throughout the
// sampler runtime.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Level is a log severity.
type Level int

// Well-known log levels, ordered least to most severe.
const (
	Debug Level = iota
	Info
	Warn
	Error
)

// Logger is the interface the sampler runtime logs through. Adapter failures
// absorbed by the sampling engine are logged at Debug level per the
// propagation policy; source and sink registrations are also logged at Debug.
type Logger interface {
	Debug(format string, a ...any)
	Info(format string, a ...any)
	Warn(format string, a ...any)
	Error(format string, a ...any)

	// WithFields returns a derived Logger that annotates every subsequent
	// message with the given key/value pairs.
	WithFields(fields map[string]any) Logger
}

// StandardLogger is the default Logger implementation, backed by logrus.
type StandardLogger struct {
	entry *logrus.Entry
}

// New returns a new StandardLogger writing to stderr at Info level.
func New() *StandardLogger {
	l := logrus.New()
	l.Out = os.Stderr
	l.SetLevel(logrus.InfoLevel)
	return &StandardLogger{entry: logrus.NewEntry(l)}
}

// SetLevel adjusts the minimum level the logger emits.
func (l *StandardLogger) SetLevel(level Level) {
	l.entry.Logger.SetLevel(toLogrusLevel(level))
}

func toLogrusLevel(level Level) logrus.Level {
	switch level {
	case Debug:
		return logrus.DebugLevel
	case Warn:
		return logrus.WarnLevel
	case Error:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func (l *StandardLogger) Debug(format string, a ...any) { l.entry.Debugf(format, a...) }
func (l *StandardLogger) Info(format string, a ...any)  { l.entry.Infof(format, a...) }
func (l *StandardLogger) Warn(format string, a ...any)  { l.entry.Warnf(format, a...) }
func (l *StandardLogger) Error(format string, a ...any) { l.entry.Errorf(format, a...) }

// WithFields returns a derived StandardLogger annotating every subsequent
// message with fields.
func (l *StandardLogger) WithFields(fields map[string]any) Logger {
	return &StandardLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// NoOpLogger discards everything. Useful as a zero-value-safe default for
// sessions created without an explicit logger.
type NoOpLogger struct{}

// NewNoOpLogger returns a Logger that discards all messages.
func NewNoOpLogger() *NoOpLogger { return &NoOpLogger{} }

func (*NoOpLogger) Debug(string, ...any) {}
func (*NoOpLogger) Info(string, ...any)  {}
func (*NoOpLogger) Warn(string, ...any)  {}
func (*NoOpLogger) Error(string, ...any) {}

func (n *NoOpLogger) WithFields(map[string]any) Logger { return n }
