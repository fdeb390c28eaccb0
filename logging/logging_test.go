package logging

import "testing"

func TestNoOpLoggerDoesNotPanic(t *testing.T) {
	l := NewNoOpLogger()
	l.Debug("x %d", 1)
	l.Info("x %d", 1)
	l.Warn("x %d", 1)
	l.Error("x %d", 1)
	if _, ok := l.WithFields(map[string]any{"a": 1}).(*NoOpLogger); !ok {
		t.Fatalf("WithFields on NoOpLogger should return a NoOpLogger")
	}
}

func TestStandardLoggerWithFields(t *testing.T) {
	l := New()
	derived := l.WithFields(map[string]any{"session": "s0"})
	if derived == nil {
		t.Fatal("expected non-nil derived logger")
	}
	derived.Info("hello %s", "world")
}
