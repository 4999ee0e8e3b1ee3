// Package testutil provides log capture helpers shared by package tests.
package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// LogRecord is one captured log record.
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogBuffer is a slog.Handler that captures records so tests can assert
// on what a component logged.
type LogBuffer struct {
	mu      sync.Mutex
	records []LogRecord
}

// NewTestLogger returns a logger whose output is captured in the returned
// buffer. All levels are enabled.
func NewTestLogger(t *testing.T) (*slog.Logger, *LogBuffer) {
	t.Helper()
	buffer := &LogBuffer{}
	return slog.New(buffer), buffer
}

// Handle implements slog.Handler
func (b *LogBuffer) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, LogRecord{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	return nil
}

// Enabled implements slog.Handler
func (b *LogBuffer) Enabled(context.Context, slog.Level) bool { return true }

// WithAttrs implements slog.Handler
func (b *LogBuffer) WithAttrs([]slog.Attr) slog.Handler { return b }

// WithGroup implements slog.Handler
func (b *LogBuffer) WithGroup(string) slog.Handler { return b }

// Records returns a copy of the captured records.
func (b *LogBuffer) Records() []LogRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	records := make([]LogRecord, len(b.records))
	copy(records, b.records)
	return records
}

// ContainsMessage reports whether any captured record at the given level
// contains the message substring.
func (b *LogBuffer) ContainsMessage(level slog.Level, message string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.records {
		if r.Level == level && strings.Contains(r.Message, message) {
			return true
		}
	}
	return false
}

// AttrValue returns the attribute value from the first record whose
// message contains the given substring.
func (b *LogBuffer) AttrValue(message, key string) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.records {
		if strings.Contains(r.Message, message) {
			value, ok := r.Attrs[key]
			return value, ok
		}
	}
	return nil, false
}

// AssertLogged fails the test when no record at the given level contains
// the message substring.
func AssertLogged(t *testing.T, buffer *LogBuffer, level slog.Level, message string) {
	t.Helper()
	if buffer.ContainsMessage(level, message) {
		return
	}
	t.Errorf("expected a %s log containing %q", level, message)
	for _, r := range buffer.Records() {
		t.Logf("  captured: [%s] %s", r.Level, r.Message)
	}
}
