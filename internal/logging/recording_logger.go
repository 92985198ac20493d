package logging

import (
	"fmt"
	"strings"
	"sync"
)

// Level labels a recorded entry.
type Level string

const (
	LevelVerbose Level = "verbose"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Entry is one recorded log line.
type Entry struct {
	Level   Level
	Message string
}

// RecordingLogger keeps every message, including verbose ones, in memory.
// Safe for concurrent use by multiple goroutines.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecordingLogger creates an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

// Verbose records a LevelVerbose entry. Entries are kept whatever the
// verbosity, so tests can assert on diagnostics.
func (l *RecordingLogger) Verbose(format string, args ...interface{}) {
	l.record(LevelVerbose, format, args)
}

// Info records a LevelInfo entry.
func (l *RecordingLogger) Info(format string, args ...interface{}) {
	l.record(LevelInfo, format, args)
}

// Error records a LevelError entry.
func (l *RecordingLogger) Error(format string, args ...interface{}) {
	l.record(LevelError, format, args)
}

func (l *RecordingLogger) record(level Level, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Level: level, Message: msg})
}

// Entries returns a copy of the recorded entries in order.
func (l *RecordingLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Contains reports whether any entry of the given level contains substr.
func (l *RecordingLogger) Contains(level Level, substr string) bool {
	for _, e := range l.Entries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
