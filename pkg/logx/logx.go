// Package logx provides structured logging for the planner with an
// in-memory buffer of recent entries for diagnostics.
package logx

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

type Logger struct {
	component string
	logger    *log.Logger
}

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Entry represents a structured log entry kept in the in-memory buffer.
type Entry struct {
	Timestamp string         `json:"timestamp"`
	Component string         `json:"component"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	RequestID string         `json:"request_id,omitempty"`
	Event     string         `json:"event,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// buffer stores recent log entries so absorbed failures and pipeline
// milestones stay inspectable after the fact.
type buffer struct {
	entries []Entry
	mu      sync.RWMutex
	maxSize int
}

//nolint:gochecknoglobals // Shared buffer for diagnostics across components
var logBuffer = &buffer{maxSize: 1000}

//nolint:gochecknoglobals // Debug flag read once from environment
var debugEnabled = func() bool {
	v := os.Getenv("DEBUG")
	return v == "1" || strings.EqualFold(v, "true")
}()

func (b *buffer) add(entry Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, entry)
	if len(b.entries) > b.maxSize {
		b.entries = b.entries[len(b.entries)-b.maxSize:]
	}
}

// RecentEntries returns a copy of buffered entries, optionally filtered by
// request ID. Empty requestID returns everything.
func RecentEntries(requestID string) []Entry {
	logBuffer.mu.RLock()
	defer logBuffer.mu.RUnlock()

	out := make([]Entry, 0, len(logBuffer.entries))
	for i := range logBuffer.entries {
		if requestID != "" && logBuffer.entries[i].RequestID != requestID {
			continue
		}
		out = append(out, logBuffer.entries[i])
	}
	return out
}

func NewLogger(component string) *Logger {
	return &Logger{
		component: component,
		logger:    log.New(os.Stderr, "", 0), // stderr keeps stdout clean for reports
	}
}

func (l *Logger) log(level Level, format string, args ...any) {
	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] [%s] %s: %s", timestamp, l.component, level, message)

	logBuffer.add(Entry{
		Timestamp: timestamp,
		Component: l.component,
		Level:     string(level),
		Message:   message,
	})
}

func (l *Logger) Debug(format string, args ...any) {
	if !debugEnabled {
		return
	}
	l.log(LevelDebug, format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// Trace records a structured pipeline event tied to a request ID. Events are
// written to the log stream as JSON and retained in the buffer so a failed
// or degraded run can be reconstructed afterwards.
func (l *Logger) Trace(requestID, event string, fields map[string]any) {
	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	payload, err := json.Marshal(fields)
	if err != nil {
		payload = []byte(fmt.Sprintf("%v", fields))
	}
	l.logger.Printf("[%s] [%s] TRACE: %s request_id=%s %s", timestamp, l.component, event, requestID, payload)

	logBuffer.add(Entry{
		Timestamp: timestamp,
		Component: l.component,
		Level:     string(LevelInfo),
		Message:   event,
		RequestID: requestID,
		Event:     event,
		Fields:    fields,
	})
}

func (l *Logger) Component() string {
	return l.component
}

//nolint:gochecknoglobals // Convenience logger for package-less call sites
var defaultLogger = NewLogger("system")

func Infof(format string, args ...any) {
	defaultLogger.Info(format, args...)
}

func Warnf(format string, args ...any) {
	defaultLogger.Warn(format, args...)
}

// Errorf logs and returns the formatted error.
func Errorf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	defaultLogger.Error("%s", err.Error())
	return err
}

// Wrap logs msg + ": " + err.Error() and returns the wrapped error.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	wrapped := fmt.Errorf("%s: %w", msg, err)
	defaultLogger.Error("%s", wrapped.Error())
	return wrapped
}
