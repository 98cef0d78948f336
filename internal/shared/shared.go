// Package shared holds configuration, logging, errors and persistence helpers used by every ytsync package.
package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a [log.Logger] writing to w with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr].
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    true,
		Prefix:          "ytsync",
	})
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// DiscardLogger returns a logger that drops everything. Useful as a default in tests.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard)
}

// NewRunID generates a v4 [uuid.UUID] identifying one sync run.
func NewRunID() string {
	return uuid.New().String()
}
