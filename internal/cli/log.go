// Package cli implements the jfreports command-line interface.
//
// The commands create, validate, render and rearrange dashboard documents,
// host an interactive terminal canvas, manage canvas preferences and the
// document store, and serve the HTTP API. The CLI is built using cobra and
// logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - new, validate, render: create, check and export dashboards
//   - edit: interactive terminal canvas
//   - distribute, align, reorder: batch layout edits
//   - prefs, docs: preference and document store management
//   - serve: HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs gestures, history commits and storage I/O. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logRing keeps the last few log lines for views that own the terminal.
type logRing struct {
	mu    sync.Mutex
	lines []string
	size  int
}

func newLogRing(size int) *logRing {
	return &logRing{size: max(size, 1)}
}

func (r *logRing) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		r.lines = append(r.lines, line)
		if len(r.lines) > r.size {
			r.lines = r.lines[len(r.lines)-r.size:]
		}
	}
	return len(p), nil
}

func (r *logRing) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.lines) == 0 {
		return ""
	}
	return r.lines[len(r.lines)-1]
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered sales.svg (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() when
// none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability hooks
// =============================================================================

// logHooks writes observability events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnGestureStart(state string, ids []string) {
	h.logger.Debug("gesture start", "state", state, "elements", len(ids))
}

func (h *logHooks) OnGestureEnd(state string, ids []string, d time.Duration) {
	h.logger.Debug("gesture end", "state", state, "elements", len(ids), "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnGestureAbort(state string, missingID string) {
	h.logger.Debug("gesture aborted", "state", state, "missing", missingID)
}

func (h *logHooks) OnCommit(past int) {
	h.logger.Debug("history commit", "past", past)
}

func (h *logHooks) OnUndo(past, future int) {
	h.logger.Debug("undo", "past", past, "future", future)
}

func (h *logHooks) OnRedo(past, future int) {
	h.logger.Debug("redo", "past", past, "future", future)
}

func (h *logHooks) OnRead(ctx context.Context, backend, key string, hit bool) {
	h.logger.Debug("store read", "backend", backend, "key", key, "hit", hit)
}

func (h *logHooks) OnWrite(ctx context.Context, backend, key string, size int) {
	h.logger.Debug("store write", "backend", backend, "key", key, "bytes", size)
}

func (h *logHooks) OnError(ctx context.Context, backend, op string, err error) {
	h.logger.Warn("store error", "backend", backend, "op", op, "error", err)
}
