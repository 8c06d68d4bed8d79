package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"ckpt-go/internal/ckpt"
)

// ckptHandler is a custom slog.Handler that formats log records as:
//
//	<timestamp>\t<level>\t<opID>\t<message>\t<key=value ...>
type ckptHandler struct {
	w     io.Writer
	opID  string
	min   slog.Level
	attrs []slog.Attr
}

func (h *ckptHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.min
}

func (h *ckptHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time.UTC().Format("2006-01-02T15:04:05Z")
	level := r.Level.String()

	_, err := fmt.Fprintf(h.w, "%s\t%s\t%s\t%s", ts, level, h.opID, r.Message)
	if err != nil {
		return err
	}

	// Write pre-set attrs.
	for _, a := range h.attrs {
		fmt.Fprintf(h.w, "\t%s=%v", a.Key, a.Value)
	}

	// Write per-record attrs.
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(h.w, "\t%s=%v", a.Key, a.Value)
		return true
	})

	_, err = fmt.Fprintln(h.w)
	return err
}

func (h *ckptHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ckptHandler{
		w:     h.w,
		opID:  h.opID,
		min:   h.min,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *ckptHandler) WithGroup(string) slog.Handler { return h }

// newLogger creates a structured logger writing to stderr and, when logDir
// is non-empty, to logDir/ckpt.log as well. Debug records are suppressed
// unless CKPT_DEBUG is set. The returned file is nil when logging to stderr
// only.
func newLogger(logDir string, opID string) (*slog.Logger, *os.File, error) {
	min := slog.LevelInfo
	if os.Getenv("CKPT_DEBUG") != "" {
		min = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	var f *os.File
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		logPath := filepath.Join(logDir, "ckpt.log")
		var err error
		f, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = io.MultiWriter(f, os.Stderr)
	}

	handler := &ckptHandler{w: w, opID: opID, min: min}
	return slog.New(handler), f, nil
}

// slogAdapter wraps *slog.Logger to satisfy the ckpt.Logger interface.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }

// Compile-time check that slogAdapter satisfies ckpt.Logger.
var _ ckpt.Logger = (*slogAdapter)(nil)
