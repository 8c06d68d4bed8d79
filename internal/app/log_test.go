package app

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCkptHandler(t *testing.T) {
	t.Run("formats records as tab-separated fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(&ckptHandler{w: &buf, opID: "op-123", min: slog.LevelInfo})

		logger.Info("checkpoint created", "timestamp", "2024-01-15_10-30-00", "files", 2)

		line := buf.String()
		for _, want := range []string{"\tINFO\t", "\top-123\t", "checkpoint created", "\ttimestamp=2024-01-15_10-30-00", "\tfiles=2"} {
			if !strings.Contains(line, want) {
				t.Errorf("log line %q missing %q", line, want)
			}
		}
		if !strings.HasSuffix(line, "\n") {
			t.Error("log line not newline-terminated")
		}
	})

	t.Run("suppresses records below the minimum level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(&ckptHandler{w: &buf, opID: "op-123", min: slog.LevelInfo})

		logger.Debug("noise")
		if buf.Len() != 0 {
			t.Errorf("debug record emitted: %q", buf.String())
		}
	})

	t.Run("carries pre-set attrs", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(&ckptHandler{w: &buf, opID: "op-123", min: slog.LevelInfo})

		logger.With("repo", "/work").Info("restored")
		if !strings.Contains(buf.String(), "\trepo=/work") {
			t.Errorf("log line %q missing pre-set attr", buf.String())
		}
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("stderr only without logDir", func(t *testing.T) {
		logger, f, err := newLogger("", "op-123")
		if err != nil {
			t.Fatalf("newLogger: %v", err)
		}
		if logger == nil {
			t.Fatal("expected logger")
		}
		if f != nil {
			t.Error("expected nil file without logDir")
		}
	})

	t.Run("creates log file in logDir", func(t *testing.T) {
		dir := t.TempDir()
		logger, f, err := newLogger(dir, "op-123")
		if err != nil {
			t.Fatalf("newLogger: %v", err)
		}
		defer f.Close()

		logger.Info("checkpoint created")

		data, err := os.ReadFile(filepath.Join(dir, "ckpt.log"))
		if err != nil {
			t.Fatalf("reading log file: %v", err)
		}
		if !strings.Contains(string(data), "checkpoint created") {
			t.Errorf("log file missing record: %q", string(data))
		}
	})
}
