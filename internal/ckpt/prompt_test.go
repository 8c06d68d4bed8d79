package ckpt_test

import (
	"bytes"
	"os"
	"testing"

	"ckpt-go/internal/ckpt"
)

func TestTerminalPrompt_ReadMessage(t *testing.T) {
	readFrom := func(t *testing.T, input string) string {
		t.Helper()
		r, w, err := os.Pipe()
		if err != nil {
			t.Fatalf("creating pipe: %v", err)
		}
		defer r.Close()

		if _, err := w.WriteString(input); err != nil {
			t.Fatalf("writing input: %v", err)
		}
		w.Close()

		var out bytes.Buffer
		p := ckpt.NewTerminalPrompt(r, &out)
		msg, err := p.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error = %v", err)
		}
		// A pipe is not a terminal, so no prompt text is printed.
		if out.Len() != 0 {
			t.Errorf("prompt text printed for non-terminal input: %q", out.String())
		}
		return msg
	}

	t.Run("reads a line", func(t *testing.T) {
		if got := readFrom(t, "work in progress\n"); got != "work in progress" {
			t.Errorf("ReadMessage() = %q, want %q", got, "work in progress")
		}
	})

	t.Run("accepts end-of-input without a newline", func(t *testing.T) {
		if got := readFrom(t, "partial"); got != "partial" {
			t.Errorf("ReadMessage() = %q, want %q", got, "partial")
		}
	})

	t.Run("empty input yields an empty message", func(t *testing.T) {
		if got := readFrom(t, ""); got != "" {
			t.Errorf("ReadMessage() = %q, want empty", got)
		}
	})
}

func TestLiteralMessage(t *testing.T) {
	msg, err := ckpt.LiteralMessage("fixed").ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if msg != "fixed" {
		t.Errorf("ReadMessage() = %q, want fixed", msg)
	}
}
