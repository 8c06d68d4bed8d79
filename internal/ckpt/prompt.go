package ckpt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// MessageSource supplies the checkpoint message when none was given on the
// command line. Implementations may block until input arrives.
type MessageSource interface {
	ReadMessage() (string, error)
}

// TerminalPrompt reads a message line from an input stream, printing a
// prompt first when the stream is an interactive terminal. It blocks until
// a line or end-of-input is received.
type TerminalPrompt struct {
	in  io.Reader
	out io.Writer
	fd  int
}

// NewTerminalPrompt creates a prompt reading from in and writing the prompt
// text to out.
func NewTerminalPrompt(in *os.File, out io.Writer) *TerminalPrompt {
	return &TerminalPrompt{in: in, out: out, fd: int(in.Fd())}
}

func (p *TerminalPrompt) ReadMessage() (string, error) {
	if term.IsTerminal(p.fd) {
		fmt.Fprint(p.out, "Checkpoint message: ")
	}

	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading message: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// LiteralMessage is a MessageSource that returns a fixed string. Use in
// tests and wherever the message is already known.
type LiteralMessage string

func (m LiteralMessage) ReadMessage() (string, error) { return string(m), nil }
