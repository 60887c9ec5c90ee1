package utils

import (
	"fmt"
	"io"

	"golang.org/x/term"
)

// fdReader is satisfied by *os.File.
type fdReader interface {
	Fd() uintptr
}

// IsTerminal returns true if r is an interactive terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(fdReader)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// ReadHidden reads one line from the terminal behind r without echoing it.
// The caller must check IsTerminal first.
func ReadHidden(r io.Reader, w io.Writer) (string, error) {
	f, ok := r.(fdReader)
	if !ok {
		return "", fmt.Errorf("cannot read hidden input: reader is not a terminal")
	}

	value, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(w) // ReadPassword swallows the newline.
	if err != nil {
		return "", fmt.Errorf("failed to read hidden input: %w", err)
	}
	return string(value), nil
}

// IsTerminalWriter returns true if w writes to an interactive terminal.
func IsTerminalWriter(w io.Writer) bool {
	f, ok := w.(fdReader)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
