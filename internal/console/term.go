package console

import (
	"fmt"
	"io"

	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	isTerminalFunc   = term.IsTerminal
	getStateFunc     = term.GetState
	restoreFunc      = term.Restore
)

// IsTerminal reports whether fd is an interactive terminal.
func IsTerminal(fd int) bool { return isTerminalFunc(fd) }

// TerminalPasswordReader reads passwords from the terminal fd with echo
// disabled, ending the prompt line on out afterwards.
//
// Echo is restored by the read itself, which a process exiting mid-read
// skips; callers that may exit from a signal handler take a TerminalState
// first and Restore it before exiting.
func TerminalPasswordReader(fd int, out io.Writer) PasswordReader {
	return func() (string, error) {
		b, err := readPasswordFunc(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// TerminalState is the mode of a terminal captured before any password
// prompt turned echo off.
type TerminalState struct {
	fd    int
	state *term.State
}

// SaveTerminal captures the current mode of fd.
func SaveTerminal(fd int) (*TerminalState, error) {
	st, err := getStateFunc(fd)
	if err != nil {
		return nil, fmt.Errorf("read terminal state: %w", err)
	}
	return &TerminalState{fd: fd, state: st}, nil
}

// Restore puts the terminal back into the captured mode. A nil receiver is
// a no-op.
func (t *TerminalState) Restore() error {
	if t == nil {
		return nil
	}
	return restoreFunc(t.fd, t.state)
}
