package stos

import "io"

// IOPort is the external character I/O collaborator spec.md §6 treats as
// out of scope for the core: a blocking single-character read, a
// synchronous single-character write, and a cold-start hook. Concrete
// implementations (a real terminal, a plain script reader) live in
// internal/termio.
type IOPort interface {
	// GetC blocks for one character, already echoed if the port is
	// interactive. Line discipline above the single byte -- backspace
	// editing, discarding stray control bytes, recognizing REBOOT -- is
	// the core's own job (readLine in repl.go), matching how
	// original_source/stos.c splits stos_getc from stos_readline.
	GetC() (byte, error)
	// PutC writes one character synchronously.
	PutC(b byte) error
	// Preinit performs any one-time terminal setup.
	Preinit() error
}

// portWriter adapts an IOPort's single-byte PutC into an io.Writer, so
// bulk writers (internal/flushio, PRINT-STR, TYPE, ".") can all go
// through the same path without looping over PutC by hand everywhere.
type portWriter struct{ io IOPort }

func (w portWriter) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := w.io.PutC(b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

var _ io.Writer = portWriter{}
