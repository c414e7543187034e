// Package termio provides the two concrete stos.IOPort implementations
// the CLI wires up: Terminal, a raw-mode interactive tty, and Script, a
// plain reader/writer pair for piped input and file scripts.
package termio

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/virtualgrub39/stos"
	"github.com/virtualgrub39/stos/internal/ioctl"
)

var (
	_ stos.IOPort = (*Terminal)(nil)
	_ stos.IOPort = (*Script)(nil)
)

// Terminal drives an interactive tty in raw mode. It only handles what a
// real tty driver's line discipline would otherwise do for it: echoing
// typed bytes, rendering a visual backspace, and normalizing CR to LF.
// The decision of what a backspace byte actually does to the accumulated
// line belongs to the core's own readLine, per
// original_source/stos.c's stos_readline -- the same split as the
// original's ncurses stos_getc, which returns a raw '\b' rather than
// editing any buffer itself.
type Terminal struct {
	in       *os.File
	out      io.Writer
	oldState *term.State
	reader   *bufio.Reader
}

// NewTerminal builds a Terminal port reading from in and echoing to out.
// Preinit puts in into raw mode; nothing is touched before that call.
func NewTerminal(in *os.File, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out, reader: bufio.NewReader(in)}
}

// Preinit switches the terminal into raw mode so Terminal can see every
// keystroke, including control bytes, before the tty driver's own line
// discipline would otherwise consume them.
func (t *Terminal) Preinit() error {
	if t.oldState != nil {
		return nil // already raw; keep the state saved by the first call
	}
	if !term.IsTerminal(int(t.in.Fd())) {
		return nil
	}
	st, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return err
	}
	t.oldState = st
	return nil
}

// Restore returns the terminal to its prior mode. Callers should defer
// this after a successful Preinit.
func (t *Terminal) Restore() error {
	if t.oldState == nil {
		return nil
	}
	err := term.Restore(int(t.in.Fd()), t.oldState)
	t.oldState = nil
	return err
}

// GetC reads and echoes one raw byte: Enter is normalized to '\n' and
// rendered as a CRLF, a backspace/delete key is rendered as a visual
// rub-out and reported up as a plain '\b', and everything else -- control
// bytes included -- is echoed as-is and returned unchanged.
func (t *Terminal) GetC() (byte, error) {
	b, err := t.reader.ReadByte()
	if err != nil {
		return 0, err
	}
	switch {
	case b == '\r' || b == '\n':
		io.WriteString(t.out, "\r\n")
		return '\n', nil
	case ioctl.IsErase(b):
		io.WriteString(t.out, "\b \b")
		return '\b', nil
	default:
		t.out.Write([]byte{b})
		return b, nil
	}
}

func (t *Terminal) PutC(b byte) error {
	_, err := t.out.Write([]byte{b})
	return err
}
