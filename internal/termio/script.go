package termio

import (
	"bufio"
	"io"
)

// Script adapts a plain io.Reader/io.Writer pair into a stos.IOPort, for
// non-interactive use: piped stdin, or running a file with `stos run`.
// It applies no line editing of its own -- there is no terminal to echo
// to, and the bytes are already a finished line stream.
type Script struct {
	in  *bufio.Reader
	out io.Writer
}

// NewScript builds a Script port reading from in and writing to out.
func NewScript(in io.Reader, out io.Writer) *Script {
	return &Script{in: bufio.NewReader(in), out: out}
}

func (s *Script) Preinit() error { return nil }

func (s *Script) GetC() (byte, error) { return s.in.ReadByte() }

func (s *Script) PutC(b byte) error {
	_, err := s.out.Write([]byte{b})
	return err
}
