// Package flushio gives the VM's output port a way to push buffered bytes
// out on demand, so a prompt or banner line isn't left sitting in a
// bufio.Writer's buffer when the REPL is about to block on its next read.
package flushio

import (
	"bufio"
	"io"
)

// WriteFlusher is an io.Writer that can be told to push any buffered bytes
// out to its underlying destination.
type WriteFlusher interface {
	io.Writer
	Flush() error
}

// NewWriteFlusher wraps w in a bufio.Writer, so batched primitive output
// (PRINT-STR, TYPE, ".") is held and handed to w in one Write when the
// REPL flushes before its next blocking read. It does not reduce the
// number of port writes when w itself writes a byte at a time, as the
// VM's IOPort adapter does.
func NewWriteFlusher(w io.Writer) WriteFlusher {
	return bufio.NewWriter(w)
}
