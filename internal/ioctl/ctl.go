// Package ioctl classifies the raw bytes a terminal-mode IOPort sees in
// its unbuffered, uncanonicalized form.
package ioctl

const (
	EOT = 0x04 // STOS's REBOOT signal, recognized by the lexer, not here
	BS  = 0x08
	DEL = 0x7F
)

// IsErase reports whether b is a backspace/delete keystroke, which a
// terminal renders as a visual rub-out; original_source/stos.c's
// getch-level backspace check treats KEY_BACKSPACE, 0x7F, and 0x08
// interchangeably.
func IsErase(b byte) bool {
	return b == BS || b == DEL
}
