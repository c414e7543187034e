package stos

import (
	"context"
	"io"
)

// Prompt returns the REPL's current prompt string, per spec.md §6.
func (vm *VM) Prompt() string {
	if vm.mode == Interpret {
		return "STOS>> "
	}
	return "....>> "
}

// repl is the top-level loop: print a prompt, read a line, lex and
// execute its tokens until EOE or an error, report any error, and loop.
// It runs until the I/O port's GetC returns io.EOF.
func (vm *VM) repl(ctx context.Context) error {
	if err := vm.io.Preinit(); err != nil {
		return err
	}
	vm.banner()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := vm.out.Write([]byte(vm.Prompt())); err != nil {
			return err
		}

		line, err := vm.readLine()
		if err == io.EOF {
			vm.out.Flush()
			return nil
		}
		if err != nil {
			vm.reportError(err)
			continue
		}
		if line == "" {
			continue
		}

		if err := vm.runLine(ctx, line); err == errReboot {
			if err := vm.Reboot(); err != nil {
				return err
			}
			vm.banner()
		} else if err != nil {
			vm.reportError(err)
		}
	}
}

// runLine lexes and dispatches every token on line. On any failure it
// undoes exactly the word under construction, if any -- per DESIGN.md's
// generalization of spec.md §9's partial-compile rollback fix to cover
// VARIABLE/CONSTANT/CREATE as well as colon definitions. A definition
// begun on an earlier line and still open when this line fails is rolled
// back the same way, which is why the rewind target is the word's own
// code_off (tracked via beginWord/Dictionary.Create) rather than this
// line's starting emit pointer.
func (vm *VM) runLine(ctx context.Context, line string) error {
	vm.lex.Reset(line)
	for {
		tok := vm.lex.Next()
		if tok.Kind == TokReboot {
			return errReboot
		}
		if tok.Kind == TokEOE {
			return nil
		}
		if err := vm.Dispatch(ctx, tok); err != nil {
			if vm.inDef {
				vm.code.Rewind(vm.dict.Word(vm.curWord).CodeOff)
				vm.dict.Rollback(vm.curWord)
				vm.inDef = false
			}
			vm.mode = Interpret
			vm.prev = Interpret
			vm.leaves = nil
			vm.comp.Reset()
			return err
		}
	}
}

// readLine accumulates one line from the I/O port, byte by byte, per
// original_source/stos.c's stos_readline: most control bytes (0-2, 5-7,
// 14-31) are silently discarded, backspace erases the previously
// accumulated byte, Ctrl-C/Ctrl-D (3 or 4) abandons whatever has been
// typed so far and returns the line "\x04" for the lexer to recognize as
// REBOOT (see lexer.go's classify), and everything else -- including
// tab/FF/VT, which the lexer's own whitespace rule separates out later --
// is appended as-is. Once the accumulator would overflow
// InputAccumulatorLen-1, the line fails with LINE TOO LONG without
// reading (or discarding) any further bytes.
func (vm *VM) readLine() (string, error) {
	if err := vm.out.Flush(); err != nil {
		return "", err
	}
	var buf []byte
	for {
		if len(buf) == InputAccumulatorLen-1 {
			return "", ErrLineTooLong
		}
		b, err := vm.io.GetC()
		if err != nil {
			return "", err
		}
		switch {
		case b <= 2, b >= 5 && b <= 7, b >= 14 && b <= 31:
			// discarded
		case b == 3 || b == 4:
			return "\x04", nil
		case b == '\r' || b == '\n':
			return string(buf), nil
		case b == '\b':
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
			}
		default:
			buf = append(buf, b)
		}
	}
}

func (vm *VM) reportError(err error) {
	vm.out.Write([]byte("ERR. " + err.Error() + "\r\n"))
	vm.logf("ERROR %v", err)
}

func (vm *VM) banner() {
	vm.out.Write([]byte("STOS, Copyright (C) 2025 virtualgrub39\r\nREADY\r\n"))
}

// rebootError is a sentinel distinguishing the REBOOT token from an
// ordinary error condition -- it is never shown to the user via "ERR. ".
type rebootError struct{}

func (rebootError) Error() string { return "REBOOT" }

var errReboot error = rebootError{}
