package stos

import "context"

// Dispatch routes one lexed token through the mode-dependent compiler,
// per spec.md §4.4/§4.5. REBOOT tokens are handled by the caller (the
// REPL loop) before reaching here, since they short-circuit every mode.
func (vm *VM) Dispatch(ctx context.Context, tok Token) error {
	if tok.Kind == TokWord {
		vm.logf("%s %s", vm.mode, tok.Text)
	}
	switch vm.mode {
	case Interpret:
		return vm.dispatchInterpret(ctx, tok)
	case CompileName:
		return vm.dispatchCompileName(tok)
	case CompileBody:
		return vm.dispatchCompileBody(ctx, tok)
	default:
		return nil
	}
}

func (vm *VM) dispatchInterpret(ctx context.Context, tok Token) error {
	switch tok.Kind {
	case TokNumber:
		return vm.data.Push(tok.Value)
	case TokWord:
		id, ok := vm.dict.Lookup(tok.Text)
		if !ok {
			return ErrInvalidWord
		}
		return vm.exec(ctx, id)
	default: // TokEOE
		return nil
	}
}

func (vm *VM) dispatchCompileName(tok Token) error {
	if tok.Kind != TokWord {
		return ErrUnexpectedTokenAfterDef
	}
	id, err := vm.dict.Create(tok.Text, 0, vm.code.Emit())
	if err != nil {
		return err
	}
	vm.beginWord(id)
	// Not setMode: prev must keep the mode that was active before ":", so
	// that ";" can return to it.
	vm.mode = CompileBody
	return nil
}

// beginWord marks id as the word currently under construction, so that a
// later failure anywhere before its matching endWord (";" for a colon
// definition, or the tail of VARIABLE/CONSTANT/CREATE) rewinds the
// bytecode store to its code_off and removes the dictionary entry --
// the generic form of spec.md §9's partial-compile rollback fix.
func (vm *VM) beginWord(id WordID) {
	vm.curWord = id
	vm.inDef = true
}

func (vm *VM) endWord(emitPtr int) {
	vm.dict.Finish(vm.curWord, emitPtr)
	vm.inDef = false
}

func (vm *VM) dispatchCompileBody(ctx context.Context, tok Token) error {
	switch tok.Kind {
	case TokNumber:
		return vm.code.EmitPushCell(tok.Value)
	case TokWord:
		id, ok := vm.dict.Lookup(tok.Text)
		if !ok {
			return ErrInvalidWord
		}
		w := vm.dict.Word(id)
		if w.Immediate() && w.Primitive() {
			return vm.prims[w.PrimIndex](vm)
		}
		return vm.code.EmitCallID(id)
	default: // TokEOE: compilation spans lines until ";" fires
		return nil
	}
}

// setMode transitions mode, keeping the one-step previous-mode slot
// current so primitives like ";" can restore whatever mode was active
// before the definition began, rather than hardcoding INTERPRET.
func (vm *VM) setMode(m Mode) {
	vm.prev = vm.mode
	vm.mode = m
}

// The helpers below back the mode checks and name-argument parsing of the
// primitives in immediates.go.

func (vm *VM) requireCompiling(word string) error {
	if vm.mode != CompileBody {
		return errOutsideDefinition(word)
	}
	return nil
}

func (vm *VM) requireInterpreting(word string) error {
	if vm.mode != Interpret {
		return errInDefinition(word)
	}
	return nil
}

// readNameToken pulls the next raw token directly from the lexer (not
// through Dispatch), for words like VARIABLE/CONSTANT/CREATE that
// consume their own name argument rather than waiting for the next
// REPL-fed token.
func (vm *VM) readNameToken() (string, error) {
	tok := vm.lex.Next()
	if tok.Kind != TokWord {
		return "", ErrExpectedWordAfter
	}
	return tok.Text, nil
}
