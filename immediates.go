package stos

// This file holds every primitive whose job is to shape compilation
// itself: the colon-definition words, the structured control-flow
// words, and the two string-literal words whose behavior depends on the
// current mode. All are grounded on original_source/stos.c's
// prim_if/prim_else/.../prim_squote family; see DESIGN.md.

func primColon(vm *VM) error {
	vm.setMode(CompileName)
	return nil
}

func primSemi(vm *VM) error {
	if vm.mode != CompileBody {
		return errOutsideDefinition(";")
	}
	if vm.comp.Len() != 0 {
		return ErrUnbalancedControl
	}
	if err := vm.code.EmitRet(); err != nil {
		return err
	}
	vm.endWord(vm.code.Emit())
	vm.mode = vm.prev
	vm.prev = Interpret
	return nil
}

func primIf(vm *VM) error {
	if err := vm.requireCompiling("IF"); err != nil {
		return err
	}
	off, err := vm.code.EmitJmp(OpJz, 0)
	if err != nil {
		return err
	}
	return vm.comp.Push(Cell(off))
}

func primElse(vm *VM) error {
	if err := vm.requireCompiling("ELSE"); err != nil {
		return err
	}
	ifAddr, err := vm.comp.Pop()
	if err != nil {
		return err
	}
	off, err := vm.code.EmitJmp(OpJmp, 0)
	if err != nil {
		return err
	}
	if err := vm.comp.Push(Cell(off)); err != nil {
		return err
	}
	vm.code.PatchSize(int(ifAddr), vm.code.Emit())
	return nil
}

func primThen(vm *VM) error {
	if err := vm.requireCompiling("THEN"); err != nil {
		return err
	}
	addr, err := vm.comp.Pop()
	if err != nil {
		return err
	}
	vm.code.PatchSize(int(addr), vm.code.Emit())
	return nil
}

func primBegin(vm *VM) error {
	if err := vm.requireCompiling("BEGIN"); err != nil {
		return err
	}
	return vm.comp.Push(Cell(vm.code.Emit()))
}

func primUntil(vm *VM) error {
	if err := vm.requireCompiling("UNTIL"); err != nil {
		return err
	}
	begin, err := vm.comp.Pop()
	if err != nil {
		return err
	}
	_, err = vm.code.EmitJmp(OpJz, int(begin))
	return err
}

func primWhile(vm *VM) error {
	if err := vm.requireCompiling("WHILE"); err != nil {
		return err
	}
	off, err := vm.code.EmitJmp(OpJz, 0)
	if err != nil {
		return err
	}
	return vm.comp.Push(Cell(off))
}

func primRepeat(vm *VM) error {
	if err := vm.requireCompiling("REPEAT"); err != nil {
		return err
	}
	whileAddr, err := vm.comp.Pop()
	if err != nil {
		return err
	}
	beginAddr, err := vm.comp.Pop()
	if err != nil {
		return err
	}
	if _, err := vm.code.EmitJmp(OpJmp, int(beginAddr)); err != nil {
		return err
	}
	vm.code.PatchSize(int(whileAddr), vm.code.Emit())
	return nil
}

func primAgain(vm *VM) error {
	if err := vm.requireCompiling("AGAIN"); err != nil {
		return err
	}
	loopStart, err := vm.comp.Pop()
	if err != nil {
		return err
	}
	_, err = vm.code.EmitJmp(OpJmp, int(loopStart))
	return err
}

func primDo(vm *VM) error {
	if err := vm.requireCompiling("DO"); err != nil {
		return err
	}
	if err := vm.code.EmitDo(); err != nil {
		return err
	}
	vm.leaves = append(vm.leaves, nil)
	return vm.comp.Push(Cell(vm.code.Emit()))
}

func primLoop(vm *VM) error {
	if err := vm.requireCompiling("LOOP"); err != nil {
		return err
	}
	if err := vm.code.EmitPushCell(1); err != nil {
		return err
	}
	addr, err := vm.comp.Pop()
	if err != nil {
		return err
	}
	if _, err := vm.code.EmitLoop(int(addr)); err != nil {
		return err
	}
	vm.patchLeaves()
	return nil
}

func primPlusLoop(vm *VM) error {
	if err := vm.requireCompiling("+LOOP"); err != nil {
		return err
	}
	addr, err := vm.comp.Pop()
	if err != nil {
		return err
	}
	if _, err := vm.code.EmitLoop(int(addr)); err != nil {
		return err
	}
	vm.patchLeaves()
	return nil
}

// patchLeaves resolves every pending LEAVE jump registered against the
// innermost open DO against the instruction right after the loop just
// closed by LOOP/+LOOP.
func (vm *VM) patchLeaves() {
	n := len(vm.leaves) - 1
	sites := vm.leaves[n]
	vm.leaves = vm.leaves[:n]
	target := vm.code.Emit()
	for _, off := range sites {
		vm.code.PatchSize(off, target)
	}
}

// primLeave compiles an unconditional jump to just past the innermost
// open DO/LOOP, registered for patchLeaves to resolve once that loop's
// closing LOOP/+LOOP is compiled -- spec.md §9's suggested addition,
// absent from the original.
func primLeave(vm *VM) error {
	if err := vm.requireCompiling("LEAVE"); err != nil {
		return err
	}
	if len(vm.leaves) == 0 {
		return errOutsideDefinition("LEAVE")
	}
	fromR, ok := vm.dict.Lookup("r>")
	if !ok {
		return ErrInvalidWord
	}
	drop, ok := vm.dict.Lookup("drop")
	if !ok {
		return ErrInvalidWord
	}
	// Discard the loop's (limit, index) return-stack pair before jumping
	// out, since the jump bypasses LOOP's own pop of those two cells.
	for i := 0; i < 2; i++ {
		if err := vm.code.EmitCallID(fromR); err != nil {
			return err
		}
		if err := vm.code.EmitCallID(drop); err != nil {
			return err
		}
	}
	off, err := vm.code.EmitJmp(OpJmp, 0)
	if err != nil {
		return err
	}
	n := len(vm.leaves) - 1
	vm.leaves[n] = append(vm.leaves[n], off)
	return nil
}

func primRecurse(vm *VM) error {
	if err := vm.requireCompiling("RECURSE"); err != nil {
		return err
	}
	return vm.code.EmitCallID(vm.curWord)
}

func primExit(vm *VM) error {
	if err := vm.requireCompiling("EXIT"); err != nil {
		return err
	}
	return vm.code.EmitRet()
}

func primPutStr(vm *VM) error {
	if err := vm.requireCompiling(`."`); err != nil {
		return err
	}
	s, err := vm.lex.ReadQuoted()
	if err != nil {
		return err
	}
	return vm.code.EmitPrintStr([]byte(s))
}

// primSQuote implements S": in INTERPRET it materializes the string into
// the pool immediately and pushes (addr, len); in COMPILE-BODY it emits
// PUSH-STRING so the same copy-into-pool step runs at call time.
func primSQuote(vm *VM) error {
	s, err := vm.lex.ReadQuoted()
	if err != nil {
		return err
	}
	if vm.mode == Interpret {
		addr, err := vm.strs.Put([]byte(s))
		if err != nil {
			return err
		}
		if err := vm.data.Push(Cell(addr)); err != nil {
			return err
		}
		return vm.data.Push(Cell(len(s)))
	}
	return vm.code.EmitPushString([]byte(s))
}

func primVariable(vm *VM) error {
	if err := vm.requireInterpreting("VARIABLE"); err != nil {
		return err
	}
	name, err := vm.readNameToken()
	if err != nil {
		return err
	}
	addr, err := vm.vars.Allot(cellWidth)
	if err != nil {
		return err
	}
	id, err := vm.dict.Create(name, 0, vm.code.Emit())
	if err != nil {
		return err
	}
	vm.beginWord(id)
	if err := vm.code.EmitPushCell(Cell(addr)); err != nil {
		return err
	}
	if err := vm.code.EmitRet(); err != nil {
		return err
	}
	vm.endWord(vm.code.Emit())
	return nil
}

func primConstant(vm *VM) error {
	if err := vm.requireInterpreting("CONSTANT"); err != nil {
		return err
	}
	v, err := vm.data.Pop()
	if err != nil {
		return err
	}
	name, err := vm.readNameToken()
	if err != nil {
		return err
	}
	id, err := vm.dict.Create(name, 0, vm.code.Emit())
	if err != nil {
		return err
	}
	vm.beginWord(id)
	if err := vm.code.EmitPushCell(v); err != nil {
		return err
	}
	if err := vm.code.EmitRet(); err != nil {
		return err
	}
	vm.endWord(vm.code.Emit())
	return nil
}

func primCreate(vm *VM) error {
	if err := vm.requireInterpreting("CREATE"); err != nil {
		return err
	}
	name, err := vm.readNameToken()
	if err != nil {
		return err
	}
	addr := vm.vars.bp
	id, err := vm.dict.Create(name, 0, vm.code.Emit())
	if err != nil {
		return err
	}
	vm.beginWord(id)
	if err := vm.code.EmitPushCell(Cell(addr)); err != nil {
		return err
	}
	if err := vm.code.EmitRet(); err != nil {
		return err
	}
	vm.endWord(vm.code.Emit())
	return nil
}

func primAllot(vm *VM) error {
	if err := vm.requireInterpreting("ALLOT"); err != nil {
		return err
	}
	n, err := vm.data.Pop()
	if err != nil {
		return err
	}
	_, err = vm.vars.Allot(int(n))
	return err
}
