package stos

import (
	"context"

	"github.com/virtualgrub39/stos/internal/flushio"
)

// PrimitiveFunc is a native word handler. It is invoked either directly
// by CALL-ID dispatch (non-immediate primitives reached by a user call)
// or by the compiler itself (IMMEDIATE primitives, during COMPILE-BODY).
type PrimitiveFunc func(vm *VM) error

// VM aggregates every piece of process-wide state spec.md's data model
// names: dictionary, bytecode store, the three stacks, variable space,
// string pool, and mode. This single struct replaces the original's package-level singletons,
// which makes REBOOT a plain re-initialization of one value instead of a
// scattered reset routine.
type VM struct {
	dict *Dictionary
	code *Code
	data *cellStack
	ret  *cellStack
	comp *cellStack
	vars *varSpace
	strs *stringPool
	lex  *Lexer
	mode Mode
	prev Mode

	prims   []PrimitiveFunc
	curWord WordID
	inDef   bool
	leaves  [][]int

	io    IOPort
	out   flushio.WriteFlusher
	logfn func(mess string, args ...interface{})
}

func newVM() *VM {
	vm := &VM{
		dict: newDictionary(),
		code: newCode(),
		data: newCellStack(DataStackSize, ErrDataStackOverflow, ErrDataStackUnderflow),
		ret:  newCellStack(ReturnStackSize, ErrReturnStackOverflow, ErrReturnStackUnderflow),
		comp: newCellStack(CompileStackSize, ErrCompileStackOverflow, ErrCompileStackUnderflow),
		vars: newVarSpace(),
		strs: newStringPool(),
		lex:  newLexer(),
		mode: Interpret,
		prev: Interpret,
	}
	return vm
}

// logf emits a step/trace message if a logger was wired via WithLogf; it
// is a no-op otherwise, mirroring the teacher's optional logfn field.
func (vm *VM) logf(mess string, args ...interface{}) {
	if vm.logfn != nil {
		vm.logfn(mess, args...)
	}
}

// Reboot performs the cold-start sequence of §6: empty stacks, reset the
// dictionary/bytecode/variable/string pools, return to INTERPRET, and
// re-register every primitive (which re-advances the emit pointer past
// their stub bodies).
func (vm *VM) Reboot() error {
	vm.data.Reset()
	vm.ret.Reset()
	vm.comp.Reset()
	vm.vars.Reset()
	vm.strs.Reset()
	vm.dict.Reset()
	vm.code.Reset()
	vm.mode = Interpret
	vm.prev = Interpret
	vm.inDef = false
	vm.leaves = nil
	return vm.registerPrimitives()
}

// exec runs word id to completion: if it is a primitive, the handler is
// invoked directly; otherwise the fetch-decode-dispatch loop runs from
// its code_off until a RET is reached with an empty return stack.
func (vm *VM) exec(ctx context.Context, id WordID) error {
	w := vm.dict.Word(id)
	if w.Primitive() {
		return vm.prims[w.PrimIndex](vm)
	}
	pc := w.CodeOff
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		op := Opcode(vm.code.readByte(pc))
		pc++
		switch op {
		case OpPushCell:
			v := vm.code.readCell(pc)
			pc += cellWidth
			if err := vm.data.Push(v); err != nil {
				return err
			}

		case OpPushString:
			n := vm.code.readSize(pc)
			pc += sizeWidth
			payload := vm.code.readBytes(pc, n)
			pc += n
			addr, err := vm.strs.Put(payload)
			if err != nil {
				return err
			}
			if err := vm.data.Push(Cell(addr)); err != nil {
				return err
			}
			if err := vm.data.Push(Cell(n)); err != nil {
				return err
			}

		case OpPrintStr:
			n := vm.code.readSize(pc)
			pc += sizeWidth
			payload := vm.code.readBytes(pc, n)
			pc += n
			if _, err := vm.out.Write(payload); err != nil {
				return err
			}

		case OpCallID:
			cid := WordID(vm.code.readSize(pc))
			pc += sizeWidth
			cw := vm.dict.Word(cid)
			if cw.Primitive() {
				if err := vm.prims[cw.PrimIndex](vm); err != nil {
					return err
				}
			} else {
				if err := vm.ret.Push(Cell(pc)); err != nil {
					return err
				}
				pc = cw.CodeOff
			}

		case OpRet:
			if vm.ret.Len() == 0 {
				return nil
			}
			r, err := vm.ret.Pop()
			if err != nil {
				return err
			}
			pc = int(r)

		case OpJmp:
			pc = vm.code.readSize(pc)

		case OpJz:
			target := vm.code.readSize(pc)
			pc += sizeWidth
			b, err := vm.data.Pop()
			if err != nil {
				return err
			}
			if b == 0 {
				pc = target
			}

		case OpJnz:
			target := vm.code.readSize(pc)
			pc += sizeWidth
			b, err := vm.data.Pop()
			if err != nil {
				return err
			}
			if b != 0 {
				pc = target
			}

		case OpDo:
			// "start limit DO": start is written first and sits deeper
			// on the data stack, limit second and on top -- popped limit
			// first, start second, per original_source/stos.c's
			// OPCODE_DO. start ends up on top of the return stack, where
			// LOOP/I read it as the running index.
			limit, err := vm.data.Pop()
			if err != nil {
				return err
			}
			start, err := vm.data.Pop()
			if err != nil {
				return err
			}
			if err := vm.ret.Push(limit); err != nil {
				return err
			}
			if err := vm.ret.Push(start); err != nil {
				return err
			}

		case OpLoop:
			target := vm.code.readSize(pc)
			pc += sizeWidth
			incr, err := vm.data.Pop()
			if err != nil {
				return err
			}
			index, err := vm.ret.Peek(0)
			if err != nil {
				return err
			}
			limit, err := vm.ret.Peek(1)
			if err != nil {
				return err
			}
			index += incr
			if index < limit {
				if err := vm.ret.Set(0, index); err != nil {
					return err
				}
				pc = target
			} else {
				if _, err := vm.ret.Pop(); err != nil {
					return err
				}
				if _, err := vm.ret.Pop(); err != nil {
					return err
				}
			}

		default:
			return codeError(pc)
		}
	}
}

// codeError reports bytecode malformation -- an opcode byte that isn't
// one of the ten defined above. This should be unreachable in practice
// since only the compiler emits bytecode, but guards against a corrupted
// store the same way the original's switch default does.
type codeError int

func (e codeError) Error() string { return "BAD OPCODE" }
