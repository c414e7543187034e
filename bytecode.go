package stos

import "encoding/binary"

// Opcode is the one-byte instruction tag. Multi-byte operands that follow
// an opcode are always little-endian.
type Opcode uint8

const (
	OpPushCell Opcode = iota
	OpPushString
	OpPrintStr
	OpCallID
	OpRet
	OpJmp
	OpJz
	OpJnz
	OpDo
	OpLoop
)

// sizeWidth is the width, in bytes, of a "size" operand (dictionary IDs
// and bytecode offsets). cellWidth is the width of a "cell" operand.
// Both are fixed within a build, per spec.md §4.3.
const (
	sizeWidth = 4
	cellWidth = 8
)

// Code is the flat, fixed-capacity bytecode store with a single
// monotonically advancing emit pointer.
type Code struct {
	buf  []byte
	emit int
}

func newCode() *Code {
	return &Code{buf: make([]byte, BytecodeSize)}
}

func (c *Code) Emit() int { return c.emit }

func (c *Code) Rewind(to int) { c.emit = to }

func (c *Code) Reset() { c.emit = 0 }

func (c *Code) room(n int) bool { return c.emit+n <= len(c.buf) }

func (c *Code) writeByte(b byte) error {
	if !c.room(1) {
		return ErrBytecodeAtCapacity
	}
	c.buf[c.emit] = b
	c.emit++
	return nil
}

func (c *Code) writeSize(v int) error {
	if !c.room(sizeWidth) {
		return ErrBytecodeAtCapacity
	}
	binary.LittleEndian.PutUint32(c.buf[c.emit:], uint32(v))
	c.emit += sizeWidth
	return nil
}

func (c *Code) writeCell(v Cell) error {
	if !c.room(cellWidth) {
		return ErrBytecodeAtCapacity
	}
	binary.LittleEndian.PutUint64(c.buf[c.emit:], uint64(v))
	c.emit += cellWidth
	return nil
}

func (c *Code) writeBytes(b []byte) error {
	if !c.room(len(b)) {
		return ErrBytecodeAtCapacity
	}
	copy(c.buf[c.emit:], b)
	c.emit += len(b)
	return nil
}

// PatchSize overwrites a previously-emitted size operand at byte offset
// off, for backpatching forward jumps.
func (c *Code) PatchSize(off int, v int) {
	binary.LittleEndian.PutUint32(c.buf[off:], uint32(v))
}

func (c *Code) readByte(pc int) byte { return c.buf[pc] }

func (c *Code) readSize(pc int) int {
	return int(binary.LittleEndian.Uint32(c.buf[pc:]))
}

func (c *Code) readCell(pc int) Cell {
	return Cell(binary.LittleEndian.Uint64(c.buf[pc:]))
}

func (c *Code) readBytes(pc, n int) []byte {
	return c.buf[pc : pc+n]
}

// Emit helpers used by the compiler and primitive registration.

func (c *Code) EmitPushCell(v Cell) error {
	if err := c.writeByte(byte(OpPushCell)); err != nil {
		return err
	}
	return c.writeCell(v)
}

func (c *Code) EmitPushString(s []byte) error {
	if err := c.writeByte(byte(OpPushString)); err != nil {
		return err
	}
	if err := c.writeSize(len(s)); err != nil {
		return err
	}
	return c.writeBytes(s)
}

func (c *Code) EmitPrintStr(s []byte) error {
	if err := c.writeByte(byte(OpPrintStr)); err != nil {
		return err
	}
	if err := c.writeSize(len(s)); err != nil {
		return err
	}
	return c.writeBytes(s)
}

func (c *Code) EmitCallID(id WordID) error {
	if err := c.writeByte(byte(OpCallID)); err != nil {
		return err
	}
	return c.writeSize(int(id))
}

func (c *Code) EmitRet() error { return c.writeByte(byte(OpRet)) }

// EmitJmp emits the jump opcode op (JMP, JZ or JNZ) with target as its
// operand and returns the offset of that operand, so a placeholder target
// can be fixed later with PatchSize.
func (c *Code) EmitJmp(op Opcode, target int) (operandOff int, err error) {
	if err = c.writeByte(byte(op)); err != nil {
		return 0, err
	}
	operandOff = c.emit
	return operandOff, c.writeSize(target)
}

func (c *Code) EmitDo() error { return c.writeByte(byte(OpDo)) }

func (c *Code) EmitLoop(target int) (operandOff int, err error) {
	if err = c.writeByte(byte(OpLoop)); err != nil {
		return 0, err
	}
	operandOff = c.emit
	return operandOff, c.writeSize(target)
}
