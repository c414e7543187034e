package stos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVM_NestedUserWordCalls(t *testing.T) {
	vm, port := newRunnableVM(t)
	require.NoError(t, run(t, vm, ": inner 1 + ;"))
	require.NoError(t, run(t, vm, ": outer inner inner ;"))
	require.NoError(t, run(t, vm, "10 outer ."))
	assert.Contains(t, flushed(t, vm, port), "12 ")
}

func TestVM_RecursiveWordUnwindsReturnStack(t *testing.T) {
	vm, port := newRunnableVM(t)
	require.NoError(t, run(t, vm, ": fact dup 1 <= if drop 1 exit then dup 1 - recurse * ;"))
	require.NoError(t, run(t, vm, "5 fact ."))
	assert.Contains(t, flushed(t, vm, port), "120 ")
	assert.Equal(t, 0, vm.ret.Len())
}

func TestVM_ContextCancellationAbortsExec(t *testing.T) {
	vm, _ := newRunnableVM(t)
	require.NoError(t, run(t, vm, ": spin begin again ;"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	id, ok := vm.dict.Lookup("spin")
	require.True(t, ok)
	err := vm.exec(ctx, id)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVM_BadOpcodeIsReported(t *testing.T) {
	vm, _ := newRunnableVM(t)
	id, err := vm.dict.Create("junk", 0, vm.code.Emit())
	require.NoError(t, err)
	require.NoError(t, vm.code.writeByte(0xFF))
	vm.dict.Finish(id, vm.code.Emit())

	err = vm.exec(context.Background(), id)
	var ce codeError
	assert.ErrorAs(t, err, &ce)
}

func TestVM_Reboot(t *testing.T) {
	vm, _ := newRunnableVM(t)
	require.NoError(t, run(t, vm, ": foo 1 ;"))
	require.NoError(t, vm.data.Push(9))

	require.NoError(t, vm.Reboot())

	_, ok := vm.dict.Lookup("foo")
	assert.False(t, ok, "reboot must reset the dictionary back to only primitives")
	assert.Equal(t, 0, vm.data.Len())
	assert.Equal(t, Interpret, vm.mode)
}

func TestVM_ExecDispatchesPrimitiveDirectly(t *testing.T) {
	vm, _ := newRunnableVM(t)
	id, ok := vm.dict.Lookup("+")
	require.True(t, ok)
	require.NoError(t, vm.data.Push(2))
	require.NoError(t, vm.data.Push(3))
	require.NoError(t, vm.exec(context.Background(), id))
	v, err := vm.data.Pop()
	require.NoError(t, err)
	assert.Equal(t, Cell(5), v)
}
