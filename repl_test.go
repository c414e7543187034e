package stos

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePort is a minimal in-memory IOPort: input drains from a byte slice,
// output accumulates in a buffer, and GetC reports io.EOF once the input
// is exhausted -- enough to drive Run(ctx) through a whole scripted
// session without a real terminal.
type fakePort struct {
	in  []byte
	pos int
	out bytes.Buffer
}

func newFakePort(script string) *fakePort { return &fakePort{in: []byte(script)} }

func (p *fakePort) Preinit() error { return nil }

func (p *fakePort) GetC() (byte, error) {
	if p.pos >= len(p.in) {
		return 0, io.EOF
	}
	b := p.in[p.pos]
	p.pos++
	return b, nil
}

func (p *fakePort) PutC(b byte) error {
	p.out.WriteByte(b)
	return nil
}

func runScript(t *testing.T, script string) (*VM, string) {
	t.Helper()
	port := newFakePort(script)
	vm, err := New(WithIO(port))
	require.NoError(t, err)
	require.NoError(t, vm.Run(context.Background()))
	return vm, port.out.String()
}

func TestRepl_CleanLine(t *testing.T) {
	_, out := runScript(t, "1 2 + .\n")
	assert.Contains(t, out, "3 ")
}

func TestRepl_LineTooLong(t *testing.T) {
	_, out := runScript(t, strings.Repeat("a", InputAccumulatorLen-1))
	assert.Contains(t, out, "ERR. "+string(ErrLineTooLong))
}

func TestRepl_ColonDefinitionRollsBackOnError(t *testing.T) {
	vm, out := runScript(t, ": foo dup bogusword ;\nfoo\n")
	assert.Contains(t, out, "ERR. "+string(ErrInvalidWord))
	_, ok := vm.dict.Lookup("foo")
	assert.False(t, ok, "foo should have been rolled back, not left half-defined")
}

func TestRepl_MultiLineDefinitionRollsBackOnLaterLine(t *testing.T) {
	vm, out := runScript(t, ": bar\nbogusword ;\nbar\n")
	assert.Contains(t, out, "ERR. "+string(ErrInvalidWord))
	_, ok := vm.dict.Lookup("bar")
	assert.False(t, ok)
}

func TestRepl_SuccessfulDefinitionSurvives(t *testing.T) {
	vm, out := runScript(t, ": double dup + ;\n3 double .\n")
	_, ok := vm.dict.Lookup("double")
	assert.True(t, ok)
	assert.Contains(t, out, "6 ")
}

func TestRepl_Reboot(t *testing.T) {
	_, out := runScript(t, ": foo 1 ;\n\x04foo\n")
	assert.Equal(t, 2, strings.Count(out, "READY"))
	assert.Contains(t, out, "ERR. "+string(ErrInvalidWord))
}
