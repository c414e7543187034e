package stos

import (
	"context"
	"fmt"
	"io"

	"github.com/virtualgrub39/stos/internal/flushio"
)

// New constructs a VM, applies the given options, and performs the
// cold-start sequence of §6 (equivalent to the original's stos_init).
func New(opts ...Option) (*VM, error) {
	vm := newVM()
	Options(opts...).apply(vm)
	if vm.io == nil {
		vm.io = &nullPort{}
	}
	if vm.out == nil {
		vm.out = flushio.NewWriteFlusher(portWriter{vm.io})
	}
	if err := vm.Reboot(); err != nil {
		return nil, err
	}
	return vm, nil
}

// Run drives the REPL loop to completion (until the port's GetC returns
// io.EOF), recovering any panic that escapes a primitive so a bug there
// surfaces as an error instead of taking down the host process.
func (vm *VM) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = condError(fmt.Sprintf("INTERNAL ERROR: %v", r))
		}
	}()
	err = vm.repl(ctx)
	if err == nil || err == io.EOF {
		return nil
	}
	return err
}

// Words returns every registered dictionary name, in insertion order --
// the same listing the WORDS primitive prints, exposed for host programs
// like the stos dump subcommand.
func (vm *VM) Words() []string { return vm.dict.Names() }

// Option configures a VM at construction time, in the style of the
// teacher's VMOption/options/noption pattern.
type Option interface{ apply(vm *VM) }

type noption struct{}

func (noption) apply(*VM) {}

type options []Option

func (opts options) apply(vm *VM) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(vm)
		}
	}
}

// Options flattens and normalizes a list of options, discarding nils.
func Options(opts ...Option) Option {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil, noption:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	switch len(res) {
	case 0:
		return noption{}
	case 1:
		return res[0]
	default:
		return res
	}
}

type ioOption struct{ IOPort }

// WithIO installs the character I/O port the REPL reads from and writes
// to (internal/termio.Terminal or internal/termio.Script, typically).
func WithIO(p IOPort) Option { return ioOption{p} }

func (o ioOption) apply(vm *VM) { vm.io = o.IOPort }

type logOption func(mess string, args ...interface{})

// WithLogf installs a step/trace logging sink; nil (the default) makes
// logf a no-op.
func WithLogf(fn func(mess string, args ...interface{})) Option { return logOption(fn) }

func (o logOption) apply(vm *VM) { vm.logfn = o }

// nullPort is the zero-value I/O port: every read is an immediate EOF
// and every write is discarded, matching the teacher's own
// bytes.NewReader(nil)/ioutil.Discard default options.
type nullPort struct{}

func (p *nullPort) GetC() (byte, error) { return 0, io.EOF }
func (p *nullPort) PutC(byte) error     { return nil }
func (p *nullPort) Preinit() error      { return nil }
