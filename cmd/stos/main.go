// Command stos is the STOS front end: an interactive REPL over a raw
// terminal, or a non-interactive runner over a script file or piped
// stdin.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/virtualgrub39/stos"
	"github.com/virtualgrub39/stos/internal/logio"
	"github.com/virtualgrub39/stos/internal/termio"
)

var (
	trace   bool
	timeout time.Duration
)

func main() {
	log := &logio.Logger{}
	log.SetOutput(os.Stderr)
	defer func() { os.Exit(log.ExitCode()) }()

	root := &cobra.Command{
		Use:   "stos",
		Short: "STOS is a small FORTH-like interpreter",
	}
	root.PersistentFlags().BoolVar(&trace, "trace", false, "log every word dispatched")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 0, "abort after the given duration")

	root.AddCommand(replCmd(log), runCmd(log), dumpCmd(log))

	if err := root.Execute(); err != nil {
		log.ErrorIf(err)
	}
}

func replCmd(log *logio.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "start an interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdin.Fd()) {
				port := termio.NewScript(os.Stdin, os.Stdout)
				return runWithContext(log, func(ctx context.Context) error {
					return newVM(log, port).Run(ctx)
				})
			}
			term := termio.NewTerminal(os.Stdin, os.Stdout)
			return runWithContext(log, func(ctx context.Context) error {
				if err := term.Preinit(); err != nil {
					return err
				}
				defer term.Restore()
				return newVM(log, term).Run(ctx)
			})
		},
	}
}

func runCmd(log *logio.Logger) *cobra.Command {
	var noRepl bool
	cmd := &cobra.Command{
		Use:   "run <file> [<file>...]",
		Short: "execute one or more script files, then fall back to stdin",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			readers := make([]io.Reader, 0, len(args)+1)
			for _, name := range args {
				f, err := os.Open(name)
				if err != nil {
					return err
				}
				defer f.Close()
				readers = append(readers, f)
			}
			if !noRepl {
				readers = append(readers, os.Stdin)
			}
			port := termio.NewScript(io.MultiReader(readers...), os.Stdout)
			return runWithContext(log, func(ctx context.Context) error {
				return newVM(log, port).Run(ctx)
			})
		},
	}
	cmd.Flags().BoolVar(&noRepl, "no-repl", false, "exit after the given files instead of falling back to stdin")
	return cmd
}

func dumpCmd(log *logio.Logger) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "run a script and print the final dictionary",
		RunE: func(cmd *cobra.Command, args []string) error {
			var port stos.IOPort
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				port = termio.NewScript(f, os.Stdout)
			} else {
				port = termio.NewScript(os.Stdin, os.Stdout)
			}
			vm := newVM(log, port)
			err := runWithContext(log, func(ctx context.Context) error {
				return vm.Run(ctx)
			})
			fmt.Println("WORDS:", vm.Words())
			return err
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "script to run before dumping (default stdin)")
	return cmd
}

func newVM(log *logio.Logger, port stos.IOPort) *stos.VM {
	opts := []stos.Option{stos.WithIO(port)}
	if trace {
		opts = append(opts, stos.WithLogf(log.Leveledf("TRACE")))
	}
	vm, err := stos.New(opts...)
	if err != nil {
		// Reboot only fails if a primitive can't register, which means the
		// build's fixed capacities (stos.BytecodeSize, stos.MaxWords, ...)
		// are too small for the primitive table itself -- a build-time
		// misconfiguration, not a runtime condition callers can recover from.
		log.Printf("ERROR", "%v", err)
		os.Exit(log.ExitCode())
	}
	return vm
}

func runWithContext(log *logio.Logger, f func(ctx context.Context) error) error {
	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return f(ctx)
}
