package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ezrec/z80step/emulator"
	"github.com/ezrec/z80step/script"
)

// batch holds the settings of a run over several listings.
type batch struct {
	FollowJumps bool
	Verbose     bool
	Steps       int
	Script      string // Lua source; empty to just run.
	Workers     int
}

func runCommand() *cobra.Command {
	var b batch
	var scriptPath string

	cmd := &cobra.Command{
		Use:   "run <listing.asm>...",
		Short: "Run listings to completion, in parallel, and report the final state",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(scriptPath) != 0 {
				source, err := os.ReadFile(scriptPath)
				if err != nil {
					return err
				}
				b.Script = string(source)
			}
			return b.run(cmd.Context(), os.Stdout, args)
		},
	}
	cmd.Flags().BoolVar(&b.FollowJumps, "follow-jumps", false, "Move the cursor on jp, jr, call, djnz and ret")
	cmd.Flags().BoolVarP(&b.Verbose, "verbose", "v", false, "Verbose output")
	cmd.Flags().IntVar(&b.Steps, "steps", 100000, "Maximum instructions per listing (0 = no limit)")
	cmd.Flags().StringVar(&scriptPath, "script", "", "Lua script that drives each listing")
	cmd.Flags().IntVar(&b.Workers, "workers", 0, "Listings run at once (0 = NumCPU)")

	return cmd
}

// run steps every listing, each in its own emulator, and writes the reports
// in argument order.
func (b *batch) run(ctx context.Context, w io.Writer, paths []string) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	workers := b.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	reports := make([]bytes.Buffer, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for n, path := range paths {
		g.Go(func() error {
			return b.runOne(ctx, &reports[n], path)
		})
	}
	err = g.Wait()

	for n := range reports {
		_, werr := reports[n].WriteTo(w)
		if err == nil {
			err = werr
		}
	}

	return
}

// runOne steps a single listing and writes its report.
func (b *batch) runOne(ctx context.Context, w io.Writer, path string) (err error) {
	emu, err := newEmulator(path, b.FollowJumps, b.Verbose)
	if err != nil {
		return
	}

	fmt.Fprintf(w, "== %v\n", path)

	if len(b.Script) != 0 {
		sc := &script.Script{Name: path, Source: b.Script, Output: w}
		err = sc.Run(ctx, emu)
		if err != nil {
			return
		}
	} else {
		_, rerr := emu.RunContext(ctx, b.Steps)
		if cerr := ctx.Err(); cerr != nil {
			err = cerr
			return
		}
		if rerr != nil {
			fmt.Fprintln(w, rerr)
		}
	}

	report(w, emu)

	return
}

// report writes the final state of an emulator.
func report(w io.Writer, emu *emulator.Emulator) {
	fmt.Fprintf(w, "%v at line %d after %d steps\n", emu.Status(), emu.LineNo(), emu.Steps())
	fmt.Fprint(w, emu.Machine.String())
	for name, value := range emu.Symbols.All() {
		fmt.Fprintf(w, "%v = 0x%x\n", name, value)
	}
}
