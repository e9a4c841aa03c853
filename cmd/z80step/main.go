// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command z80step steps Z80 assembly listings one instruction at a time.
package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ezrec/z80step/emulator"
	"github.com/ezrec/z80step/io"
)

// readListing loads a listing from a path, or from stdin for "-".
func readListing(path string) (lst *io.Listing, err error) {
	if path == "-" {
		lst = &io.Listing{Name: "<stdin>"}
		err = lst.Unmarshal(os.Stdin)
		return
	}

	return io.ReadListing(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// newEmulator loads a listing into a fresh emulator.
func newEmulator(path string, followJumps bool, verbose bool) (emu *emulator.Emulator, err error) {
	lst, err := readListing(path)
	if err != nil {
		return
	}

	emu = emulator.NewEmulator(emulator.NewProgram(lst))
	emu.FollowJumps = followJumps
	emu.Verbose = verbose

	return
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "z80step",
		Short:        "Step Z80 assembly listings one instruction at a time",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(stepCommand(), runCommand(), spansCommand())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
