package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ezrec/z80step/emulator"
)

const (
	KEY_CTRL_C = 0x03
	KEY_CTRL_D = 0x04
)

func stepCommand() *cobra.Command {
	var followJumps bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "step <listing.asm>",
		Short: "Step through a listing interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			emu, err := newEmulator(args[0], followJumps, verbose)
			if err != nil {
				return err
			}
			return interact(emu)
		},
	}
	cmd.Flags().BoolVar(&followJumps, "follow-jumps", false, "Move the cursor on jp, jr, call, djnz and ret")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

// interact runs the key loop: s, space or enter steps, r resets, q quits.
func interact(emu *emulator.Emulator) (err error) {
	fd := int(os.Stdin.Fd())

	if term.IsTerminal(fd) {
		var oldState *term.State
		oldState, err = term.MakeRaw(fd)
		if err != nil {
			return
		}
		defer func() {
			_ = term.Restore(fd, oldState)
		}()
	}

	rows := func() int {
		_, height, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			return 0
		}
		return height
	}

	buf := make([]byte, 1)
	for {
		render(os.Stdout, emu, rows())

		_, err = os.Stdin.Read(buf)
		if err != nil {
			// End of input is a quit.
			err = nil
			return
		}

		switch buf[0] {
		case 's', ' ', '\r', '\n':
			// Diagnostics are shown from emu.Message().
			_, _ = emu.Step()
		case 'r':
			emu.Reset()
		case 'q', KEY_CTRL_C, KEY_CTRL_D:
			return
		default:
			if emu.Verbose {
				log.Printf("z80step: key %q ignored", buf[0])
			}
		}
	}
}
