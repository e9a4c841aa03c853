package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezrec/z80step/emulator"
)

func spansCommand() *cobra.Command {
	var plain bool
	var labels bool

	cmd := &cobra.Command{
		Use:   "spans <listing.asm>",
		Short: "Print a listing with its syntax spans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lst, err := readListing(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, text := range lst.Lines {
				if plain {
					fmt.Fprintln(out, tagLine(text))
				} else {
					fmt.Fprintln(out, colourLine(text))
				}
			}

			if labels {
				prog := emulator.NewProgram(lst)
				for name, n := range prog.Labels() {
					fmt.Fprintf(out, "%v\t%d\n", name, n+1)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Tag spans by kind instead of colouring them")
	cmd.Flags().BoolVar(&labels, "labels", false, "List the jump labels and their line numbers")

	return cmd
}
