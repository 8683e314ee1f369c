package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamplate/jamplate/grammar"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Work with YAML grammar definitions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check <file>",
		Short: "Validate a grammar definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, e := grammar.LoadFile(args[0])
			if e != nil {
				return e
			}
			if _, e = g.Build(); e != nil {
				return e
			}

			name := g.Name
			if name == "" {
				name = args[0]
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", name)
			return nil
		},
	})

	return cmd
}
