package main

import (
	"github.com/spf13/cobra"

	"github.com/jamplate/jamplate/lsp"
)

func newLspCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run language server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, e := opts.grammar()
			if e != nil {
				return e
			}
			return lsp.New(g, version).RunStdio()
		},
	}
}
