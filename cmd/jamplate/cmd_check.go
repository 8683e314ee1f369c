package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jamplate/jamplate/grammar"
	"github.com/jamplate/jamplate/source"
	"github.com/jamplate/jamplate/tree"
)

// diagnostic formats error returned by parsing doc as a single line.
func diagnostic(doc *source.Source, e error) string {
	var ite *tree.IllegalTreeError
	if !errors.As(e, &ite) {
		return fmt.Sprintf("%s: %s", doc.Name(), e)
	}

	offered, existing := ite.Offered.Reference(), ite.Existing.Reference()
	line, col := doc.LineCol(offered.Position)
	eline, ecol := doc.LineCol(existing.Position)
	return fmt.Sprintf("%s:%d:%d: %s %s %s at %d:%d",
		doc.Name(), line, col, ite.Offered, source.Compute(offered, existing), ite.Existing, eline, ecol)
}

// checkFile reports whether the named file parses without errors.
func checkFile(w io.Writer, g *grammar.Grammar, name string) bool {
	doc, e := readSource(name)
	if e != nil {
		fmt.Fprintf(w, "%s: %s\n", name, e)
		return false
	}

	if _, e = g.Parse(doc); e != nil {
		fmt.Fprintln(w, diagnostic(doc, e))
		return false
	}
	return true
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Report syntax tree construction errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, e := opts.grammar()
			if e != nil {
				return e
			}

			failed := 0
			for _, name := range args {
				if !checkFile(cmd.OutOrStdout(), g, name) {
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
}
