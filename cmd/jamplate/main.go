/*
jamplate is a console utility building syntax trees of jamplate documents.
Usage is

	jamplate [-v...] [--log <file>] [--grammar <file>] <command> ...

Commands are

	parse <file>          print syntax tree of the file
	check <file>...       report construction errors of the files
	grammar check <file>  validate YAML grammar definition
	lsp                   run language server on stdio

--grammar replaces the built-in grammar with the YAML definition from named file.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/jamplate/jamplate/grammar"
)

const version = "0.1.0"

type options struct {
	verbose     int
	logPath     string
	grammarPath string
}

// grammar returns the grammar selected by --grammar flag.
func (o *options) grammar() (*grammar.Grammar, error) {
	if o.grammarPath == "" {
		return grammar.Default(), nil
	}

	g, e := grammar.LoadFile(o.grammarPath)
	if e != nil {
		return nil, e
	}
	if _, e = g.Build(); e != nil {
		return nil, e
	}
	return g, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "jamplate",
		Short:         "Build syntax trees of jamplate documents",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.logPath == "" {
				commonlog.Configure(opts.verbose, nil)
			} else {
				commonlog.Configure(opts.verbose, &opts.logPath)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity")
	flags.StringVar(&opts.logPath, "log", "", "log file name, default is stderr")
	flags.StringVar(&opts.grammarPath, "grammar", "", "YAML grammar file, default is the built-in grammar")

	rootCmd.AddCommand(newParseCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newGrammarCmd())
	rootCmd.AddCommand(newLspCmd(opts))

	return rootCmd
}

func main() {
	if e := newRootCmd().Execute(); e != nil {
		fmt.Fprintln(os.Stderr, e)
		os.Exit(1)
	}
}
