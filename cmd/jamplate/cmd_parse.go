package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jamplate/jamplate/source"
	"github.com/jamplate/jamplate/tree"
)

type jsonTree struct {
	Kind     string      `json:"kind"`
	Position int         `json:"position"`
	Length   int         `json:"length"`
	ZIndex   int         `json:"z-index,omitempty"`
	Text     string      `json:"text,omitempty"`
	Children []*jsonTree `json:"children,omitempty"`
}

func newJSONTree(t *tree.Tree) *jsonTree {
	ref := t.Reference()
	res := &jsonTree{
		Kind:     t.Kind(),
		Position: ref.Position,
		Length:   ref.Length,
	}
	if t.ZIndex() != tree.MinZIndex {
		res.ZIndex = t.ZIndex()
	}

	if t.FirstChild() == nil {
		res.Text = t.Text()
		return res
	}

	for c := t.FirstChild(); c != nil; c = c.Next() {
		res.Children = append(res.Children, newJSONTree(c))
	}
	return res
}

func readSource(name string) (*source.Source, error) {
	content, e := os.ReadFile(name)
	if e != nil {
		return nil, e
	}
	return source.New(name, content), nil
}

func writeTree(w io.Writer, root *tree.Tree, format string) error {
	switch format {
	case "text":
		return tree.Fprint(w, root)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newJSONTree(root))
	default:
		return fmt.Errorf("unknown format: %s (expected text or json)", format)
	}
}

func newParseCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print syntax tree of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unknown format: %s (expected text or json)", format)
			}

			g, e := opts.grammar()
			if e != nil {
				return e
			}

			doc, e := readSource(args[0])
			if e != nil {
				return e
			}

			root, e := g.Parse(doc)
			if e != nil {
				return e
			}

			return writeTree(cmd.OutOrStdout(), root, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")

	return cmd
}
