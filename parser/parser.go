// Package parser defines parser combinators discovering candidate trees,
// merge parsers eliminating conflicts between candidates,
// and the driver grafting candidates into a syntax tree until nothing new is found.
package parser

import (
	"runtime"

	"github.com/tliron/commonlog"

	"github.com/jamplate/jamplate"
	"github.com/jamplate/jamplate/source"
	"github.com/jamplate/jamplate/tree"
)

// Error codes used by parser:
const (
	// ErrPassLimit indicates that the driver has not reached a fixpoint in allowed number of passes.
	ErrPassLimit = jamplate.ParserErrors + iota
)

// RootKind is the kind of root tree created by NewCompilation.
const RootKind = "root"

func logger() commonlog.Logger {
	return commonlog.GetLogger("jamplate.parser")
}

// Parser discovers candidate trees inside span of given tree.
// Returned trees are detached and addressed inside the span of t (whole span included).
// Parse must not change the forest t belongs to, so it may be called repeatedly,
// in any order, and concurrently.
type Parser interface {
	Parse(c *Compilation, t *tree.Tree) (*tree.Set, error)
}

// Func adapts a function to Parser interface.
type Func func(c *Compilation, t *tree.Tree) (*tree.Set, error)

func (f Func) Parse(c *Compilation, t *tree.Tree) (*tree.Set, error) {
	return f(c, t)
}

// Constructor creates a detached tree for a discovered span.
// opts are supplied by the parser (e.g. weight) and must be applied after constructor own options.
type Constructor func(doc *source.Source, ref source.Reference, opts ...tree.Option) *tree.Tree

// Kind returns a constructor creating trees of given kind.
func Kind(kind string, opts ...tree.Option) Constructor {
	return func(doc *source.Source, ref source.Reference, extra ...tree.Option) *tree.Tree {
		all := make([]tree.Option, 0, len(opts)+len(extra)+1)
		all = append(all, tree.WithKind(kind))
		all = append(all, opts...)
		all = append(all, extra...)
		return tree.New(doc, ref, all...)
	}
}

// Compilation holds the state of one document being parsed.
// Only the driver (or other single writer) may offer trees to it.
type Compilation struct {
	document *source.Source
	root     *tree.Tree
	workers  int
}

// NewCompilation creates compilation with a root covering the whole document.
// Root has RootKind and tree.MinZIndex unless changed by opts,
// so a tree found for the whole document replaces it.
func NewCompilation(doc *source.Source, opts ...tree.Option) *Compilation {
	opts = append([]tree.Option{tree.WithKind(RootKind), tree.WithZIndex(tree.MinZIndex)}, opts...)
	return &Compilation{
		document: doc,
		root:     tree.NewRoot(doc, opts...),
		workers:  runtime.NumCPU(),
	}
}

func (c *Compilation) Document() *source.Source {
	return c.document
}

// Root returns current root, it may change after Offer.
func (c *Compilation) Root() *tree.Tree {
	return c.root
}

// Workers returns the maximum number of sub-parsers evaluated concurrently.
func (c *Compilation) Workers() int {
	return c.workers
}

// Offer grafts t into the forest, see tree.Graft.
func (c *Compilation) Offer(t *tree.Tree) (bool, error) {
	root, changed, e := tree.Graft(c.root, t)
	c.root = root
	return changed, e
}
