package parser

import (
	"github.com/jamplate/jamplate/lexer"
	"github.com/jamplate/jamplate/source"
	"github.com/jamplate/jamplate/tree"
)

type term struct {
	pattern *lexer.Pattern
	weight  int
	global  bool
	ctor    Constructor
}

// Term returns a parser producing a tree for each match of pattern inside the scanned tree.
// Non-global parser produces the leftmost match only.
// Matches inside (or clashing with) a descendant heavier than weight are skipped.
// Nil ctor creates trees of empty kind.
func Term(pattern string, weight int, global bool, ctor Constructor) (Parser, error) {
	p, e := lexer.Compile(pattern)
	if e != nil {
		return nil, e
	}

	if ctor == nil {
		ctor = Kind("")
	}
	return &term{p, weight, global, ctor}, nil
}

// MustTerm is like Term but panics on bad pattern.
func MustTerm(pattern string, weight int, global bool, ctor Constructor) Parser {
	p, e := Term(pattern, weight, global, ctor)
	if e != nil {
		panic(e)
	}
	return p
}

func (p *term) Parse(c *Compilation, t *tree.Tree) (*tree.Set, error) {
	doc := t.Document()
	res := tree.NewSet()
	for _, ref := range p.pattern.FindAll(doc, t.Reference()) {
		if reserved(t, p.weight, ref) {
			continue
		}

		res.Add(p.ctor(doc, ref, tree.WithWeight(p.weight)))
		if !p.global {
			break
		}
	}
	return res, nil
}

// reserved reports whether a descendant of t heavier than weight
// contains, equals or overlaps ref.
func reserved(t *tree.Tree, weight int, ref source.Reference) bool {
	found := false
	tree.Walk(t, tree.WalkLtr, func(stat tree.WalkStat) tree.WalkerFlags {
		n := stat.Tree
		if n == t {
			return 0
		}

		switch source.Compute(n.Reference(), ref) {
		case source.None, source.Part:
			return tree.WalkerSkipChildren
		}

		if n.Weight() > weight {
			found = true
			return tree.WalkerStop
		}
		return 0
	})
	return found
}
