package parser

import (
	"golang.org/x/sync/errgroup"

	"github.com/jamplate/jamplate/internal/queue"
	"github.com/jamplate/jamplate/source"
	"github.com/jamplate/jamplate/tree"
)

func nonNil(parsers []Parser) []Parser {
	res := make([]Parser, 0, len(parsers))
	for _, p := range parsers {
		if p != nil {
			res = append(res, p)
		}
	}
	return res
}

type combine struct {
	parsers []Parser
}

// Combine returns a parser producing the union of results of all parsers.
// Parsers are evaluated concurrently, up to c.Workers() at a time.
// The first error aborts the parsing.
func Combine(parsers ...Parser) Parser {
	return &combine{nonNil(parsers)}
}

func (p *combine) Parse(c *Compilation, t *tree.Tree) (*tree.Set, error) {
	results := make([]*tree.Set, len(p.parsers))

	if c.Workers() <= 1 || len(p.parsers) <= 1 {
		for i, sub := range p.parsers {
			s, e := sub.Parse(c, t)
			if e != nil {
				return nil, e
			}
			results[i] = s
		}
		return tree.NewSet().Union(results...), nil
	}

	g := &errgroup.Group{}
	g.SetLimit(c.Workers())
	for i, sub := range p.parsers {
		i, sub := i, sub
		g.Go(func() error {
			s, e := sub.Parse(c, t)
			results[i] = s
			return e
		})
	}

	if e := g.Wait(); e != nil {
		return nil, e
	}
	return tree.NewSet().Union(results...), nil
}

type recursive struct {
	parser Parser
}

// Recursive returns a parser applying p to the scanned tree,
// then to every tree found, and so on until nothing new is found.
// Results equal to the tree they were found in are dropped.
func Recursive(p Parser) Parser {
	return &recursive{p}
}

func (p *recursive) Parse(c *Compilation, t *tree.Tree) (*tree.Set, error) {
	res := tree.NewSet()
	work := queue.New(t)
	for {
		scope, ok := work.Pop()
		if !ok {
			break
		}

		found, e := p.parser.Parse(c, scope)
		if e != nil {
			return nil, e
		}

		for _, n := range found.Sorted() {
			if scope != t && source.Compute(scope.Reference(), n.Reference()) == source.Exact {
				continue
			}
			if res.Add(n) > 0 {
				work.Push(n)
			}
		}
	}
	return res, nil
}

type thenAdd struct {
	parser, then Parser
}

// ThenAdd returns a parser producing results of p plus results of then applied to each of them.
func ThenAdd(p, then Parser) Parser {
	return &thenAdd{p, then}
}

func (p *thenAdd) Parse(c *Compilation, t *tree.Tree) (*tree.Set, error) {
	found, e := p.parser.Parse(c, t)
	if e != nil {
		return nil, e
	}

	res := tree.NewSet(found.Items()...)
	for _, n := range found.Items() {
		more, e := p.then.Parse(c, n)
		if e != nil {
			return nil, e
		}
		res.Union(more)
	}
	return res, nil
}

type thenOffer struct {
	parser, then Parser
}

// ThenOffer returns a parser producing results of p, each with results of then
// applied to it offered into it.
// A result of then equal to its scope and having higher z-index replaces the scope.
func ThenOffer(p, then Parser) Parser {
	return &thenOffer{p, then}
}

func (p *thenOffer) Parse(c *Compilation, t *tree.Tree) (*tree.Set, error) {
	found, e := p.parser.Parse(c, t)
	if e != nil {
		return nil, e
	}

	res := tree.NewSet()
	for _, n := range found.Items() {
		more, e := p.then.Parse(c, n)
		if e != nil {
			return nil, e
		}

		for _, m := range more.Sorted() {
			if m.Parent() != nil {
				continue
			}
			if n, _, e = tree.Graft(n, m); e != nil {
				return nil, e
			}
		}
		res.Add(n)
	}
	return res, nil
}

type filterByKind struct {
	kind   string
	parser Parser
}

// FilterByKind returns a parser applying p only when the scanned tree has given kind.
func FilterByKind(kind string, p Parser) Parser {
	return &filterByKind{kind, p}
}

func (p *filterByKind) Parse(c *Compilation, t *tree.Tree) (*tree.Set, error) {
	if t.Kind() != p.kind {
		return tree.NewSet(), nil
	}
	return p.parser.Parse(c, t)
}

type filterHierarchyByKind struct {
	query  *tree.Query
	parser Parser
}

// FilterHierarchyByKind returns a parser applying p to each tree of given kind
// found among the scanned tree and its descendants.
func FilterHierarchyByKind(kind string, p Parser) Parser {
	return &filterHierarchyByKind{tree.NewQuery().Search(tree.IsKind(kind), true), p}
}

func (p *filterHierarchyByKind) Parse(c *Compilation, t *tree.Tree) (*tree.Set, error) {
	res := tree.NewSet()
	for _, n := range p.query.Apply(t) {
		found, e := p.parser.Parse(c, n)
		if e != nil {
			return nil, e
		}
		res.Union(found)
	}
	return res, nil
}
