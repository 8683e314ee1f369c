package parser

import (
	"sort"

	"github.com/jamplate/jamplate/lexer"
	"github.com/jamplate/jamplate/source"
	"github.com/jamplate/jamplate/tree"
)

// EnclosureOption adds pre-built parts to trees produced by Enclosure.
type EnclosureOption func(p *enclosure)

// WithStart makes Enclosure add start anchor trees built with ctor.
func WithStart(ctor Constructor) EnclosureOption {
	return func(p *enclosure) {
		p.startCtor = ctor
	}
}

// WithEnd makes Enclosure add end anchor trees built with ctor.
func WithEnd(ctor Constructor) EnclosureOption {
	return func(p *enclosure) {
		p.endCtor = ctor
	}
}

// WithBody makes Enclosure add body trees built with ctor.
// Empty bodies are not added.
func WithBody(ctor Constructor) EnclosureOption {
	return func(p *enclosure) {
		p.bodyCtor = ctor
	}
}

type enclosure struct {
	start, end                   *lexer.Pattern
	weight                       int
	global                       bool
	outer                        Constructor
	startCtor, endCtor, bodyCtor Constructor
}

type anchor struct {
	ref        source.Reference
	start, end bool
}

type enclosed struct {
	open, close source.Reference
}

// Enclosure returns a parser producing a tree for each pair of start and end anchors.
// Anchors are paired like brackets: an end anchor closes the innermost open start anchor,
// a position matching both patterns closes if a start anchor is open and opens otherwise.
// Unpaired anchors are ignored. Non-global parser produces the pair with the leftmost start anchor only.
// Anchors inside (or clashing with) a descendant heavier than weight are skipped.
func Enclosure(start, end string, weight int, global bool, outer Constructor, opts ...EnclosureOption) (Parser, error) {
	sp, e := lexer.Compile(start)
	if e != nil {
		return nil, e
	}

	ep, e := lexer.Compile(end)
	if e != nil {
		return nil, e
	}

	if outer == nil {
		outer = Kind("")
	}

	p := &enclosure{start: sp, end: ep, weight: weight, global: global, outer: outer}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// MustEnclosure is like Enclosure but panics on bad patterns.
func MustEnclosure(start, end string, weight int, global bool, outer Constructor, opts ...EnclosureOption) Parser {
	p, e := Enclosure(start, end, weight, global, outer, opts...)
	if e != nil {
		panic(e)
	}
	return p
}

func (p *enclosure) Parse(c *Compilation, t *tree.Tree) (*tree.Set, error) {
	pairs := pairAnchors(p.anchors(t))
	if len(pairs) == 0 {
		return tree.NewSet(), nil
	}

	if !p.global {
		first := pairs[0]
		for _, pair := range pairs[1:] {
			if pair.open.Position < first.open.Position {
				first = pair
			}
		}
		pairs = []enclosed{first}
	}

	res := tree.NewSet()
	for _, pair := range pairs {
		n, e := p.build(t.Document(), pair)
		if e != nil {
			return nil, e
		}
		res.Add(n)
	}
	return res, nil
}

func (p *enclosure) anchors(t *tree.Tree) []anchor {
	doc, span := t.Document(), t.Reference()
	index := make(map[source.Reference]int)
	res := make([]anchor, 0)

	for _, ref := range p.start.FindAll(doc, span) {
		if !reserved(t, p.weight, ref) {
			index[ref] = len(res)
			res = append(res, anchor{ref: ref, start: true})
		}
	}

	for _, ref := range p.end.FindAll(doc, span) {
		if reserved(t, p.weight, ref) {
			continue
		}
		if i, found := index[ref]; found {
			res[i].end = true
		} else {
			res = append(res, anchor{ref: ref, end: true})
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].ref.Compare(res[j].ref) < 0
	})
	return res
}

// pairAnchors pairs sorted anchors, anchors overlapping an already used one are skipped.
func pairAnchors(anchors []anchor) []enclosed {
	res := make([]enclosed, 0)
	stack := make([]source.Reference, 0)
	used := -1
	for _, a := range anchors {
		if a.ref.Position < used {
			continue
		}

		if a.end && len(stack) > 0 {
			last := len(stack) - 1
			res = append(res, enclosed{stack[last], a.ref})
			stack = stack[:last]
			used = a.ref.End()
		} else if a.start {
			stack = append(stack, a.ref)
			used = a.ref.End()
		}
	}
	return res
}

func (p *enclosure) build(doc *source.Source, pair enclosed) (*tree.Tree, error) {
	w := tree.WithWeight(p.weight)
	res := p.outer(doc, source.Span(pair.open.Position, pair.close.End()), w)

	parts := make([]*tree.Tree, 0, 3)
	if p.startCtor != nil {
		parts = append(parts, p.startCtor(doc, pair.open, w))
	}
	if p.bodyCtor != nil && pair.close.Position > pair.open.End() {
		parts = append(parts, p.bodyCtor(doc, source.Span(pair.open.End(), pair.close.Position), w))
	}
	if p.endCtor != nil {
		parts = append(parts, p.endCtor(doc, pair.close, w))
	}

	for _, part := range parts {
		if _, e := res.Offer(part); e != nil {
			return nil, e
		}
	}
	return res, nil
}
