package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jamplate/jamplate"
	"github.com/jamplate/jamplate/parser"
	"github.com/jamplate/jamplate/tree"
)

type builder struct {
	g        *Grammar
	weight   *int
	built    map[string]parser.Parser
	visiting map[string]bool
	used     map[string]bool
}

func newBuilder(g *Grammar) *builder {
	return &builder{
		g:        g,
		built:    make(map[string]parser.Parser),
		visiting: make(map[string]bool),
		used:     make(map[string]bool),
	}
}

func (b *builder) build() (parser.Parser, error) {
	if b.g.Parser == nil {
		return nil, jamplate.NewError(ErrNoParser, "no parser expression", b.g.sourceName, 0, 0)
	}

	p, e := b.node(b.g.Parser)
	if e != nil {
		return nil, e
	}

	unused := make([]string, 0)
	for name := range b.g.Define {
		if !b.used[name] {
			unused = append(unused, name)
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		return nil, jamplate.NewError(ErrUnusedDefinition, "unused definitions: "+strings.Join(unused, ", "), b.g.sourceName, 0, 0)
	}

	return p, nil
}

func (b *builder) fail(n *Node, code int, msg string, params ...any) *jamplate.Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return jamplate.NewError(code, msg, b.g.sourceName, n.line, n.col)
}

func (b *builder) missing(n *Node, expr, field string) *jamplate.Error {
	return b.fail(n, ErrMissingField, "%s: missing %s", expr, field)
}

// positioned adds node position to errors returned by parser constructors.
func (b *builder) positioned(n *Node, e error) error {
	if je, ok := e.(*jamplate.Error); ok {
		return b.fail(n, je.Code, "%s", je.Message)
	}
	return e
}

func (b *builder) weightOf(w int) int {
	if b.weight != nil {
		return *b.weight
	}
	return w
}

func kind(name string, zIndex int) parser.Constructor {
	if zIndex == 0 {
		return parser.Kind(name)
	}
	return parser.Kind(name, tree.WithZIndex(zIndex))
}

func (b *builder) node(n *Node) (parser.Parser, error) {
	if n == nil {
		return nil, jamplate.NewError(ErrNodeKeys, "empty parser expression", b.g.sourceName, 0, 0)
	}

	switch {
	case n.Term != nil:
		return b.term(n)
	case n.Enclosure != nil:
		return b.enclosure(n)
	case n.Combine != nil:
		return b.combine(n)
	case n.Recursive != nil:
		p, e := b.node(n.Recursive)
		if e != nil {
			return nil, e
		}
		return parser.Recursive(p), nil
	case n.ThenAdd != nil:
		return b.then(n, "then-add", n.ThenAdd, parser.ThenAdd)
	case n.ThenOffer != nil:
		return b.then(n, "then-offer", n.ThenOffer, parser.ThenOffer)
	case n.Filter != nil:
		return b.filter(n)
	case n.Merge != nil:
		return b.merge(n)
	case n.Ref != "":
		return b.ref(n)
	default:
		return nil, b.fail(n, ErrNodeKeys, "empty parser expression")
	}
}

func (b *builder) term(n *Node) (parser.Parser, error) {
	t := n.Term
	if t.Pattern == "" {
		return nil, b.missing(n, "term", "pattern")
	}

	p, e := parser.Term(t.Pattern, b.weightOf(t.Weight), t.Global, kind(t.Kind, t.ZIndex))
	return p, b.positioned(n, e)
}

func (b *builder) enclosure(n *Node) (parser.Parser, error) {
	en := n.Enclosure
	if en.Start == "" {
		return nil, b.missing(n, "enclosure", "start")
	}
	if en.End == "" {
		return nil, b.missing(n, "enclosure", "end")
	}

	opts := make([]parser.EnclosureOption, 0, 3)
	if en.StartKind != "" {
		opts = append(opts, parser.WithStart(parser.Kind(en.StartKind)))
	}
	if en.EndKind != "" {
		opts = append(opts, parser.WithEnd(parser.Kind(en.EndKind)))
	}
	if en.BodyKind != "" {
		opts = append(opts, parser.WithBody(parser.Kind(en.BodyKind)))
	}

	p, e := parser.Enclosure(en.Start, en.End, b.weightOf(en.Weight), en.Global, kind(en.Kind, en.ZIndex), opts...)
	return p, b.positioned(n, e)
}

func (b *builder) combine(n *Node) (parser.Parser, error) {
	if len(n.Combine) == 0 {
		return nil, b.missing(n, "combine", "parsers")
	}

	ps := make([]parser.Parser, len(n.Combine))
	for i, sub := range n.Combine {
		p, e := b.node(sub)
		if e != nil {
			return nil, e
		}
		ps[i] = p
	}
	return parser.Combine(ps...), nil
}

func (b *builder) then(n *Node, expr string, t *Then, f func(p, then parser.Parser) parser.Parser) (parser.Parser, error) {
	if t.Parser == nil {
		return nil, b.missing(n, expr, "parser")
	}
	if t.Then == nil {
		return nil, b.missing(n, expr, "then")
	}

	p, e := b.node(t.Parser)
	if e != nil {
		return nil, e
	}
	then, e := b.node(t.Then)
	if e != nil {
		return nil, e
	}
	return f(p, then), nil
}

func (b *builder) filter(n *Node) (parser.Parser, error) {
	f := n.Filter
	if f.Kind == "" {
		return nil, b.missing(n, "filter", "kind")
	}
	if f.Parser == nil {
		return nil, b.missing(n, "filter", "parser")
	}

	saved := b.weight
	if f.Weight != nil {
		b.weight = f.Weight
	}
	p, e := b.node(f.Parser)
	b.weight = saved
	if e != nil {
		return nil, e
	}

	if f.Hierarchy {
		return parser.FilterHierarchyByKind(f.Kind, p), nil
	}
	return parser.FilterByKind(f.Kind, p), nil
}

func (b *builder) merge(n *Node) (parser.Parser, error) {
	m := n.Merge
	if m.Parser == nil {
		return nil, b.missing(n, "merge", "parser")
	}

	p, e := b.node(m.Parser)
	if e != nil {
		return nil, e
	}

	switch m.Mode {
	case "", MergeOrder:
		return parser.MergeByOrder(p), nil
	case MergeFlat:
		return parser.FlatMerge(p), nil
	case MergeNatural:
		return parser.NaturalMerge(p, nil), nil
	default:
		return nil, b.fail(n, ErrMergeMode, "unknown merge mode %q", m.Mode)
	}
}

func (b *builder) ref(n *Node) (parser.Parser, error) {
	def, found := b.g.Define[n.Ref]
	if !found {
		return nil, b.fail(n, ErrUnknownRef, "undefined parser %q", n.Ref)
	}
	if b.visiting[n.Ref] {
		return nil, b.fail(n, ErrRecursiveRef, "parser %q refers to itself", n.Ref)
	}

	key := n.Ref
	if b.weight != nil {
		key = fmt.Sprintf("%s/%d", n.Ref, *b.weight)
	}
	b.used[n.Ref] = true
	if p, found := b.built[key]; found {
		return p, nil
	}

	b.visiting[n.Ref] = true
	p, e := b.node(def)
	delete(b.visiting, n.Ref)
	if e != nil {
		return nil, e
	}

	b.built[key] = p
	return p, nil
}
