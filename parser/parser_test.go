package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/jamplate/jamplate"
	"github.com/jamplate/jamplate/internal/test"
	"github.com/jamplate/jamplate/source"
	"github.com/jamplate/jamplate/tree"
)

func newCompilation(text string, workers int) *Compilation {
	c := NewCompilation(source.NewString("doc", text))
	c.workers = workers
	return c
}

func dumpSet(s *tree.Set) string {
	res := make([]string, 0, s.Len())
	for _, t := range s.Sorted() {
		res = append(res, tree.Dump(t))
	}
	return strings.Join(res, " ")
}

func parse(t *testing.T, p Parser, text string) string {
	t.Helper()
	c := newCompilation(text, 1)
	s, e := p.Parse(c, c.Root())
	test.ExpectNoError(t, e)
	return dumpSet(s)
}

func run(t *testing.T, p Parser, text string, opts ...DriverOption) *Compilation {
	t.Helper()
	c := NewCompilation(source.NewString("doc", text))
	test.ExpectNoError(t, NewDriver(opts...).Run(c, p))
	return c
}

func span(c *Compilation, pos, length int, opts ...tree.Option) *tree.Tree {
	return tree.New(c.Document(), source.NewReference(pos, length), opts...)
}

func offer(t *testing.T, c *Compilation, trees ...*tree.Tree) {
	t.Helper()
	for _, n := range trees {
		_, e := c.Offer(n)
		test.ExpectNoError(t, e)
	}
}

func TestKind(t *testing.T) {
	doc := source.NewString("doc", "abc")
	n := Kind("word", tree.WithZIndex(2))(doc, source.NewReference(1, 2), tree.WithWeight(5))
	test.ExpectString(t, "word", n.Kind())
	test.ExpectInt(t, 2, n.ZIndex())
	test.ExpectInt(t, 5, n.Weight())
	test.ExpectString(t, "bc", n.Text())
}

func TestTerm(t *testing.T) {
	samples := []struct {
		pattern  string
		global   bool
		text     string
		expected string
	}{
		{",", true, "a,b,c", "(comma [1:1]) (comma [3:1])"},
		{",", false, "a,b,c", "(comma [1:1])"},
		{"\\w+", true, "foo  bar", "(comma [0:3]) (comma [5:3])"},
		{";", true, "a,b,c", ""},
	}

	for i, s := range samples {
		p := MustTerm(s.pattern, 0, s.global, Kind("comma"))
		got := parse(t, p, s.text)
		if got != s.expected {
			t.Errorf("sample #%d: expecting %q, got %q", i, s.expected, got)
		}
	}

	_, e := Term("(", 0, true, nil)
	test.Assert(t, e != nil, "bad pattern accepted")
}

func TestTermReserved(t *testing.T) {
	c := newCompilation(`x"a,b",c`, 1)
	offer(t, c, span(c, 1, 5, tree.WithKind("string"), tree.WithWeight(10)))

	s, e := MustTerm(",", 0, true, Kind("comma")).Parse(c, c.Root())
	test.ExpectNoError(t, e)
	test.ExpectString(t, "(comma [6:1])", dumpSet(s))

	s, e = MustTerm(",", 10, true, Kind("comma")).Parse(c, c.Root())
	test.ExpectNoError(t, e)
	test.ExpectString(t, "(comma [3:1]) (comma [6:1])", dumpSet(s))
}

func TestEnclosure(t *testing.T) {
	samples := []struct {
		start, end string
		global     bool
		text       string
		expected   string
	}{
		{"\\{", "\\}", true, "{a{b}c}", "(b [0:7]) (b [2:3])"},
		{"\\{", "\\}", false, "{a{b}c}", "(b [0:7])"},
		{"\\{", "\\}", false, "{a}{b}", "(b [0:3])"},
		{"\\{", "\\}", true, "{a}{b}", "(b [0:3]) (b [3:3])"},
		{"\\{", "\\}", true, "}{a}{", "(b [1:3])"},
		{"\\{", "\\}", true, "{{a}", "(b [1:3])"},
		{"\"", "\"", true, `"a" "b"`, "(b [0:3]) (b [4:3])"},
		{"#\\{", "\\}#", true, "#{a}#{b}#", "(b [0:5])"},
		{"\\{", "\\}", true, "abc", ""},
	}

	for i, s := range samples {
		p := MustEnclosure(s.start, s.end, 0, s.global, Kind("b"))
		got := parse(t, p, s.text)
		if got != s.expected {
			t.Errorf("sample #%d: expecting %q, got %q", i, s.expected, got)
		}
	}
}

func TestEnclosureParts(t *testing.T) {
	p := MustEnclosure("#\\{", "\\}#", 0, true, Kind("injection"),
		WithStart(Kind("open")), WithEnd(Kind("close")), WithBody(Kind("body")))

	test.ExpectString(t,
		"(injection [0:7] (open [0:2]) (body [2:3]) (close [5:2]))",
		parse(t, p, "#{ x }#"))
	test.ExpectString(t,
		"(injection [0:4] (open [0:2]) (close [2:2]))",
		parse(t, p, "#{}#"))
}

func TestEnclosureReserved(t *testing.T) {
	c := newCompilation(`{"}"}`, 1)
	offer(t, c, span(c, 1, 3, tree.WithKind("string"), tree.WithWeight(10)))

	s, e := MustEnclosure("\\{", "\\}", 0, true, Kind("braces")).Parse(c, c.Root())
	test.ExpectNoError(t, e)
	test.ExpectString(t, "(braces [0:5])", dumpSet(s))
}

func TestCombine(t *testing.T) {
	for _, workers := range []int{1, 4} {
		p := Combine(
			MustTerm(",", 0, true, Kind("comma")),
			nil,
			MustTerm("\\w", 0, true, Kind("letter")),
			MustEnclosure("\\(", "\\)", 0, true, Kind("parens")),
		)
		c := newCompilation("(a,b),c", workers)
		s, e := p.Parse(c, c.Root())
		test.ExpectNoError(t, e)
		test.ExpectString(t,
			"(parens [0:5]) (letter [1:1]) (comma [2:1]) (letter [3:1]) (comma [5:1]) (letter [6:1])",
			dumpSet(s))
	}
}

func TestCombineError(t *testing.T) {
	failure := jamplate.FormatError(ErrPassLimit, "failure")
	p := Combine(
		MustTerm(",", 0, true, Kind("comma")),
		Func(func(c *Compilation, t *tree.Tree) (*tree.Set, error) {
			return nil, failure
		}),
	)

	for _, workers := range []int{1, 4} {
		c := newCompilation("a,b", workers)
		_, e := p.Parse(c, c.Root())
		test.Assert(t, errors.Is(e, failure), "expecting failure, got %v", e)
	}
}

// shrink finds the scope without its first and last characters.
var shrink = Func(func(c *Compilation, t *tree.Tree) (*tree.Set, error) {
	ref := t.Reference()
	if ref.Length < 3 {
		return tree.NewSet(), nil
	}
	return tree.NewSet(tree.New(t.Document(), source.NewReference(ref.Position+1, ref.Length-2), tree.WithKind("inner"))), nil
})

func TestRecursive(t *testing.T) {
	test.ExpectString(t,
		"(inner [1:7]) (inner [2:5]) (inner [3:3]) (inner [4:1])",
		parse(t, Recursive(shrink), "123456789"))

	self := Func(func(c *Compilation, t *tree.Tree) (*tree.Set, error) {
		return tree.NewSet(tree.New(t.Document(), t.Reference(), tree.WithKind("self"), tree.WithZIndex(1))), nil
	})
	test.ExpectString(t, "(self [0:3])", parse(t, Recursive(self), "abc"))

	words := Recursive(MustEnclosure("\\(", "\\)", 0, true, Kind("parens")))
	test.ExpectString(t, "(parens [0:3]) (parens [3:4]) (parens [4:2])", parse(t, words, "(a)(())"))
}

func TestThenAdd(t *testing.T) {
	p := ThenAdd(
		MustEnclosure("\\{", "\\}", 0, true, Kind("braces")),
		MustTerm("\\w", 0, true, Kind("letter")),
	)
	test.ExpectString(t,
		"(braces [0:4]) (letter [1:1]) (letter [2:1]) (braces [5:3]) (letter [6:1])",
		parse(t, p, "{ab} {c}"))
}

func TestThenOffer(t *testing.T) {
	p := ThenOffer(
		MustEnclosure("\\{", "\\}", 0, true, Kind("braces")),
		MustTerm("\\w", 0, true, Kind("letter")),
	)
	test.ExpectString(t,
		"(braces [0:4] (letter [1:1]) (letter [2:1])) (braces [5:3] (letter [6:1]))",
		parse(t, p, "{ab} {c}"))

	block := Func(func(c *Compilation, t *tree.Tree) (*tree.Set, error) {
		return tree.NewSet(tree.New(t.Document(), t.Reference(), tree.WithKind("block"), tree.WithZIndex(1))), nil
	})
	p = ThenOffer(
		ThenOffer(MustEnclosure("\\{", "\\}", 0, true, Kind("braces")), MustTerm("\\w", 0, true, Kind("letter"))),
		block,
	)
	test.ExpectString(t, "(block [0:3] (letter [1:1]))", parse(t, p, "{a}"))
}

func TestFilterByKind(t *testing.T) {
	p := FilterByKind(RootKind, MustTerm(",", 0, true, Kind("comma")))
	test.ExpectString(t, "(comma [1:1])", parse(t, p, "a,b"))

	p = FilterByKind("braces", MustTerm(",", 0, true, Kind("comma")))
	test.ExpectString(t, "", parse(t, p, "a,b"))
}

func TestFilterHierarchyByKind(t *testing.T) {
	c := newCompilation("{a,b},c,{d,e}", 1)
	offer(t, c,
		span(c, 0, 5, tree.WithKind("braces")),
		span(c, 8, 5, tree.WithKind("braces")),
	)

	p := FilterHierarchyByKind("braces", MustTerm(",", 0, true, Kind("comma")))
	s, e := p.Parse(c, c.Root())
	test.ExpectNoError(t, e)
	test.ExpectString(t, "(comma [2:1]) (comma [10:1])", dumpSet(s))

	p = FilterHierarchyByKind(RootKind, MustTerm(",", 0, true, Kind("comma")))
	s, e = p.Parse(c, c.Root())
	test.ExpectNoError(t, e)
	test.ExpectInt(t, 4, s.Len())
}

// fixed returns a parser producing given trees regardless of the scope.
func fixed(trees ...func(doc *source.Source) *tree.Tree) Parser {
	return Func(func(c *Compilation, t *tree.Tree) (*tree.Set, error) {
		res := tree.NewSet()
		for _, f := range trees {
			res.Add(f(t.Document()))
		}
		return res, nil
	})
}

func at(kind string, pos, length int, opts ...tree.Option) func(doc *source.Source) *tree.Tree {
	return func(doc *source.Source) *tree.Tree {
		return Kind(kind, opts...)(doc, source.NewReference(pos, length))
	}
}

func TestFlatMerge(t *testing.T) {
	text := "0123456789abcdef"
	samples := []struct {
		input    Parser
		expected string
	}{
		{fixed(at("a", 0, 5), at("b", 3, 5)), "(a [0:5])"},
		{fixed(at("a", 0, 5), at("b", 3, 5, tree.WithWeight(1))), "(b [3:5])"},
		{fixed(at("a", 0, 5), at("b", 1, 2)), "(a [0:5]) (b [1:2])"},
		{fixed(at("a", 0, 5), at("b", 1, 2, tree.WithWeight(1))), "(a [0:5]) (b [1:2])"},
		{fixed(at("a", 0, 2), at("b", 0, 5)), "(a [0:2])"},
		{fixed(at("a", 0, 2), at("b", 0, 5, tree.WithWeight(1))), "(b [0:5])"},
		{fixed(at("a", 0, 5), at("b", 0, 5, tree.WithZIndex(1))), "(a [0:5]) (b [0:5])"},
		{fixed(at("a", 0, 5), at("b", 0, 5)), "(a [0:5])"},
		{fixed(at("a", 0, 5), at("b", 0, 5, tree.WithWeight(1))), "(b [0:5])"},
		{fixed(at("a", 0, 2), at("b", 2, 2), at("c", 1, 2)), "(a [0:2]) (b [2:2])"},
		{fixed(at("a", 0, 2), at("b", 4, 2), at("c", 1, 4, tree.WithWeight(1))), "(c [1:4])"},
	}

	for i, s := range samples {
		got := parse(t, FlatMerge(s.input), text)
		if got != s.expected {
			t.Errorf("sample #%d: expecting %q, got %q", i, s.expected, got)
		}
	}
}

func TestMergeByOrder(t *testing.T) {
	text := "0123456789abcdef"
	withChild := func(doc *source.Source) *tree.Tree {
		n := at("a", 0, 6)(doc)
		n.Offer(at("x", 2, 2)(doc))
		return n
	}

	samples := []struct {
		input    Parser
		expected string
	}{
		{fixed(at("a", 0, 5), at("b", 3, 5)), "(a [0:5])"},
		{fixed(at("a", 0, 5), at("b", 3, 5, tree.WithWeight(1))), "(b [3:5])"},
		{fixed(at("a", 0, 5), at("b", 1, 2)), "(a [0:5]) (b [1:2])"},
		{fixed(at("a", 0, 5, tree.WithWeight(1)), at("b", 1, 2)), "(a [0:5])"},
		{fixed(at("a", 0, 5), at("b", 1, 2, tree.WithWeight(1))), "(a [0:5]) (b [1:2])"},
		{fixed(at("a", 0, 5), at("b", 0, 5)), "(a [0:5])"},
		{fixed(at("a", 0, 5), at("b", 0, 5, tree.WithZIndex(1))), "(a [0:5]) (b [0:5])"},
		{fixed(withChild, at("b", 3, 3)), "(a [0:6] (x [2:2]))"},
		{fixed(withChild, at("b", 4, 2)), "(a [0:6] (x [2:2])) (b [4:2])"},
		{fixed(withChild, at("b", 2, 2, tree.WithWeight(1))), "(a [0:6] (x [2:2])) (b [2:2])"},
		{fixed(at("a", 0, 2), at("b", 3, 2), at("c", 1, 3, tree.WithWeight(1))), "(c [1:3])"},
		{fixed(at("a", 0, 2, tree.WithWeight(2)), at("b", 3, 2), at("c", 1, 3, tree.WithWeight(1))), "(a [0:2]) (b [3:2])"},
	}

	for i, s := range samples {
		got := parse(t, MergeByOrder(s.input), text)
		if got != s.expected {
			t.Errorf("sample #%d: expecting %q, got %q", i, s.expected, got)
		}
	}
}

func TestMergeByOrderOfferable(t *testing.T) {
	input := fixed(
		at("a", 0, 8), at("b", 2, 3), at("c", 4, 6), at("d", 6, 1),
		at("e", 9, 4), at("f", 9, 4), at("g", 10, 1, tree.WithZIndex(1)),
	)
	c := newCompilation("0123456789abcdef", 1)
	s, e := MergeByOrder(input).Parse(c, c.Root())
	test.ExpectNoError(t, e)
	for _, n := range s.Sorted() {
		_, e := c.Offer(n)
		test.ExpectNoError(t, e)
	}
	test.ExpectString(t, "(root [0:16] (a [0:8] (b [2:3]) (d [6:1])) (e [9:4] (g [10:1])))", tree.Dump(c.Root()))
}

func TestNaturalMerge(t *testing.T) {
	text := "0123456789abcdef"
	input := fixed(at("a", 0, 4), at("b", 2, 4), at("c", 4, 2), at("d", 5, 1), at("e", 5, 1))
	test.ExpectString(t, "(a [0:4]) (c [4:2]) (d [5:1])", parse(t, NaturalMerge(input, nil), text))

	none := func(prev, next *tree.Tree) bool {
		return source.Compute(prev.Reference(), next.Reference()) == source.None
	}
	test.ExpectString(t, "(a [0:4]) (c [4:2])", parse(t, NaturalMerge(input, none), text))
}
