package grammar

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jamplate/jamplate"
	"github.com/jamplate/jamplate/internal/test"
	"github.com/jamplate/jamplate/lexer"
	"github.com/jamplate/jamplate/source"
	"github.com/jamplate/jamplate/tree"
)

func loadString(t *testing.T, text string) *Grammar {
	t.Helper()
	g, e := Load(strings.NewReader(text))
	test.ExpectNoError(t, e)
	return g
}

func parseString(t *testing.T, g *Grammar, text string) string {
	t.Helper()
	r, e := g.Parse(source.NewString("doc", text))
	test.ExpectNoError(t, e)
	return tree.Dump(r)
}

const sample = `
name: sample
options: {max-passes: 8, workers: 2}
define:
  comma: {term: {pattern: ",", kind: comma, global: true}}
parser:
  merge:
    mode: order
    parser:
      combine:
        - ref: comma
        - enclosure: {start: "\\{", end: "\\}", kind: braces, global: true, start-kind: open, end-kind: close}
        - then-add:
            parser: {term: {pattern: "-?\\d+", kind: number, global: true, weight: 5}}
            then: {term: {pattern: "^-", kind: sign, weight: 5}}
        - filter:
            kind: braces
            hierarchy: true
            parser:
              recursive: {term: {pattern: "[a-z]+", kind: word, global: true}}
`

func TestLoad(t *testing.T) {
	g := loadString(t, sample)
	test.ExpectString(t, "sample", g.Name)
	test.ExpectInt(t, 8, g.Options.MaxPasses)
	test.ExpectInt(t, 2, g.Options.Workers)
	test.Assert(t, g.Define["comma"].Term != nil, "comma definition is not a term")
	test.ExpectInt(t, 4, len(g.Parser.Merge.Parser.Combine))
	test.ExpectString(t, "braces", g.Parser.Merge.Parser.Combine[3].Filter.Kind)

	test.ExpectString(t,
		"(root [0:10] (comma [1:1]) (braces [2:6] (open [2:1]) (word [3:2]) (comma [5:1]) (word [6:1]) (close [7:1])) (number [8:2] (sign [8:1])))",
		parseString(t, g, "x,{ab,c}-1"))
}

func TestLoadErrors(t *testing.T) {
	samples := []struct {
		text string
		code int
	}{
		{"", ErrNoParser},
		{"name: x", ErrNoParser},
		{"name: [", ErrSyntax},
		{"parsers: {}", ErrSyntax},
		{"parser: {term: {pattern: a}, ref: b}", ErrNodeKeys},
		{"parser: {lexer: {}}", ErrUnknownKey},
		{"parser: {term: {pattern: a, size: 1}}", ErrUnknownKey},
		{"parser: {term: x}", ErrSyntax},
		{"parser: {combine: {term: {pattern: a}}}", ErrSyntax},
		{"parser: {term: {pattern: a, weight: heavy}}", ErrSyntax},
	}

	for i, s := range samples {
		_, e := Load(strings.NewReader(s.text))
		if e == nil {
			t.Errorf("sample #%d: expecting error code %d, got success", i, s.code)
			continue
		}
		je, ok := e.(*jamplate.Error)
		if !ok || je.Code != s.code {
			t.Errorf("sample #%d: expecting error code %d, got %v", i, s.code, e)
		}
	}
}

func TestBuildErrors(t *testing.T) {
	samples := []struct {
		text string
		code int
	}{
		{"parser: {term: {kind: a}}", ErrMissingField},
		{"parser: {term: {pattern: '('}}", lexer.ErrBadPattern},
		{"parser: {enclosure: {start: a}}", ErrMissingField},
		{"parser: {combine: []}", ErrMissingField},
		{"parser: {then-add: {parser: {term: {pattern: a}}}}", ErrMissingField},
		{"parser: {filter: {parser: {term: {pattern: a}}}}", ErrMissingField},
		{"parser: {merge: {mode: random, parser: {term: {pattern: a}}}}", ErrMergeMode},
		{"parser: {ref: a}", ErrUnknownRef},
		{"define: {a: {ref: b}, b: {recursive: {ref: a}}}\nparser: {ref: a}", ErrRecursiveRef},
		{"define: {a: {term: {pattern: a}}}\nparser: {term: {pattern: b}}", ErrUnusedDefinition},
	}

	for i, s := range samples {
		g, e := Load(strings.NewReader(s.text))
		if e != nil {
			t.Errorf("sample #%d: unexpected load error %v", i, e)
			continue
		}

		_, e = g.Build()
		je, ok := e.(*jamplate.Error)
		if !ok || je.Code != s.code {
			t.Errorf("sample #%d: expecting error code %d, got %v", i, s.code, e)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	test.ExpectNoError(t, os.WriteFile(path, []byte("parser:\n  merge:\n    mode: random\n    parser: {term: {pattern: a}}\n"), 0o644))

	g, e := LoadFile(path)
	test.ExpectNoError(t, e)
	_, e = g.Build()
	test.ExpectErrorCode(t, ErrMergeMode, e)
	je := e.(*jamplate.Error)
	test.ExpectString(t, path, je.SourceName)
	test.ExpectInt(t, 2, je.Line)
	test.Assert(t, strings.Contains(e.Error(), "line 2"), "no position in %q", e.Error())

	path = filepath.Join(dir, "broken.yaml")
	test.ExpectNoError(t, os.WriteFile(path, []byte("parser:\n  term: {pattern: a, size: 1}\n"), 0o644))
	_, e = LoadFile(path)
	test.ExpectErrorCode(t, ErrUnknownKey, e)
	test.ExpectInt(t, 2, e.(*jamplate.Error).Line)

	_, e = LoadFile(filepath.Join(dir, "missing.yaml"))
	test.Assert(t, os.IsNotExist(e), "expecting missing file error, got %v", e)
}

func TestRefWeight(t *testing.T) {
	g := loadString(t, `
define:
  word: {term: {pattern: "[a-z]+", kind: word, global: true}}
parser:
  combine:
    - ref: word
    - filter: {kind: root, weight: 7, parser: {ref: word}}
    - filter: {kind: root, weight: 7, parser: {ref: word}}
`)
	b := newBuilder(g)
	_, e := b.build()
	test.ExpectNoError(t, e)
	test.ExpectInt(t, 2, len(b.built))

	test.ExpectString(t, "(root [0:5] (word [0:2]) (word [3:2]))", parseString(t, g, "ab cd"))
}

func TestDefault(t *testing.T) {
	g := Default()
	test.Assert(t, g == Default(), "default grammar is loaded twice")
	test.ExpectString(t, "jamplate", g.Name)

	samples := []struct {
		text, expected string
	}{
		{
			"a, #{ f(b) }#",
			"(root [0:13] (comma [1:1]) (injection [3:10] (open [3:2]) (expression [5:6] (identifier [6:1]) " +
				"(parens [7:3] (open [7:1]) (identifier [8:1]) (close [9:1]))) (close [11:2])))",
		},
		{
			`x "a\"b" // c"`,
			"(root [0:14] (string [2:6] (quote [2:1]) (text [3:4] (escape [4:2])) (quote [7:1])) (line-comment [9:5]))",
		},
		{
			"#if {a}\nb",
			"(root [0:9] (command [0:7] (command-name [0:3]) (parameter [3:4] (braces [4:3] (open [4:1]) (identifier [5:1]) (close [6:1])))))",
		},
		{
			"x /* { */ }",
			"(root [0:11] (block-comment [2:7]))",
		},
		{
			"x { ( } )",
			"(root [0:9] (braces [2:5] (open [2:1]) (close [6:1])))",
		},
		{
			`x "\"" y`,
			"(root [0:8] (string [2:4] (quote [2:1]) (escape [3:2]) (quote [5:1])))",
		},
		{
			`x "\\" y`,
			"(root [0:8] (string [2:4] (quote [2:1]) (escape [3:2]) (quote [5:1])))",
		},
		{
			"{a,b}",
			"(braces [0:5] (open [0:1]) (comma [2:1]) (close [4:1]))",
		},
		{
			"#{ a }#",
			"(injection [0:7] (open [0:2]) (expression [2:3] (identifier [3:1])) (close [5:2]))",
		},
	}

	for i, s := range samples {
		got := parseString(t, g, s.text)
		if got != s.expected {
			t.Errorf("sample #%d: expecting\n%s\ngot\n%s", i, s.expected, got)
		}
	}
}

func TestParseIllegalTree(t *testing.T) {
	g := loadString(t, `
parser:
  combine:
    - enclosure: {start: "\\{", end: "\\}", kind: braces, global: true}
    - enclosure: {start: "\\(", end: "\\)", kind: parens, global: true}
`)
	r, e := g.Parse(source.NewString("doc", "x { ( } )"))
	test.ExpectErrorCode(t, tree.ErrIllegalTree, e)
	test.Assert(t, r == nil, "partial tree is returned")

	var ite *tree.IllegalTreeError
	test.Assert(t, errors.As(e, &ite), "expecting *tree.IllegalTreeError, got %T", e)
	test.ExpectString(t, "braces", ite.Existing.Kind())
	test.ExpectString(t, "parens", ite.Offered.Kind())
}
