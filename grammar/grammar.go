// Package grammar loads parser definitions from YAML and builds parsers from them.
//
// A grammar file contains a parser expression and optional named definitions:
//
//	name: sample
//	options: {max-passes: 16}
//	define:
//	  comma: {term: {pattern: ",", kind: comma, global: true}}
//	parser:
//	  merge:
//	    mode: order
//	    parser:
//	      combine:
//	        - ref: comma
//	        - enclosure: {start: "\\{", end: "\\}", kind: braces, global: true}
//
// Every parser expression has exactly one key: term, enclosure, combine, recursive,
// then-add, then-offer, filter, merge, or ref.
package grammar

import (
	"sync"

	"github.com/jamplate/jamplate"
	"github.com/jamplate/jamplate/parser"
	"github.com/jamplate/jamplate/source"
	"github.com/jamplate/jamplate/tree"
)

// Error codes used by grammar:
const (
	// ErrSyntax indicates malformed YAML or a value of wrong type.
	ErrSyntax = jamplate.GrammarErrors + iota

	// ErrNoParser indicates a grammar without parser expression.
	ErrNoParser

	// ErrNodeKeys indicates a parser expression having no keys or several keys.
	ErrNodeKeys

	// ErrUnknownKey indicates an unknown key in a mapping.
	ErrUnknownKey

	// ErrMissingField indicates a required field that is missing or empty.
	ErrMissingField

	// ErrUnknownRef indicates a reference to undefined name.
	ErrUnknownRef

	// ErrRecursiveRef indicates a definition referring to itself directly or indirectly.
	ErrRecursiveRef

	// ErrUnusedDefinition indicates a definition that is never referred to.
	ErrUnusedDefinition

	// ErrMergeMode indicates unknown merge mode.
	ErrMergeMode
)

// Merge modes:
const (
	MergeOrder   = "order"
	MergeFlat    = "flat"
	MergeNatural = "natural"
)

type Options struct {
	// MaxPasses limits the number of driver passes, 0 means no limit.
	MaxPasses int `yaml:"max-passes"`

	// Workers limits the number of concurrently evaluated sub-parsers, 0 means the number of CPUs.
	Workers int `yaml:"workers"`
}

// Grammar is a loaded grammar definition.
// The parser is built on first use and reused afterwards.
type Grammar struct {
	Name    string           `yaml:"name"`
	Options Options          `yaml:"options"`
	Define  map[string]*Node `yaml:"define"`
	Parser  *Node            `yaml:"parser"`

	sourceName string
	once       sync.Once
	parser     parser.Parser
	err        error
}

// Node is a parser expression, exactly one field is set.
type Node struct {
	Term      *Term
	Enclosure *Enclosure
	Combine   []*Node
	Recursive *Node
	ThenAdd   *Then
	ThenOffer *Then
	Filter    *Filter
	Merge     *Merge
	Ref       string

	line, col int
}

type Term struct {
	Pattern string `yaml:"pattern"`
	Kind    string `yaml:"kind"`
	Global  bool   `yaml:"global"`
	Weight  int    `yaml:"weight"`
	ZIndex  int    `yaml:"z-index"`
}

type Enclosure struct {
	Start     string `yaml:"start"`
	End       string `yaml:"end"`
	Kind      string `yaml:"kind"`
	Global    bool   `yaml:"global"`
	Weight    int    `yaml:"weight"`
	ZIndex    int    `yaml:"z-index"`
	StartKind string `yaml:"start-kind"`
	EndKind   string `yaml:"end-kind"`
	BodyKind  string `yaml:"body-kind"`
}

// Then is used by then-add and then-offer expressions.
type Then struct {
	Parser *Node `yaml:"parser"`
	Then   *Node `yaml:"then"`
}

// Filter applies Parser to trees of Kind.
// If Hierarchy is set, descendants of the scanned tree are searched too.
// Weight, if set, overrides weights of all terms and enclosures of Parser.
type Filter struct {
	Kind      string `yaml:"kind"`
	Hierarchy bool   `yaml:"hierarchy"`
	Weight    *int   `yaml:"weight"`
	Parser    *Node  `yaml:"parser"`
}

type Merge struct {
	Mode   string `yaml:"mode"`
	Parser *Node  `yaml:"parser"`
}

// Build returns parser described by the grammar.
func (g *Grammar) Build() (parser.Parser, error) {
	g.once.Do(func() {
		g.parser, g.err = newBuilder(g).build()
	})
	return g.parser, g.err
}

// Parse builds syntax tree for doc and returns its root.
// No partial tree is returned on error.
func (g *Grammar) Parse(doc *source.Source) (*tree.Tree, error) {
	p, e := g.Build()
	if e != nil {
		return nil, e
	}

	c := parser.NewCompilation(doc)
	d := parser.NewDriver(parser.WithMaxPasses(g.Options.MaxPasses), parser.WithWorkers(g.Options.Workers))
	if e = d.Run(c, p); e != nil {
		return nil, e
	}
	return c.Root(), nil
}
