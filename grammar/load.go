package grammar

import (
	"bytes"
	_ "embed"
	"errors"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jamplate/jamplate"
)

//go:embed jamplate.yaml
var defaultGrammar []byte

const defaultName = "jamplate.yaml"

var defaultOnce = sync.OnceValue(func() *Grammar {
	g, e := load(defaultName, bytes.NewReader(defaultGrammar))
	if e == nil {
		_, e = g.Build()
	}
	if e != nil {
		panic(e)
	}
	return g
})

// Default returns the built-in jamplate grammar.
func Default() *Grammar {
	return defaultOnce()
}

// Load reads grammar definition from r.
func Load(r io.Reader) (*Grammar, error) {
	return load("", r)
}

// LoadFile reads grammar definition from named file.
// Error positions refer to that file.
func LoadFile(path string) (*Grammar, error) {
	f, e := os.Open(path)
	if e != nil {
		return nil, e
	}

	defer f.Close()
	return load(path, f)
}

func load(name string, r io.Reader) (*Grammar, error) {
	d := yaml.NewDecoder(r)
	d.KnownFields(true)

	g := &Grammar{sourceName: name}
	e := d.Decode(g)
	if errors.Is(e, io.EOF) {
		return nil, jamplate.NewError(ErrNoParser, "empty grammar", name, 0, 0)
	}
	if e != nil {
		var je *jamplate.Error
		if errors.As(e, &je) {
			return nil, jamplate.NewError(je.Code, je.Message, name, je.Line, je.Col)
		}
		return nil, jamplate.NewError(ErrSyntax, e.Error(), name, 0, 0)
	}

	if g.Parser == nil {
		return nil, jamplate.NewError(ErrNoParser, "no parser expression", name, 0, 0)
	}
	return g, nil
}

func nodeError(n *yaml.Node, code int, msg string) *jamplate.Error {
	return jamplate.NewError(code, msg, "", n.Line, n.Column)
}

// decodeFields decodes mapping n into out, allowing only listed keys.
func decodeFields(n *yaml.Node, out any, keys ...string) error {
	if n.Kind != yaml.MappingNode {
		return nodeError(n, ErrSyntax, "mapping expected")
	}

	for i := 0; i < len(n.Content); i += 2 {
		key := n.Content[i]
		known := false
		for _, k := range keys {
			if k == key.Value {
				known = true
				break
			}
		}
		if !known {
			return nodeError(key, ErrUnknownKey, "unknown key "+key.Value)
		}
	}
	return n.Decode(out)
}

var (
	termKeys      = []string{"pattern", "kind", "global", "weight", "z-index"}
	enclosureKeys = []string{"start", "end", "kind", "global", "weight", "z-index", "start-kind", "end-kind", "body-kind"}
	thenKeys      = []string{"parser", "then"}
	filterKeys    = []string{"kind", "hierarchy", "weight", "parser"}
	mergeKeys     = []string{"mode", "parser"}
)

func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	n.line, n.col = value.Line, value.Column
	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return nodeError(value, ErrNodeKeys, "parser expression must have exactly one key")
	}

	key, body := value.Content[0], value.Content[1]
	switch key.Value {
	case "term":
		n.Term = &Term{}
		return decodeFields(body, n.Term, termKeys...)
	case "enclosure":
		n.Enclosure = &Enclosure{}
		return decodeFields(body, n.Enclosure, enclosureKeys...)
	case "combine":
		if body.Kind != yaml.SequenceNode {
			return nodeError(body, ErrSyntax, "sequence expected")
		}
		return body.Decode(&n.Combine)
	case "recursive":
		n.Recursive = &Node{}
		return body.Decode(n.Recursive)
	case "then-add":
		n.ThenAdd = &Then{}
		return decodeFields(body, n.ThenAdd, thenKeys...)
	case "then-offer":
		n.ThenOffer = &Then{}
		return decodeFields(body, n.ThenOffer, thenKeys...)
	case "filter":
		n.Filter = &Filter{}
		return decodeFields(body, n.Filter, filterKeys...)
	case "merge":
		n.Merge = &Merge{}
		return decodeFields(body, n.Merge, mergeKeys...)
	case "ref":
		return body.Decode(&n.Ref)
	default:
		return nodeError(key, ErrUnknownKey, "unknown parser expression "+key.Value)
	}
}
