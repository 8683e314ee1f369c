// Package lexer compiles patterns and scans document spans for matches.
package lexer

import (
	"regexp"

	"github.com/jamplate/jamplate"
	"github.com/jamplate/jamplate/source"
)

// Error codes used by lexer:
const (
	// ErrBadPattern indicates that a pattern is not a valid regular expression.
	ErrBadPattern = jamplate.PatternErrors + iota

	// ErrEmptyPattern indicates an empty pattern.
	ErrEmptyPattern
)

// Pattern is a compiled regular expression matched against document spans.
// Pattern is immutable and safe for concurrent use.
type Pattern struct {
	expr string
	re   *regexp.Regexp
}

// Compile compiles expr eagerly. Patterns are matched in (?s) mode, i.e. dot matches new lines.
func Compile(expr string) (*Pattern, error) {
	if expr == "" {
		return nil, jamplate.FormatError(ErrEmptyPattern, "empty pattern")
	}

	re, e := regexp.Compile("(?s:" + expr + ")")
	if e != nil {
		return nil, jamplate.FormatError(ErrBadPattern, "bad pattern %q: %s", expr, e)
	}

	return &Pattern{expr, re}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string) *Pattern {
	p, e := Compile(expr)
	if e != nil {
		panic(e)
	}
	return p
}

func (p *Pattern) String() string {
	return p.expr
}

// FindAll returns references of all non-overlapping matches inside span of src, in order.
// Anchors (^, \A) refer to the start of the span.
func (p *Pattern) FindAll(src *source.Source, span source.Reference) []source.Reference {
	content := src.Read(span)
	matches := p.re.FindAllIndex(content, -1)
	res := make([]source.Reference, len(matches))
	for i, m := range matches {
		res[i] = source.Span(span.Position+m[0], span.Position+m[1])
	}
	return res
}

// FindFirst returns the reference of the leftmost match inside span of src.
func (p *Pattern) FindFirst(src *source.Source, span source.Reference) (source.Reference, bool) {
	m := p.re.FindIndex(src.Read(span))
	if m == nil {
		return source.Reference{}, false
	}
	return source.Span(span.Position+m[0], span.Position+m[1]), true
}
