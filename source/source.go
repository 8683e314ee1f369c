// Package source defines documents, text references and the dominance relation between references.
package source

import (
	"bytes"
	"sort"
	"unicode/utf8"
)

// Source is an immutable named document.
// Source is safe for concurrent use.
type Source struct {
	name       string
	content    []byte
	lineStarts []int
}

// New creates new Source. content must not be modified afterwards.
func New(name string, content []byte) *Source {
	s := &Source{name: name, content: content}
	lineCnt := bytes.Count(content, []byte("\n")) + 1
	s.lineStarts = make([]int, lineCnt)
	j := 1
	for i := 0; i < len(content) && j < lineCnt; i++ {
		if content[i] == '\n' {
			s.lineStarts[j] = i + 1
			j++
		}
	}

	return s
}

// NewString creates new Source with string content.
func NewString(name, content string) *Source {
	return New(name, []byte(content))
}

// Name returns source name, may be empty.
func (s *Source) Name() string {
	return s.name
}

// Content returns whole source content.
func (s *Source) Content() []byte {
	return s.content
}

// Len returns source length in bytes.
func (s *Source) Len() int {
	return len(s.content)
}

// Reference returns the reference covering the whole source.
func (s *Source) Reference() Reference {
	return Reference{0, len(s.content)}
}

// Read returns content addressed by ref, clamped to source bounds.
func (s *Source) Read(ref Reference) []byte {
	return ref.Slice(s.content)
}

// Text returns content addressed by ref as a string.
func (s *Source) Text(ref Reference) string {
	return string(s.Read(ref))
}

// LineCol returns 1-based line and column numbers for byte position.
// Column is counted in runes.
func (s *Source) LineCol(pos int) (line, col int) {
	if pos < 0 {
		pos = 0
	} else if pos > len(s.content) {
		pos = len(s.content)
	}

	lineIndex := s.findLineIndex(pos)
	lineStart := s.lineStarts[lineIndex]
	return lineIndex + 1, utf8.RuneCount(s.content[lineStart:pos]) + 1
}

// Pos returns byte position for 1-based line and column (column is counted in bytes).
func (s *Source) Pos(line, col int) int {
	if line <= 0 || col <= 0 {
		return 0
	}

	l := len(s.content)
	if line > len(s.lineStarts) {
		return l
	}

	res := s.lineStarts[line-1] + col - 1
	if res > l {
		return l
	}
	return res
}

func (s *Source) findLineIndex(pos int) int {
	return sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > pos
	}) - 1
}

// Pos is a position in source with precomputed line and column.
type Pos struct {
	src            *Source
	pos, line, col int
}

// NewPos creates a position for byte offset pos of src. src may be nil.
func NewPos(src *Source, pos int) Pos {
	p := Pos{src: src, pos: pos}
	if src != nil {
		p.line, p.col = src.LineCol(pos)
	}
	return p
}

func (p Pos) Source() *Source {
	return p.src
}

func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.Name()
}

func (p Pos) Pos() int {
	return p.pos
}

func (p Pos) Line() int {
	return p.line
}

func (p Pos) Col() int {
	return p.col
}
