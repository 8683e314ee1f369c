package source

import (
	"fmt"
)

// Reference addresses the half-open byte interval [Position, Position+Length) of a document.
// Zero length reference is a valid anchor.
type Reference struct {
	Position int
	Length   int
}

// NewReference creates a reference. Panics if position or length is negative.
func NewReference(position, length int) Reference {
	if position < 0 || length < 0 {
		panic(fmt.Sprintf("source: invalid reference [%d:%d]", position, length))
	}
	return Reference{position, length}
}

// Span creates a reference for [start, end) interval.
func Span(start, end int) Reference {
	return NewReference(start, end-start)
}

// End returns the first position after the reference.
func (r Reference) End() int {
	return r.Position + r.Length
}

// IsEmpty tells whether reference has zero length.
func (r Reference) IsEmpty() bool {
	return r.Length == 0
}

// Compare orders references by position, then by length.
// Returns -1, 0, or 1.
func (r Reference) Compare(other Reference) int {
	switch {
	case r.Position < other.Position:
		return -1
	case r.Position > other.Position:
		return 1
	case r.Length < other.Length:
		return -1
	case r.Length > other.Length:
		return 1
	}
	return 0
}

// Slice returns the part of content addressed by the reference, clamped to content bounds.
func (r Reference) Slice(content []byte) []byte {
	start, end := r.Position, r.End()
	if start > len(content) {
		start = len(content)
	}
	if end > len(content) {
		end = len(content)
	}
	return content[start:end]
}

func (r Reference) String() string {
	return fmt.Sprintf("[%d:%d]", r.Position, r.Length)
}
