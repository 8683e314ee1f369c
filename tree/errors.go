package tree

import (
	"github.com/jamplate/jamplate"
	"github.com/jamplate/jamplate/source"
)

// Error codes used by tree:
const (
	// ErrIllegalTree indicates that offered tree partially overlaps a tree of the forest
	// or encloses a tree that is not a root.
	ErrIllegalTree = jamplate.TreeErrors + iota

	// ErrAttached indicates that offered tree already belongs to some forest.
	ErrAttached
)

// IllegalTreeError is returned by Offer when the offered tree cannot be grafted into the forest.
// Unwraps to *jamplate.Error with ErrIllegalTree code.
type IllegalTreeError struct {
	// Existing is the tree of the forest that clashes with Offered.
	Existing *Tree

	// Offered is the rejected tree.
	Offered *Tree

	err *jamplate.Error
}

func (e *IllegalTreeError) Error() string {
	return e.err.Message
}

func (e *IllegalTreeError) Unwrap() error {
	return e.err
}

func illegalTreeError(existing, offered *Tree) *IllegalTreeError {
	pos := source.NewPos(offered.document, offered.reference.Position)
	return &IllegalTreeError{
		Existing: existing,
		Offered:  offered,
		err: jamplate.FormatErrorPos(pos, ErrIllegalTree, "%s %s %s",
			offered, source.Compute(offered.reference, existing.reference), existing),
	}
}

func attachedError(t *Tree) *jamplate.Error {
	pos := source.NewPos(t.document, t.reference.Position)
	return jamplate.FormatErrorPos(pos, ErrAttached, "%s is already attached", t)
}
