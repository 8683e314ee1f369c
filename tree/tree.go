// Package tree defines the syntax tree forest and the conflict-checked insertion of candidate trees.
package tree

import (
	"math"

	"github.com/jamplate/jamplate/sketch"
	"github.com/jamplate/jamplate/source"
)

// Tree is a node of syntax tree forest addressing a span of a document.
// Tree owns its sketch and its children, parent and sibling links are back-references.
// Reference, document, z-index, and weight never change after construction.
// The only way to change forest shape is Offer.
type Tree struct {
	document  *source.Source
	reference source.Reference
	sketch    *sketch.Sketch
	zIndex    int
	weight    int

	parent                *Tree
	prev, next            *Tree
	firstChild, lastChild *Tree
}

// MinZIndex is the z-index of a placeholder tree: any other tree addressing the same span replaces it.
const MinZIndex = math.MinInt

// Option customizes a tree at construction.
type Option func(t *Tree)

// WithZIndex sets the priority used when two trees address exactly the same span.
func WithZIndex(zIndex int) Option {
	return func(t *Tree) {
		t.zIndex = zIndex
	}
}

// WithWeight sets the weight reserving tree span against lighter matches.
func WithWeight(weight int) Option {
	return func(t *Tree) {
		t.weight = weight
	}
}

// WithKind sets the kind of tree sketch.
func WithKind(kind string) Option {
	return func(t *Tree) {
		t.sketch.SetKind(kind)
	}
}

// WithSketch replaces the default empty sketch. Nil sketch is ignored.
func WithSketch(s *sketch.Sketch) Option {
	return func(t *Tree) {
		if s != nil {
			t.sketch = s
		}
	}
}

// New creates new detached tree.
func New(doc *source.Source, ref source.Reference, opts ...Option) *Tree {
	t := &Tree{document: doc, reference: ref, sketch: sketch.New()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewRoot creates a detached tree covering the whole document.
func NewRoot(doc *source.Source, opts ...Option) *Tree {
	return New(doc, doc.Reference(), opts...)
}

func (t *Tree) Document() *source.Source {
	return t.document
}

func (t *Tree) Reference() source.Reference {
	return t.reference
}

func (t *Tree) Sketch() *sketch.Sketch {
	return t.sketch
}

// Kind is a shortcut for Sketch().Kind().
func (t *Tree) Kind() string {
	return t.sketch.Kind()
}

func (t *Tree) ZIndex() int {
	return t.zIndex
}

func (t *Tree) Weight() int {
	return t.weight
}

func (t *Tree) Parent() *Tree {
	return t.parent
}

func (t *Tree) Prev() *Tree {
	return t.prev
}

func (t *Tree) Next() *Tree {
	return t.next
}

func (t *Tree) FirstChild() *Tree {
	return t.firstChild
}

func (t *Tree) LastChild() *Tree {
	return t.lastChild
}

// Text returns document content addressed by the tree.
func (t *Tree) Text() string {
	if t.document == nil {
		return ""
	}
	return t.document.Text(t.reference)
}

// Root returns the topmost ancestor of the tree or the tree itself.
func (t *Tree) Root() *Tree {
	for t.parent != nil {
		t = t.parent
	}
	return t
}

func (t *Tree) isDetached() bool {
	return t.parent == nil && t.prev == nil && t.next == nil
}

func (t *Tree) String() string {
	kind := t.Kind()
	if kind == "" {
		kind = "tree"
	}
	return kind + t.reference.String()
}

// Ancestor returns the ancestor level steps above the parent, Ancestor(t, 0) is the parent.
func Ancestor(t *Tree, level int) *Tree {
	for t != nil && level >= 0 {
		t = t.parent
		level--
	}
	return t
}

// Level returns the number of ancestors of the tree.
func Level(t *Tree) (l int) {
	if t == nil {
		return
	}

	for p := t.parent; p != nil; p = p.parent {
		l++
	}
	return
}

// SiblingIndex returns the number of previous siblings.
func SiblingIndex(t *Tree) (i int) {
	if t == nil {
		return
	}

	for p := t.prev; p != nil; p = p.prev {
		i++
	}
	return
}

// NthChild returns i-th child, negative i counts from the last child (-1 is the last one).
func NthChild(t *Tree, i int) *Tree {
	if t == nil {
		return nil
	}

	var c *Tree
	if i >= 0 {
		c = t.firstChild
		for c != nil && i > 0 {
			c = c.next
			i--
		}
	} else {
		i++
		c = t.lastChild
		for c != nil && i < 0 {
			c = c.prev
			i++
		}
	}
	return c
}

const AllLevels = -1

// NumOfChildren counts children down to given depth, AllLevels counts all descendants.
func NumOfChildren(t *Tree, levels int) int {
	if t == nil {
		return 0
	}

	i := 0
	for c := t.firstChild; c != nil; c = c.next {
		i++
		if levels != 0 {
			i += NumOfChildren(c, levels-1)
		}
	}
	return i
}

// Children returns direct children in document order.
func Children(t *Tree) []*Tree {
	if t == nil {
		return nil
	}

	res := make([]*Tree, 0)
	for c := t.firstChild; c != nil; c = c.next {
		res = append(res, c)
	}
	return res
}

func detach(t *Tree) {
	p := t.parent
	np, nn := t.prev, t.next
	if np == nil {
		if p != nil {
			p.firstChild = nn
		}
	} else {
		np.next = nn
	}
	if nn == nil {
		if p != nil {
			p.lastChild = np
		}
	} else {
		nn.prev = np
	}
	t.parent, t.prev, t.next = nil, nil, nil
}

func insertBefore(next, t *Tree) {
	p := next.parent
	prev := next.prev
	t.parent, t.prev, t.next = p, prev, next
	next.prev = t
	if prev == nil {
		if p != nil {
			p.firstChild = t
		}
	} else {
		prev.next = t
	}
}

func appendChild(p, t *Tree) {
	t.parent, t.prev, t.next = p, p.lastChild, nil
	if p.lastChild == nil {
		p.firstChild = t
	} else {
		p.lastChild.next = t
	}
	p.lastChild = t
}

// insertChild inserts t among children of p according to its reference.
// t must not overlap any child of p.
func insertChild(p, t *Tree) {
	for c := p.firstChild; c != nil; c = c.next {
		if c.reference.Compare(t.reference) > 0 {
			insertBefore(c, t)
			return
		}
	}
	appendChild(p, t)
}

// replace puts t into the slot of old, old becomes detached, children stay with old.
func replace(old, t *Tree) {
	if old.isDetached() {
		return
	}

	insertBefore(old, t)
	detach(old)
}
