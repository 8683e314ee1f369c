package tree

import (
	"sort"

	"github.com/jamplate/jamplate/source"
)

type setKey struct {
	reference source.Reference
	zIndex    int
	kind      string
}

// Set is an insertion ordered set of trees.
// A tree is not added if the set already contains it or an equivalent tree,
// i.e. a tree with the same reference, z-index, and kind.
// Nil *Set is a valid empty set for reading.
type Set struct {
	items []*Tree
	keys  map[setKey]struct{}
}

func NewSet(trees ...*Tree) *Set {
	s := &Set{keys: make(map[setKey]struct{})}
	s.Add(trees...)
	return s
}

func keyOf(t *Tree) setKey {
	return setKey{t.reference, t.zIndex, t.Kind()}
}

// Add adds trees and returns the number of trees actually added. Nil trees are skipped.
func (s *Set) Add(trees ...*Tree) int {
	added := 0
	for _, t := range trees {
		if t == nil {
			continue
		}

		k := keyOf(t)
		if _, has := s.keys[k]; has {
			continue
		}

		s.keys[k] = struct{}{}
		s.items = append(s.items, t)
		added++
	}
	return added
}

// Union adds all trees of other sets.
func (s *Set) Union(others ...*Set) *Set {
	for _, o := range others {
		if o != nil {
			s.Add(o.items...)
		}
	}
	return s
}

// Contains tells whether the set contains t or a tree equivalent to it.
func (s *Set) Contains(t *Tree) bool {
	if s == nil || t == nil {
		return false
	}

	_, has := s.keys[keyOf(t)]
	return has
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

func (s *Set) IsEmpty() bool {
	return s.Len() == 0
}

// Items returns trees in insertion order. The slice must not be modified.
func (s *Set) Items() []*Tree {
	if s == nil {
		return nil
	}
	return s.items
}

// Sorted returns a copy of trees ordered by reference, then by z-index.
func (s *Set) Sorted() []*Tree {
	res := make([]*Tree, s.Len())
	copy(res, s.Items())
	Sort(res)
	return res
}

// Sort orders trees by reference, then by z-index, keeping the order of equal trees.
func Sort(trees []*Tree) {
	sort.SliceStable(trees, func(i, j int) bool {
		c := trees[i].reference.Compare(trees[j].reference)
		if c == 0 {
			return trees[i].zIndex < trees[j].zIndex
		}
		return c < 0
	})
}
