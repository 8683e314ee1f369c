package tree

// WalkMode defines the order of visiting siblings.
type WalkMode int

const (
	WalkLtr WalkMode = 0
	WalkRtl WalkMode = 1
)

// WalkerFlags returned by visitor control the walk.
type WalkerFlags int

const (
	// WalkerStop stops the walk.
	WalkerStop WalkerFlags = 1 << iota
	// WalkerSkipChildren skips children of current tree.
	WalkerSkipChildren
	// WalkerSkipSiblings skips remaining siblings of current tree.
	WalkerSkipSiblings
)

// WalkStat is passed to visitor.
type WalkStat struct {
	// Tree is the visited tree.
	Tree *Tree
	// Level is the depth relative to the tree the walk has started from.
	Level int
}

type Visitor func(stat WalkStat) WalkerFlags

// Walk visits t and its descendants depth first, parents before children.
func Walk(t *Tree, mode WalkMode, visitor Visitor) {
	if t != nil {
		visit(t, 0, visitor, (mode&WalkRtl) != 0)
	}
}

func visit(t *Tree, level int, v Visitor, rtl bool) WalkerFlags {
	flags := v(WalkStat{t, level})
	if flags&(WalkerStop|WalkerSkipChildren) == 0 {
		c := t.firstChild
		if rtl {
			c = t.lastChild
		}
		for c != nil {
			cf := visit(c, level+1, v, rtl)
			if cf&WalkerStop != 0 {
				return WalkerStop
			}
			if cf&WalkerSkipSiblings != 0 {
				break
			}

			if rtl {
				c = c.prev
			} else {
				c = c.next
			}
		}
	}

	return flags & (WalkerStop | WalkerSkipSiblings)
}

type Filter func(t *Tree) bool
type Selector func(t *Tree) []*Tree

// Query is a chain of selectors applied to input trees.
type Query struct {
	selectors []Selector
}

func NewQuery() *Query {
	return &Query{}
}

// Apply runs the chain on input trees and returns unique results in order of discovery.
// Nil trees are skipped.
func (q *Query) Apply(input ...*Tree) []*Tree {
	res := make([]*Tree, 0)
	index := make(map[*Tree]bool)
	for _, t := range input {
		if t == nil {
			continue
		}

		ts := []*Tree{t}
		for _, s := range q.selectors {
			next := make([]*Tree, 0)
			for _, tt := range ts {
				next = append(next, s(tt)...)
			}
			ts = next
		}

		for _, tt := range ts {
			if !index[tt] {
				index[tt] = true
				res = append(res, tt)
			}
		}
	}

	return res
}

func (q *Query) Use(s Selector) *Query {
	if s != nil {
		q.selectors = append(q.selectors, s)
	}
	return q
}

func (q *Query) Filter(f Filter) *Query {
	return q.Use(func(t *Tree) []*Tree {
		if f(t) {
			return []*Tree{t}
		}
		return nil
	})
}

// Search selects t and its descendants matching f.
// If deep is false, descendants of matching trees are not searched.
func (q *Query) Search(f Filter, deep bool) *Query {
	return q.Use(func(t *Tree) []*Tree {
		res := make([]*Tree, 0)
		Walk(t, WalkLtr, func(stat WalkStat) WalkerFlags {
			if f(stat.Tree) {
				res = append(res, stat.Tree)
				if !deep {
					return WalkerSkipChildren
				}
			}
			return 0
		})
		return res
	})
}

func IsKind(kinds ...string) Filter {
	return func(t *Tree) bool {
		k := t.Kind()
		for _, kind := range kinds {
			if k == kind {
				return true
			}
		}
		return false
	}
}

func IsNot(f Filter) Filter {
	return func(t *Tree) bool {
		return !f(t)
	}
}

func IsAny(fs ...Filter) Filter {
	return func(t *Tree) bool {
		for _, f := range fs {
			if f(t) {
				return true
			}
		}
		return false
	}
}

func IsAll(fs ...Filter) Filter {
	return func(t *Tree) bool {
		for _, f := range fs {
			if !f(t) {
				return false
			}
		}
		return true
	}
}
