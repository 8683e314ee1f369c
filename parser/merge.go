package parser

import (
	"github.com/jamplate/jamplate/source"
	"github.com/jamplate/jamplate/tree"
)

type merger struct {
	parser     Parser
	compatible func(prev, next *tree.Tree) bool
	beats      func(next, prev *tree.Tree) bool
}

func (p *merger) Parse(c *Compilation, t *tree.Tree) (*tree.Set, error) {
	found, e := p.parser.Parse(c, t)
	if e != nil {
		return nil, e
	}

	kept := make([]*tree.Tree, 0, found.Len())
	for _, next := range found.Sorted() {
		conflicts := make([]int, 0)
		wins := true
		for i, prev := range kept {
			if p.compatible(prev, next) {
				continue
			}
			if !p.beats(next, prev) {
				wins = false
				break
			}
			conflicts = append(conflicts, i)
		}

		if !wins {
			logger().Debugf("merge: dropped %s", next)
			continue
		}

		for i := len(conflicts) - 1; i >= 0; i-- {
			j := conflicts[i]
			logger().Debugf("merge: %s evicted by %s", kept[j], next)
			kept = append(kept[:j], kept[j+1:]...)
		}
		kept = append(kept, next)
	}

	return tree.NewSet(kept...), nil
}

func heavier(next, prev *tree.Tree) bool {
	return next.Weight() > prev.Weight()
}

// FlatMerge returns a parser keeping a subset of p results with no partial overlaps.
// A later candidate may lie inside an earlier one or repeat its span with higher z-index.
// On conflict the earlier candidate is kept unless the later one is heavier.
func FlatMerge(p Parser) Parser {
	return &merger{
		parser: p,
		compatible: func(prev, next *tree.Tree) bool {
			switch source.Compute(prev.Reference(), next.Reference()) {
			case source.None, source.Contain:
				return true
			case source.Exact:
				return next.ZIndex() > prev.ZIndex()
			default:
				return false
			}
		},
		beats: heavier,
	}
}

// MergeByOrder returns a parser keeping a subset of p results that can be offered into a tree
// in any order without clashes.
// Candidates are checked in order, a candidate clashing with an earlier kept one is dropped
// unless it is heavier than every candidate it clashes with; those are dropped instead.
// A candidate nested into a heavier one clashes with it.
func MergeByOrder(p Parser) Parser {
	return &merger{
		parser: p,
		compatible: func(prev, next *tree.Tree) bool {
			return fits(prev, next, false)
		},
		beats: heavier,
	}
}

// fits reports whether next can be offered into a tree already holding prev,
// taking pre-built children of both into account.
// A nested pair with the same span is merged by Offer, so only its children are checked.
func fits(prev, next *tree.Tree, nested bool) bool {
	switch source.Compute(prev.Reference(), next.Reference()) {
	case source.None:
		return true

	case source.Contain:
		if prev.Weight() > next.Weight() {
			return false
		}
		for _, child := range tree.Children(prev) {
			if !fits(child, next, true) {
				return false
			}
		}
		return true

	case source.Part:
		if next.Weight() > prev.Weight() {
			return false
		}
		for _, child := range tree.Children(next) {
			if !fits(prev, child, true) {
				return false
			}
		}
		return true

	case source.Exact:
		if !nested {
			return prev.ZIndex() != next.ZIndex()
		}
		for _, child := range tree.Children(next) {
			if !fits(prev, child, true) {
				return false
			}
		}
		return true

	default:
		return false
	}
}

// Adjacency reports whether next may be kept after prev.
type Adjacency func(prev, next *tree.Tree) bool

// Adjacent is the default adjacency: candidates must not overlap partially
// and candidates with the same span must differ in z-index.
func Adjacent(prev, next *tree.Tree) bool {
	switch source.Compute(prev.Reference(), next.Reference()) {
	case source.Share:
		return false
	case source.Exact:
		return prev.ZIndex() != next.ZIndex()
	default:
		return true
	}
}

type naturalMerge struct {
	parser   Parser
	adjacent Adjacency
}

// NaturalMerge returns a parser making a single sweep over ordered results of p,
// keeping a candidate only when it is adjacent to the last kept one.
// Nil adjacent means Adjacent.
func NaturalMerge(p Parser, adjacent Adjacency) Parser {
	if adjacent == nil {
		adjacent = Adjacent
	}
	return &naturalMerge{p, adjacent}
}

func (p *naturalMerge) Parse(c *Compilation, t *tree.Tree) (*tree.Set, error) {
	found, e := p.parser.Parse(c, t)
	if e != nil {
		return nil, e
	}

	res := tree.NewSet()
	var last *tree.Tree
	for _, next := range found.Sorted() {
		if last == nil || p.adjacent(last, next) {
			res.Add(next)
			last = next
		}
	}
	return res, nil
}
