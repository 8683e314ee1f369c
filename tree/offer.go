package tree

import (
	"github.com/tliron/commonlog"

	"github.com/jamplate/jamplate/source"
)

func logger() commonlog.Logger {
	return commonlog.GetLogger("jamplate.tree")
}

// Offer grafts detached candidate c into the forest rooted at t.
// Returns false and no error if c does not overlap t or duplicates an existing tree.
//
// If t encloses c, c is placed at the deepest tree enclosing it;
// existing trees enclosed by c become children of c.
// If c encloses t, t must be a root and c becomes the new root.
// If c and some tree address the same span, the one with higher z-index takes the slot,
// and children of the other one are offered to it; c is discarded on a tie.
// If c partially overlaps some tree, *IllegalTreeError is returned.
func (t *Tree) Offer(c *Tree) (bool, error) {
	if c == nil || c == t {
		return false, nil
	}
	if !c.isDetached() {
		return false, attachedError(c)
	}

	switch source.Compute(t.reference, c.reference) {
	case source.None:
		return false, nil

	case source.Contain:
		return t.offerChild(c)

	case source.Exact:
		return resolve(t, c)

	case source.Part:
		if t.parent != nil {
			return false, illegalTreeError(t, c)
		}

		_, e := c.offerChild(t)
		return true, e

	default:
		return false, illegalTreeError(t, c)
	}
}

// offerChild handles c that is enclosed by t.
func (t *Tree) offerChild(c *Tree) (bool, error) {
	var enclosed []*Tree
	end := c.reference.End()
	for ch := t.firstChild; ch != nil; ch = ch.next {
		if ch.reference.Position > end {
			break
		}

		switch source.Compute(ch.reference, c.reference) {
		case source.None:
			continue
		case source.Contain:
			// zero length c on a boundary of two children goes to the first one
			return ch.offerChild(c)
		case source.Exact:
			return resolve(ch, c)
		case source.Part:
			enclosed = append(enclosed, ch)
		default:
			return false, illegalTreeError(ch, c)
		}
	}

	if len(enclosed) == 0 {
		insertChild(t, c)
		return true, nil
	}

	insertBefore(enclosed[0], c)
	for _, ch := range enclosed {
		detach(ch)
		if _, e := c.Offer(ch); e != nil {
			return true, e
		}
	}
	return true, nil
}

// resolve handles c addressing the same span as existing tree.
func resolve(existing, c *Tree) (bool, error) {
	if c.zIndex <= existing.zIndex {
		logger().Debugf("discarding %s: z-index %d does not exceed %d", c, c.zIndex, existing.zIndex)
		return absorb(existing, c)
	}

	replace(existing, c)
	_, e := absorb(c, existing)
	return true, e
}

// absorb moves children of loser into winner.
func absorb(winner, loser *Tree) (bool, error) {
	changed := false
	for _, ch := range Children(loser) {
		detach(ch)
		ok, e := winner.Offer(ch)
		if e != nil {
			return changed, e
		}
		changed = changed || ok
	}
	return changed, nil
}

// Graft offers c to root and returns the root of resulting forest.
// The root changes when c encloses it or replaces it having higher z-index.
func Graft(root, c *Tree) (newRoot *Tree, changed bool, e error) {
	d := source.Compute(root.reference, c.reference)
	changed, e = root.Offer(c)
	if e != nil || !changed {
		return root, changed, e
	}

	switch {
	case d == source.Part && c.parent == nil && root.Root() == c:
		return c, true, nil
	case d == source.Exact && c.zIndex > root.zIndex && c.parent == nil:
		return c, true, nil
	}
	return root, true, nil
}
