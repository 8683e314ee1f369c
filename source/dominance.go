package source

// Dominance is the geometric relation of one reference to another.
type Dominance int

const (
	// None means references do not overlap, touching boundaries included.
	None Dominance = iota
	// Contain means the first reference encloses the second one.
	Contain
	// Part means the first reference is enclosed by the second one.
	Part
	// Share means references overlap but neither encloses the other.
	Share
	// Exact means references are equal.
	Exact
)

var dominanceNames = [...]string{"none", "contain", "part", "share", "exact"}

func (d Dominance) String() string {
	if d < None || d > Exact {
		return "invalid"
	}
	return dominanceNames[d]
}

// Opposite returns the relation seen from the other side: Contain and Part swap, others stay.
func (d Dominance) Opposite() Dominance {
	switch d {
	case Contain:
		return Part
	case Part:
		return Contain
	}
	return d
}

// Compute returns the dominance of a over b.
// Compute(a, b) == Compute(b, a).Opposite() for any a and b.
func Compute(a, b Reference) Dominance {
	as, ae := a.Position, a.End()
	bs, be := b.Position, b.End()

	switch {
	case as == bs && ae == be:
		return Exact
	case as <= bs && ae >= be:
		return Contain
	case bs <= as && be >= ae:
		return Part
	case as < be && bs < ae:
		return Share
	}
	return None
}
