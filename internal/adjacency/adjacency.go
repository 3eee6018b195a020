package adjacency

// Adjacency is a bit set over the eight neighbor directions of a tile. Bits
// are independent: a diagonal bit never implies its neighboring cardinals.
type Adjacency uint8

const (
	N  Adjacency = 1 << 0
	S  Adjacency = 1 << 1
	E  Adjacency = 1 << 2
	W  Adjacency = 1 << 3
	NE Adjacency = 1 << 4
	SE Adjacency = 1 << 5
	SW Adjacency = 1 << 6
	NW Adjacency = 1 << 7

	Cardinals = N | S | E | W
)

// Contains reports whether every bit of other is set in a.
func (a Adjacency) Contains(other Adjacency) bool {
	return a&other == other
}

// DMICardinals is the cardinal direction order used by the DMI format.
func DMICardinals() [4]Adjacency {
	return [4]Adjacency{S, N, E, W}
}

// Diagonals lists the four diagonal flags.
func Diagonals() [4]Adjacency {
	return [4]Adjacency{NE, SE, SW, NW}
}

// FromSide returns the cardinal flag for a side.
func FromSide(side Side) Adjacency {
	switch side {
	case North:
		return N
	case South:
		return S
	case East:
		return E
	default:
		return W
	}
}

// FromCorner returns the diagonal flag for a corner.
func FromCorner(corner Corner) Adjacency {
	switch corner {
	case NorthEast:
		return NE
	case SouthEast:
		return SE
	case SouthWest:
		return SW
	default:
		return NW
	}
}

// CornerSides returns the two cardinal flags bounding a diagonal flag, in
// (vertical, horizontal) order. Panics if a is not a single diagonal flag;
// callers asking for the sides of a non-corner have a bug.
func (a Adjacency) CornerSides() (vertical, horizontal Adjacency) {
	switch a {
	case NE:
		return N, E
	case SE:
		return S, E
	case SW:
		return S, W
	case NW:
		return N, W
	default:
		panic("adjacency: CornerSides on non-corner flag")
	}
}

// AdjacentCornersFilled reports whether both cardinals bounding the diagonal
// flag corner are present in a.
func (a Adjacency) AdjacentCornersFilled(corner Adjacency) bool {
	v, h := corner.CornerSides()
	return a.Contains(v) && a.Contains(h)
}

// HasNoOrphanedCorner reports whether every diagonal flag set in a is
// accompanied by both of its bounding cardinals. Signatures failing this are
// impossible under smoothing rules where diagonal sensing requires cardinal
// contact, and are skipped during generation in those modes.
func (a Adjacency) HasNoOrphanedCorner() bool {
	for _, diag := range Diagonals() {
		if a.Contains(diag) && !a.AdjacentCornersFilled(diag) {
			return false
		}
	}
	return true
}

// SetFlags decomposes a into its individual set bits.
func (a Adjacency) SetFlags() []Adjacency {
	all := [8]Adjacency{N, S, E, W, NE, SE, SW, NW}
	out := make([]Adjacency, 0, 8)
	for _, flag := range all {
		if a.Contains(flag) {
			out = append(out, flag)
		}
	}
	return out
}

// CornerType classifies one corner of a tile under this neighbor context.
// The check order is load-bearing: both cardinals present and the diagonal
// too is Flat, both cardinals without the diagonal is Concave, exactly one
// cardinal is a directional edge, neither is Convex.
func (a Adjacency) CornerType(corner Corner) CornerType {
	diag := FromCorner(corner)
	vertical, horizontal := diag.CornerSides()
	switch {
	case a.Contains(vertical) && a.Contains(horizontal):
		if a.Contains(diag) {
			return Flat
		}
		return Concave
	case a.Contains(vertical):
		return Vertical
	case a.Contains(horizontal):
		return Horizontal
	default:
		return Convex
	}
}

// rotateFlag rotates a single set flag so that the icon faces direction
// instead of South. South is identity, North a half turn, East a quarter
// turn counter-clockwise, West a quarter turn clockwise.
//
// Panics on a diagonal rotation target or a multi-bit flag: both indicate a
// defect in the caller, not bad input.
func (a Adjacency) rotateFlag(direction Adjacency) Adjacency {
	var table map[Adjacency]Adjacency
	switch direction {
	case S:
		return a
	case N:
		table = map[Adjacency]Adjacency{
			N: S, S: N, E: W, W: E,
			NE: SW, SE: NW, SW: NE, NW: SE,
		}
	case E:
		table = map[Adjacency]Adjacency{
			N: W, S: E, E: N, W: S,
			NE: NW, SE: NE, SW: SE, NW: SW,
		}
	case W:
		table = map[Adjacency]Adjacency{
			N: E, S: W, E: S, W: N,
			NE: SE, SE: SW, SW: NW, NW: NE,
		}
	default:
		panic("adjacency: rotation target must be a single cardinal")
	}
	rotated, ok := table[a]
	if !ok {
		panic("adjacency: rotateFlag requires a single set flag")
	}
	return rotated
}

// RotateTo rotates the whole adjacency signature so that the canonical
// South-facing icon faces direction. Each set bit is rotated independently
// and the results re-unioned.
func (a Adjacency) RotateTo(direction Adjacency) Adjacency {
	if direction == S {
		return a
	}
	var out Adjacency
	for _, flag := range a.SetFlags() {
		out |= flag.rotateFlag(direction)
	}
	return out
}
