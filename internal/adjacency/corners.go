// Package adjacency models the neighbor context of a square tile: which of
// the eight surrounding tiles are present, and what that implies for the
// geometry of each corner of the tile.
package adjacency

import "fmt"

// Side is one of the four sides of a tile. North points "up" on the sheet.
type Side uint8

const (
	North Side = iota
	South
	East
	West
)

var sideNames = [4]string{"north", "south", "east", "west"}

func (s Side) String() string {
	return sideNames[s]
}

// ParseSide maps a config key to a Side.
func ParseSide(s string) (Side, error) {
	for i, n := range sideNames {
		if n == s {
			return Side(i), nil
		}
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

// DMICardinalSides is the side order the DMI format stores directions in.
// South before North is correct; do not "fix" it.
func DMICardinalSides() [4]Side {
	return [4]Side{South, North, East, West}
}

// IsVertical reports whether the side lies on the N/S axis.
func (s Side) IsVertical() bool {
	return s == North || s == South
}

// Corner is one of the four corners of a tile. Each corner is bounded by
// exactly one vertical (N/S) and one horizontal (E/W) side.
type Corner uint8

const (
	NorthEast Corner = iota
	SouthEast
	SouthWest
	NorthWest
)

var cornerNames = [4]string{"northeast", "southeast", "southwest", "northwest"}

func (c Corner) String() string {
	return cornerNames[c]
}

// Corners lists all corners in declaration order.
func Corners() [4]Corner {
	return [4]Corner{NorthEast, SouthEast, SouthWest, NorthWest}
}

// Sides returns the horizontal then vertical side bounding the corner.
func (c Corner) Sides() (horizontal, vertical Side) {
	switch c {
	case NorthEast:
		return East, North
	case SouthEast:
		return East, South
	case SouthWest:
		return West, South
	default:
		return West, North
	}
}

// CornerType classifies the local geometry of one corner given the tile's
// neighbor context.
type CornerType uint8

const (
	Convex CornerType = iota
	Concave
	Horizontal
	Vertical
	Flat
)

const NumCornerTypes = 5

var cornerTypeNames = [NumCornerTypes]string{
	"convex", "concave", "horizontal", "vertical", "flat",
}

func (ct CornerType) String() string {
	return cornerTypeNames[ct]
}

// ParseCornerType maps a config key to a CornerType.
func ParseCornerType(s string) (CornerType, error) {
	for i, n := range cornerTypeNames {
		if n == s {
			return CornerType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown corner type %q", s)
}

// CardinalCornerTypes lists the corner types used when smoothing along
// cardinals only. Flat never occurs without diagonal smoothing.
func CardinalCornerTypes() []CornerType {
	return []CornerType{Convex, Concave, Horizontal, Vertical}
}

// DiagonalCornerTypes lists every corner type, for diagonal smoothing.
func DiagonalCornerTypes() []CornerType {
	return []CornerType{Convex, Concave, Horizontal, Vertical, Flat}
}
