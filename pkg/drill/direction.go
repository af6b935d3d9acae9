package drill

import (
	"fmt"

	"edgedrill/pkg/geometry"
)

// Direction is the drilling axis and sense. Its integer value is the tool
// catalog direction code.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionXPlus
	DirectionXMinus
	DirectionYPlus
	DirectionYMinus
	DirectionZPlus
)

// directionTolerance is the per-component slack when matching a vector to a
// canonical direction.
const directionTolerance = 1e-6

var directionVectors = map[Direction]geometry.Vector3{
	DirectionXPlus:  {X: 1},
	DirectionXMinus: {X: -1},
	DirectionYPlus:  {Y: 1},
	DirectionYMinus: {Y: -1},
	DirectionZPlus:  {Z: 1},
}

var directionNames = map[Direction]string{
	DirectionXPlus:  "X+",
	DirectionXMinus: "X-",
	DirectionYPlus:  "Y+",
	DirectionYMinus: "Y-",
	DirectionZPlus:  "Z+",
}

// DirectionOf returns the canonical direction of v, or DirectionNone.
func DirectionOf(v geometry.Vector3) Direction {
	for d := DirectionXPlus; d <= DirectionZPlus; d++ {
		if v.Near(directionVectors[d], directionTolerance) {
			return d
		}
	}
	return DirectionNone
}

// DirectionFromCode maps a catalog direction code back to a Direction.
func DirectionFromCode(code int) Direction {
	d := Direction(code)
	if !d.Valid() {
		return DirectionNone
	}
	return d
}

func (d Direction) Valid() bool {
	return d >= DirectionXPlus && d <= DirectionZPlus
}

// Horizontal reports whether d drills into an edge.
func (d Direction) Horizontal() bool {
	return d >= DirectionXPlus && d <= DirectionYMinus
}

func (d Direction) Code() int {
	if !d.Valid() {
		return 0
	}
	return int(d)
}

func (d Direction) Vector() geometry.Vector3 {
	return directionVectors[d]
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
