package orient

import (
	"fmt"

	"edgedrill/pkg/geometry"
)

// Orientation names the corner of the workpiece that sits at the reference
// origin. Each clockwise quarter turn advances it by one.
type Orientation int

const (
	BottomLeft Orientation = iota
	TopLeft
	TopRight
	BottomRight

	Unknown Orientation = -1
)

var orientationNames = map[Orientation]string{
	BottomLeft:  "bottom-left",
	TopLeft:     "top-left",
	TopRight:    "top-right",
	BottomRight: "bottom-right",
	Unknown:     "unknown",
}

func (o Orientation) String() string {
	if name, ok := orientationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o Orientation) Valid() bool {
	return o >= BottomLeft && o <= BottomRight
}

// Next is the orientation after one clockwise quarter turn.
func (o Orientation) Next() Orientation {
	if !o.Valid() {
		return Unknown
	}
	return (o + 1) % 4
}

// ParseOrientation accepts the names produced by String.
func ParseOrientation(s string) (Orientation, error) {
	for o, name := range orientationNames {
		if o.Valid() && name == s {
			return o, nil
		}
	}
	return Unknown, fmt.Errorf("unknown orientation %q", s)
}

// Detect classifies the diagonal c (point C relative to the reference corner)
// by the sign of its components. A zero component is not classifiable.
func Detect(c geometry.Vector2) (Orientation, bool) {
	switch {
	case c.X > 0 && c.Y > 0:
		return BottomLeft, true
	case c.X > 0 && c.Y < 0:
		return TopLeft, true
	case c.X < 0 && c.Y < 0:
		return TopRight, true
	case c.X < 0 && c.Y > 0:
		return BottomRight, true
	}
	return Unknown, false
}

// quadrant is the sign of point C's components a workpiece in o occupies.
func (o Orientation) quadrant() (sx, sy float64) {
	switch o {
	case BottomLeft:
		return 1, 1
	case TopLeft:
		return 1, -1
	case TopRight:
		return -1, -1
	case BottomRight:
		return -1, 1
	}
	return 0, 0
}
