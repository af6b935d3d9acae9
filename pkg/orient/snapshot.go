package orient

import (
	"fmt"

	"edgedrill/pkg/drill"
	"edgedrill/pkg/fault"
	"edgedrill/pkg/geometry"
)

const (
	stageRotate   = "rotate"
	stagePosition = "position"
)

// maxTurns bounds RotateTo. Any valid orientation is at most three turns from
// any other.
const maxTurns = 3

// Snapshot is the workpiece and its drill points in one orientation. Operations
// return new snapshots and never modify the receiver.
type Snapshot struct {
	orientation Orientation
	workpiece   drill.Workpiece
	points      []drill.Point
	rotations   int
}

// NewSnapshot copies points and detects the starting orientation from the
// workpiece diagonal.
func NewSnapshot(wp drill.Workpiece, points []drill.Point) Snapshot {
	o, _ := Detect(wp.Diagonal())
	return Snapshot{
		orientation: o,
		workpiece:   wp,
		points:      append([]drill.Point(nil), points...),
	}
}

func (s Snapshot) Orientation() Orientation {
	return s.orientation
}

func (s Snapshot) Workpiece() drill.Workpiece {
	return s.workpiece
}

// Points returns a copy of the drill points.
func (s Snapshot) Points() []drill.Point {
	return append([]drill.Point(nil), s.points...)
}

// Rotations is the number of quarter turns applied so far, modulo 4.
func (s Snapshot) Rotations() int {
	return s.rotations
}

// Angle is the cumulative clockwise rotation in degrees.
func (s Snapshot) Angle() float64 {
	return 90 * float64(s.rotations)
}

// Rotate turns everything 90° clockwise: (x, y) becomes (y, -x) for corners
// and positions, extrusion vectors turn with them, and width and height swap.
func (s Snapshot) Rotate() Snapshot {
	m := geometry.QuarterTurnCW()

	wp := s.workpiece
	for i, c := range wp.Corners {
		wp.Corners[i] = m.TransformPoint(c)
	}
	wp.Width, wp.Height = wp.Height, wp.Width

	points := make([]drill.Point, len(s.points))
	for i, p := range s.points {
		p.Position = m.TransformPoint3(p.Position)
		p.Extrusion = geometry.RotateVector(p.Extrusion, 1)
		points[i] = p
	}

	o, _ := Detect(wp.Diagonal())
	return Snapshot{
		orientation: o,
		workpiece:   wp,
		points:      points,
		rotations:   (s.rotations + 1) % 4,
	}
}

// Rotated is the result of RotateTo. History starts with the orientation
// before the first turn.
type Rotated struct {
	Snapshot Snapshot
	History  []Orientation
	Message  string
}

// RotateTo applies quarter turns until the snapshot is in target.
func RotateTo(s Snapshot, target Orientation) (Rotated, error) {
	if !target.Valid() {
		return Rotated{}, fault.Validation(stageRotate, "invalid target orientation %s", target)
	}
	if !s.orientation.Valid() {
		c := s.workpiece.Diagonal()
		return Rotated{}, fault.Validation(stageRotate, "cannot determine workpiece orientation from point C").
			With("point_c", fmt.Sprintf("(%g, %g)", c.X, c.Y))
	}

	res := Rotated{Snapshot: s, History: []Orientation{s.orientation}}
	for turns := 0; res.Snapshot.orientation != target; turns++ {
		if turns == maxTurns {
			return Rotated{}, fault.Validation(stageRotate, "orientation %s not reached after %d rotations", target, maxTurns).
				With("history", res.History)
		}
		res.Snapshot = res.Snapshot.Rotate()
		res.History = append(res.History, res.Snapshot.orientation)
	}
	res.Message = fmt.Sprintf("Transformed workpiece to %s orientation and rotated %d drill points",
		target, len(s.points))
	return res, nil
}

// Positioned is the result of Position.
type Positioned struct {
	Snapshot Snapshot
	Offset   geometry.Vector2
	Message  string
}

// Offset returns the translation that moves a workpiece in orientation from
// into the quadrant of to, given its diagonal c. An axis whose sign already
// agrees with the target is left alone.
func Offset(from, to Orientation, c geometry.Vector2) geometry.Vector2 {
	var off geometry.Vector2
	if from == to {
		return off
	}
	sx, sy := to.quadrant()
	if c.X*sx < 0 {
		off.X = -c.X
	}
	if c.Y*sy < 0 {
		off.Y = -c.Y
	}
	return off
}

// Position moves the reference corner to the machine origin, then shifts the
// workpiece into the quadrant of target by Offset. Every drill point moves
// with it. The orientation itself is unchanged, and a workpiece already in
// target with its reference corner at the origin stays where it is.
func Position(s Snapshot, target Orientation) (Positioned, error) {
	if !target.Valid() {
		return Positioned{}, fault.Validation(stagePosition, "invalid target orientation %s", target)
	}
	if !s.orientation.Valid() {
		return Positioned{}, fault.Validation(stagePosition, "cannot position a workpiece of unknown orientation")
	}

	ref := s.workpiece.Reference()
	quad := Offset(s.orientation, target, s.workpiece.Diagonal())
	off := geometry.Vector2{X: quad.X - ref.X, Y: quad.Y - ref.Y}
	res := Positioned{Snapshot: s, Offset: off}
	if off != (geometry.Vector2{}) {
		m := geometry.Translation(off.X, off.Y)
		wp := s.workpiece
		for i, c := range wp.Corners {
			wp.Corners[i] = m.TransformPoint(c)
		}
		points := make([]drill.Point, len(s.points))
		for i, p := range s.points {
			p.Position = m.TransformPoint3(p.Position)
			points[i] = p
		}
		res.Snapshot = Snapshot{
			orientation: s.orientation,
			workpiece:   wp,
			points:      points,
			rotations:   s.rotations,
		}
	}
	res.Message = fmt.Sprintf("Positioned workpiece with offset (%.1f, %.1f) and transformed %d drill points",
		off.X, off.Y, len(s.points))
	return res, nil
}
