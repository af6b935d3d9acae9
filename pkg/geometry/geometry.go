package geometry

import (
	"math"
)

type Point struct {
	X float64
	Y float64
}

type Vector2 = Point

// Point3 is a position in workpiece or machine space. Z is kept through every
// planar transform unchanged.
type Point3 struct {
	X float64
	Y float64
	Z float64
}

type Vector3 = Point3

type Rectangle struct {
	Min Point
	Max Point
}

type Polyline []Point

func (a Vector2) Minus(b Vector2) Vector2 {
	return Vector2{
		X: a.X - b.X,
		Y: a.Y - b.Y,
	}
}

// Distance returns the distance between two points.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// XY drops the Z component.
func (p Point3) XY() Point {
	return Point{X: p.X, Y: p.Y}
}

// WithXY returns p with its planar components replaced.
func (p Point3) WithXY(xy Point) Point3 {
	return Point3{X: xy.X, Y: xy.Y, Z: p.Z}
}

// Near reports whether every component of a and b differs by less than tol.
func (a Vector3) Near(b Vector3, tol float64) bool {
	return math.Abs(a.X-b.X) < tol &&
		math.Abs(a.Y-b.Y) < tol &&
		math.Abs(a.Z-b.Z) < tol
}

// Bounds returns the axis aligned bounding box of the polyline. An empty
// polyline has a zero Rectangle.
func (line Polyline) Bounds() Rectangle {
	if len(line) == 0 {
		return Rectangle{}
	}
	r := Rectangle{Min: line[0], Max: line[0]}
	for _, p := range line[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

func (r Rectangle) Width() float64 {
	return r.Max.X - r.Min.X
}

func (r Rectangle) Height() float64 {
	return r.Max.Y - r.Min.Y
}
