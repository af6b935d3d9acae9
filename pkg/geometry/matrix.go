package geometry

// Matrix is a 2-D affine transform:
//
//	⎡ A  C  E ⎤
//	⎢ B  D  F ⎥
//	⎣ 0  0  1 ⎦
type Matrix struct {
	A float64
	B float64
	C float64
	D float64
	E float64
	F float64
}

// QuarterTurnCW maps (x, y) to (y, -x). All coefficients are 0 or ±1, so
// repeated application is exact in floating point.
func QuarterTurnCW() Matrix {
	return Matrix{
		A: 0, C: 1, E: 0,
		B: -1, D: 0, F: 0,
	}
}

func Translation(dx, dy float64) Matrix {
	return Matrix{
		A: 1, C: 0, E: dx,
		B: 0, D: 1, F: dy,
	}
}

func (m Matrix) transformX(x, y float64) float64 {
	return m.A*x + m.C*y + m.E
}

func (m Matrix) transformY(x, y float64) float64 {
	return m.B*x + m.D*y + m.F
}

func (m Matrix) TransformPoint(p Point) Point {
	return Point{X: m.transformX(p.X, p.Y), Y: m.transformY(p.X, p.Y)}
}

// TransformPoint3 transforms the planar part of p and keeps Z.
func (m Matrix) TransformPoint3(p Point3) Point3 {
	return p.WithXY(m.TransformPoint(p.XY()))
}
