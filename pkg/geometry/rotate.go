package geometry

import (
	"gonum.org/v1/gonum/mat"
)

// quarterTurns holds cos and sin of 0°, 90°, 180° and 270° clockwise.
var quarterTurns = [4][2]float64{
	{1, 0},
	{0, 1},
	{-1, 0},
	{0, -1},
}

// rotationZ returns the 3x3 matrix rotating clockwise about Z by n quarter turns.
func rotationZ(n int) *mat.Dense {
	n = ((n % 4) + 4) % 4
	cos, sin := quarterTurns[n][0], quarterTurns[n][1]
	return mat.NewDense(3, 3, []float64{
		cos, sin, 0,
		-sin, cos, 0,
		0, 0, 1,
	})
}

// RotateVector rotates v clockwise about the Z axis by n quarter turns. One
// quarter turn maps (x, y, z) to (y, -x, z).
func RotateVector(v Vector3, n int) Vector3 {
	var out mat.VecDense
	out.MulVec(rotationZ(n), mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
	return Vector3{
		X: clean(out.AtVec(0)),
		Y: clean(out.AtVec(1)),
		Z: clean(out.AtVec(2)),
	}
}

// clean folds negative zero onto zero.
func clean(f float64) float64 {
	if f == 0 {
		return 0
	}
	return f
}
