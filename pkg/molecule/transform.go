package molecule

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a rigid body operation, a rotation followed by a
// translation, so a point x goes to R x + t. TM-align writes ten
// decimals, so everything is kept in float64.
type Transform struct {
	rot   *r3.Mat
	shift r3.Vec
}

// NewTransform builds a transform from rows of the form r1 r2 r3 t.
func NewTransform(rows [3][4]float64) *Transform {
	rot := make([]float64, 0, 9)
	for _, r := range rows {
		rot = append(rot, r[0], r[1], r[2])
	}
	return &Transform{
		rot:   r3.NewMat(rot),
		shift: r3.Vec{X: rows[0][3], Y: rows[1][3], Z: rows[2][3]},
	}
}

// Identity does nothing to coordinates.
func Identity() *Transform {
	return NewTransform([3][4]float64{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}})
}

// At returns element i, j of the 3 x 4 matrix.
func (t *Transform) At(i, j int) float64 {
	if j < 3 {
		return t.rot.At(i, j)
	}
	return [3]float64{t.shift.X, t.shift.Y, t.shift.Z}[i]
}

// Rows returns a copy of the matrix as plain numbers.
func (t *Transform) Rows() (rows [3][4]float64) {
	for i := range rows {
		for j := range rows[i] {
			rows[i][j] = t.At(i, j)
		}
	}
	return rows
}

// Apply moves one point.
func (t *Transform) Apply(p r3.Vec) r3.Vec {
	return r3.Add(t.rot.MulVec(p), t.shift)
}

// String is for debugging
func (t *Transform) String() string { return fmt.Sprint(t.Rows()) }
