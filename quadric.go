package meshsimplify

// symmetricMatrix is the ten-scalar representation of the symmetric 4x4
// plane quadric Q = p * p^T, accumulated over incident triangle planes.
// Storing only the ten distinct entries of a symmetric 4x4 matrix halves
// the per-vertex footprint compared to a general 4x4; do not
// widen this back into a [4][4]float64.
//
// Layout (upper triangle, row-major):
//
//	a11 a12 a13 a14
//	    a22 a23 a24
//	        a33 a34
//	            a44
type symmetricMatrix struct {
	a11, a12, a13, a14 float64
	a22, a23, a24      float64
	a33, a34           float64
	a44                float64
}

// newQuadric builds the quadric for a single plane (a, b, c, d) with
// ax+by+cz+d = 0, i.e. Q = v*v^T for v = (a, b, c, d).
func newQuadric(a, b, c, d float64) symmetricMatrix {
	return symmetricMatrix{
		a11: a * a, a12: a * b, a13: a * c, a14: a * d,
		a22: b * b, a23: b * c, a24: b * d,
		a33: c * c, a34: c * d,
		a44: d * d,
	}
}

// add returns the pairwise sum of two quadrics.
func (q symmetricMatrix) add(o symmetricMatrix) symmetricMatrix {
	return symmetricMatrix{
		a11: q.a11 + o.a11, a12: q.a12 + o.a12, a13: q.a13 + o.a13, a14: q.a14 + o.a14,
		a22: q.a22 + o.a22, a23: q.a23 + o.a23, a24: q.a24 + o.a24,
		a33: q.a33 + o.a33, a34: q.a34 + o.a34,
		a44: q.a44 + o.a44,
	}
}

// errorAt evaluates v^T Q v for the homogeneous point (x, y, z, 1).
func (q symmetricMatrix) errorAt(x, y, z float64) float64 {
	return q.a11*x*x + 2*q.a12*x*y + 2*q.a13*x*z + 2*q.a14*x +
		q.a22*y*y + 2*q.a23*y*z + 2*q.a24*y +
		q.a33*z*z + 2*q.a34*z +
		q.a44
}

// det3 computes the determinant of the upper-left 3x3 block.
func (q symmetricMatrix) det3() float64 {
	return q.a11*(q.a22*q.a33-q.a23*q.a23) -
		q.a12*(q.a12*q.a33-q.a23*q.a13) +
		q.a13*(q.a12*q.a23-q.a22*q.a13)
}

// det3x returns the determinant of the upper-left 3x3 block with its
// first column replaced by (a14, a24, a34) (used to solve for the optimal
// collapse point's x coordinate).
func (q symmetricMatrix) det3x() float64 {
	return q.a14*(q.a22*q.a33-q.a23*q.a23) -
		q.a12*(q.a24*q.a33-q.a23*q.a34) +
		q.a13*(q.a24*q.a23-q.a22*q.a34)
}

// det3y returns the determinant with the second column replaced.
func (q symmetricMatrix) det3y() float64 {
	return q.a11*(q.a24*q.a33-q.a23*q.a34) -
		q.a14*(q.a12*q.a33-q.a23*q.a13) +
		q.a13*(q.a12*q.a34-q.a24*q.a13)
}

// det3z returns the determinant with the third column replaced.
func (q symmetricMatrix) det3z() float64 {
	return q.a11*(q.a22*q.a34-q.a24*q.a23) -
		q.a12*(q.a12*q.a34-q.a24*q.a13) +
		q.a14*(q.a12*q.a23-q.a22*q.a13)
}

// optimalPoint solves Q for the point minimizing v^T Q v, returning the
// point and true when the upper-left 3x3 block is non-singular.
func (q symmetricMatrix) optimalPoint() (Vec3d, bool) {
	det := q.det3()
	if det == 0 {
		return Vec3d{}, false
	}
	return Vec3d{
		X: -q.det3x() / det,
		Y: -q.det3y() / det,
		Z: -q.det3z() / det,
	}, true
}
