package meshsimplify

import "math"

// Vec3d is a double-precision 3D vector, used for vertex positions and
// anywhere quadric-error precision matters.
type Vec3d struct {
	X, Y, Z float64
}

// Add returns the component-wise sum.
func (v Vec3d) Add(o Vec3d) Vec3d {
	return Vec3d{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the component-wise difference v - o.
func (v Vec3d) Sub(o Vec3d) Vec3d {
	return Vec3d{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3d) Scale(s float64) Vec3d {
	return Vec3d{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3d) Dot(o Vec3d) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v x o.
func (v Vec3d) Cross(o Vec3d) Vec3d {
	return Vec3d{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// LengthSqr returns the squared Euclidean length.
func (v Vec3d) LengthSqr() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Length returns the Euclidean length.
func (v Vec3d) Length() float64 {
	return math.Sqrt(v.LengthSqr())
}

// Normalize returns v scaled to unit length. A degenerate (near-zero)
// vector returns the zero vector rather than dividing by near-zero, so
// callers must treat a zero result as "undefined direction" rather than a
// valid unit vector.
func (v Vec3d) Normalize() Vec3d {
	l := v.Length()
	if l < 1e-10 {
		return Vec3d{}
	}
	return Vec3d{v.X / l, v.Y / l, v.Z / l}
}

// DistSqr returns the squared distance between v and o.
func (v Vec3d) DistSqr(o Vec3d) float64 {
	return v.Sub(o).LengthSqr()
}

// Vec2 is a single-precision 2-component vector. UV channels use the UV
// type, not Vec2.
type Vec2 struct {
	X, Y float32
}

// Vec3 is a single-precision 3D vector, used for normals.
type Vec3 struct {
	X, Y, Z float32
}

func (v Vec3) Add(o Vec3) Vec3    { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Vec4 is a single-precision 4-component vector, used for tangents and
// colors.
type Vec4 struct {
	X, Y, Z, W float32
}

func (v Vec4) Add(o Vec4) Vec4 {
	return Vec4{v.X + o.X, v.Y + o.Y, v.Z + o.Z, v.W + o.W}
}
func (v Vec4) Scale(s float32) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

// Vec4i is a 4-component integer vector. BoneWeight stores its bone ids
// as a [4]int32 array, not as a Vec4i.
type Vec4i struct {
	X, Y, Z, W int32
}

// planeFromTriangle computes the unit plane equation (a, b, c, d) such
// that ax+by+cz+d = 0 for the plane through p0, p1, p2, along with the
// unit triangle normal (a, b, c). ok is false for a degenerate (zero-area)
// triangle, in which case the returned values are all zero.
func planeFromTriangle(p0, p1, p2 Vec3d) (a, b, c, d float64, normal Vec3d, ok bool) {
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)
	n := e1.Cross(e2)
	length := n.Length()
	if length < 1e-10 {
		return 0, 0, 0, 0, Vec3d{}, false
	}
	unit := Vec3d{n.X / length, n.Y / length, n.Z / length}
	return unit.X, unit.Y, unit.Z, -(unit.X*p0.X + unit.Y*p0.Y + unit.Z*p0.Z), unit, true
}
