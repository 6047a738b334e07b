// Package vecmath provides the 3-D vector, plane, ray and bounding-box
// primitives shared by every geometric operation in package poly.
//
// Vec3 is an alias of mgl64.Vec3 so that every primitive here
// (cross product, normalization, linear combination) is mathgl's own
// well-tested implementation rather than a hand-rolled reimplementation.
// Everything in this package is a pure function or value type: nothing
// here allocates beyond its return value, and nothing is safe to mutate
// in place (Vec3 is a value, not a pointer).
package vecmath

import "github.com/go-gl/mathgl/mgl64"

// Epsilon is the default tolerance used by classification and
// equality helpers across vecmath and poly. Geometry at brush scale
// (units in the low thousands) loses precision well above 1e-9, so a
// coarser tolerance catches near-coplanar and near-collinear cases
// without flagging true degeneracies as numerically fine.
const Epsilon = 1e-8

// Vec3 is a point or direction in 3-space.
type Vec3 = mgl64.Vec3

// Mat4 is a 4x4 affine transform, built by Translation and applied by
// TransformPoint.
type Mat4 = mgl64.Mat4

// NewVec3 constructs a Vec3 from components.
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Translation builds a pure translation matrix by delta.
func Translation(delta Vec3) Mat4 {
	return mgl64.Translate3D(delta[0], delta[1], delta[2])
}

// TransformPoint applies an affine matrix to a point (w=1).
func TransformPoint(m Mat4, p Vec3) Vec3 {
	v4 := m.Mul4x1(mgl64.Vec4{p[0], p[1], p[2], 1})
	return Vec3{v4[0], v4[1], v4[2]}
}

// Equal reports whether a and b are within Epsilon of each other on
// every axis.
func Equal(a, b Vec3) bool {
	return EqualEps(a, b, Epsilon)
}

// EqualEps reports whether a and b are within eps of each other on
// every axis.
func EqualEps(a, b Vec3, eps float64) bool {
	d := a.Sub(b)
	return d[0] >= -eps && d[0] <= eps &&
		d[1] >= -eps && d[1] <= eps &&
		d[2] >= -eps && d[2] <= eps
}
