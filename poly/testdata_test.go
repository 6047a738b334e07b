package poly

import "github.com/sksmith/brushgeom/vecmath"

// testPoly is the payload-less Polyhedron instantiation every test in
// this package builds fixtures against; payload parameterization
// itself is exercised separately in mesh_test.go.
type testPoly = Polyhedron[struct{}, struct{}]

// cubeVertices returns the eight corners of an axis-aligned cube
// centered on the origin, grounded on the coordinates used by the
// teacher's seed-shape constructors. AddPoint order does not matter:
// the incremental hull converges to the same result regardless.
func cubeVertices() []vecmath.Vec3 {
	return []vecmath.Vec3{
		{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
		{-1, 1, 1}, {-1, 1, -1}, {-1, -1, 1}, {-1, -1, -1},
	}
}

func tetrahedronVertices() []vecmath.Vec3 {
	return []vecmath.Vec3{
		{1, 1, 1}, {1, -1, -1}, {-1, 1, -1}, {-1, -1, 1},
	}
}

func buildCube() *testPoly {
	p := NewPolyhedron[struct{}, struct{}]()
	p.AddPoints(cubeVertices())
	return p
}

func buildTetrahedron() *testPoly {
	p := NewPolyhedron[struct{}, struct{}]()
	p.AddPoints(tetrahedronVertices())
	return p
}
