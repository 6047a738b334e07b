package poly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sksmith/brushgeom/vecmath"
)

func TestPolyhedronConstructionStates(t *testing.T) {
	p := NewPolyhedron[struct{}, struct{}]()
	assert.True(t, p.Empty())

	p.AddPoint(vecmath.Vec3{0, 0, 0})
	assert.True(t, p.Point())

	p.AddPoint(vecmath.Vec3{1, 0, 0})
	assert.True(t, p.EdgeOnly())

	p.AddPoint(vecmath.Vec3{0, 1, 0})
	assert.True(t, p.Polygon())

	p.AddPoint(vecmath.Vec3{0, 0, 1})
	assert.False(t, p.Polygon())
	assert.Equal(t, 4, p.VertexCount())
}

func TestTetrahedronSatisfiesEuler(t *testing.T) {
	p := buildTetrahedron()
	require.Equal(t, 4, p.VertexCount())
	require.Equal(t, 4, p.FaceCount())
	require.Equal(t, 6, p.EdgeCount())
	assert.NoError(t, p.ValidateEuler())
	assert.NoError(t, p.ValidateConvex())
}

func TestCubeSatisfiesEuler(t *testing.T) {
	p := buildCube()
	assert.Equal(t, 8, p.VertexCount())
	assert.Equal(t, 6, p.FaceCount())
	assert.Equal(t, 12, p.EdgeCount())
	assert.NoError(t, p.ValidateEuler())
	assert.NoError(t, p.ValidateConvex())
}

func TestCubeBoundingBox(t *testing.T) {
	p := buildCube()
	box := p.BoundingBox()
	assert.Equal(t, vecmath.Vec3{-1, -1, -1}, box.Min)
	assert.Equal(t, vecmath.Vec3{1, 1, 1}, box.Max)
}

func TestAddPointInsideHullIsNoOp(t *testing.T) {
	p := buildCube()
	before := p.VertexCount()
	p.AddPoint(vecmath.Vec3{0, 0, 0})
	assert.Equal(t, before, p.VertexCount())
	assert.NoError(t, p.ValidateConvex())
}

func TestAddPointOutsideHullGrowsIt(t *testing.T) {
	p := buildCube()
	p.AddPoint(vecmath.Vec3{3, 0, 0})
	assert.NoError(t, p.ValidateEuler())
	assert.NoError(t, p.ValidateConvex())
	box := p.BoundingBox()
	assert.Equal(t, 3.0, box.Max[0])
}

func TestMergeCombinesTwoPolyhedra(t *testing.T) {
	a := NewPolyhedron[struct{}, struct{}]()
	a.AddPoints([]vecmath.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	b := NewPolyhedron[struct{}, struct{}]()
	b.AddPoints([]vecmath.Vec3{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}, {2, 2, 2}})

	a.Merge(b)
	assert.NoError(t, a.ValidateEuler())
	assert.NoError(t, a.ValidateConvex())
}
