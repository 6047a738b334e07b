package poly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sksmith/brushgeom/vecmath"
)

func TestClipUnchangedWhenPlaneDoesNotCut(t *testing.T) {
	p := buildCube()
	before := p.VertexCount()
	result := p.Clip(vecmath.Plane{Normal: vecmath.Vec3{1, 0, 0}, Distance: 10})
	assert.Equal(t, ClipUnchanged, result)
	assert.Equal(t, before, p.VertexCount())
}

func TestClipEmptiesWhenEverythingIsInFront(t *testing.T) {
	p := buildCube()
	result := p.Clip(vecmath.Plane{Normal: vecmath.Vec3{1, 0, 0}, Distance: -10})
	assert.Equal(t, ClipEmpty, result)
	assert.True(t, p.Empty())
}

func TestClipHalvesTheCube(t *testing.T) {
	p := buildCube()
	result := p.Clip(vecmath.Plane{Normal: vecmath.Vec3{1, 0, 0}, Distance: 0})
	require.Equal(t, ClipSuccess, result)
	require.NoError(t, p.ValidateEuler())
	require.NoError(t, p.ValidateConvex())
	box := p.BoundingBox()
	assert.InDelta(t, 0, box.Max[0], vecmath.Epsilon*10)
	assert.InDelta(t, -1, box.Min[0], vecmath.Epsilon*10)
}
