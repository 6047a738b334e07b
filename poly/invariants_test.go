package poly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCompleteOnCube(t *testing.T) {
	p := buildCube()
	assert.NoError(t, p.ValidateComplete())
}

func TestValidateCompleteOnTetrahedron(t *testing.T) {
	p := buildTetrahedron()
	assert.NoError(t, p.ValidateComplete())
}

func TestValidateEulerSkipsDegenerateStates(t *testing.T) {
	p := NewPolyhedron[struct{}, struct{}]()
	assert.NoError(t, p.ValidateEuler())
	p.AddPoint(cubeVertices()[0])
	assert.NoError(t, p.ValidateEuler())
}
