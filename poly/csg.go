package poly

import "github.com/sksmith/brushgeom/vecmath"

// facePlanes returns the supporting plane of every face, in face-ID
// order, used by Intersect/Subtract as the half-space list to clip
// against (spec §8's CSG operations).
func (p *Polyhedron[VP, FP]) facePlanes() []vecmath.Plane {
	var planes []vecmath.Plane
	p.Faces(func(_ FaceID, f Face[FP]) { planes = append(planes, f.Plane) })
	return planes
}

// clonePositions returns a fresh Polyhedron rebuilt from p's current
// vertex positions via incremental construction, used as the starting
// point for a CSG operation so the original is left untouched.
func (p *Polyhedron[VP, FP]) clonePositions() *Polyhedron[VP, FP] {
	clone := NewPolyhedron[VP, FP](
		WithVertexPayloadFactory[VP, FP](p.vertexPayloadFactory),
		WithFacePayloadFactory[VP, FP](p.facePayloadFactory),
		WithCallbacks[VP, FP](p.callbacks),
	)
	clone.AddPoints(p.allVertexPositions())
	return clone
}

// Intersect computes the convex intersection of p and other in place,
// by clipping p against every supporting plane of other in turn, in
// other's face-ID order, and returns ClipEmpty as soon as one clip
// empties p (spec §8).
func (p *Polyhedron[VP, FP]) Intersect(other *Polyhedron[VP, FP]) ClipResult {
	result := ClipUnchanged
	for _, plane := range other.facePlanes() {
		switch p.Clip(plane) {
		case ClipEmpty:
			return ClipEmpty
		case ClipSuccess:
			result = ClipSuccess
		}
	}
	return result
}

// Subtract computes p minus other, returning the (possibly empty) set
// of convex fragments that make up the difference. Because a convex
// polyhedron minus another convex polyhedron is not generally convex,
// the result is decomposed into one convex piece per face of other:
// the piece of p lying in front of that face but behind every
// preceding face's complement (spec §8).
func (p *Polyhedron[VP, FP]) Subtract(other *Polyhedron[VP, FP]) []*Polyhedron[VP, FP] {
	planes := other.facePlanes()
	if len(planes) == 0 {
		return nil
	}

	var fragments []*Polyhedron[VP, FP]
	remainder := p.clonePositions()

	for i, plane := range planes {
		piece := remainder.clonePositions()
		if piece.Clip(plane.Flipped()) == ClipEmpty {
			continue
		}
		fragments = append(fragments, piece)

		if i == len(planes)-1 {
			break
		}
		if remainder.Clip(plane) == ClipEmpty {
			break
		}
	}
	return fragments
}
