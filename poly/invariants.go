package poly

import (
	"fmt"

	"github.com/sksmith/brushgeom/vecmath"
)

// InvariantError reports a violated structural invariant (spec §3.3):
// the Euler characteristic, a non-convex vertex, a degenerate face, or
// a half-edge without a properly opposed twin.
type InvariantError struct {
	Kind    string
	Message string
}

func (e InvariantError) Error() string {
	return fmt.Sprintf("%s invariant violated: %s", e.Kind, e.Message)
}

// ValidateEuler checks V - E + F == 2, the topological invariant every
// closed convex polyhedron with three or more vertices must satisfy.
func (p *Polyhedron[VP, FP]) ValidateEuler() error {
	if p.VertexCount() < 4 {
		return nil // point/edge/polygon states predate the invariant
	}
	v, e, f := p.VertexCount(), p.EdgeCount(), p.FaceCount()
	if v-e+f != 2 {
		return InvariantError{
			Kind:    "Euler",
			Message: fmt.Sprintf("V=%d E=%d F=%d, V-E+F=%d (want 2)", v, e, f, v-e+f),
		}
	}
	return nil
}

// ValidateConvex checks that every vertex is on or behind every face's
// plane: the defining property of convexity this package assumes
// throughout (spec §3.3).
func (p *Polyhedron[VP, FP]) ValidateConvex() error {
	var firstErr error
	p.Faces(func(fid FaceID, f Face[FP]) {
		if firstErr != nil {
			return
		}
		p.Vertices(func(vid VertexID, v Vertex[VP]) {
			if firstErr != nil {
				return
			}
			if f.Plane.ClassifyPointEps(v.Position, vecmath.Epsilon) == vecmath.Above {
				firstErr = InvariantError{
					Kind:    "Convexity",
					Message: fmt.Sprintf("vertex is in front of face plane"),
				}
			}
		})
	})
	return firstErr
}

// ValidateFaces checks that every face has at least three boundary
// vertices and that all of them are coplanar with the face's stored
// plane.
func (p *Polyhedron[VP, FP]) ValidateFaces() error {
	var firstErr error
	p.Faces(func(fid FaceID, f Face[FP]) {
		if firstErr != nil {
			return
		}
		verts := p.FaceVertices(fid)
		if len(verts) < 3 {
			firstErr = InvariantError{Kind: "Face", Message: "face has fewer than three vertices"}
			return
		}
		for _, v := range verts {
			if f.Plane.ClassifyPointEps(v, vecmath.Epsilon) != vecmath.On {
				firstErr = InvariantError{Kind: "Face", Message: "vertex is not coplanar with its face"}
				return
			}
		}
	})
	return firstErr
}

// ValidateClosed checks that every half-edge has a twin whose origin
// and destination are exactly reversed from its own (spec §8 property
// 4): a mesh with a one-sided boundary edge is not a closed solid.
func (p *Polyhedron[VP, FP]) ValidateClosed() error {
	var firstErr error
	p.Faces(func(fid FaceID, _ Face[FP]) {
		if firstErr != nil {
			return
		}
		for _, heID := range p.FaceHalfEdges(fid) {
			he, ok := p.halfs.Get(heID.h)
			if !ok {
				continue
			}
			if !he.Twin.Valid() {
				firstErr = InvariantError{Kind: "Closedness", Message: "half-edge has no twin"}
				return
			}
			twin, ok := p.halfs.Get(he.Twin.h)
			if !ok {
				firstErr = InvariantError{Kind: "Closedness", Message: "half-edge's twin handle is dangling"}
				return
			}
			nextHe, ok := p.halfs.Get(he.Next.h)
			if !ok {
				continue
			}
			if twin.Origin != nextHe.Origin {
				firstErr = InvariantError{Kind: "Closedness", Message: "twin origin does not match half-edge destination"}
				return
			}
			twinNext, ok := p.halfs.Get(twin.Next.h)
			if ok && twinNext.Origin != he.Origin {
				firstErr = InvariantError{Kind: "Closedness", Message: "twin's destination does not match half-edge origin"}
				return
			}
		}
	})
	return firstErr
}

// ValidateComplete runs every structural check, grounded on the
// teacher's ValidateComplete composing its individual Validate*
// methods.
func (p *Polyhedron[VP, FP]) ValidateComplete() error {
	if err := p.ValidateEuler(); err != nil {
		return err
	}
	if err := p.ValidateConvex(); err != nil {
		return err
	}
	if err := p.ValidateClosed(); err != nil {
		return err
	}
	return p.ValidateFaces()
}
