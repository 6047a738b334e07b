package poly

import "github.com/sksmith/brushgeom/vecmath"

// Callbacks lets a caller observe topology changes as they happen and,
// via Plane, override how a face's supporting plane is computed. This
// is the full event set spec §6 names, grounded on
// original_source/common/src/Polyhedron.h's Callback class. Every
// field is optional; a nil field is simply not invoked.
type Callbacks[VP any, FP any] struct {
	// VertexWasCreated fires once a new vertex has been allocated,
	// before it is linked into any face.
	VertexWasCreated func(p *Polyhedron[VP, FP], v VertexID)
	// VertexWillBeDeleted fires for vertices the mesh discards as pure
	// housekeeping — e.g. hull construction pruning a point that never
	// ended up on the hull.
	VertexWillBeDeleted func(p *Polyhedron[VP, FP], v VertexID)
	// VertexWasAdded fires when a vertex becomes part of the
	// polyhedron's boundary as the direct result of a caller-driven
	// AddPoint call, as opposed to an internal construction step.
	VertexWasAdded func(p *Polyhedron[VP, FP], v VertexID)
	// VertexWillBeRemoved fires for vertices a geometric operation
	// (Clip, Subtract) excludes from its result.
	VertexWillBeRemoved func(p *Polyhedron[VP, FP], v VertexID)
	// Plane overrides how a face's supporting plane is computed from
	// its boundary positions. fitted is the plane the core fit via
	// Newell's method; an override must return a plane coplanar with
	// fitted's boundary or invariants will fail. The core relies on
	// this being pure and deterministic (spec §9).
	Plane func(p *Polyhedron[VP, FP], positions []vecmath.Vec3, fitted vecmath.Plane) vecmath.Plane
	// FaceWasCreated fires once a new face has been allocated with its
	// final boundary and plane.
	FaceWasCreated func(p *Polyhedron[VP, FP], f FaceID)
	// FaceWillBeDeleted fires immediately before a face's storage is
	// freed, while its boundary and plane are still readable.
	FaceWillBeDeleted func(p *Polyhedron[VP, FP], f FaceID)
	// FaceDidChange fires when an existing face keeps its identity but
	// its boundary, plane or payload was mutated in place.
	FaceDidChange func(p *Polyhedron[VP, FP], f FaceID)
	// FaceWasFlipped fires when a face's winding order (and therefore
	// its outward normal) is reversed in place.
	FaceWasFlipped func(p *Polyhedron[VP, FP], f FaceID)
	// FaceWasSplit fires when clipping divides a face that straddled a
	// cutting plane into the original (mutated in place) and a newly
	// allocated clone.
	FaceWasSplit func(p *Polyhedron[VP, FP], original, added FaceID)
	// FacesWillBeMerged fires immediately before two coplanar adjacent
	// faces are coalesced into remaining, discarding removed.
	FacesWillBeMerged func(p *Polyhedron[VP, FP], remaining, removed FaceID)
}

func (c Callbacks[VP, FP]) vertexWasCreated(p *Polyhedron[VP, FP], v VertexID) {
	if c.VertexWasCreated != nil {
		c.VertexWasCreated(p, v)
	}
}

func (c Callbacks[VP, FP]) vertexWillBeDeleted(p *Polyhedron[VP, FP], v VertexID) {
	if c.VertexWillBeDeleted != nil {
		c.VertexWillBeDeleted(p, v)
	}
}

func (c Callbacks[VP, FP]) vertexWasAdded(p *Polyhedron[VP, FP], v VertexID) {
	if c.VertexWasAdded != nil {
		c.VertexWasAdded(p, v)
	}
}

func (c Callbacks[VP, FP]) vertexWillBeRemoved(p *Polyhedron[VP, FP], v VertexID) {
	if c.VertexWillBeRemoved != nil {
		c.VertexWillBeRemoved(p, v)
	}
}

func (c Callbacks[VP, FP]) faceWasCreated(p *Polyhedron[VP, FP], f FaceID) {
	if c.FaceWasCreated != nil {
		c.FaceWasCreated(p, f)
	}
}

func (c Callbacks[VP, FP]) faceWillBeDeleted(p *Polyhedron[VP, FP], f FaceID) {
	if c.FaceWillBeDeleted != nil {
		c.FaceWillBeDeleted(p, f)
	}
}

func (c Callbacks[VP, FP]) faceDidChange(p *Polyhedron[VP, FP], f FaceID) {
	if c.FaceDidChange != nil {
		c.FaceDidChange(p, f)
	}
}

func (c Callbacks[VP, FP]) faceWasFlipped(p *Polyhedron[VP, FP], f FaceID) {
	if c.FaceWasFlipped != nil {
		c.FaceWasFlipped(p, f)
	}
}

func (c Callbacks[VP, FP]) faceWasSplit(p *Polyhedron[VP, FP], original, added FaceID) {
	if c.FaceWasSplit != nil {
		c.FaceWasSplit(p, original, added)
	}
}

func (c Callbacks[VP, FP]) facesWillBeMerged(p *Polyhedron[VP, FP], remaining, removed FaceID) {
	if c.FacesWillBeMerged != nil {
		c.FacesWillBeMerged(p, remaining, removed)
	}
}
