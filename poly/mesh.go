// Package poly implements a convex polyhedron as a half-edge mesh:
// incremental construction from points, plane clipping, boolean
// intersect/subtract, intersection queries and topology matching
// between two versions of a shape that changed over time.
//
// The mesh is single-threaded per instance: a Polyhedron and the
// handles into it must not be shared across goroutines without
// external synchronization. Geometry is backed by vecmath.Vec3 and
// vecmath.Plane; every face carries its own supporting plane rather
// than recomputing it on demand (unless a Callbacks.Plane override is
// installed, in which case the core defers to it).
//
// Vertex and face payloads are parameters of Polyhedron (spec §6): the
// core never interprets them, it only carries them alongside the
// geometry and hands newly created ones a default value from a
// caller-supplied factory (or the payload type's zero value if none is
// given).
package poly

import (
	"fmt"

	"github.com/sksmith/brushgeom/vecmath"
)

// VertexID, HalfEdgeID, EdgeID and FaceID are stable handles into a
// Polyhedron's pools. They are only valid for the Polyhedron that
// issued them and become dangling once the referenced element is
// removed.
type VertexID struct{ h Handle }
type HalfEdgeID struct{ h Handle }
type EdgeID struct{ h Handle }
type FaceID struct{ h Handle }

var (
	NilVertexID   = VertexID{h: Handle{chunk: -1}}
	NilHalfEdgeID = HalfEdgeID{h: Handle{chunk: -1}}
	NilEdgeID     = EdgeID{h: Handle{chunk: -1}}
	NilFaceID     = FaceID{h: Handle{chunk: -1}}
)

func (v VertexID) Valid() bool   { return v.h.chunk >= 0 }
func (e HalfEdgeID) Valid() bool { return e.h.chunk >= 0 }
func (e EdgeID) Valid() bool     { return e.h.chunk >= 0 }
func (f FaceID) Valid() bool     { return f.h.chunk >= 0 }

// Vertex is a point in space plus one incident half-edge (the usual
// half-edge "leaving" pointer), so its full ring of neighbors and
// incident faces can be recovered by walking Twin/Next. Payload is an
// opaque value the core never inspects (spec §3.3/§6).
type Vertex[VP any] struct {
	Position vecmath.Vec3
	Leaving  HalfEdgeID
	Payload  VP
}

// HalfEdge is a directed mesh edge: Origin is where it starts, Next
// continues counterclockwise around Face, Twin is the oppositely
// directed half-edge bordering the adjacent face, and Edge names the
// undirected pair the two twins share.
type HalfEdge struct {
	Origin HalfEdgeOrigin
	Next   HalfEdgeID
	Prev   HalfEdgeID
	Twin   HalfEdgeID
	Face   FaceID
	Edge   EdgeID
}

// HalfEdgeOrigin is split out only so mesh.go doesn't need an import
// cycle with the VertexID defined above; it is always a VertexID.
type HalfEdgeOrigin = VertexID

// Edge is the undirected pair of twin half-edges, kept as its own
// pooled element so callers can enumerate edges without visiting each
// half-edge twice.
type Edge struct {
	First, Second HalfEdgeID
}

// Face is a planar, convex, counterclockwise (seen from outside) loop
// of half-edges plus the plane that supports it. Payload is opaque,
// mirroring Vertex.Payload.
type Face[FP any] struct {
	Boundary HalfEdgeID
	Plane    vecmath.Plane
	Payload  FP
}

// Polyhedron is a convex mesh: every face lies on a plane, and every
// vertex lies on or behind every face's plane (spec §3.3 invariants).
// VP and FP are the opaque vertex/face payload types (spec §6); the
// core never interprets them. The zero value is not usable; build one
// with NewPolyhedron or the incremental construction in hull.go.
type Polyhedron[VP any, FP any] struct {
	vertices Pool[Vertex[VP]]
	edges    Pool[Edge]
	faces    Pool[Face[FP]]
	halfs    Pool[HalfEdge]

	callbacks            Callbacks[VP, FP]
	vertexPayloadFactory func() VP
	facePayloadFactory   func() FP
	nextTag              uint64
}

// PolyhedronOption configures a Polyhedron at construction time.
type PolyhedronOption[VP any, FP any] func(*Polyhedron[VP, FP])

// WithCallbacks installs the callback bundle a Polyhedron invokes as
// its topology changes (spec §6).
func WithCallbacks[VP any, FP any](cb Callbacks[VP, FP]) PolyhedronOption[VP, FP] {
	return func(p *Polyhedron[VP, FP]) { p.callbacks = cb }
}

// WithVertexPayloadFactory installs the default-value factory newly
// created vertices draw their Payload from (spec §6). Without one, new
// vertices get VP's zero value.
func WithVertexPayloadFactory[VP any, FP any](f func() VP) PolyhedronOption[VP, FP] {
	return func(p *Polyhedron[VP, FP]) { p.vertexPayloadFactory = f }
}

// WithFacePayloadFactory installs the default-value factory newly
// created faces draw their Payload from (spec §6). Without one, new
// faces get FP's zero value.
func WithFacePayloadFactory[VP any, FP any](f func() FP) PolyhedronOption[VP, FP] {
	return func(p *Polyhedron[VP, FP]) { p.facePayloadFactory = f }
}

// NewPolyhedron returns an empty polyhedron (the "empty" state of the
// incremental construction state machine; see hull.go).
func NewPolyhedron[VP any, FP any](opts ...PolyhedronOption[VP, FP]) *Polyhedron[VP, FP] {
	p := &Polyhedron[VP, FP]{
		vertices: *NewPool[Vertex[VP]](),
		edges:    *NewPool[Edge](),
		faces:    *NewPool[Face[FP]](),
		halfs:    *NewPool[HalfEdge](),
	}
	for _, o := range opts {
		o(p)
	}
	if p.vertexPayloadFactory == nil {
		p.vertexPayloadFactory = func() VP { var zero VP; return zero }
	}
	if p.facePayloadFactory == nil {
		p.facePayloadFactory = func() FP { var zero FP; return zero }
	}
	return p
}

// VertexCount, EdgeCount, FaceCount report the current size of the
// mesh's three pools.
func (p *Polyhedron[VP, FP]) VertexCount() int { return p.vertices.Len() }
func (p *Polyhedron[VP, FP]) EdgeCount() int   { return p.edges.Len() }
func (p *Polyhedron[VP, FP]) FaceCount() int   { return p.faces.Len() }

// Empty reports whether the polyhedron has no vertices at all.
func (p *Polyhedron[VP, FP]) Empty() bool { return p.vertices.Len() == 0 }

// Point reports whether the polyhedron is a single point (state 2 of
// the construction state machine).
func (p *Polyhedron[VP, FP]) Point() bool { return p.vertices.Len() == 1 }

// EdgeOnly reports whether the polyhedron is a single edge with no
// faces yet (state 3).
func (p *Polyhedron[VP, FP]) EdgeOnly() bool { return p.vertices.Len() == 2 && p.faces.Len() == 0 }

// Polygon reports whether the polyhedron is a single flat face (state
// 4): every vertex, and there is exactly one face plus its mirror-image
// back face used only during construction.
func (p *Polyhedron[VP, FP]) Polygon() bool {
	return p.vertices.Len() >= 3 && p.faces.Len() <= 2 && p.EdgeCount() == p.vertices.Len()
}

// Vertex returns the vertex at id.
func (p *Polyhedron[VP, FP]) Vertex(id VertexID) (Vertex[VP], bool) { return p.vertices.Get(id.h) }

// HalfEdge returns the half-edge at id.
func (p *Polyhedron[VP, FP]) HalfEdge(id HalfEdgeID) (HalfEdge, bool) { return p.halfs.Get(id.h) }

// Edge returns the edge at id.
func (p *Polyhedron[VP, FP]) Edge(id EdgeID) (Edge, bool) { return p.edges.Get(id.h) }

// Face returns the face at id.
func (p *Polyhedron[VP, FP]) Face(id FaceID) (Face[FP], bool) { return p.faces.Get(id.h) }

// SetVertexPayload overwrites the payload carried by an existing
// vertex. The core never reads it back for geometric purposes.
func (p *Polyhedron[VP, FP]) SetVertexPayload(id VertexID, payload VP) {
	v, ok := p.vertices.Get(id.h)
	if !ok {
		return
	}
	v.Payload = payload
	p.vertices.Set(id.h, v)
}

// SetFacePayload overwrites the payload carried by an existing face
// and fires FaceDidChange, since a payload change is the one mutation
// a face can undergo without its plane or boundary changing.
func (p *Polyhedron[VP, FP]) SetFacePayload(id FaceID, payload FP) {
	f, ok := p.faces.Get(id.h)
	if !ok {
		return
	}
	f.Payload = payload
	p.faces.Set(id.h, f)
	p.callbacks.faceDidChange(p, id)
}

// Vertices calls f for every live vertex.
func (p *Polyhedron[VP, FP]) Vertices(f func(VertexID, Vertex[VP])) {
	p.vertices.Each(func(h Handle, v Vertex[VP]) { f(VertexID{h}, v) })
}

// Edges calls f for every live edge.
func (p *Polyhedron[VP, FP]) Edges(f func(EdgeID, Edge)) {
	p.edges.Each(func(h Handle, e Edge) { f(EdgeID{h}, e) })
}

// Faces calls f for every live face.
func (p *Polyhedron[VP, FP]) Faces(f func(FaceID, Face[FP])) {
	p.faces.Each(func(h Handle, fc Face[FP]) { f(FaceID{h}, fc) })
}

// FaceVertices returns the ordered vertex positions of face's boundary
// loop, walking Next until it returns to the start.
func (p *Polyhedron[VP, FP]) FaceVertices(face FaceID) []vecmath.Vec3 {
	return p.facePositions(face)
}

func (p *Polyhedron[VP, FP]) facePositions(face FaceID) []vecmath.Vec3 {
	fc, ok := p.faces.Get(face.h)
	if !ok {
		return nil
	}
	var out []vecmath.Vec3
	start := fc.Boundary
	cur := start
	for {
		he, ok := p.halfs.Get(cur.h)
		if !ok {
			break
		}
		v, ok := p.vertices.Get(he.Origin.h)
		if ok {
			out = append(out, v.Position)
		}
		cur = he.Next
		if cur == start || !cur.Valid() {
			break
		}
	}
	return out
}

// FaceHalfEdges returns the ordered half-edge IDs of face's boundary.
func (p *Polyhedron[VP, FP]) FaceHalfEdges(face FaceID) []HalfEdgeID {
	fc, ok := p.faces.Get(face.h)
	if !ok {
		return nil
	}
	var out []HalfEdgeID
	start := fc.Boundary
	cur := start
	for {
		out = append(out, cur)
		he, ok := p.halfs.Get(cur.h)
		if !ok {
			break
		}
		cur = he.Next
		if cur == start || !cur.Valid() {
			break
		}
	}
	return out
}

// BoundingBox computes the axis-aligned bounds of every vertex.
func (p *Polyhedron[VP, FP]) BoundingBox() vecmath.BBox {
	box := vecmath.EmptyBBox()
	p.Vertices(func(_ VertexID, v Vertex[VP]) { box = box.MergePoint(v.Position) })
	return box
}

func (p *Polyhedron[VP, FP]) String() string {
	return fmt.Sprintf("Polyhedron{vertices=%d edges=%d faces=%d}", p.VertexCount(), p.EdgeCount(), p.FaceCount())
}

// computeFacePlane resolves the plane a new or rebuilt face should
// carry, deferring to a Callbacks.Plane override when one is installed
// (spec §6/§9: "the core relies on [plane] for correctness", so the
// override always wins over the geometrically fitted plane). Callers
// in hull.go and clip.go use this instead of fitting a plane directly
// whenever a face's boundary is established or changed.
func (p *Polyhedron[VP, FP]) computeFacePlane(positions []vecmath.Vec3, fitted vecmath.Plane) vecmath.Plane {
	if p.callbacks.Plane != nil {
		return p.callbacks.Plane(p, positions, fitted)
	}
	return fitted
}

func (p *Polyhedron[VP, FP]) allocVertex(v Vertex[VP]) VertexID {
	v.Payload = p.vertexPayloadFactory()
	id := VertexID{p.vertices.Alloc(v)}
	p.callbacks.vertexWasCreated(p, id)
	return id
}

func (p *Polyhedron[VP, FP]) allocHalfEdge(he HalfEdge) HalfEdgeID {
	return HalfEdgeID{p.halfs.Alloc(he)}
}

func (p *Polyhedron[VP, FP]) allocEdge(e Edge) EdgeID {
	return EdgeID{p.edges.Alloc(e)}
}

func (p *Polyhedron[VP, FP]) allocFace(f Face[FP]) FaceID {
	f.Payload = p.facePayloadFactory()
	id := FaceID{p.faces.Alloc(f)}
	p.callbacks.faceWasCreated(p, id)
	return id
}

// removeVertex frees v after firing VertexWillBeRemoved, for vertices
// that a geometric operation (clip, CSG) excludes from its result as
// opposed to vertexWillBeDeleted's lower-level pool-housekeeping use
// in hull.go's pruneUnreferencedVertices.
func (p *Polyhedron[VP, FP]) removeVertex(id VertexID) {
	p.callbacks.vertexWillBeRemoved(p, id)
	p.vertices.Free(id.h)
}

func (p *Polyhedron[VP, FP]) deleteFace(id FaceID) {
	p.callbacks.faceWillBeDeleted(p, id)
	for _, heID := range p.FaceHalfEdges(id) {
		p.halfs.Free(heID.h)
	}
	p.faces.Free(id.h)
}
