package poly

import (
	"github.com/sksmith/brushgeom/vecmath"
)

// AddPoint incrementally extends the polyhedron to include pos,
// advancing through the five-state construction machine described in
// spec §6: empty -> point -> edge -> polygon -> polyhedron. If pos
// already lies inside (or on the boundary of) the current hull, the
// polyhedron is returned unchanged and the returned VertexID names the
// existing vertex nearest pos rather than a new one.
func (p *Polyhedron[VP, FP]) AddPoint(pos vecmath.Vec3) VertexID {
	existing := map[VertexID]bool{}
	p.Vertices(func(vid VertexID, _ Vertex[VP]) { existing[vid] = true })
	var id VertexID
	switch {
	case p.Empty():
		id = p.allocVertex(Vertex[VP]{Leaving: NilHalfEdgeID, Position: pos})

	case p.Point():
		id = p.growFromPointToEdge(pos)

	case p.EdgeOnly():
		id = p.growFromEdgeToPolygonOrEdge(pos)

	case p.Polygon():
		id = p.growFromPolygonToPolyhedron(pos)

	default:
		id = p.growHull(pos)
	}
	if !existing[id] {
		p.callbacks.vertexWasAdded(p, id)
	}
	return id
}

// AddPoints folds AddPoint over every position in order.
func (p *Polyhedron[VP, FP]) AddPoints(positions []vecmath.Vec3) {
	for _, pos := range positions {
		p.AddPoint(pos)
	}
}

func (p *Polyhedron[VP, FP]) firstVertex() (VertexID, Vertex[VP]) {
	id := NilVertexID
	var v Vertex[VP]
	p.Vertices(func(vid VertexID, vv Vertex[VP]) {
		if !id.Valid() {
			id, v = vid, vv
		}
	})
	return id, v
}

func (p *Polyhedron[VP, FP]) allVertexPositions() []vecmath.Vec3 {
	var out []vecmath.Vec3
	p.Vertices(func(_ VertexID, v Vertex[VP]) { out = append(out, v.Position) })
	return out
}

func (p *Polyhedron[VP, FP]) growFromPointToEdge(pos vecmath.Vec3) VertexID {
	existingID, existing := p.firstVertex()
	if vecmath.EqualEps(existing.Position, pos, vecmath.Epsilon) {
		return existingID
	}
	return p.allocVertex(Vertex[VP]{Position: pos})
}

func (p *Polyhedron[VP, FP]) growFromEdgeToPolygonOrEdge(pos vecmath.Vec3) VertexID {
	positions := p.allVertexPositions()
	a, b := positions[0], positions[1]
	if vecmath.Collinear(a, b, pos) {
		// still degenerate: just add the vertex, no faces yet.
		return p.allocVertex(Vertex[VP]{Position: pos})
	}
	// three non-collinear points: build the flat two-sided polygon.
	newID := p.allocVertex(Vertex[VP]{Position: pos})
	p.buildFlatPolygon([]vecmath.Vec3{a, b, pos})
	return newID
}

// buildFlatPolygon replaces the current point/edge soup with a single
// flat polygon represented as two mirror-image faces sharing every
// edge (the "polygon" construction state, before any point lifts it
// off the plane).
func (p *Polyhedron[VP, FP]) buildFlatPolygon(positions []vecmath.Vec3) {
	p.vertices = *NewPool[Vertex[VP]]()
	p.edges = *NewPool[Edge]()
	p.faces = *NewPool[Face[FP]]()
	p.halfs = *NewPool[HalfEdge]()

	normal, ok := vecmath.NewellNormal(positions)
	if !ok {
		return
	}
	plane := p.computeFacePlane(positions, vecmath.Plane{Normal: normal, Distance: normal.Dot(positions[0])})

	vids := make([]VertexID, len(positions))
	for i, pos := range positions {
		vids[i] = p.allocVertex(Vertex[VP]{Position: pos})
	}
	p.buildFaceLoop(vids, plane, true)
	p.buildFaceLoop(reverseVertexIDs(vids), plane.Flipped(), true)
}

func reverseVertexIDs(ids []VertexID) []VertexID {
	out := make([]VertexID, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

// buildFaceLoop creates a closed half-edge ring visiting vids in
// order and a Face bound to it on the given plane. When shareTwins is
// true, opposite-direction half-edges created by a matching call on
// the reversed vertex order are linked as twins and share an Edge;
// callers that want that linkage must build both loops back to back
// (see buildFlatPolygon) since this function does not search for an
// existing twin itself.
func (p *Polyhedron[VP, FP]) buildFaceLoop(vids []VertexID, plane vecmath.Plane, shareTwins bool) FaceID {
	heIDs := p.buildHalfEdgeRing(vids)
	faceID := p.allocFace(Face[FP]{Boundary: heIDs[0], Plane: plane})
	p.assignFace(heIDs, faceID)
	if shareTwins {
		p.linkTwinsForLoop(heIDs, vids)
	}
	return faceID
}

// rebuildFaceLoop replaces face's boundary in place with a new ring of
// half-edges over vids, preserving face's identity for callers that
// rely on FaceID staying stable across a clip or seam-cap rewrite. The
// face's old half-edges are freed; Edge links on untouched neighbors
// are left to a following relinkAllTwins pass.
func (p *Polyhedron[VP, FP]) rebuildFaceLoop(face FaceID, vids []VertexID, plane vecmath.Plane) {
	for _, heID := range p.FaceHalfEdges(face) {
		p.halfs.Free(heID.h)
	}
	heIDs := p.buildHalfEdgeRing(vids)
	p.assignFace(heIDs, face)
	f, _ := p.faces.Get(face.h)
	f.Boundary = heIDs[0]
	f.Plane = plane
	p.faces.Set(face.h, f)
}

// flipFace reverses face's boundary winding and negates its plane,
// used when a face built facing one way turns out to need the
// opposite orientation.
func (p *Polyhedron[VP, FP]) flipFace(face FaceID) {
	f, ok := p.faces.Get(face.h)
	if !ok {
		return
	}
	vids := faceVertexIDs[VP, FP](p, face)
	p.rebuildFaceLoop(face, reverseVertexIDs(vids), f.Plane.Flipped())
	p.callbacks.faceWasFlipped(p, face)
}

func (p *Polyhedron[VP, FP]) buildHalfEdgeRing(vids []VertexID) []HalfEdgeID {
	n := len(vids)
	heIDs := make([]HalfEdgeID, n)
	for i, vid := range vids {
		heID := p.allocHalfEdge(HalfEdge{Origin: vid})
		heIDs[i] = heID
		v, _ := p.vertices.Get(vid.h)
		if !v.Leaving.Valid() {
			v.Leaving = heID
			p.vertices.Set(vid.h, v)
		}
	}
	for i := 0; i < n; i++ {
		he, _ := p.halfs.Get(heIDs[i].h)
		he.Next = heIDs[(i+1)%n]
		he.Prev = heIDs[(i-1+n)%n]
		p.halfs.Set(heIDs[i].h, he)
	}
	return heIDs
}

func (p *Polyhedron[VP, FP]) assignFace(heIDs []HalfEdgeID, faceID FaceID) {
	for i := range heIDs {
		he, _ := p.halfs.Get(heIDs[i].h)
		he.Face = faceID
		p.halfs.Set(heIDs[i].h, he)
	}
}

// linkTwinsForLoop pairs each half-edge with any existing half-edge
// running the opposite direction between the same two vertices,
// allocating the shared Edge record the first time a pair is found.
func (p *Polyhedron[VP, FP]) linkTwinsForLoop(heIDs []HalfEdgeID, vids []VertexID) {
	n := len(vids)
	for i := 0; i < n; i++ {
		from, to := vids[i], vids[(i+1)%n]
		twin := p.findHalfEdge(to, from, heIDs[i])
		if !twin.Valid() {
			continue
		}
		he, _ := p.halfs.Get(heIDs[i].h)
		twinHe, _ := p.halfs.Get(twin.h)
		if twinHe.Twin.Valid() {
			continue
		}
		edgeID := p.allocEdge(Edge{First: heIDs[i], Second: twin})
		he.Twin, he.Edge = twin, edgeID
		twinHe.Twin, twinHe.Edge = heIDs[i], edgeID
		p.halfs.Set(heIDs[i].h, he)
		p.halfs.Set(twin.h, twinHe)
	}
}

// findHalfEdge scans every half-edge in the mesh for one running from
// -> to, skipping exclude. Meshes stay small enough in practice
// (bounded by brush complexity) that this linear scan is simpler than
// maintaining a vertex-pair index.
func (p *Polyhedron[VP, FP]) findHalfEdge(from, to VertexID, exclude HalfEdgeID) HalfEdgeID {
	var found HalfEdgeID = NilHalfEdgeID
	p.halfs.Each(func(h Handle, he HalfEdge) {
		if found.Valid() {
			return
		}
		id := HalfEdgeID{h}
		if id == exclude {
			return
		}
		if he.Origin != from {
			return
		}
		nextHe, ok := p.halfs.Get(he.Next.h)
		if !ok || nextHe.Origin != to {
			return
		}
		found = id
	})
	return found
}

// growFromPolygonToPolyhedron lifts a flat polygon into a pyramid once
// a point off the polygon's plane is added: the mirror "back" face is
// discarded and replaced by one triangular face per boundary edge,
// each connecting that edge to the new apex.
func (p *Polyhedron[VP, FP]) growFromPolygonToPolyhedron(pos vecmath.Vec3) VertexID {
	frontID, front := p.firstFace()
	switch front.Plane.ClassifyPointEps(pos, vecmath.Epsilon) {
	case vecmath.On:
		// coplanar: extend the flat polygon instead of lifting it.
		return p.addCoplanarPolygonVertex(pos)
	case vecmath.Above:
		// firstFace picked arbitrarily between the two mirror faces; pos
		// sits in front of this one, so it's the one that must end up
		// facing away from the new apex.
		p.flipFace(frontID)
	}

	boundary := p.FaceHalfEdges(frontID)
	var rim []VertexID
	for _, heID := range boundary {
		he, _ := p.halfs.Get(heID.h)
		rim = append(rim, he.Origin)
	}

	// discard the back (mirror) face; keep the front face as one side
	// of the new solid.
	p.removeMirrorFace(frontID)

	apex := p.allocVertex(Vertex[VP]{Position: pos})
	n := len(rim)
	for i := 0; i < n; i++ {
		a, b := rim[i], rim[(i+1)%n]
		va, _ := p.vertices.Get(a.h)
		vb, _ := p.vertices.Get(b.h)
		plane, ok := vecmath.PlaneFromPoints(vb.Position, va.Position, pos)
		if !ok {
			continue
		}
		plane = p.computeFacePlane([]vecmath.Vec3{vb.Position, va.Position, pos}, plane)
		p.buildFaceLoop([]VertexID{b, a, apex}, plane, false)
	}
	p.relinkAllTwins()
	return apex
}

func (p *Polyhedron[VP, FP]) addCoplanarPolygonVertex(pos vecmath.Vec3) VertexID {
	return p.allocVertex(Vertex[VP]{Position: pos})
}

func (p *Polyhedron[VP, FP]) firstFace() (FaceID, Face[FP]) {
	id := NilFaceID
	var f Face[FP]
	p.Faces(func(fid FaceID, ff Face[FP]) {
		if !id.Valid() {
			id, f = fid, ff
		}
	})
	return id, f
}

func (p *Polyhedron[VP, FP]) removeMirrorFace(keep FaceID) {
	var mirror FaceID = NilFaceID
	p.Faces(func(fid FaceID, f Face[FP]) {
		if fid != keep {
			mirror = fid
		}
	})
	if mirror.Valid() {
		p.deleteFaceAndOrphanedHalfEdges(mirror)
	}
	// clear twin links from the kept face's boundary; they pointed at
	// the mirror's now-deleted half-edges.
	for _, heID := range p.FaceHalfEdges(keep) {
		he, _ := p.halfs.Get(heID.h)
		he.Twin = NilHalfEdgeID
		he.Edge = NilEdgeID
		p.halfs.Set(heID.h, he)
	}
	p.edges = *NewPool[Edge]()
}

func (p *Polyhedron[VP, FP]) deleteFaceAndOrphanedHalfEdges(face FaceID) {
	p.callbacks.faceWillBeDeleted(p, face)
	for _, heID := range p.FaceHalfEdges(face) {
		p.halfs.Free(heID.h)
	}
	p.faces.Free(face.h)
}

// relinkAllTwins rebuilds every Edge from scratch by scanning for
// opposite-direction half-edge pairs. Called after bulk face
// construction where twins were deliberately left unlinked.
func (p *Polyhedron[VP, FP]) relinkAllTwins() {
	p.edges = *NewPool[Edge]()
	type key struct{ a, b VertexID }
	seen := map[key]HalfEdgeID{}
	p.halfs.Each(func(h Handle, he HalfEdge) {
		id := HalfEdgeID{h}
		nextHe, ok := p.halfs.Get(he.Next.h)
		if !ok {
			return
		}
		from, to := he.Origin, nextHe.Origin
		if other, ok := seen[key{to, from}]; ok {
			edgeID := p.allocEdge(Edge{First: other, Second: id})
			otherHe, _ := p.halfs.Get(other.h)
			otherHe.Twin, otherHe.Edge = id, edgeID
			p.halfs.Set(other.h, otherHe)
			he.Twin, he.Edge = other, edgeID
			p.halfs.Set(id.h, he)
			delete(seen, key{to, from})
			return
		}
		seen[key{from, to}] = id
	})
}

// growHull extends a full polyhedron by pos using the textbook
// incremental convex hull step: faces visible from pos are removed,
// leaving a horizon loop of boundary edges, which is then stitched to
// a new apex vertex one triangle per horizon edge.
func (p *Polyhedron[VP, FP]) growHull(pos vecmath.Vec3) VertexID {
	type visibleFace = struct {
		id FaceID
	}
	var visible []visibleFace
	p.Faces(func(id FaceID, f Face[FP]) {
		if f.Plane.ClassifyPointEps(pos, vecmath.Epsilon) == vecmath.Above {
			visible = append(visible, visibleFace{id})
		}
	})
	if len(visible) == 0 {
		return p.nearestExistingVertex(pos)
	}

	horizon := p.computeHorizon(visible)

	apex := p.allocVertex(Vertex[VP]{Position: pos})
	var newFaces []FaceID
	for _, heID := range horizon {
		he, ok := p.halfs.Get(heID.h)
		if !ok {
			continue
		}
		nextHe, ok := p.halfs.Get(he.Next.h)
		if !ok {
			continue
		}
		a, b := he.Origin, nextHe.Origin
		va, _ := p.vertices.Get(a.h)
		vb, _ := p.vertices.Get(b.h)
		plane, ok := vecmath.PlaneFromPoints(va.Position, vb.Position, pos)
		if !ok {
			continue
		}
		plane = p.computeFacePlane([]vecmath.Vec3{va.Position, vb.Position, pos}, plane)
		newFaces = append(newFaces, p.buildFaceLoop([]VertexID{a, b, apex}, plane, false))
	}
	for _, vf := range visible {
		p.deleteFaceAndOrphanedHalfEdges(vf.id)
	}
	p.relinkAllTwins()
	p.mergeCoplanarNeighbors(newFaces)
	p.pruneUnreferencedVertices()
	return apex
}

// mergeCoplanarNeighbors folds adjacent newly built faces that share an
// edge and lie on the same plane into a single face, so a point added
// flush against an existing face extends that face's polygon instead
// of leaving it fanned into slivers of triangles.
func (p *Polyhedron[VP, FP]) mergeCoplanarNeighbors(candidates []FaceID) {
	for {
		mergedAny := false
		for _, a := range candidates {
			af, ok := p.faces.Get(a.h)
			if !ok {
				continue
			}
			for _, heID := range p.FaceHalfEdges(a) {
				he, ok := p.halfs.Get(heID.h)
				if !ok || !he.Twin.Valid() {
					continue
				}
				twinHe, ok := p.halfs.Get(he.Twin.h)
				if !ok {
					continue
				}
				b := twinHe.Face
				if b == a || !b.Valid() {
					continue
				}
				bf, ok := p.faces.Get(b.h)
				if !ok || !af.Plane.Equal(bf.Plane) {
					continue
				}
				p.mergeFacesAcrossEdge(a, b, heID, he.Twin)
				mergedAny = true
				break
			}
		}
		if !mergedAny {
			return
		}
		p.relinkAllTwins()
	}
}

// mergeFacesAcrossEdge splices b's boundary into a's in place of their
// shared edge, keeps a's FaceID, and deletes b.
func (p *Polyhedron[VP, FP]) mergeFacesAcrossEdge(a, b FaceID, sharedHE, twinHE HalfEdgeID) {
	af, _ := p.faces.Get(a.h)
	p.callbacks.facesWillBeMerged(p, a, b)
	aIDs := p.boundaryVertexIDsExcluding(a, sharedHE)
	bIDs := p.boundaryVertexIDsExcluding(b, twinHE)
	merged := append(aIDs, bIDs...)
	p.rebuildFaceLoop(a, merged, af.Plane)
	p.deleteFaceAndOrphanedHalfEdges(b)
	p.callbacks.faceDidChange(p, a)
}

// boundaryVertexIDsExcluding returns face's boundary vertices starting
// just after exclude and ending at exclude's origin, i.e. every vertex
// of the polygon except the one edge named by exclude.
func (p *Polyhedron[VP, FP]) boundaryVertexIDsExcluding(face FaceID, exclude HalfEdgeID) []VertexID {
	heIDs := p.FaceHalfEdges(face)
	idx := -1
	for i, id := range heIDs {
		if id == exclude {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]VertexID, 0, len(heIDs)-1)
	for i := 1; i < len(heIDs); i++ {
		he, ok := p.halfs.Get(heIDs[(idx+i)%len(heIDs)].h)
		if ok {
			out = append(out, he.Origin)
		}
	}
	return out
}

// computeHorizon returns, for the set of faces visible from the new
// point, the half-edges on the boundary between a visible and a
// non-visible face: the seam the new faces will be woven onto.
func (p *Polyhedron[VP, FP]) computeHorizon(visible []struct{ id FaceID }) []HalfEdgeID {
	isVisible := map[FaceID]bool{}
	for _, v := range visible {
		isVisible[v.id] = true
	}
	var horizon []HalfEdgeID
	for _, v := range visible {
		for _, heID := range p.FaceHalfEdges(v.id) {
			he, _ := p.halfs.Get(heID.h)
			if !he.Twin.Valid() {
				continue
			}
			twinHe, _ := p.halfs.Get(he.Twin.h)
			if !isVisible[twinHe.Face] {
				horizon = append(horizon, heID)
			}
		}
	}
	return horizon
}

func (p *Polyhedron[VP, FP]) nearestExistingVertex(pos vecmath.Vec3) VertexID {
	var best VertexID = NilVertexID
	bestDist := -1.0
	p.Vertices(func(id VertexID, v Vertex[VP]) {
		d := v.Position.Sub(pos).Len()
		if bestDist < 0 || d < bestDist {
			bestDist, best = d, id
		}
	})
	return best
}

// pruneUnreferencedVertices removes vertices no half-edge originates
// from, which can happen when growHull discards every face incident to
// a vertex that turns out to lie strictly inside the new hull.
func (p *Polyhedron[VP, FP]) pruneUnreferencedVertices() {
	referenced := map[VertexID]bool{}
	p.halfs.Each(func(_ Handle, he HalfEdge) { referenced[he.Origin] = true })
	var toRemove []VertexID
	p.Vertices(func(id VertexID, _ Vertex[VP]) {
		if !referenced[id] {
			toRemove = append(toRemove, id)
		}
	})
	for _, id := range toRemove {
		p.callbacks.vertexWillBeDeleted(p, id)
		p.vertices.Free(id.h)
	}
}

// Merge folds other's vertices into p by re-running the incremental
// construction over other's points, grounded on spec §6's "merge two
// polyhedra" operation.
func (p *Polyhedron[VP, FP]) Merge(other *Polyhedron[VP, FP]) {
	p.AddPoints(other.allVertexPositions())
}
