package poly

import (
	"github.com/sksmith/brushgeom/vecmath"
)

// ClipResult reports what Clip did to a polyhedron.
type ClipResult int

const (
	// ClipUnchanged means the plane was coplanar with an existing face,
	// or every vertex was on or behind the plane: the polyhedron is
	// untouched.
	ClipUnchanged ClipResult = iota
	// ClipEmpty means every vertex was in front of the plane: the
	// polyhedron has been emptied.
	ClipEmpty
	// ClipSuccess means the plane actually cut the polyhedron; a new
	// cap face was woven along the cut.
	ClipSuccess
)

// Clip cuts away the part of the polyhedron in front of plane, capping
// the cut with a new face on plane. Unlike a positional rebuild,
// untouched faces and vertices keep their identity: a face whose
// vertices are all behind the plane is never reallocated, a face the
// plane actually crosses has its boundary rewritten in place, and only
// vertices strictly in front of the plane are removed. A straddling
// face fires FaceWasSplit against a short-lived clone built from its
// discarded above-plane half before that clone is torn down, then
// fires FaceDidChange once its own boundary is rewritten to the kept
// half. Edge records are not preserved incrementally — Clip ends with
// a single global twin relink rather than stitching each new
// half-edge's twin individually — but every vertex and face identity
// guarantee survives correctly.
func (p *Polyhedron[VP, FP]) Clip(plane vecmath.Plane) ClipResult {
	coplanarWithFace := false
	p.Faces(func(_ FaceID, f Face[FP]) {
		if plane.Equal(f.Plane) {
			coplanarWithFace = true
		}
	})
	if coplanarWithFace {
		return ClipUnchanged
	}

	status := map[VertexID]vecmath.PointStatus{}
	var anyAbove, anyBelow bool
	p.Vertices(func(id VertexID, v Vertex[VP]) {
		s := plane.ClassifyPointEps(v.Position, vecmath.Epsilon)
		status[id] = s
		switch s {
		case vecmath.Above:
			anyAbove = true
		case vecmath.Below:
			anyBelow = true
		}
	})
	if !anyAbove {
		return ClipUnchanged
	}
	if !anyBelow {
		p.emptyOut()
		return ClipEmpty
	}

	split := p.splitStraddlingEdges(plane, status)

	type segment struct{ from, to VertexID }
	var seamSegs []segment
	var toDelete []FaceID

	p.Faces(func(id FaceID, f Face[FP]) {
		boundary := p.FaceHalfEdges(id)
		hasAbove, hasKept := false, false
		for _, heID := range boundary {
			he, _ := p.halfs.Get(heID.h)
			if status[he.Origin] == vecmath.Above {
				hasAbove = true
			} else {
				hasKept = true
			}
		}
		if !hasAbove {
			return // entirely behind or on: untouched
		}
		if !hasKept {
			toDelete = append(toDelete, id)
			return
		}
		aboveVids, _ := p.rebuiltFaceBoundary(boundary, status, split, vecmath.Below)
		leaving := p.snapshotLeaving(aboveVids)
		cloneID := p.buildFaceLoop(aboveVids, f.Plane.Flipped(), false)
		p.callbacks.faceWasSplit(p, id, cloneID)
		p.deleteFaceAndOrphanedHalfEdges(cloneID)
		p.restoreLeaving(leaving)

		newVids, seam := p.rebuiltFaceBoundary(boundary, status, split, vecmath.Above)
		p.rebuildFaceLoop(id, newVids, f.Plane)
		p.callbacks.faceDidChange(p, id)
		if len(seam) >= 2 {
			from, to := seam[0], seam[len(seam)-1]
			if newVids[0] == from && newVids[len(newVids)-1] == to {
				// the cut edge wraps from the loop's last vertex to its first
				from, to = to, from
			}
			seamSegs = append(seamSegs, segment{from: from, to: to})
		}
	})

	for _, id := range toDelete {
		p.deleteFaceAndOrphanedHalfEdges(id)
	}

	var removedVerts []VertexID
	for id, s := range status {
		if s == vecmath.Above {
			removedVerts = append(removedVerts, id)
		}
	}
	for _, id := range removedVerts {
		p.removeVertex(id)
	}

	if len(seamSegs) >= 3 {
		nextOf := make(map[VertexID]VertexID, len(seamSegs))
		for _, s := range seamSegs {
			nextOf[s.to] = s.from
		}
		cur := seamSegs[0].to
		capVids := make([]VertexID, 0, len(seamSegs))
		for range seamSegs {
			capVids = append(capVids, cur)
			next, ok := nextOf[cur]
			if !ok {
				break
			}
			cur = next
		}
		if len(capVids) == len(seamSegs) {
			capPlane := p.computeFacePlane(positionsOf(p, capVids), plane)
			p.buildFaceLoop(capVids, capPlane, false)
		}
	}

	p.relinkAllTwins()
	return ClipSuccess
}

// splitStraddlingEdges inserts one new vertex, on the plane, for every
// edge whose two endpoints lie on opposite sides of it (spec §4.5 step
// 1). The new vertex's status is recorded in status as On so later
// boundary-rebuilding treats it exactly like a pre-existing on-plane
// vertex.
func (p *Polyhedron[VP, FP]) splitStraddlingEdges(plane vecmath.Plane, status map[VertexID]vecmath.PointStatus) map[EdgeID]VertexID {
	split := map[EdgeID]VertexID{}
	p.Edges(func(id EdgeID, e Edge) {
		first, ok := p.halfs.Get(e.First.h)
		if !ok {
			return
		}
		second, ok := p.halfs.Get(e.Second.h)
		if !ok {
			return
		}
		a, b := first.Origin, second.Origin
		sa, sb := status[a], status[b]
		straddles := (sa == vecmath.Below && sb == vecmath.Above) || (sa == vecmath.Above && sb == vecmath.Below)
		if !straddles {
			return
		}
		va, _ := p.vertices.Get(a.h)
		vb, _ := p.vertices.Get(b.h)
		pos := planeIntersectPoint(plane, va.Position, vb.Position)
		newID := p.allocVertex(Vertex[VP]{Position: pos})
		status[newID] = vecmath.On
		split[id] = newID
	})
	return split
}

// planeIntersectPoint finds where segment a-b crosses plane. When
// plane's normal has an axis component of exactly ±1, that coordinate
// is set directly from the plane's distance rather than computed via
// the interpolation ratio, so an axis-aligned cut produces a
// bit-exact axis-aligned coordinate instead of one perturbed by
// floating point division (spec §4.5).
func planeIntersectPoint(plane vecmath.Plane, a, b vecmath.Vec3) vecmath.Vec3 {
	da := plane.PointDistance(a)
	db := plane.PointDistance(b)
	var t float64
	if denom := da - db; denom != 0 {
		t = da / denom
	}
	pt := lerpVec3(a, b, t)
	for i := 0; i < 3; i++ {
		if plane.Normal[i] == 1 || plane.Normal[i] == -1 {
			pt[i] = plane.Distance * plane.Normal[i]
		}
	}
	return pt
}

func lerpVec3(a, b vecmath.Vec3, t float64) vecmath.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// rebuiltFaceBoundary walks a straddling face's existing boundary and
// returns its new vertex loop with every vertex matching drop dropped
// and the straddling edges' split vertices spliced in, plus the
// on-plane vertices (pre-existing or newly split) encountered, in
// boundary order — the face's own piece of the cut seam. Called with
// drop=Above for the kept (behind-the-plane) half, and with drop=Below
// to build the discarded half for the FaceWasSplit callback.
func (p *Polyhedron[VP, FP]) rebuiltFaceBoundary(boundary []HalfEdgeID, status map[VertexID]vecmath.PointStatus, split map[EdgeID]VertexID, drop vecmath.PointStatus) ([]VertexID, []VertexID) {
	n := len(boundary)
	var out []VertexID
	for i := 0; i < n; i++ {
		he, _ := p.halfs.Get(boundary[i].h)
		nextHe, _ := p.halfs.Get(boundary[(i+1)%n].h)
		cur := he.Origin
		if status[cur] != drop {
			out = append(out, cur)
		}
		curDrop := status[cur] == drop
		nextDrop := status[nextHe.Origin] == drop
		if curDrop != nextDrop {
			if sv, ok := split[he.Edge]; ok {
				out = append(out, sv)
			}
		}
	}
	var seam []VertexID
	for _, v := range out {
		if status[v] == vecmath.On {
			seam = append(seam, v)
		}
	}
	return out, seam
}

// snapshotLeaving records each vertex's current Leaving half-edge so a
// transient face built over the same vertices (and torn down again
// immediately, as FaceWasSplit's discarded clone is) can't leave
// dangling references behind.
func (p *Polyhedron[VP, FP]) snapshotLeaving(ids []VertexID) map[VertexID]HalfEdgeID {
	out := make(map[VertexID]HalfEdgeID, len(ids))
	for _, id := range ids {
		if v, ok := p.vertices.Get(id.h); ok {
			out[id] = v.Leaving
		}
	}
	return out
}

func (p *Polyhedron[VP, FP]) restoreLeaving(saved map[VertexID]HalfEdgeID) {
	for id, he := range saved {
		if v, ok := p.vertices.Get(id.h); ok {
			v.Leaving = he
			p.vertices.Set(id.h, v)
		}
	}
}

func positionsOf[VP any, FP any](p *Polyhedron[VP, FP], ids []VertexID) []vecmath.Vec3 {
	out := make([]vecmath.Vec3, len(ids))
	for i, id := range ids {
		v, _ := p.vertices.Get(id.h)
		out[i] = v.Position
	}
	return out
}

// emptyOut discards every vertex and face, firing removal callbacks
// for each so a caller's bookkeeping sees the same events it would for
// a gradual removal.
func (p *Polyhedron[VP, FP]) emptyOut() {
	p.Faces(func(id FaceID, _ Face[FP]) { p.callbacks.faceWillBeDeleted(p, id) })
	p.Vertices(func(id VertexID, _ Vertex[VP]) { p.callbacks.vertexWillBeRemoved(p, id) })
	p.vertices = *NewPool[Vertex[VP]]()
	p.edges = *NewPool[Edge]()
	p.faces = *NewPool[Face[FP]]()
	p.halfs = *NewPool[HalfEdge]()
}
