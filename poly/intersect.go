package poly

import (
	"math"

	"github.com/sksmith/brushgeom/vecmath"
)

// Relation classifies how two convex polyhedra relate to one another
// (spec §9's state dispatch, grounded on TrenchBroom's Relation.h).
type Relation int

const (
	RelationDisjoint Relation = iota
	RelationIntersects
	RelationContains // p contains other entirely
	RelationWithin   // p lies entirely within other
)

// Intersects reports whether p and other's convex hulls overlap at
// all, including mere boundary contact, using the separating axis
// test over (a) every face normal of both shapes and (b) the cross
// product of every pair of edges, one from each shape (spec §4.7) —
// the edge-edge axes are what catch two convex polyhedra separated
// only along a diagonal, which face normals alone miss.
func (p *Polyhedron[VP, FP]) Intersects(other *Polyhedron[VP, FP]) bool {
	if !p.BoundingBox().Intersects(other.BoundingBox()) {
		return false
	}
	for _, axis := range p.separatingAxisCandidates(other) {
		if separatedAlong(p, other, axis) {
			return false
		}
	}
	return true
}

// Relate classifies the relationship between p and other more finely
// than Intersects, by checking containment after confirming overlap.
func (p *Polyhedron[VP, FP]) Relate(other *Polyhedron[VP, FP]) Relation {
	if !p.Intersects(other) {
		return RelationDisjoint
	}
	if p.containsAllVerticesOf(other) {
		return RelationContains
	}
	if other.containsAllVerticesOf(p) {
		return RelationWithin
	}
	return RelationIntersects
}

func (p *Polyhedron[VP, FP]) containsAllVerticesOf(other *Polyhedron[VP, FP]) bool {
	contains := true
	other.Vertices(func(_ VertexID, v Vertex[VP]) {
		if !p.containsPoint(v.Position) {
			contains = false
		}
	})
	return contains
}

// containsPoint reports whether pos is on or behind every face plane.
func (p *Polyhedron[VP, FP]) containsPoint(pos vecmath.Vec3) bool {
	inside := true
	p.Faces(func(_ FaceID, f Face[FP]) {
		if f.Plane.ClassifyPointEps(pos, vecmath.Epsilon) == vecmath.Above {
			inside = false
		}
	})
	return inside
}

func (p *Polyhedron[VP, FP]) separatingAxisCandidates(other *Polyhedron[VP, FP]) []vecmath.Vec3 {
	var axes []vecmath.Vec3
	p.Faces(func(_ FaceID, f Face[FP]) { axes = append(axes, f.Plane.Normal) })
	other.Faces(func(_ FaceID, f Face[FP]) { axes = append(axes, f.Plane.Normal) })

	edgesA := p.edgeDirections()
	edgesB := other.edgeDirections()
	for _, ea := range edgesA {
		for _, eb := range edgesB {
			cross := ea.Cross(eb)
			if cross.Len() < vecmath.Epsilon {
				// parallel edges contribute no new candidate axis.
				continue
			}
			axes = append(axes, cross)
		}
	}
	return axes
}

// edgeDirections returns one direction vector per undirected edge in
// p, used to build the edge-edge separating axis candidates.
func (p *Polyhedron[VP, FP]) edgeDirections() []vecmath.Vec3 {
	var dirs []vecmath.Vec3
	p.Edges(func(_ EdgeID, e Edge) {
		first, ok := p.halfs.Get(e.First.h)
		if !ok {
			return
		}
		second, ok := p.halfs.Get(e.Second.h)
		if !ok {
			return
		}
		va, _ := p.vertices.Get(first.Origin.h)
		vb, _ := p.vertices.Get(second.Origin.h)
		dirs = append(dirs, vb.Position.Sub(va.Position))
	})
	return dirs
}

func separatedAlong[VP any, FP any](p, other *Polyhedron[VP, FP], axis vecmath.Vec3) bool {
	aMin, aMax := projectExtent(p, axis)
	bMin, bMax := projectExtent(other, axis)
	return aMax < bMin || bMax < aMin
}

func projectExtent[VP any, FP any](p *Polyhedron[VP, FP], axis vecmath.Vec3) (float64, float64) {
	min, max := math.Inf(1), math.Inf(-1)
	p.Vertices(func(_ VertexID, v Vertex[VP]) {
		d := v.Position.Dot(axis)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	})
	return min, max
}

// PickResult is the outcome of a ray cast against a polyhedron's
// boundary.
type PickResult struct {
	Face     FaceID
	Distance float64
	Point    vecmath.Vec3
}

// Pick intersects ray with every face of p and returns the closest
// hit in front of the ray's origin, grounded on spec §9's picking
// operation: for each face, the ray is intersected with the
// supporting plane, and the hit is accepted only if it also falls
// inside that face's boundary polygon.
func (p *Polyhedron[VP, FP]) Pick(ray vecmath.Ray) (PickResult, bool) {
	var best PickResult
	found := false
	p.Faces(func(id FaceID, f Face[FP]) {
		t, ok := ray.IntersectPlane(f.Plane)
		if !ok || t < 0 {
			return
		}
		point := ray.PointAt(t)
		verts := p.FaceVertices(id)
		if len(verts) < 3 || !vecmath.PointInPolygon(verts, f.Plane.Normal, point) {
			return
		}
		if !found || t < best.Distance {
			best = PickResult{Face: id, Distance: t, Point: point}
			found = true
		}
	})
	return best, found
}
