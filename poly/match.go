package poly

import "github.com/sksmith/brushgeom/vecmath"

// CorrespondenceKind selects how Match seeds its initial vertex
// mapping between two versions of a polyhedron, grounded on
// TrenchBroom's Polyhedron_Matcher: by exact position, by position
// after a known translation, or by an explicit caller-supplied map.
type CorrespondenceKind int

const (
	CorrespondenceEmpty CorrespondenceKind = iota
	CorrespondencePositional
	CorrespondencePositionalWithDelta
	CorrespondenceExplicit
)

// Correspondence configures Match's seeding strategy.
type Correspondence struct {
	Kind     CorrespondenceKind
	Delta    vecmath.Vec3
	Explicit map[VertexID]VertexID
}

// PositionalCorrespondence seeds the match from vertices at identical
// positions in both polyhedra.
func PositionalCorrespondence() Correspondence {
	return Correspondence{Kind: CorrespondencePositional}
}

// PositionalCorrespondenceWithDelta seeds the match from vertices
// whose positions differ by exactly delta, for matching a polyhedron
// against a known pure translation of itself.
func PositionalCorrespondenceWithDelta(delta vecmath.Vec3) Correspondence {
	return Correspondence{Kind: CorrespondencePositionalWithDelta, Delta: delta}
}

// ExplicitCorrespondence seeds the match from a caller-supplied
// from-vertex -> to-vertex map.
func ExplicitCorrespondence(m map[VertexID]VertexID) Correspondence {
	return Correspondence{Kind: CorrespondenceExplicit, Explicit: m}
}

// FaceCorrespondence pairs a face in the "from" polyhedron with the
// face in "to" that has the same vertex set under the vertex mapping.
type FaceCorrespondence struct {
	From, To FaceID
}

// Match computes a vertex correspondence between from and to seeded by
// c, then expands it to a fixpoint by propagating across edges: a
// still-unmatched vertex is paired with a neighbor's corresponding
// neighbor once that pairing is the only one consistent with the
// matches found so far. It returns the vertex map and the face
// correspondences derivable from it (spec §10).
func Match[VP any, FP any](from, to *Polyhedron[VP, FP], c Correspondence) (map[VertexID]VertexID, []FaceCorrespondence) {
	vertexMap := seedCorrespondence(from, to, c)
	expandToFixpoint(from, to, vertexMap)
	faces := matchFaces(from, to, vertexMap)
	return vertexMap, faces
}

func seedCorrespondence[VP any, FP any](from, to *Polyhedron[VP, FP], c Correspondence) map[VertexID]VertexID {
	result := make(map[VertexID]VertexID)
	switch c.Kind {
	case CorrespondenceExplicit:
		for k, v := range c.Explicit {
			result[k] = v
		}
	case CorrespondencePositionalWithDelta:
		seedByPosition(from, to, c.Delta, result)
	default:
		seedByPosition(from, to, vecmath.Vec3{}, result)
	}
	return result
}

func seedByPosition[VP any, FP any](from, to *Polyhedron[VP, FP], delta vecmath.Vec3, out map[VertexID]VertexID) {
	from.Vertices(func(fid VertexID, fv Vertex[VP]) {
		target := fv.Position.Add(delta)
		to.Vertices(func(tid VertexID, tv Vertex[VP]) {
			if _, already := out[fid]; already {
				return
			}
			if vecmath.EqualEps(tv.Position, target, vecmath.Epsilon) {
				out[fid] = tid
			}
		})
	})
}

// expandToFixpoint repeatedly scans unmatched from-vertices for one
// whose neighbor set contains exactly one already-matched vertex whose
// corresponding to-vertex has exactly one unmatched to-neighbor; that
// pair is then added, since it is the only correspondence consistent
// with the topology seen so far.
func expandToFixpoint[VP any, FP any](from, to *Polyhedron[VP, FP], vertexMap map[VertexID]VertexID) {
	for {
		progressed := false
		from.Vertices(func(fid VertexID, _ Vertex[VP]) {
			if _, matched := vertexMap[fid]; matched {
				return
			}
			for _, fn := range neighborsOf(from, fid) {
				tid, ok := vertexMap[fn]
				if !ok {
					continue
				}
				candidates := unmatchedNeighbors(to, tid, vertexMap)
				if len(candidates) == 1 && !matchedAsTarget(vertexMap, candidates[0]) {
					vertexMap[fid] = candidates[0]
					progressed = true
					return
				}
			}
		})
		if !progressed {
			return
		}
	}
}

func matchedAsTarget(vertexMap map[VertexID]VertexID, target VertexID) bool {
	for _, v := range vertexMap {
		if v == target {
			return true
		}
	}
	return false
}

func neighborsOf[VP any, FP any](p *Polyhedron[VP, FP], id VertexID) []VertexID {
	v, ok := p.Vertex(id)
	if !ok || !v.Leaving.Valid() {
		return nil
	}
	var out []VertexID
	start := v.Leaving
	cur := start
	for {
		he, ok := p.HalfEdge(cur)
		if !ok {
			break
		}
		nextHe, ok := p.HalfEdge(he.Next)
		if ok {
			out = append(out, nextHe.Origin)
		}
		if !he.Twin.Valid() {
			break
		}
		twinHe, ok := p.HalfEdge(he.Twin)
		if !ok {
			break
		}
		cur = twinHe.Next
		if cur == start || !cur.Valid() {
			break
		}
	}
	return out
}

func unmatchedNeighbors[VP any, FP any](p *Polyhedron[VP, FP], id VertexID, vertexMap map[VertexID]VertexID) []VertexID {
	matchedTargets := make(map[VertexID]bool, len(vertexMap))
	for _, v := range vertexMap {
		matchedTargets[v] = true
	}
	var out []VertexID
	for _, n := range neighborsOf(p, id) {
		if !matchedTargets[n] {
			out = append(out, n)
		}
	}
	return out
}

func matchFaces[VP any, FP any](from, to *Polyhedron[VP, FP], vertexMap map[VertexID]VertexID) []FaceCorrespondence {
	var result []FaceCorrespondence
	from.Faces(func(fid FaceID, _ Face[FP]) {
		fromVerts := faceVertexIDs(from, fid)
		targetSet := make(map[VertexID]bool, len(fromVerts))
		complete := true
		for _, v := range fromVerts {
			tv, ok := vertexMap[v]
			if !ok {
				complete = false
				break
			}
			targetSet[tv] = true
		}
		if !complete {
			return
		}
		to.Faces(func(tid FaceID, _ Face[FP]) {
			toVerts := faceVertexIDs(to, tid)
			if len(toVerts) != len(targetSet) {
				return
			}
			for _, v := range toVerts {
				if !targetSet[v] {
					return
				}
			}
			result = append(result, FaceCorrespondence{From: fid, To: tid})
		})
	})
	return result
}

func faceVertexIDs[VP any, FP any](p *Polyhedron[VP, FP], face FaceID) []VertexID {
	var out []VertexID
	for _, heID := range p.FaceHalfEdges(face) {
		he, ok := p.HalfEdge(heID)
		if ok {
			out = append(out, he.Origin)
		}
	}
	return out
}
