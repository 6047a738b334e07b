package vecmath

// Collinear reports whether p lies on the infinite line through a and
// b, within Epsilon.
func Collinear(a, b, p Vec3) bool {
	ab := b.Sub(a)
	ap := p.Sub(a)
	return ab.Cross(ap).Len() < Epsilon*max(ab.Len(), 1)
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// OnSegment reports whether p lies on the closed segment [a,b],
// assuming p is already known to be collinear with a and b.
func OnSegment(a, b, p Vec3) bool {
	ab := b.Sub(a)
	ap := p.Sub(a)
	t := ap.Dot(ab)
	if t < -Epsilon {
		return false
	}
	lenSq := ab.Dot(ab)
	return t <= lenSq+Epsilon
}

// PointInPolygon reports whether p (known to lie in the polygon's
// plane) is inside or on the boundary of the convex, counter-clockwise
// polygon described by verts, as seen from the side the normal points
// toward.
func PointInPolygon(verts []Vec3, normal Vec3, p Vec3) bool {
	n := len(verts)
	if n < 3 {
		return false
	}

	for i := 0; i < n; i++ {
		a := verts[i]
		b := verts[(i+1)%n]
		edge := b.Sub(a)
		toPoint := p.Sub(a)
		cross := edge.Cross(toPoint)
		if cross.Dot(normal) < -Epsilon {
			return false
		}
	}

	return true
}

// NewellNormal computes a polygon's normal via Newell's method, which
// remains numerically stable for near-degenerate and non-planar input
// (the method the teacher falls back from in calculateFaceNormal).
func NewellNormal(verts []Vec3) (Vec3, bool) {
	var n Vec3
	count := len(verts)
	if count < 3 {
		return Vec3{}, false
	}

	for i := 0; i < count; i++ {
		cur := verts[i]
		next := verts[(i+1)%count]
		n[0] += (cur[1] - next[1]) * (cur[2] + next[2])
		n[1] += (cur[2] - next[2]) * (cur[0] + next[0])
		n[2] += (cur[0] - next[0]) * (cur[1] + next[1])
	}

	length := n.Len()
	if length < Epsilon {
		return Vec3{}, false
	}

	return n.Mul(1.0 / length), true
}
