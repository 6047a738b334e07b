package vecmath

import (
	"math"
	"testing"
)

func TestVec3Basics(t *testing.T) {
	v1 := Vec3{1, 2, 3}
	v2 := Vec3{4, 5, 6}

	if add := v1.Add(v2); add != (Vec3{5, 7, 9}) {
		t.Errorf("Add failed: got %v, expected {5, 7, 9}", add)
	}

	if sub := v2.Sub(v1); sub != (Vec3{3, 3, 3}) {
		t.Errorf("Sub failed: got %v, expected {3, 3, 3}", sub)
	}

	if dot := v1.Dot(v2); dot != 32 {
		t.Errorf("Dot failed: got %f, expected 32", dot)
	}

	cross := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	if cross != (Vec3{0, 0, 1}) {
		t.Errorf("Cross failed: got %v, expected {0, 0, 1}", cross)
	}
}

func TestPlaneFromPointsAndClassify(t *testing.T) {
	pl, ok := PlaneFromPoints(Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{0, 1, 0})
	if !ok {
		t.Fatal("expected a valid plane from three non-collinear points")
	}
	if !Equal(pl.Normal, Vec3{0, 0, 1}) {
		t.Errorf("expected +Z normal, got %v", pl.Normal)
	}

	if got := pl.ClassifyPoint(Vec3{5, 5, 1}); got != Above {
		t.Errorf("expected Above, got %v", got)
	}
	if got := pl.ClassifyPoint(Vec3{5, 5, -1}); got != Below {
		t.Errorf("expected Below, got %v", got)
	}
	if got := pl.ClassifyPoint(Vec3{5, 5, 0}); got != On {
		t.Errorf("expected On, got %v", got)
	}
}

func TestPlaneFromCollinearPointsFails(t *testing.T) {
	_, ok := PlaneFromPoints(Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{2, 0, 0})
	if ok {
		t.Error("expected collinear points to fail to produce a plane")
	}
}

func TestBBoxMergeAndContains(t *testing.T) {
	b := EmptyBBox()
	for _, p := range []Vec3{{-1, -1, -1}, {1, 1, 1}} {
		b = b.MergePoint(p)
	}

	if !Equal(b.Min, Vec3{-1, -1, -1}) || !Equal(b.Max, Vec3{1, 1, 1}) {
		t.Errorf("unexpected bounds: %+v", b)
	}
	if !b.Contains(Vec3{0, 0, 0}) {
		t.Error("expected origin to be contained")
	}
	if b.Contains(Vec3{1.0001, 0, 0}) {
		t.Error("expected point outside the box on X to be excluded")
	}
}

func TestBBoxIntersects(t *testing.T) {
	a := BBoxFromPoint(Vec3{0, 0, 0}).MergePoint(Vec3{1, 1, 1})
	b := BBoxFromPoint(Vec3{0.5, 0.5, 0.5}).MergePoint(Vec3{2, 2, 2})
	c := BBoxFromPoint(Vec3{5, 5, 5}).MergePoint(Vec3{6, 6, 6})

	if !a.Intersects(b) {
		t.Error("expected overlapping boxes to intersect")
	}
	if a.Intersects(c) {
		t.Error("expected disjoint boxes not to intersect")
	}
}

func TestCollinearAndOnSegment(t *testing.T) {
	a, b := Vec3{0, 0, 0}, Vec3{10, 0, 0}
	if !Collinear(a, b, Vec3{5, 0, 0}) {
		t.Error("expected midpoint to be collinear")
	}
	if Collinear(a, b, Vec3{5, 1, 0}) {
		t.Error("expected offset point not to be collinear")
	}
	if !OnSegment(a, b, Vec3{5, 0, 0}) {
		t.Error("expected midpoint on segment")
	}
	if OnSegment(a, b, Vec3{15, 0, 0}) {
		t.Error("expected point beyond segment end to be excluded")
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	normal := Vec3{0, 0, 1}

	if !PointInPolygon(square, normal, Vec3{0.5, 0.5, 0}) {
		t.Error("expected center point to be inside square")
	}
	if PointInPolygon(square, normal, Vec3{2, 2, 0}) {
		t.Error("expected far point to be outside square")
	}
	if !PointInPolygon(square, normal, Vec3{0, 0.5, 0}) {
		t.Error("expected boundary point to count as inside")
	}
}

func TestNewellNormalMatchesCrossProduct(t *testing.T) {
	square := []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	n, ok := NewellNormal(square)
	if !ok {
		t.Fatal("expected a normal for a valid square")
	}
	if !Equal(n, Vec3{0, 0, 1}) {
		t.Errorf("expected +Z normal, got %v", n)
	}
}

func TestRayIntersectPlane(t *testing.T) {
	pl := Plane{Normal: Vec3{0, 0, 1}, Distance: 5}
	r := Ray{Origin: Vec3{0, 0, 0}, Direction: Vec3{0, 0, 1}}

	tHit, ok := r.IntersectPlane(pl)
	if !ok {
		t.Fatal("expected ray to hit plane")
	}
	if math.Abs(tHit-5) > Epsilon {
		t.Errorf("expected t=5, got %f", tHit)
	}

	parallel := Ray{Origin: Vec3{0, 0, 0}, Direction: Vec3{1, 0, 0}}
	if _, ok := parallel.IntersectPlane(pl); ok {
		t.Error("expected parallel ray not to intersect")
	}
}

func TestSegmentMidpointAndLength(t *testing.T) {
	s := Segment{Start: Vec3{0, 0, 0}, End: Vec3{2, 0, 0}}
	if !Equal(s.Midpoint(), Vec3{1, 0, 0}) {
		t.Errorf("unexpected midpoint: %v", s.Midpoint())
	}
	if s.Length() != 2 {
		t.Errorf("unexpected length: %f", s.Length())
	}
}
