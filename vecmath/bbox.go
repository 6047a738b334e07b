package vecmath

import "math"

// BBox is an axis-aligned bounding box. A zero-value BBox is empty.
type BBox struct {
	Min, Max Vec3
	empty    bool
}

// EmptyBBox returns a bounding box containing no points.
func EmptyBBox() BBox {
	return BBox{empty: true}
}

// BBoxFromPoint returns a degenerate bounding box containing exactly p.
func BBoxFromPoint(p Vec3) BBox {
	return BBox{Min: p, Max: p}
}

// IsEmpty reports whether the box contains no points.
func (b BBox) IsEmpty() bool {
	return b.empty
}

// MergePoint returns the smallest box containing b and p.
func (b BBox) MergePoint(p Vec3) BBox {
	if b.empty {
		return BBoxFromPoint(p)
	}

	return BBox{
		Min: Vec3{math.Min(b.Min[0], p[0]), math.Min(b.Min[1], p[1]), math.Min(b.Min[2], p[2])},
		Max: Vec3{math.Max(b.Max[0], p[0]), math.Max(b.Max[1], p[1]), math.Max(b.Max[2], p[2])},
	}
}

// Merge returns the smallest box containing both b and other.
func (b BBox) Merge(other BBox) BBox {
	if other.empty {
		return b
	}
	merged := b.MergePoint(other.Min)
	return merged.MergePoint(other.Max)
}

// Contains reports whether p lies within the box, inclusive of its
// boundary, within Epsilon.
func (b BBox) Contains(p Vec3) bool {
	if b.empty {
		return false
	}

	return p[0] >= b.Min[0]-Epsilon && p[0] <= b.Max[0]+Epsilon &&
		p[1] >= b.Min[1]-Epsilon && p[1] <= b.Max[1]+Epsilon &&
		p[2] >= b.Min[2]-Epsilon && p[2] <= b.Max[2]+Epsilon
}

// Intersects reports whether b and other overlap on every axis.
func (b BBox) Intersects(other BBox) bool {
	if b.empty || other.empty {
		return false
	}

	return b.Min[0] <= other.Max[0]+Epsilon && b.Max[0] >= other.Min[0]-Epsilon &&
		b.Min[1] <= other.Max[1]+Epsilon && b.Max[1] >= other.Min[1]-Epsilon &&
		b.Min[2] <= other.Max[2]+Epsilon && b.Max[2] >= other.Min[2]-Epsilon
}

// Center returns the midpoint of the box.
func (b BBox) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}
