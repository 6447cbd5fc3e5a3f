package math

// BoundingBox is an axis-aligned bounding box.
// The zero value is the empty box at the origin.
type BoundingBox struct {
	Min Vec3
	Max Vec3
}

// BoxFromPoints returns the smallest box containing all points.
// It returns the zero box when no points are given.
func BoxFromPoints(points ...Vec3) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}
	b := BoundingBox{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Center returns the center point of the box.
func (b BoundingBox) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Extents returns the half size of the box on each axis.
func (b BoundingBox) Extents() Vec3 {
	return b.Max.Sub(b.Min).Scale(0.5)
}

// Radius returns the distance from center to corner (half-diagonal).
func (b BoundingBox) Radius() float32 {
	return b.Extents().Length()
}

// IsEmpty reports whether the box has no volume and sits at the origin.
func (b BoundingBox) IsEmpty() bool {
	return b == BoundingBox{}
}

// Contains reports whether p lies inside or on the box.
func (b BoundingBox) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Corners returns the eight corners of the box.
func (b BoundingBox) Corners() [8]Vec3 {
	return [8]Vec3{
		{b.Min.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Min.Z},
		{b.Max.X, b.Max.Y, b.Min.Z},
		{b.Max.X, b.Max.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z},
	}
}

// PositiveVertex returns the corner furthest along normal.
func (b BoundingBox) PositiveVertex(normal Vec3) Vec3 {
	p := b.Min
	if normal.X >= 0 {
		p.X = b.Max.X
	}
	if normal.Y >= 0 {
		p.Y = b.Max.Y
	}
	if normal.Z >= 0 {
		p.Z = b.Max.Z
	}
	return p
}
