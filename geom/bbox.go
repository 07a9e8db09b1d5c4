package geom

// BBox is an axis-aligned bounding box.
type BBox struct {
	Min Vec3
	Max Vec3
}

// NewBBox creates a bounding box from its corner points.
func NewBBox(min, max Vec3) BBox {
	return BBox{Min: min, Max: max}
}

// Extents returns the per-axis extent of the box.
func (b BBox) Extents() Vec3 {
	return Vec3{
		X: b.Max.X - b.Min.X,
		Y: b.Max.Y - b.Min.Y,
		Z: b.Max.Z - b.Min.Z,
	}
}

// Volume returns the volume of the box.
func (b BBox) Volume() float32 {
	e := b.Extents()
	return e.X * e.Y * e.Z
}

// Overlaps reports whether b and o intersect (boundaries included).
func (b BBox) Overlaps(o BBox) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}
