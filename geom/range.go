package geom

import "math"

// Range is an inclusive 3D integer voxel range.
//
// A range produced by ComputeRange may be inverted (some H component smaller
// than the matching L component) when the query box does not overlap the
// grid. Size is only meaningful for non-degenerate ranges; callers iterating
// a range must check for inversion first.
type Range struct {
	LX, LY, LZ int32
	HX, HY, HZ int32
}

// Size returns the number of voxels covered by the inclusive range.
func (r Range) Size() int64 {
	return int64(r.HX-r.LX+1) * int64(r.HY-r.LY+1) * int64(r.HZ-r.LZ+1)
}

// Empty reports whether the range is inverted on any axis.
func (r Range) Empty() bool {
	return r.HX < r.LX || r.HY < r.LY || r.HZ < r.LZ
}

// ComputeRange maps a query box to the inclusive range of top-level voxels
// that intersect it. Low bounds clamp to 0, high bounds to dims-1.
func ComputeRange(dims IVec3, gridBB, objBB BBox) Range {
	ext := gridBB.Extents()
	invX := float32(dims.X) / ext.X
	invY := float32(dims.Y) / ext.Y
	invZ := float32(dims.Z) / ext.Z

	return Range{
		LX: maxInt32(floorInt32((objBB.Min.X-gridBB.Min.X)*invX), 0),
		LY: maxInt32(floorInt32((objBB.Min.Y-gridBB.Min.Y)*invY), 0),
		LZ: maxInt32(floorInt32((objBB.Min.Z-gridBB.Min.Z)*invZ), 0),
		HX: minInt32(floorInt32((objBB.Max.X-gridBB.Min.X)*invX), dims.X-1),
		HY: minInt32(floorInt32((objBB.Max.Y-gridBB.Min.Y)*invY), dims.Y-1),
		HZ: minInt32(floorInt32((objBB.Max.Z-gridBB.Min.Z)*invZ), dims.Z-1),
	}
}

func floorInt32(v float32) int32 {
	return int32(math.Floor(float64(v)))
}

func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func minInt32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
