package geom

import "math"

// ComputeGridDims derives a top-level grid resolution from the scene bounds,
// the primitive count and a density tuning parameter, using the formula by
// Cleary et al. Higher densities yield finer grids, trading memory for
// traversal speed.
//
// Every axis is clamped to at least one voxel. A zero or negative scene
// volume is a caller error and yields unspecified dimensions.
func ComputeGridDims(bb BBox, numPrims int, density float32) IVec3 {
	ext := bb.Extents()
	volume := ext.X * ext.Y * ext.Z
	ratio := float32(math.Cbrt(float64(density * float32(numPrims) / volume)))

	dims := IVec3{
		X: int32(ext.X * ratio),
		Y: int32(ext.Y * ratio),
		Z: int32(ext.Z * ratio),
	}
	return dims.Max(IVec3{X: 1, Y: 1, Z: 1})
}
