package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeRange(t *testing.T) {
	gridBB := NewBBox(Vec3{X: 0, Y: 0, Z: 0}, Vec3{X: 8, Y: 8, Z: 8})
	dims := IVec3{X: 4, Y: 4, Z: 4}

	t.Run("FullGridQuery", func(t *testing.T) {
		r := ComputeRange(dims, gridBB, gridBB)
		assert.Equal(t, int32(0), r.LX)
		assert.Equal(t, int32(0), r.LY)
		assert.Equal(t, int32(0), r.LZ)
		assert.Equal(t, dims.X-1, r.HX)
		assert.Equal(t, dims.Y-1, r.HY)
		assert.Equal(t, dims.Z-1, r.HZ)
		assert.Equal(t, int64(64), r.Size())
	})

	t.Run("InteriorQuery", func(t *testing.T) {
		obj := NewBBox(Vec3{X: 2.5, Y: 2.5, Z: 2.5}, Vec3{X: 3.5, Y: 3.5, Z: 3.5})
		r := ComputeRange(dims, gridBB, obj)
		assert.Equal(t, Range{LX: 1, LY: 1, LZ: 1, HX: 1, HY: 1, HZ: 1}, r)
		assert.Equal(t, int64(1), r.Size())
	})

	t.Run("ClampsToGrid", func(t *testing.T) {
		obj := NewBBox(Vec3{X: -100, Y: -100, Z: -100}, Vec3{X: 100, Y: 100, Z: 100})
		r := ComputeRange(dims, gridBB, obj)
		assert.False(t, r.Empty())
		assert.GreaterOrEqual(t, r.LX, int32(0))
		assert.LessOrEqual(t, r.HX, dims.X-1)
		assert.GreaterOrEqual(t, r.LY, int32(0))
		assert.LessOrEqual(t, r.HY, dims.Y-1)
		assert.GreaterOrEqual(t, r.LZ, int32(0))
		assert.LessOrEqual(t, r.HZ, dims.Z-1)
	})

	t.Run("DisjointBoxYieldsEmptyRange", func(t *testing.T) {
		obj := NewBBox(Vec3{X: -10, Y: -10, Z: -10}, Vec3{X: -5, Y: -5, Z: -5})
		r := ComputeRange(dims, gridBB, obj)
		assert.True(t, r.Empty())
	})

	t.Run("BoundaryTouchesLastVoxel", func(t *testing.T) {
		obj := NewBBox(Vec3{X: 7.9, Y: 7.9, Z: 7.9}, Vec3{X: 7.99, Y: 7.99, Z: 7.99})
		r := ComputeRange(dims, gridBB, obj)
		assert.Equal(t, Range{LX: 3, LY: 3, LZ: 3, HX: 3, HY: 3, HZ: 3}, r)
	})
}

func TestComputeGridDims(t *testing.T) {
	t.Run("UnitRatio", func(t *testing.T) {
		// Volume 8, 8 primitives, density 1.0 -> ratio 1.0, dims equal the
		// floored extents.
		bb := NewBBox(Vec3{X: 0, Y: 0, Z: 0}, Vec3{X: 2, Y: 2, Z: 2})
		dims := ComputeGridDims(bb, 8, 1.0)
		assert.Equal(t, IVec3{X: 2, Y: 2, Z: 2}, dims)
	})

	t.Run("ClampsToOne", func(t *testing.T) {
		bb := NewBBox(Vec3{X: 0, Y: 0, Z: 0}, Vec3{X: 100, Y: 0.001, Z: 100})
		dims := ComputeGridDims(bb, 10, 0.1)
		assert.GreaterOrEqual(t, dims.X, int32(1))
		assert.GreaterOrEqual(t, dims.Y, int32(1))
		assert.GreaterOrEqual(t, dims.Z, int32(1))
	})

	t.Run("DensityScalesResolution", func(t *testing.T) {
		bb := NewBBox(Vec3{X: 0, Y: 0, Z: 0}, Vec3{X: 10, Y: 10, Z: 10})
		coarse := ComputeGridDims(bb, 1000, 0.5)
		fine := ComputeGridDims(bb, 1000, 4.0)
		assert.Greater(t, fine.X, coarse.X)
		assert.Greater(t, fine.Y, coarse.Y)
		assert.Greater(t, fine.Z, coarse.Z)
	})
}

func TestBBox(t *testing.T) {
	t.Run("Extents", func(t *testing.T) {
		bb := NewBBox(Vec3{X: -1, Y: 0, Z: 1}, Vec3{X: 1, Y: 4, Z: 2})
		assert.Equal(t, Vec3{X: 2, Y: 4, Z: 1}, bb.Extents())
		assert.InDelta(t, 8.0, float64(bb.Volume()), 1e-6)
	})

	t.Run("Overlaps", func(t *testing.T) {
		a := NewBBox(Vec3{}, Vec3{X: 1, Y: 1, Z: 1})
		b := NewBBox(Vec3{X: 0.5, Y: 0.5, Z: 0.5}, Vec3{X: 2, Y: 2, Z: 2})
		c := NewBBox(Vec3{X: 3, Y: 3, Z: 3}, Vec3{X: 4, Y: 4, Z: 4})
		assert.True(t, a.Overlaps(b))
		assert.True(t, b.Overlaps(a))
		assert.False(t, a.Overlaps(c))
	})
}
