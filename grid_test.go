package voxgo_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/voxgo"
	"github.com/hupe1980/voxgo/geom"
	"github.com/hupe1980/voxgo/testutil"
)

func TestNewValidation(t *testing.T) {
	t.Run("InvalidDims", func(t *testing.T) {
		data := testutil.UniformGrid(geom.IVec3{X: 2, Y: 2, Z: 2}, 1)
		data.Dims.Y = 0

		_, err := voxgo.New(data)
		var dimsErr *voxgo.ErrInvalidDims
		require.ErrorAs(t, err, &dimsErr)
		assert.Equal(t, int32(0), dimsErr.Dims.Y)
	})

	t.Run("NegativeShift", func(t *testing.T) {
		data := testutil.UniformGrid(geom.IVec3{X: 2, Y: 2, Z: 2}, 1)
		data.Shift = -1

		_, err := voxgo.New(data)
		require.ErrorIs(t, err, voxgo.ErrNegativeShift)
	})

	t.Run("BothRepresentations", func(t *testing.T) {
		data := testutil.UniformGrid(geom.IVec3{X: 2, Y: 2, Z: 2}, 1)
		data.SmallCells = []voxgo.SmallCell{{Begin: -1}}

		_, err := voxgo.New(data)
		require.ErrorIs(t, err, voxgo.ErrLeafRepresentation)
	})

	t.Run("NoRepresentation", func(t *testing.T) {
		data := testutil.UniformGrid(geom.IVec3{X: 2, Y: 2, Z: 2}, 1)
		data.Cells = nil

		_, err := voxgo.New(data)
		require.ErrorIs(t, err, voxgo.ErrLeafRepresentation)
	})

	t.Run("TooFewEntries", func(t *testing.T) {
		data := testutil.UniformGrid(geom.IVec3{X: 2, Y: 2, Z: 2}, 1)
		data.Entries = data.Entries[:4]

		_, err := voxgo.New(data)
		var countErr *voxgo.ErrEntryCountMismatch
		require.ErrorAs(t, err, &countErr)
		assert.Equal(t, int64(8), countErr.TopLevel)
		assert.Equal(t, 4, countErr.Entries)
	})
}

func TestGridAccessors(t *testing.T) {
	dims := geom.IVec3{X: 4, Y: 2, Z: 3}
	data := testutil.UniformGrid(dims, 2)

	g, err := voxgo.New(data)
	require.NoError(t, err)

	assert.Equal(t, dims, g.Dims())
	assert.Equal(t, int32(0), g.Shift())
	assert.Equal(t, 24, g.NumCells())
	assert.Equal(t, 24, g.NumEntries())
	assert.Equal(t, 48, g.NumRefs())
	assert.False(t, g.Compressed())
	assert.Equal(t, data.BBox, g.Bounds())
	assert.Len(t, g.Cells(), 24)
	assert.Empty(t, g.SmallCells())
}

func TestLookupConsistency(t *testing.T) {
	t.Run("SingleLevel", func(t *testing.T) {
		dims := geom.IVec3{X: 3, Y: 4, Z: 2}
		g, err := voxgo.New(testutil.UniformGrid(dims, 1))
		require.NoError(t, err)

		for i := 0; i < g.NumCells(); i++ {
			cell := g.Cell(uint32(i))
			got := g.Lookup(cell.Min)
			require.Equal(t, uint32(i), got)
		}
	})

	t.Run("Subdivided", func(t *testing.T) {
		dims := geom.IVec3{X: 2, Y: 2, Z: 2}
		g, err := voxgo.New(testutil.SubdividedGrid(dims, 1, 1))
		require.NoError(t, err)

		// Every fine voxel inside a leaf's stored bounds must resolve to
		// that leaf.
		for i := 0; i < g.NumCells(); i++ {
			cell := g.Cell(uint32(i))
			for z := cell.Min.Z; z <= cell.Max.Z; z++ {
				for y := cell.Min.Y; y <= cell.Max.Y; y++ {
					for x := cell.Min.X; x <= cell.Max.X; x++ {
						got := g.Lookup(geom.IVec3{X: x, Y: y, Z: z})
						require.Equal(t, uint32(i), got)
					}
				}
			}
		}
	})
}

func TestGridForEachRef(t *testing.T) {
	t.Run("FullRepresentation", func(t *testing.T) {
		g, err := voxgo.New(testutil.UniformGrid(geom.IVec3{X: 2, Y: 1, Z: 1}, 3))
		require.NoError(t, err)

		var visited []int32
		count := g.ForEachRef(1, func(ref int32) {
			visited = append(visited, ref)
		})

		assert.Equal(t, 3, count)
		assert.Equal(t, []int32{3, 4, 5}, visited)
	})

	t.Run("CompressedRepresentation", func(t *testing.T) {
		g, err := voxgo.New(testutil.UniformGridSmall(geom.IVec3{X: 2, Y: 1, Z: 1}, 3))
		require.NoError(t, err)
		require.True(t, g.Compressed())

		var visited []int32
		count := g.ForEachRef(1, func(ref int32) {
			visited = append(visited, ref)
		})

		assert.Equal(t, 3, count)
		assert.Equal(t, []int32{3, 4, 5}, visited)
	})
}

func TestVoxelRange(t *testing.T) {
	g, err := voxgo.New(testutil.UniformGrid(geom.IVec3{X: 4, Y: 4, Z: 4}, 1))
	require.NoError(t, err)

	t.Run("FullBox", func(t *testing.T) {
		r := g.VoxelRange(g.Bounds())
		assert.Equal(t, geom.Range{LX: 0, LY: 0, LZ: 0, HX: 3, HY: 3, HZ: 3}, r)
		assert.False(t, r.Empty())
	})

	t.Run("Disjoint", func(t *testing.T) {
		box := geom.NewBBox(
			geom.Vec3{X: 10, Y: 10, Z: 10},
			geom.Vec3{X: 12, Y: 12, Z: 12},
		)
		assert.True(t, g.VoxelRange(box).Empty())
	})
}

func TestGridClose(t *testing.T) {
	g, err := voxgo.New(testutil.UniformGrid(geom.IVec3{X: 2, Y: 2, Z: 2}, 1))
	require.NoError(t, err)

	require.NoError(t, g.Close())
	require.NoError(t, g.Close())

	t.Run("RangeQueryAfterClose", func(t *testing.T) {
		err := g.CollectRange(context.Background(), g.Bounds(), func(int32) {})
		require.ErrorIs(t, err, voxgo.ErrClosed)
	})

	t.Run("SnapshotAfterClose", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := g.WriteSnapshot(context.Background(), &buf)
		require.ErrorIs(t, err, voxgo.ErrClosed)
		assert.Zero(t, buf.Len())
	})
}
