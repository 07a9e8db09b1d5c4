package voxgo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/voxgo/geom"
)

func TestCellTransferRoundTrip(t *testing.T) {
	cells := []Cell{
		{},
		{
			Min:   geom.IVec3{X: 1, Y: 2, Z: 3},
			Begin: 10,
			Max:   geom.IVec3{X: 4, Y: 5, Z: 6},
			End:   14,
		},
		{
			Min:   geom.IVec3{X: -8, Y: -1, Z: 0},
			Begin: 0,
			Max:   geom.IVec3{X: 1 << 20, Y: 7, Z: -1},
			End:   1 << 24,
		},
	}

	for _, c := range cells {
		assert.Equal(t, c, LoadCell(StoreCell(c)))
	}
}

func TestSmallCellTransferRoundTrip(t *testing.T) {
	cells := []SmallCell{
		{Begin: -1},
		{
			Min:   geom.USVec3{X: 1, Y: 2, Z: 3},
			Max:   geom.USVec3{X: 4, Y: 5, Z: 6},
			Begin: 42,
		},
		{
			Min:   geom.USVec3{X: 65535, Y: 0, Z: 65535},
			Max:   geom.USVec3{X: 0, Y: 65535, Z: 0},
			Begin: 1<<30 - 1,
		},
	}

	for _, c := range cells {
		assert.Equal(t, c, LoadSmallCell(StoreSmallCell(c)))
	}
}

func TestTransferLaneLayout(t *testing.T) {
	t.Run("Cell", func(t *testing.T) {
		c := Cell{
			Min:   geom.IVec3{X: 1, Y: 2, Z: 3},
			Begin: 10,
			Max:   geom.IVec3{X: 4, Y: 5, Z: 6},
			End:   14,
		}
		w := StoreCell(c)
		assert.Equal(t, Word128{1, 2, 3, 10}, w[0])
		assert.Equal(t, Word128{4, 5, 6, 14}, w[1])
	})

	t.Run("SmallCell", func(t *testing.T) {
		c := SmallCell{
			Min:   geom.USVec3{X: 1, Y: 2, Z: 3},
			Max:   geom.USVec3{X: 4, Y: 5, Z: 6},
			Begin: 7,
		}
		w := StoreSmallCell(c)
		assert.Equal(t, Word128{1 | 2<<16, 3 | 4<<16, 5 | 6<<16, 7}, w)
	})

	t.Run("LoadCellMin", func(t *testing.T) {
		c := Cell{Min: geom.IVec3{X: 9, Y: 8, Z: 7}, Begin: 1}
		w := StoreCell(c)
		assert.Equal(t, c.Min, LoadCellMin(w[0]))
	})
}

func TestWord128Bytes(t *testing.T) {
	w := Word128{0x04030201, 0x08070605, 0x0C0B0A09, 0x100F0E0D}

	var buf [Word128Size]byte
	PutWord128(buf[:], w)

	// Little-endian lanes: the byte stream counts 1..16.
	for i, b := range buf {
		assert.Equal(t, byte(i+1), b)
	}

	assert.Equal(t, w, Word128FromBytes(buf[:]))
}
