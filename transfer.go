package voxgo

import (
	"encoding/binary"

	"github.com/hupe1980/voxgo/geom"
)

// Word128 is a 128-bit transfer word, the unit of wide aligned memory
// transactions on accelerator hardware, held as four 32-bit lanes.
//
// The lane layouts below are a wire contract shared with downstream
// traversal kernels: a Cell occupies two words
// (min.x, min.y, min.z, begin | max.x, max.y, max.z, end) and a SmallCell
// one word (min.x|min.y<<16, min.z|max.x<<16, max.y|max.z<<16, begin). The
// snapshot format stores leaves through the same lanes, so the layout must
// round-trip bit-exactly.
type Word128 [4]uint32

// Word128Size is the byte size of a transfer word.
const Word128Size = 16

// CellWords is the number of transfer words occupied by a Cell.
const CellWords = 2

// SmallCellWords is the number of transfer words occupied by a SmallCell.
const SmallCellWords = 1

// StoreCell packs a full-precision cell into two transfer words.
func StoreCell(c Cell) [CellWords]Word128 {
	return [CellWords]Word128{
		{uint32(c.Min.X), uint32(c.Min.Y), uint32(c.Min.Z), uint32(c.Begin)},
		{uint32(c.Max.X), uint32(c.Max.Y), uint32(c.Max.Z), uint32(c.End)},
	}
}

// LoadCell unpacks a full-precision cell from two transfer words.
func LoadCell(w [CellWords]Word128) Cell {
	return Cell{
		Min:   geom.IVec3{X: int32(w[0][0]), Y: int32(w[0][1]), Z: int32(w[0][2])},
		Begin: int32(w[0][3]),
		Max:   geom.IVec3{X: int32(w[1][0]), Y: int32(w[1][1]), Z: int32(w[1][2])},
		End:   int32(w[1][3]),
	}
}

// LoadCellMin unpacks only the minimum bound of a cell from its first
// transfer word. Traversal kernels that step cell boundaries need just this
// half of the record.
func LoadCellMin(w Word128) geom.IVec3 {
	return geom.IVec3{X: int32(w[0]), Y: int32(w[1]), Z: int32(w[2])}
}

// StoreSmallCell packs a compressed cell into a single transfer word using
// two 16-bit coordinate lanes per 32-bit subword.
func StoreSmallCell(c SmallCell) Word128 {
	return Word128{
		uint32(c.Min.X) | uint32(c.Min.Y)<<16,
		uint32(c.Min.Z) | uint32(c.Max.X)<<16,
		uint32(c.Max.Y) | uint32(c.Max.Z)<<16,
		uint32(c.Begin),
	}
}

// LoadSmallCell unpacks a compressed cell from a single transfer word.
func LoadSmallCell(w Word128) SmallCell {
	return SmallCell{
		Min:   geom.USVec3{X: uint16(w[0]), Y: uint16(w[0] >> 16), Z: uint16(w[1])},
		Max:   geom.USVec3{X: uint16(w[1] >> 16), Y: uint16(w[2]), Z: uint16(w[2] >> 16)},
		Begin: int32(w[3]),
	}
}

// PutWord128 writes a transfer word to b in little-endian lane order.
// b must be at least Word128Size bytes.
func PutWord128(b []byte, w Word128) {
	binary.LittleEndian.PutUint32(b[0:], w[0])
	binary.LittleEndian.PutUint32(b[4:], w[1])
	binary.LittleEndian.PutUint32(b[8:], w[2])
	binary.LittleEndian.PutUint32(b[12:], w[3])
}

// Word128FromBytes reads a transfer word from b in little-endian lane order.
// b must be at least Word128Size bytes.
func Word128FromBytes(b []byte) Word128 {
	return Word128{
		binary.LittleEndian.Uint32(b[0:]),
		binary.LittleEndian.Uint32(b[4:]),
		binary.LittleEndian.Uint32(b[8:]),
		binary.LittleEndian.Uint32(b[12:]),
	}
}
