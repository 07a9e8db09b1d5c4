package voxgo

import "github.com/hupe1980/voxgo/geom"

// Entry bit layout constants.
const (
	// LogDimBits is the width of the log-dimension field.
	LogDimBits = 2
	// BeginBits is the width of the begin index field.
	BeginBits = 32 - LogDimBits

	logDimMask = 1<<LogDimBits - 1
	// MaxBegin is the largest index representable in the begin field.
	MaxBegin = 1<<BeginBits - 1
)

// Entry is a packed node of the voxel map. The low LogDimBits bits hold the
// logarithm of the node's child block side (0 for leaves), the remaining
// bits hold an index: into the cell array for leaves, into the entry array
// for internal nodes.
//
// An internal node with log dimension d points at a contiguous block of 8^d
// child entries, addressed by the d low bits of each voxel axis. Skipping
// several conceptual octree levels per node keeps the hierarchy shallow over
// regions of uniform occupancy.
//
// Entries are immutable once written. The 32-bit footprint is part of the
// snapshot and transfer formats; use MakeEntry, LogDim and Begin rather than
// manipulating the raw word.
type Entry uint32

// MakeEntry packs a log dimension and a begin index into an entry.
// logDim must fit in LogDimBits and begin in BeginBits; wider values are a
// caller error and are truncated.
func MakeEntry(logDim, begin uint32) Entry {
	return Entry(logDim&logDimMask | begin<<LogDimBits)
}

// LogDim returns the log dimension field. Zero means the entry is a leaf.
func (e Entry) LogDim() uint32 {
	return uint32(e) & logDimMask
}

// Begin returns the begin index field.
func (e Entry) Begin() uint32 {
	return uint32(e) >> LogDimBits
}

// IsLeaf reports whether the entry points at a cell.
func (e Entry) IsLeaf() bool {
	return e.LogDim() == 0
}

// LookupEntry resolves a voxel coordinate to the index of its owning leaf
// cell by descending the packed entry hierarchy.
//
// The top-level entry is found by shifting the voxel down to top-level
// resolution and flattening against dims. While the fetched entry is
// internal, the voxel bits addressing the child block are masked out and
// flattened cube-wise (side 2^logDim), and the descent continues from the
// block's base index.
//
// No bounds checking is performed: a voxel outside the indexed domain or a
// shift inconsistent with dims is a caller precondition violation. The walk
// touches one entry per visited level and never allocates.
func LookupEntry(entries []Entry, shift int32, dims geom.IVec3, voxel geom.IVec3) uint32 {
	top := voxel.Shr(shift)
	entry := entries[int64(top.X)+int64(dims.X)*(int64(top.Y)+int64(dims.Y)*int64(top.Z))]

	logDim := entry.LogDim()
	d := logDim
	for logDim != 0 {
		begin := entry.Begin()
		mask := int32(1)<<logDim - 1

		k := voxel.Shr(shift - int32(d)).And(mask)
		entry = entries[begin+uint32(k.X)+(uint32(k.Y)+uint32(k.Z)<<logDim)<<logDim]
		logDim = entry.LogDim()
		d += logDim
	}
	return entry.Begin()
}
