package voxgo

import (
	"sync/atomic"

	"github.com/hupe1980/voxgo/geom"
)

// GridData is the builder handoff: the arrays and parameters an external
// builder assembles before freezing a grid. Exactly one of Cells and
// SmallCells must be populated.
//
// Offsets optionally records the starting offset of each subdivision level
// inside Entries. It is carried for level-major builders and tooling; the
// read path does not consult it.
type GridData struct {
	Entries    []Entry
	RefIDs     []int32
	Cells      []Cell
	SmallCells []SmallCell
	BBox       geom.BBox
	Dims       geom.IVec3
	Shift      int32
	Offsets    []int32
}

// Grid is a frozen irregular voxel grid. All methods are pure reads and safe
// for unbounded concurrent use; there is no synchronization on the query
// path.
type Grid struct {
	entries    []Entry
	refIDs     []int32
	cells      []Cell
	smallCells []SmallCell

	bbox    geom.BBox
	dims    geom.IVec3
	shift   int32
	offsets []int32

	numCells   int
	numEntries int
	numRefs    int

	logger      *Logger
	metrics     MetricsCollector
	parallelism int

	closed atomic.Bool
	// releaseResources returns memory reserved against a resource.Controller
	// by the snapshot loader. Nil for grids built in place.
	releaseResources func()
}

// New freezes builder output into a queryable grid.
//
// The structural invariants of the handoff are checked once here: positive
// dimensions, non-negative shift, a single leaf representation, and an entry
// array that covers the top level. The read path itself never validates;
// voxel coordinates and array contents are caller contracts.
func New(data GridData, opts ...Option) (*Grid, error) {
	o := applyOptions(opts)

	if data.Dims.X <= 0 || data.Dims.Y <= 0 || data.Dims.Z <= 0 {
		return nil, &ErrInvalidDims{Dims: data.Dims}
	}
	if data.Shift < 0 {
		return nil, ErrNegativeShift
	}
	if (len(data.Cells) > 0) == (len(data.SmallCells) > 0) {
		return nil, ErrLeafRepresentation
	}
	if topLevel := data.Dims.Prod(); int64(len(data.Entries)) < topLevel {
		return nil, &ErrEntryCountMismatch{TopLevel: topLevel, Entries: len(data.Entries)}
	}

	numCells := len(data.Cells)
	if numCells == 0 {
		numCells = len(data.SmallCells)
	}

	g := &Grid{
		entries:     data.Entries,
		refIDs:      data.RefIDs,
		cells:       data.Cells,
		smallCells:  data.SmallCells,
		bbox:        data.BBox,
		dims:        data.Dims,
		shift:       data.Shift,
		offsets:     data.Offsets,
		numCells:    numCells,
		numEntries:  len(data.Entries),
		numRefs:     len(data.RefIDs),
		logger:      o.logger,
		metrics:     o.metrics,
		parallelism: o.parallelism,
	}

	g.logger.LogFreeze(g.dims, g.numCells, g.numRefs, g.Compressed())

	return g, nil
}

// Bounds returns the bounding box of the indexed space.
func (g *Grid) Bounds() geom.BBox { return g.bbox }

// Dims returns the top-level dimensions.
func (g *Grid) Dims() geom.IVec3 { return g.dims }

// Shift returns the bit count separating the finest addressable voxel from
// the top level.
func (g *Grid) Shift() int32 { return g.shift }

// NumCells returns the number of leaf cells.
func (g *Grid) NumCells() int { return g.numCells }

// NumEntries returns the number of voxel map entries.
func (g *Grid) NumEntries() int { return g.numEntries }

// NumRefs returns the number of primitive references.
func (g *Grid) NumRefs() int { return g.numRefs }

// Compressed reports whether the grid uses the compressed leaf
// representation.
func (g *Grid) Compressed() bool { return len(g.smallCells) > 0 }

// LevelOffsets returns the per-level starting offsets into the entry array,
// if the builder recorded them. The returned slice must not be mutated.
func (g *Grid) LevelOffsets() []int32 { return g.offsets }

// Entries returns the voxel map. The returned slice must not be mutated.
func (g *Grid) Entries() []Entry { return g.entries }

// RefIDs returns the reference array. The returned slice must not be
// mutated.
func (g *Grid) RefIDs() []int32 { return g.refIDs }

// Cells returns the full leaf array. Empty for compressed grids. The
// returned slice must not be mutated.
func (g *Grid) Cells() []Cell { return g.cells }

// SmallCells returns the compressed leaf array. Empty for full grids. The
// returned slice must not be mutated.
func (g *Grid) SmallCells() []SmallCell { return g.smallCells }

// Cell returns the full-precision leaf at index i.
func (g *Grid) Cell(i uint32) Cell { return g.cells[i] }

// SmallCell returns the compressed leaf at index i.
func (g *Grid) SmallCell(i uint32) SmallCell { return g.smallCells[i] }

// Lookup resolves a voxel coordinate to the index of its owning leaf cell.
// The voxel must lie inside the indexed domain; see LookupEntry.
func (g *Grid) Lookup(voxel geom.IVec3) uint32 {
	return LookupEntry(g.entries, g.shift, g.dims, voxel)
}

// ForEachRef visits every reference of the leaf at cellIdx, dispatching to
// the active representation, and returns the number visited.
func (g *Grid) ForEachRef(cellIdx uint32, fn func(ref int32)) int {
	if g.Compressed() {
		return ForEachRefSmall(g.smallCells[cellIdx], g.refIDs, fn)
	}
	return ForEachRef(g.cells[cellIdx], g.refIDs, fn)
}

// VoxelRange maps a query box to the inclusive range of top-level voxels
// that intersect it. The result may be inverted when the box does not
// overlap the grid; see geom.Range.
func (g *Grid) VoxelRange(box geom.BBox) geom.Range {
	return geom.ComputeRange(g.dims, g.bbox, box)
}

// Close releases any resources reserved for the grid (memory charged
// against a resource controller by the snapshot loader). Range queries and
// snapshot writes on a closed grid return ErrClosed; voxel lookups are
// undefined. Close is idempotent.
func (g *Grid) Close() error {
	if !g.closed.CompareAndSwap(false, true) {
		return nil
	}
	if g.releaseResources != nil {
		g.releaseResources()
		g.releaseResources = nil
	}
	return nil
}
