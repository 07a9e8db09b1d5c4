package voxgo

import "github.com/RoaringBitmap/roaring/v2"

// Occupancy returns a bitmap over flattened top-level voxel indices
// (x + dims.X*(y + dims.Y*z)) with a bit set for every voxel whose subtree
// owns at least one primitive reference. Traversal kernels use it to skip
// empty regions wholesale; builders use it as a compaction diagnostic.
//
// The bitmap is computed on demand and is independent of the grid; mutating
// it does not affect queries.
func (g *Grid) Occupancy() *roaring.Bitmap {
	bm := roaring.New()

	topLevel := g.dims.Prod()
	for i := int64(0); i < topLevel; i++ {
		occupied := false
		collectLeaves(g.entries, g.entries[i], func(cell uint32) {
			if occupied {
				return
			}
			if g.cellHasRefs(cell) {
				occupied = true
			}
		})
		if occupied {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// DistinctRefs returns the number of distinct primitive references stored in
// the grid. A primitive overlapping several cells is referenced once per
// cell but counted once here.
func (g *Grid) DistinctRefs() uint64 {
	bm := roaring.New()
	for i := 0; i < g.numCells; i++ {
		g.ForEachRef(uint32(i), func(ref int32) {
			bm.Add(uint32(ref))
		})
	}
	return bm.GetCardinality()
}

func (g *Grid) cellHasRefs(cell uint32) bool {
	if g.Compressed() {
		sc := g.smallCells[cell]
		return sc.Begin >= 0 && g.refIDs[sc.Begin] >= 0
	}
	c := g.cells[cell]
	return c.End > c.Begin
}
