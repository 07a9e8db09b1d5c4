package voxgo

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/voxgo/geom"
)

// collectLeaves walks the entry subtree rooted at e and reports every leaf
// cell index under it.
func collectLeaves(entries []Entry, e Entry, add func(uint32)) {
	if e.IsLeaf() {
		add(e.Begin())
		return
	}
	logDim := e.LogDim()
	count := uint32(1) << (3 * logDim)
	base := e.Begin()
	for i := uint32(0); i < count; i++ {
		collectLeaves(entries, entries[base+i], add)
	}
}

// fineRange maps a query box to the inclusive voxel range at the finest
// addressable resolution, for filtering leaves by their stored bounds.
func (g *Grid) fineRange(box geom.BBox) geom.Range {
	fineDims := geom.IVec3{
		X: g.dims.X << g.shift,
		Y: g.dims.Y << g.shift,
		Z: g.dims.Z << g.shift,
	}
	return geom.ComputeRange(fineDims, g.bbox, box)
}

func (g *Grid) cellOverlaps(cellIdx uint32, fr geom.Range) bool {
	if g.Compressed() {
		c := g.smallCells[cellIdx]
		return int32(c.Min.X) <= fr.HX && int32(c.Max.X) >= fr.LX &&
			int32(c.Min.Y) <= fr.HY && int32(c.Max.Y) >= fr.LY &&
			int32(c.Min.Z) <= fr.HZ && int32(c.Max.Z) >= fr.LZ
	}
	c := g.cells[cellIdx]
	return c.Min.X <= fr.HX && c.Max.X >= fr.LX &&
		c.Min.Y <= fr.HY && c.Max.Y >= fr.LY &&
		c.Min.Z <= fr.HZ && c.Max.Z >= fr.LZ
}

// CollectRange enumerates the references of every leaf that overlaps the
// query box, visiting each distinct reference exactly once. Leaf discovery
// fans out across z-slabs of the top-level range; fn itself runs on the
// calling goroutine after the fan-out completes.
//
// CollectRange is a pure read and safe to run concurrently with other
// queries against the same grid.
func (g *Grid) CollectRange(ctx context.Context, box geom.BBox, fn func(ref int32)) error {
	if g.closed.Load() {
		return ErrClosed
	}

	start := time.Now()

	r := g.VoxelRange(box)
	if r.Empty() {
		g.metrics.RecordRangeQuery(0, 0, time.Since(start), nil)
		g.logger.LogRangeQuery(ctx, 0, 0, nil)
		return nil
	}

	parallelism := g.parallelism
	if parallelism < 1 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	var (
		mu     sync.Mutex
		leaves = make(map[uint32]struct{})
	)

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(parallelism)

	for z := r.LZ; z <= r.HZ; z++ {
		z := z
		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			local := make(map[uint32]struct{})
			for y := r.LY; y <= r.HY; y++ {
				for x := r.LX; x <= r.HX; x++ {
					idx := int64(x) + int64(g.dims.X)*(int64(y)+int64(g.dims.Y)*int64(z))
					collectLeaves(g.entries, g.entries[idx], func(cell uint32) {
						local[cell] = struct{}{}
					})
				}
			}

			mu.Lock()
			for cell := range local {
				leaves[cell] = struct{}{}
			}
			mu.Unlock()
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		g.metrics.RecordRangeQuery(0, 0, time.Since(start), err)
		g.logger.LogRangeQuery(ctx, r.Size(), 0, err)
		return err
	}

	// Enumerate on the caller's goroutine, filtered by the stored leaf
	// bounds and deduplicated across leaves.
	fr := g.fineRange(box)
	ordered := make([]uint32, 0, len(leaves))
	for cell := range leaves {
		if g.cellOverlaps(cell, fr) {
			ordered = append(ordered, cell)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	seen := roaring.New()
	refs := 0
	for _, cell := range ordered {
		g.ForEachRef(cell, func(ref int32) {
			if seen.CheckedAdd(uint32(ref)) {
				refs++
				fn(ref)
			}
		})
	}

	g.metrics.RecordRangeQuery(len(ordered), refs, time.Since(start), nil)
	g.logger.LogRangeQuery(ctx, r.Size(), refs, nil)
	return nil
}
