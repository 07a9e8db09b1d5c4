package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/hupe1980/voxgo"
	"github.com/hupe1980/voxgo/geom"
)

func main() {
	seed := int64(4711)
	numBoxes := 50000

	rng := rand.New(rand.NewSource(seed))

	world := geom.NewBBox(
		geom.Vec3{X: 0, Y: 0, Z: 0},
		geom.Vec3{X: 100, Y: 100, Z: 100},
	)

	boxes := make([]geom.BBox, numBoxes)
	for i := range boxes {
		cx := rng.Float32() * 100
		cy := rng.Float32() * 100
		cz := rng.Float32() * 100
		r := rng.Float32() + 0.1

		boxes[i] = geom.NewBBox(
			geom.Vec3{X: cx - r, Y: cy - r, Z: cz - r},
			geom.Vec3{X: cx + r, Y: cy + r, Z: cz + r},
		)
	}

	fmt.Println("--- Build ---")
	fmt.Println("Boxes:", numBoxes)

	start := time.Now()

	grid, err := buildUniform(world, boxes)
	if err != nil {
		log.Fatal(err)
	}
	defer grid.Close()

	fmt.Printf("Seconds: %.2f\n", time.Since(start).Seconds())
	fmt.Println("Dims:", grid.Dims())
	fmt.Println("Cells:", grid.NumCells())
	fmt.Println("Refs:", grid.NumRefs())
	fmt.Println()

	query := geom.NewBBox(
		geom.Vec3{X: 40, Y: 40, Z: 40},
		geom.Vec3{X: 60, Y: 60, Z: 60},
	)

	fmt.Println("--- Range query ---")

	start = time.Now()

	count := 0
	if err := grid.CollectRange(context.Background(), query, func(ref int32) {
		count++
	}); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Refs: %d\n", count)
	fmt.Printf("Seconds: %.6f\n\n", time.Since(start).Seconds())

	fmt.Println("--- Snapshot ---")

	var buf bytes.Buffer
	n, err := grid.WriteSnapshot(context.Background(), &buf, voxgo.WithCompression(voxgo.CompressionLZ4))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Bytes: %d\n", n)

	loaded, err := voxgo.LoadSnapshot(context.Background(), &buf)
	if err != nil {
		log.Fatal(err)
	}
	defer loaded.Close()

	reloaded := 0
	if err := loaded.CollectRange(context.Background(), query, func(ref int32) {
		reloaded++
	}); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Refs after reload: %d\n", reloaded)
}

// buildUniform bins boxes into a single-level grid with one leaf cell per
// voxel. A production builder would subdivide dense voxels and emit the
// compressed leaf representation where the extents permit.
func buildUniform(world geom.BBox, boxes []geom.BBox) (*voxgo.Grid, error) {
	dims := geom.ComputeGridDims(world, len(boxes), 5)
	numVoxels := dims.Prod()

	binned := make([][]int32, numVoxels)
	for i, box := range boxes {
		r := geom.ComputeRange(dims, world, box)
		for z := r.LZ; z <= r.HZ; z++ {
			for y := r.LY; y <= r.HY; y++ {
				for x := r.LX; x <= r.HX; x++ {
					idx := int64(x) + int64(dims.X)*(int64(y)+int64(dims.Y)*int64(z))
					binned[idx] = append(binned[idx], int32(i))
				}
			}
		}
	}

	data := voxgo.GridData{
		BBox:    world,
		Dims:    dims,
		Shift:   0,
		Entries: make([]voxgo.Entry, numVoxels),
		Cells:   make([]voxgo.Cell, numVoxels),
	}

	for z := int32(0); z < dims.Z; z++ {
		for y := int32(0); y < dims.Y; y++ {
			for x := int32(0); x < dims.X; x++ {
				idx := int64(x) + int64(dims.X)*(int64(y)+int64(dims.Y)*int64(z))

				begin := int32(len(data.RefIDs))
				data.RefIDs = append(data.RefIDs, binned[idx]...)

				data.Cells[idx] = voxgo.Cell{
					Min:   geom.IVec3{X: x, Y: y, Z: z},
					Begin: begin,
					Max:   geom.IVec3{X: x, Y: y, Z: z},
					End:   int32(len(data.RefIDs)),
				}
				data.Entries[idx] = voxgo.MakeEntry(0, uint32(idx))
			}
		}
	}

	return voxgo.New(data)
}
