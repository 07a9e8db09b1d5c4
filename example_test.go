package voxgo_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/voxgo"
	"github.com/hupe1980/voxgo/blobstore"
	"github.com/hupe1980/voxgo/geom"
	"github.com/hupe1980/voxgo/testutil"
)

// Example demonstrates resolving a voxel and enumerating the references of
// its leaf cell.
func Example() {
	grid, err := voxgo.New(testutil.UniformGrid(geom.IVec3{X: 2, Y: 2, Z: 2}, 2))
	if err != nil {
		log.Fatal(err)
	}
	defer grid.Close()

	cell := grid.Lookup(geom.IVec3{X: 1, Y: 0, Z: 0})
	grid.ForEachRef(cell, func(ref int32) {
		fmt.Println(ref)
	})
	// Output:
	// 2
	// 3
}

// Example_rangeQuery demonstrates collecting every reference that overlaps a
// query box.
func Example_rangeQuery() {
	grid, err := voxgo.New(testutil.UniformGrid(geom.IVec3{X: 3, Y: 3, Z: 3}, 1))
	if err != nil {
		log.Fatal(err)
	}
	defer grid.Close()

	box := geom.NewBBox(
		geom.Vec3{X: 0.1, Y: 0.1, Z: 0.1},
		geom.Vec3{X: 0.9, Y: 0.9, Z: 0.9},
	)

	var refs []int32
	if err := grid.CollectRange(context.Background(), box, func(ref int32) {
		refs = append(refs, ref)
	}); err != nil {
		log.Fatal(err)
	}

	fmt.Println(refs)
	// Output: [0]
}

// Example_snapshot demonstrates persisting a grid to a blob store and
// loading it back.
func Example_snapshot() {
	ctx := context.Background()

	grid, err := voxgo.New(testutil.UniformGrid(geom.IVec3{X: 2, Y: 2, Z: 2}, 2))
	if err != nil {
		log.Fatal(err)
	}
	defer grid.Close()

	store := blobstore.NewMemoryStore()
	if err := grid.SaveSnapshotToStore(ctx, store, "scene.grid", voxgo.WithCompression(voxgo.CompressionZSTD)); err != nil {
		log.Fatal(err)
	}

	loaded, err := voxgo.LoadSnapshotFromStore(ctx, store, "scene.grid")
	if err != nil {
		log.Fatal(err)
	}
	defer loaded.Close()

	fmt.Println(loaded.NumCells(), loaded.NumRefs())
	// Output: 8 16
}
