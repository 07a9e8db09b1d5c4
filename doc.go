// Package voxgo provides an embeddable irregular voxel grid for Go.
//
// Voxgo is the read side of a multi-resolution spatial index used to
// accelerate "which primitives occupy this region of space" queries, the
// building block underneath ray/object intersection in a renderer. A grid is
// assembled once by an external builder, frozen, and then queried from any
// number of goroutines without synchronization.
//
// # Quick Start
//
//	grid, _ := voxgo.New(voxgo.GridData{
//	    Entries: entries, RefIDs: refs, Cells: cells,
//	    BBox: bbox, Dims: dims, Shift: shift,
//	})
//
//	leaf := grid.Lookup(geom.IVec3{X: 12, Y: 3, Z: 7})
//	grid.ForEachRef(leaf, func(ref int32) {
//	    // intersect primitive ref
//	})
//
// # Representations
//
// A grid carries exactly one of two leaf encodings. Full cells store
// 32-bit bounds and an explicit reference range. Compressed cells quantize
// bounds to 16 bits and chain their references through the reference array,
// halving the per-leaf footprint for memory-bandwidth-bound traversal.
//
// # Snapshots
//
// Frozen grids serialize to a compact binary snapshot (optionally LZ4 or
// zstd compressed) that can be kept on disk or published through a BlobStore
// (local, MinIO, S3). The builder writes once; readers load and query.
//
// # Key Features
//
//   - Branch-cheap hierarchical voxel lookup over a flat entry arena
//   - Uniform reference enumeration across both leaf encodings
//   - Bit-exact 128-bit transfer words shared with accelerator consumers
//   - Snapshot persistence with CRC32 integrity and block compression
//   - Cloud-native snapshot transport (S3/MinIO via BlobStore)
package voxgo
