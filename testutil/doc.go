// Package testutil provides testing utilities for voxgo.
//
// This package is intended for use in tests and benchmarks only. It
// provides deterministic builders for small grids in both leaf
// representations, plus a seeded RNG for reproducible randomized tests.
//
// # Grid Construction
//
//	data := testutil.UniformGrid(geom.IVec3{X: 4, Y: 4, Z: 4}, 2)
//	g, err := voxgo.New(data)
//
// # Seeded Randomness
//
//	rng := testutil.NewRNG(42)
//	i := rng.Intn(100)
package testutil
