// Package persistence provides the binary snapshot format for frozen grids.
//
// A snapshot is a 96-byte header followed by the grid sections (voxel map
// entries, reference array, leaves through their packed transfer lanes, and
// per-level offsets) and a CRC32 trailer. Sections may be block-compressed
// with LZ4 or zstd; the choice is recorded in the header so snapshots are
// self-describing.
//
// The package deals in raw sections and integrity; assembling a queryable
// grid from them is the root package's job.
package persistence
