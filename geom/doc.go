// Package geom provides the vector, bounding box and voxel range math used
// by the irregular grid.
//
// All types are plain value types with no hidden allocation. The query-time
// functions are pure and safe for unbounded concurrent use.
package geom
