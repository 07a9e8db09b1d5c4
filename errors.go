package voxgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/voxgo/geom"
)

var (
	// ErrNegativeShift is returned when a builder hands over a grid whose
	// shift amount is negative.
	ErrNegativeShift = errors.New("shift must be non-negative")

	// ErrLeafRepresentation is returned when a grid does not carry exactly
	// one leaf representation (full cells xor compressed cells).
	ErrLeafRepresentation = errors.New("exactly one of cells and small cells must be populated")

	// ErrClosed is returned when a range query or snapshot write is issued
	// against a grid whose resources have been released.
	ErrClosed = errors.New("grid is closed")
)

// ErrInvalidDims indicates non-positive top-level dimensions.
type ErrInvalidDims struct {
	Dims geom.IVec3
}

func (e *ErrInvalidDims) Error() string {
	return fmt.Sprintf("invalid top-level dimensions: %dx%dx%d", e.Dims.X, e.Dims.Y, e.Dims.Z)
}

// ErrEntryCountMismatch indicates an entry array too small to hold the
// top-level voxel map.
type ErrEntryCountMismatch struct {
	TopLevel int64
	Entries  int
}

func (e *ErrEntryCountMismatch) Error() string {
	return fmt.Sprintf("entry count mismatch: %d top-level entries required, %d present", e.TopLevel, e.Entries)
}
