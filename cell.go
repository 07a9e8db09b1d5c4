package voxgo

import "github.com/hupe1980/voxgo/geom"

// Cell is a full-precision leaf of the irregular grid. Min and Max are the
// inclusive integer bounds of the cell's spatial extent; Begin and End
// delimit the half-open reference range [Begin, End) into the reference
// array.
//
// Field order mirrors the packed transfer layout (min word before max word).
type Cell struct {
	Min   geom.IVec3 // Minimum bounding coordinate
	Begin int32      // Index of the first reference
	Max   geom.IVec3 // Maximum bounding coordinate
	End   int32      // Past-the-end reference index
}

// NumRefs returns the number of references owned by the cell.
func (c Cell) NumRefs() int {
	return int(c.End - c.Begin)
}

// SmallCell is a compressed leaf. Bounds are quantized to 16-bit unsigned
// integers, so the grid extent per axis must fit in 65535 units. There is no
// explicit end index: the references form a forward-linked chain embedded in
// the reference array, terminated by a -1 sentinel.
type SmallCell struct {
	Min   geom.USVec3 // Minimum bounding coordinate
	Max   geom.USVec3 // Maximum bounding coordinate
	Begin int32       // Head of the reference chain (-1 for an empty cell)
}

// ForEachRef visits every reference owned by a full cell in stored order and
// returns the number of references in the cell.
//
// The next reference is preloaded before fn runs on the current one, hiding
// memory latency without changing the visit set or order. fn must not mutate
// the reference array; enumeration is read-only.
func ForEachRef(cell Cell, refIDs []int32, fn func(ref int32)) int {
	cur := cell.Begin
	ref := int32(-1)
	if cur < cell.End {
		ref = refIDs[cur]
		cur++
	}
	for ref >= 0 {
		next := int32(-1)
		if cur < cell.End {
			next = refIDs[cur]
			cur++
		}
		fn(ref)
		ref = next
	}
	return int(cell.End - cell.Begin)
}

// ForEachRefSmall visits every reference owned by a compressed cell by
// following the linked chain from Begin until the -1 sentinel, and returns
// the number of references visited.
//
// The stored value at each chain position is the reference itself; the value
// at the following position is either the next reference or the sentinel.
// A chain missing its sentinel is a builder contract violation.
func ForEachRefSmall(cell SmallCell, refIDs []int32, fn func(ref int32)) int {
	cur := cell.Begin
	ref := int32(-1)
	if cur >= 0 {
		ref = refIDs[cur]
		cur++
	}
	count := 0
	for ref >= 0 {
		next := refIDs[cur]
		cur++
		fn(ref)
		count++
		ref = next
	}
	return count
}
