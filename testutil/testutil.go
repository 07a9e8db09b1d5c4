package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/voxgo"
	"github.com/hupe1980/voxgo/geom"
)

// RNG encapsulates a seeded random number generator. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int31n returns a non-negative pseudo-random int32 in [0,n).
func (r *RNG) Int31n(n int32) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Int31n(n)
}

// Float32 returns a pseudo-random float32 in [0,1).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// Perm returns a pseudo-random permutation of [0,n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// unitBBox returns a bounding box spanning one world unit per top voxel.
func unitBBox(dims geom.IVec3) geom.BBox {
	return geom.NewBBox(
		geom.Vec3{X: 0, Y: 0, Z: 0},
		geom.Vec3{X: float32(dims.X), Y: float32(dims.Y), Z: float32(dims.Z)},
	)
}

// UniformGrid builds a single-level grid in the full-precision leaf
// representation: one leaf per top voxel, each owning refsPerCell
// sequential references. The world spans one unit per voxel.
func UniformGrid(dims geom.IVec3, refsPerCell int) voxgo.GridData {
	n := int(dims.Prod())

	entries := make([]voxgo.Entry, n)
	cells := make([]voxgo.Cell, n)
	refIDs := make([]int32, 0, n*refsPerCell)

	i := 0
	for z := int32(0); z < dims.Z; z++ {
		for y := int32(0); y < dims.Y; y++ {
			for x := int32(0); x < dims.X; x++ {
				begin := int32(len(refIDs))
				for r := 0; r < refsPerCell; r++ {
					refIDs = append(refIDs, int32(i*refsPerCell+r))
				}
				cells[i] = voxgo.Cell{
					Min:   geom.IVec3{X: x, Y: y, Z: z},
					Begin: begin,
					Max:   geom.IVec3{X: x, Y: y, Z: z},
					End:   int32(len(refIDs)),
				}
				entries[i] = voxgo.MakeEntry(0, uint32(i))
				i++
			}
		}
	}

	return voxgo.GridData{
		Entries: entries,
		RefIDs:  refIDs,
		Cells:   cells,
		BBox:    unitBBox(dims),
		Dims:    dims,
		Shift:   0,
	}
}

// UniformGridSmall builds the same single-level grid as UniformGrid in the
// compressed leaf representation. Each leaf's references form a sentinel
// terminated chain in the reference array; leaves with zero references get
// a -1 head.
func UniformGridSmall(dims geom.IVec3, refsPerCell int) voxgo.GridData {
	n := int(dims.Prod())

	entries := make([]voxgo.Entry, n)
	smallCells := make([]voxgo.SmallCell, n)
	refIDs := make([]int32, 0, n*(refsPerCell+1))

	i := 0
	for z := int32(0); z < dims.Z; z++ {
		for y := int32(0); y < dims.Y; y++ {
			for x := int32(0); x < dims.X; x++ {
				begin := int32(-1)
				if refsPerCell > 0 {
					begin = int32(len(refIDs))
					for r := 0; r < refsPerCell; r++ {
						refIDs = append(refIDs, int32(i*refsPerCell+r))
					}
					refIDs = append(refIDs, -1)
				}
				smallCells[i] = voxgo.SmallCell{
					Min:   geom.USVec3{X: uint16(x), Y: uint16(y), Z: uint16(z)},
					Max:   geom.USVec3{X: uint16(x), Y: uint16(y), Z: uint16(z)},
					Begin: begin,
				}
				entries[i] = voxgo.MakeEntry(0, uint32(i))
				i++
			}
		}
	}

	return voxgo.GridData{
		Entries:    entries,
		RefIDs:     refIDs,
		SmallCells: smallCells,
		BBox:       unitBBox(dims),
		Dims:       dims,
		Shift:      0,
	}
}

// SubdividedGrid builds a two-level grid with the given shift: every top
// voxel is a leaf except (0,0,0), which is subdivided once (logDim 1) into
// eight children. Each leaf owns refsPerCell sequential references. shift
// must be at least 1.
func SubdividedGrid(dims geom.IVec3, shift int32, refsPerCell int) voxgo.GridData {
	if shift < 1 {
		panic("testutil: SubdividedGrid requires shift >= 1")
	}

	n := int(dims.Prod())
	childBase := uint32(n)

	entries := make([]voxgo.Entry, n+8)
	var cells []voxgo.Cell
	var refIDs []int32

	addLeaf := func(min, max geom.IVec3) uint32 {
		begin := int32(len(refIDs))
		for r := 0; r < refsPerCell; r++ {
			refIDs = append(refIDs, int32(len(cells)*refsPerCell+r))
		}
		cells = append(cells, voxgo.Cell{
			Min:   min,
			Begin: begin,
			Max:   max,
			End:   int32(len(refIDs)),
		})
		return uint32(len(cells) - 1)
	}

	i := 0
	for z := int32(0); z < dims.Z; z++ {
		for y := int32(0); y < dims.Y; y++ {
			for x := int32(0); x < dims.X; x++ {
				if x == 0 && y == 0 && z == 0 {
					entries[i] = voxgo.MakeEntry(1, childBase)
					i++
					continue
				}
				cell := addLeaf(
					geom.IVec3{X: x << shift, Y: y << shift, Z: z << shift},
					geom.IVec3{X: (x+1)<<shift - 1, Y: (y+1)<<shift - 1, Z: (z+1)<<shift - 1},
				)
				entries[i] = voxgo.MakeEntry(0, cell)
				i++
			}
		}
	}

	// Children of voxel (0,0,0), each covering half the parent extent.
	half := int32(1) << (shift - 1)
	ci := 0
	for kz := int32(0); kz < 2; kz++ {
		for ky := int32(0); ky < 2; ky++ {
			for kx := int32(0); kx < 2; kx++ {
				cell := addLeaf(
					geom.IVec3{X: kx * half, Y: ky * half, Z: kz * half},
					geom.IVec3{X: (kx+1)*half - 1, Y: (ky+1)*half - 1, Z: (kz+1)*half - 1},
				)
				entries[int(childBase)+ci] = voxgo.MakeEntry(0, cell)
				ci++
			}
		}
	}

	return voxgo.GridData{
		Entries: entries,
		RefIDs:  refIDs,
		Cells:   cells,
		BBox:    unitBBox(dims),
		Dims:    dims,
		Shift:   shift,
		Offsets: []int32{0, int32(n)},
	}
}
