package voxgo

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"time"
	"unsafe"

	"github.com/hupe1980/voxgo/blobstore"
	"github.com/hupe1980/voxgo/geom"
	"github.com/hupe1980/voxgo/persistence"
	"github.com/hupe1980/voxgo/resource"
)

// Snapshot layout:
//
//	[GridHeader 96B][entries][refIDs][leaves][offsets][CRC32 4B]
//
// Sections are written back to back in the order above. Leaves are encoded
// through the Word128 transfer lanes, so the on-disk layout is bit-exact
// with the in-memory transfer contract. When the header selects a
// compression codec, everything after the header is a sequence of
// compressed blocks. The CRC32 trailer covers the header and the on-wire
// (compressed) payload.

// WriteSnapshot serializes the grid to w and returns the number of bytes
// written. Compression and IO budgeting are controlled per call via
// WithCompression and WithResourceController.
func (g *Grid) WriteSnapshot(ctx context.Context, w io.Writer, opts ...Option) (int64, error) {
	return g.writeSnapshotNamed(ctx, w, "", opts)
}

// SaveSnapshotToFile writes the grid to path atomically via a temp file and
// rename.
func (g *Grid) SaveSnapshotToFile(ctx context.Context, path string, opts ...Option) error {
	return persistence.SaveToFile(path, func(w io.Writer) error {
		_, err := g.writeSnapshotNamed(ctx, w, path, opts)
		return err
	})
}

// SaveSnapshotToStore publishes the grid to a blob store under name. The
// snapshot becomes visible only once the upload completes.
func (g *Grid) SaveSnapshotToStore(ctx context.Context, store blobstore.BlobStore, name string, opts ...Option) error {
	wb, err := store.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("create snapshot blob: %w", err)
	}
	if _, err := g.writeSnapshotNamed(ctx, wb, name, opts); err != nil {
		_ = wb.Close()
		return err
	}
	return wb.Close()
}

// LoadSnapshot reads a snapshot from r and freezes it into a queryable
// grid. The checksum trailer is verified before any section is parsed.
func LoadSnapshot(ctx context.Context, r io.Reader, opts ...Option) (*Grid, error) {
	return loadSnapshotNamed(ctx, r, "", opts)
}

// LoadSnapshotFromFile loads a snapshot from the local file system.
func LoadSnapshotFromFile(ctx context.Context, path string, opts ...Option) (*Grid, error) {
	var g *Grid
	err := persistence.LoadFromFile(path, func(r io.Reader) error {
		var loadErr error
		g, loadErr = loadSnapshotNamed(ctx, r, path, opts)
		return loadErr
	})
	return g, err
}

// LoadSnapshotFromStore loads a snapshot blob by name. Memory-mapped blobs
// are parsed directly from the mapping without an intermediate copy of the
// raw bytes.
func LoadSnapshotFromStore(ctx context.Context, store blobstore.BlobStore, name string, opts ...Option) (*Grid, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open snapshot blob: %w", err)
	}
	defer blob.Close()

	if m, ok := blob.(blobstore.Mappable); ok {
		data, err := m.Bytes()
		if err == nil {
			return loadSnapshotNamed(ctx, bytes.NewReader(data), name, opts)
		}
	}

	rc, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		return nil, fmt.Errorf("read snapshot blob: %w", err)
	}
	defer rc.Close()

	return loadSnapshotNamed(ctx, rc, name, opts)
}

func (g *Grid) writeSnapshotNamed(ctx context.Context, w io.Writer, name string, opts []Option) (int64, error) {
	start := time.Now()
	o := g.snapshotOptions(opts)

	n, err := g.writeSnapshot(ctx, w, o)

	o.metrics.RecordSnapshotSave(n, time.Since(start), err)
	o.logger.LogSnapshotSave(ctx, name, n, err)
	return n, err
}

// snapshotOptions seeds per-call options from the grid's own logger and
// metrics so snapshot operations inherit them unless overridden.
func (g *Grid) snapshotOptions(opts []Option) options {
	o := options{
		logger:      g.logger,
		metrics:     g.metrics,
		parallelism: g.parallelism,
		compression: CompressionNone,
	}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (g *Grid) writeSnapshot(ctx context.Context, w io.Writer, o options) (int64, error) {
	if g.closed.Load() {
		return 0, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w}
	var out io.Writer = cw
	if o.rc != nil {
		out = resource.NewRateLimitedWriter(ctx, cw, o.rc)
	}
	sum := persistence.NewChecksumWriter(out)

	header := &persistence.GridHeader{
		Compression: o.compression,
		Shift:       g.shift,
		DimsX:       g.dims.X,
		DimsY:       g.dims.Y,
		DimsZ:       g.dims.Z,
		NumEntries:  uint64(g.numEntries),
		NumRefs:     uint64(g.numRefs),
		NumCells:    uint64(g.numCells),
		NumOffsets:  uint32(len(g.offsets)),
		BBoxMin:     [3]float32{g.bbox.Min.X, g.bbox.Min.Y, g.bbox.Min.Z},
		BBoxMax:     [3]float32{g.bbox.Max.X, g.bbox.Max.Y, g.bbox.Max.Z},
	}
	if g.Compressed() {
		header.Flags |= persistence.FlagCompressedLeaves
	}

	if err := persistence.NewBinaryGridWriter(sum).WriteHeader(header); err != nil {
		return cw.n, fmt.Errorf("write header: %w", err)
	}

	if o.compression != CompressionNone {
		cbw := persistence.NewCompressedBlockWriter(sum, o.compression, 0)
		if err := g.writeSections(cbw); err != nil {
			return cw.n, err
		}
		if err := cbw.Flush(); err != nil {
			return cw.n, fmt.Errorf("flush compressed payload: %w", err)
		}
	} else {
		if err := g.writeSections(sum); err != nil {
			return cw.n, err
		}
	}

	var trailer [persistence.ChecksumSize]byte
	binary.LittleEndian.PutUint32(trailer[:], sum.Sum())
	if _, err := out.Write(trailer[:]); err != nil {
		return cw.n, fmt.Errorf("write checksum: %w", err)
	}

	return cw.n, nil
}

func (g *Grid) writeSections(w io.Writer) error {
	bw := persistence.NewBinaryGridWriter(w)

	if len(g.entries) > 0 {
		raw := unsafe.Slice((*uint32)(unsafe.Pointer(&g.entries[0])), len(g.entries))
		if err := bw.WriteUint32Slice(raw); err != nil {
			return fmt.Errorf("write entries: %w", err)
		}
	}
	if err := bw.WriteInt32Slice(g.refIDs); err != nil {
		return fmt.Errorf("write refs: %w", err)
	}
	if err := g.writeLeaves(w); err != nil {
		return fmt.Errorf("write leaves: %w", err)
	}
	if err := bw.WriteInt32Slice(g.offsets); err != nil {
		return fmt.Errorf("write offsets: %w", err)
	}
	return nil
}

func (g *Grid) writeLeaves(w io.Writer) error {
	var buf [CellWords * Word128Size]byte

	if g.Compressed() {
		for _, sc := range g.smallCells {
			PutWord128(buf[:], StoreSmallCell(sc))
			if _, err := w.Write(buf[:Word128Size]); err != nil {
				return err
			}
		}
		return nil
	}

	for _, c := range g.cells {
		words := StoreCell(c)
		PutWord128(buf[0:], words[0])
		PutWord128(buf[Word128Size:], words[1])
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}

func loadSnapshotNamed(ctx context.Context, r io.Reader, name string, opts []Option) (*Grid, error) {
	start := time.Now()
	o := applyOptions(opts)

	g, n, err := loadSnapshot(ctx, r, o, opts)

	o.metrics.RecordSnapshotLoad(n, time.Since(start), err)
	o.logger.LogSnapshotLoad(ctx, name, n, err)
	return g, err
}

func loadSnapshot(ctx context.Context, r io.Reader, o options, opts []Option) (*Grid, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	var in io.Reader = r
	if o.rc != nil {
		in = resource.NewRateLimitedReader(ctx, r, o.rc)
	}

	data, err := io.ReadAll(in)
	n := int64(len(data))
	if err != nil {
		return nil, n, fmt.Errorf("read snapshot: %w", err)
	}
	if len(data) < persistence.HeaderSize+persistence.ChecksumSize {
		return nil, n, persistence.ErrTruncated
	}

	// Verify integrity before trusting any field.
	body := data[:len(data)-persistence.ChecksumSize]
	stored := binary.LittleEndian.Uint32(data[len(data)-persistence.ChecksumSize:])
	if actual := persistence.ComputeChecksum(body); actual != stored {
		return nil, n, &persistence.ChecksumMismatchError{Expected: stored, Actual: actual}
	}

	header, err := persistence.NewBinaryGridReader(bytes.NewReader(body[:persistence.HeaderSize])).ReadHeader()
	if err != nil {
		return nil, n, err
	}

	payload := body[persistence.HeaderSize:]
	if header.Compression != CompressionNone {
		payload, err = persistence.DecompressAll(body, persistence.HeaderSize, header.Compression)
		if err != nil {
			return nil, n, fmt.Errorf("decompress snapshot: %w", err)
		}
	}

	gridData, err := parseSections(header, payload)
	if err != nil {
		return nil, n, err
	}

	var release func()
	if o.rc != nil {
		resident := residentBytes(gridData)
		if err := o.rc.AcquireMemory(ctx, resident); err != nil {
			return nil, n, fmt.Errorf("acquire snapshot memory: %w", err)
		}
		rc := o.rc
		release = func() { rc.ReleaseMemory(resident) }
	}

	g, err := New(gridData, opts...)
	if err != nil {
		if release != nil {
			release()
		}
		return nil, n, err
	}
	g.releaseResources = release

	return g, n, nil
}

func parseSections(header *persistence.GridHeader, payload []byte) (GridData, error) {
	numEntries := int(header.NumEntries)
	numRefs := int(header.NumRefs)
	numCells := int(header.NumCells)
	numOffsets := int(header.NumOffsets)

	leafBytes := numCells * CellWords * Word128Size
	if header.Compressed() {
		leafBytes = numCells * SmallCellWords * Word128Size
	}
	if want := numEntries*4 + numRefs*4 + leafBytes + numOffsets*4; len(payload) < want {
		return GridData{}, persistence.ErrTruncated
	}

	br := persistence.NewBinaryGridReader(bytes.NewReader(payload))

	rawEntries, err := br.ReadUint32Slice(numEntries)
	if err != nil {
		return GridData{}, fmt.Errorf("read entries: %w", err)
	}
	refIDs, err := br.ReadInt32Slice(numRefs)
	if err != nil {
		return GridData{}, fmt.Errorf("read refs: %w", err)
	}

	var cells []Cell
	var smallCells []SmallCell
	if header.Compressed() {
		lanes, err := br.ReadUint32Slice(numCells * 4)
		if err != nil {
			return GridData{}, fmt.Errorf("read leaves: %w", err)
		}
		smallCells = make([]SmallCell, numCells)
		for i := range smallCells {
			smallCells[i] = LoadSmallCell(Word128(lanes[i*4 : i*4+4]))
		}
	} else {
		lanes, err := br.ReadUint32Slice(numCells * 8)
		if err != nil {
			return GridData{}, fmt.Errorf("read leaves: %w", err)
		}
		cells = make([]Cell, numCells)
		for i := range cells {
			cells[i] = LoadCell([CellWords]Word128{
				Word128(lanes[i*8 : i*8+4]),
				Word128(lanes[i*8+4 : i*8+8]),
			})
		}
	}

	offsets, err := br.ReadInt32Slice(numOffsets)
	if err != nil {
		return GridData{}, fmt.Errorf("read offsets: %w", err)
	}

	return GridData{
		Entries:    entriesFromUint32(rawEntries),
		RefIDs:     refIDs,
		Cells:      cells,
		SmallCells: smallCells,
		BBox: geom.BBox{
			Min: geom.Vec3{X: header.BBoxMin[0], Y: header.BBoxMin[1], Z: header.BBoxMin[2]},
			Max: geom.Vec3{X: header.BBoxMax[0], Y: header.BBoxMax[1], Z: header.BBoxMax[2]},
		},
		Dims:    geom.IVec3{X: header.DimsX, Y: header.DimsY, Z: header.DimsZ},
		Shift:   header.Shift,
		Offsets: offsets,
	}, nil
}

// entriesFromUint32 reinterprets the raw section as entries without a copy.
func entriesFromUint32(raw []uint32) []Entry {
	if len(raw) == 0 {
		return nil
	}
	return unsafe.Slice((*Entry)(unsafe.Pointer(&raw[0])), len(raw))
}

// residentBytes is the heap footprint charged against a resource controller
// for a loaded snapshot.
func residentBytes(d GridData) int64 {
	n := int64(len(d.Entries))*4 + int64(len(d.RefIDs))*4 + int64(len(d.Offsets))*4
	n += int64(len(d.Cells)) * int64(unsafe.Sizeof(Cell{}))
	n += int64(len(d.SmallCells)) * int64(unsafe.Sizeof(SmallCell{}))
	return n
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
