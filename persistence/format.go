package persistence

import "errors"

const (
	// MagicNumber identifies voxgo snapshot files (ASCII: "VOX1").
	MagicNumber = 0x564F5831
	// Version is the current snapshot format version (v1.0.0).
	Version = 0x00010000

	// FlagCompressedLeaves marks a snapshot carrying SmallCell leaves
	// instead of full-precision cells.
	FlagCompressedLeaves = 1 << 0

	// HeaderSize is the encoded size of GridHeader in bytes.
	HeaderSize = 96

	// ChecksumSize is the size of the CRC32 trailer at the end of a
	// snapshot.
	ChecksumSize = 4
)

// Compression identifies the block compression applied to the section
// payload.
const (
	CompressionNone uint32 = 0
	CompressionLZ4  uint32 = 1
	CompressionZSTD uint32 = 2
)

var (
	ErrInvalidMagic       = errors.New("invalid magic number")
	ErrInvalidVersion     = errors.New("unsupported version")
	ErrInvalidCompression = errors.New("unknown compression type")
	ErrTruncated          = errors.New("snapshot truncated")
)

// GridHeader is the 96-byte header at the start of every snapshot.
// All multi-byte fields are little-endian.
type GridHeader struct {
	Magic       uint32
	Version     uint32
	Flags       uint32 // FlagCompressedLeaves
	Compression uint32 // CompressionNone/LZ4/ZSTD

	Shift               int32
	DimsX, DimsY, DimsZ int32

	NumEntries uint64
	NumRefs    uint64
	NumCells   uint64

	NumOffsets uint32
	Padding    uint32

	BBoxMin [3]float32
	BBoxMax [3]float32

	Reserved [8]byte
}

// Compressed reports whether the snapshot carries SmallCell leaves.
func (h *GridHeader) Compressed() bool {
	return h.Flags&FlagCompressedLeaves != 0
}

// Validate checks magic, version and compression type.
func (h *GridHeader) Validate() error {
	if h.Magic != MagicNumber {
		return ErrInvalidMagic
	}
	if h.Version != Version {
		return ErrInvalidVersion
	}
	switch h.Compression {
	case CompressionNone, CompressionLZ4, CompressionZSTD:
	default:
		return ErrInvalidCompression
	}
	return nil
}
