// Package persistence provides high-performance binary serialization for
// frozen grid snapshots.
package persistence

import (
	"encoding/binary"
	"io"
	"unsafe"
)

// BinaryGridWriter writes grid sections in optimized binary format.
type BinaryGridWriter struct {
	w         io.Writer
	byteOrder binary.ByteOrder
}

// NewBinaryGridWriter creates a new binary writer.
func NewBinaryGridWriter(w io.Writer) *BinaryGridWriter {
	return &BinaryGridWriter{
		w:         w,
		byteOrder: binary.LittleEndian, // Native on x86/ARM
	}
}

// WriteHeader writes the snapshot header.
func (bw *BinaryGridWriter) WriteHeader(header *GridHeader) error {
	header.Magic = MagicNumber
	header.Version = Version
	return binary.Write(bw.w, bw.byteOrder, header)
}

// WriteUint32Slice writes a uint32 slice as raw bytes (zero-copy).
// Safety: validates alignment before the unsafe conversion.
func (bw *BinaryGridWriter) WriteUint32Slice(slice []uint32) error {
	if len(slice) == 0 {
		return nil
	}

	if err := validateUint32SliceAlignment(slice); err != nil {
		return err
	}

	byteSlice := unsafe.Slice((*byte)(unsafe.Pointer(&slice[0])), len(slice)*4)
	_, err := bw.w.Write(byteSlice)
	return err
}

// WriteInt32Slice writes an int32 slice as raw bytes (zero-copy).
// Safety: validates alignment before the unsafe conversion.
func (bw *BinaryGridWriter) WriteInt32Slice(slice []int32) error {
	if len(slice) == 0 {
		return nil
	}

	if err := validateInt32SliceAlignment(slice); err != nil {
		return err
	}

	byteSlice := unsafe.Slice((*byte)(unsafe.Pointer(&slice[0])), len(slice)*4)
	_, err := bw.w.Write(byteSlice)
	return err
}

// BinaryGridReader reads grid sections from binary format.
type BinaryGridReader struct {
	r         io.Reader
	byteOrder binary.ByteOrder
}

// NewBinaryGridReader creates a new binary reader.
func NewBinaryGridReader(r io.Reader) *BinaryGridReader {
	return &BinaryGridReader{
		r:         r,
		byteOrder: binary.LittleEndian,
	}
}

// ReadHeader reads and validates the snapshot header.
func (br *BinaryGridReader) ReadHeader() (*GridHeader, error) {
	var header GridHeader
	if err := binary.Read(br.r, br.byteOrder, &header); err != nil {
		return nil, err
	}
	if err := header.Validate(); err != nil {
		return nil, err
	}
	return &header, nil
}

// ReadUint32Slice reads a uint32 slice.
func (br *BinaryGridReader) ReadUint32Slice(count int) ([]uint32, error) {
	if count == 0 {
		return nil, nil
	}
	slice := make([]uint32, count)
	byteSlice := unsafe.Slice((*byte)(unsafe.Pointer(&slice[0])), count*4)
	if _, err := io.ReadFull(br.r, byteSlice); err != nil {
		return nil, err
	}
	return slice, nil
}

// ReadInt32Slice reads an int32 slice.
func (br *BinaryGridReader) ReadInt32Slice(count int) ([]int32, error) {
	if count == 0 {
		return nil, nil
	}
	slice := make([]int32, count)
	byteSlice := unsafe.Slice((*byte)(unsafe.Pointer(&slice[0])), count*4)
	if _, err := io.ReadFull(br.r, byteSlice); err != nil {
		return nil, err
	}
	return slice, nil
}
