// Package archive reads and writes .ztex files: a fixed texture header
// followed by the zstd-compressed block data of the image.
package archive

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/EchoTools/texblock/pkg/texture"
)

// Magic bytes identifying a .ztex header.
var Magic = [4]byte{0x5a, 0x54, 0x45, 0x58} // "ZTEX"

const (
	// HeaderSize is the fixed binary size of a .ztex header.
	HeaderSize = 48

	// headerLength counts the header bytes after Magic and HeaderLength.
	headerLength = HeaderSize - 8
)

// Header describes the texture stored in a .ztex file.
type Header struct {
	Magic            [4]byte
	HeaderLength     uint32
	Format           texture.Format
	Width            uint32
	Height           uint32
	Depth            uint32
	Slices           uint32
	Reserved         uint32
	Length           uint64 // Uncompressed size
	CompressedLength uint64 // Compressed size
}

// Size returns the binary size of the header.
func (h *Header) Size() int {
	return HeaderSize
}

// Validate checks the header for validity.
func (h *Header) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("invalid magic: expected %x, got %x", Magic, h.Magic)
	}
	if h.HeaderLength != headerLength {
		return fmt.Errorf("invalid header length: expected %d, got %d", headerLength, h.HeaderLength)
	}
	if !h.Format.Valid() {
		return fmt.Errorf("invalid format %d", uint16(h.Format))
	}
	if h.Length == 0 {
		return fmt.Errorf("uncompressed size is zero")
	}
	if h.CompressedLength == 0 {
		return fmt.Errorf("compressed size is zero")
	}

	size, err := texture.ImageSize(int(h.Width), int(h.Height), int(h.Depth), int(h.Slices), h.Format)
	if err != nil {
		return fmt.Errorf("invalid dimensions: %w", err)
	}
	if uint64(size) != h.Length {
		return fmt.Errorf("uncompressed size %d does not match %dx%dx%d %s with %d slices (%d bytes)",
			h.Length, h.Width, h.Height, h.Depth, h.Format, h.Slices, size)
	}
	return nil
}

// MarshalBinary encodes the header to binary format.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header to the given buffer.
// The buffer must be at least HeaderSize bytes.
func (h *Header) EncodeTo(buf []byte) {
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.HeaderLength)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(h.Format))
	binary.LittleEndian.PutUint32(buf[12:16], h.Width)
	binary.LittleEndian.PutUint32(buf[16:20], h.Height)
	binary.LittleEndian.PutUint32(buf[20:24], h.Depth)
	binary.LittleEndian.PutUint32(buf[24:28], h.Slices)
	binary.LittleEndian.PutUint32(buf[28:32], h.Reserved)
	binary.LittleEndian.PutUint64(buf[32:40], h.Length)
	binary.LittleEndian.PutUint64(buf[40:48], h.CompressedLength)
}

// UnmarshalBinary decodes and validates the header.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("header data too short: need %d, got %d", HeaderSize, len(data))
	}
	h.DecodeFrom(data)
	return h.Validate()
}

// DecodeFrom reads the header from the given buffer.
// Does not validate - use UnmarshalBinary for validation. Format codes wider
// than 16 bits decode as texture.FormatUnknown.
func (h *Header) DecodeFrom(data []byte) {
	copy(h.Magic[:], data[0:4])
	h.HeaderLength = binary.LittleEndian.Uint32(data[4:8])
	h.Format = texture.FormatUnknown
	if code := binary.LittleEndian.Uint32(data[8:12]); code <= math.MaxUint16 {
		h.Format = texture.Format(code)
	}
	h.Width = binary.LittleEndian.Uint32(data[12:16])
	h.Height = binary.LittleEndian.Uint32(data[16:20])
	h.Depth = binary.LittleEndian.Uint32(data[20:24])
	h.Slices = binary.LittleEndian.Uint32(data[24:28])
	h.Reserved = binary.LittleEndian.Uint32(data[28:32])
	h.Length = binary.LittleEndian.Uint64(data[32:40])
	h.CompressedLength = binary.LittleEndian.Uint64(data[40:48])
}

// NewHeader creates a header describing img. The compressed size is filled
// in by the Writer.
func NewHeader(img *texture.Image) *Header {
	return &Header{
		Magic:        Magic,
		HeaderLength: headerLength,
		Format:       img.Format,
		Width:        uint32(img.Width),
		Height:       uint32(img.Height),
		Depth:        uint32(img.Depth),
		Slices:       uint32(img.Slices),
		Length:       uint64(len(img.Data)),
	}
}

// Image returns an image view with the header's dimensions and the given
// data.
func (h *Header) Image(data []byte) *texture.Image {
	return &texture.Image{
		Width:  int(h.Width),
		Height: int(h.Height),
		Depth:  int(h.Depth),
		Slices: int(h.Slices),
		Format: h.Format,
		Data:   data,
	}
}
