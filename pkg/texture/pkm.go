package texture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// PKMMagic is the byte string prefix of every PKM file.
const PKMMagic = "PKM "

// PKMHeaderSize is the fixed size of a PKM header.
const PKMHeaderSize = 16

// ErrNotAPKMFile is returned when the header is not a valid PKM header.
var ErrNotAPKMFile = errors.New("not a PKM file")

var pkmFormats = [12]Format{
	0x00: FormatETC1,
	0x01: FormatETC2RGB,
	0x02: FormatUnknown,
	0x03: FormatETC2RGBA8,
	0x04: FormatETC2RGBA1,
	0x05: FormatEACR11,
	0x06: FormatEACRG11,
	0x07: FormatEACR11Signed,
	0x08: FormatEACRG11Signed,
	0x09: FormatETC2SRGB,
	0x0A: FormatETC2SRGBA8,
	0x0B: FormatETC2SRGBA1,
}

// PKMHeader is a decoded PKM header. Dimensions are stored big-endian.
type PKMHeader struct {
	Version      int
	Format       Format
	PaddedWidth  int
	PaddedHeight int
	Width        int
	Height       int
}

// ParsePKM reads a PKM header, leaving r positioned at the block data.
func ParsePKM(r io.Reader) (*PKMHeader, error) {
	var buf [PKMHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(buf[0:4]) != PKMMagic || buf[5] != '0' || buf[6] != 0 {
		return nil, ErrNotAPKMFile
	}

	h := &PKMHeader{}
	switch buf[4] {
	case '1':
		h.Version = 1
	case '2':
		h.Version = 2
	default:
		return nil, ErrNotAPKMFile
	}

	code := int(buf[7])
	if code >= len(pkmFormats) || pkmFormats[code] == FormatUnknown {
		return nil, fmt.Errorf("%w: format code %d", ErrNotAPKMFile, code)
	}
	h.Format = pkmFormats[code]
	if h.Version == 1 && h.Format != FormatETC1 {
		return nil, fmt.Errorf("%w: version 1 with format %s", ErrNotAPKMFile, h.Format)
	}

	h.PaddedWidth = int(binary.BigEndian.Uint16(buf[8:10]))
	h.PaddedHeight = int(binary.BigEndian.Uint16(buf[10:12]))
	h.Width = int(binary.BigEndian.Uint16(buf[12:14]))
	h.Height = int(binary.BigEndian.Uint16(buf[14:16]))

	if (h.Width+3)&^3 != h.PaddedWidth || (h.Height+3)&^3 != h.PaddedHeight {
		return nil, fmt.Errorf("%w: padded size %dx%d does not match %dx%d",
			ErrNotAPKMFile, h.PaddedWidth, h.PaddedHeight, h.Width, h.Height)
	}
	return h, nil
}

// ReadPKM reads a PKM file into an Image.
func ReadPKM(r io.Reader) (*Image, error) {
	h, err := ParsePKM(r)
	if err != nil {
		return nil, err
	}
	img, err := NewImage(h.Width, h.Height, 1, 1, h.Format)
	if err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, img.Data); err != nil {
		return nil, fmt.Errorf("read blocks: %w", err)
	}
	return img, nil
}

// EncodePKMHeader returns the PKM header for img.
func EncodePKMHeader(img *Image) ([]byte, error) {
	code := -1
	for i, f := range pkmFormats {
		if f == img.Format && f != FormatUnknown {
			code = i
			break
		}
	}
	if code < 0 {
		return nil, fmt.Errorf("format %s has no PKM equivalent", img.Format)
	}
	if img.Width > 0xFFFF || img.Height > 0xFFFF {
		return nil, fmt.Errorf("%w: %dx%d too large for PKM", ErrDimensions, img.Width, img.Height)
	}

	buf := make([]byte, PKMHeaderSize)
	copy(buf, PKMMagic)
	buf[4] = '2'
	if img.Format == FormatETC1 {
		buf[4] = '1'
	}
	buf[5] = '0'
	buf[7] = byte(code)
	binary.BigEndian.PutUint16(buf[8:10], uint16((img.Width+3)&^3))
	binary.BigEndian.PutUint16(buf[10:12], uint16((img.Height+3)&^3))
	binary.BigEndian.PutUint16(buf[12:14], uint16(img.Width))
	binary.BigEndian.PutUint16(buf[14:16], uint16(img.Height))
	return buf, nil
}
