package texture

import (
	"encoding/binary"
	"fmt"
	"io"
)

// DDS header constants
const (
	DDS_MAGIC                    = 0x20534444 // "DDS "
	DDS_HEADER_SIZE              = 124
	DDS_HEADER_FLAGS_CAPS        = 0x1
	DDS_HEADER_FLAGS_HEIGHT      = 0x2
	DDS_HEADER_FLAGS_WIDTH       = 0x4
	DDS_HEADER_FLAGS_PITCH       = 0x8
	DDS_HEADER_FLAGS_PIXELFORMAT = 0x1000
	DDS_HEADER_FLAGS_MIPMAPCOUNT = 0x20000
	DDS_HEADER_FLAGS_LINEARSIZE  = 0x80000
	DDS_HEADER_FLAGS_DEPTH       = 0x800000

	DDS_SURFACE_FLAGS_TEXTURE = 0x1000
	DDS_SURFACE_FLAGS_MIPMAP  = 0x400000
	DDS_SURFACE_FLAGS_CUBEMAP = 0x200

	DDS_CUBEMAP_ALLFACES = 0xFE00

	DDS_PIXELFORMAT_SIZE = 32
	DDS_FOURCC           = 0x4

	DX10_FOURCC = 0x30315844 // "DX10"

	DDS_DIMENSION_TEXTURE2D = 3
	DDS_DIMENSION_TEXTURE3D = 4
	DDS_RESOURCE_MISC_CUBE  = 0x4
)

// DDSHeader represents the main DDS file header (magic + 124 bytes).
type DDSHeader struct {
	Magic             uint32
	Size              uint32
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	Reserved1         [11]uint32
	PixelFormat       DDSPixelFormat
	Caps              uint32
	Caps2             uint32
	Caps3             uint32
	Caps4             uint32
	Reserved2         uint32
}

// DDSPixelFormat describes the pixel format (32 bytes).
type DDSPixelFormat struct {
	Size        uint32
	Flags       uint32
	FourCC      [4]byte
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

// DDSDX10Header is the extended header for DX10+ formats (20 bytes).
type DDSDX10Header struct {
	DXGIFormat        uint32
	ResourceDimension uint32
	MiscFlag          uint32
	ArraySize         uint32
	MiscFlags2        uint32
}

// DDSInfo describes a parsed DDS file.
type DDSInfo struct {
	Header     DDSHeader
	DX10       *DDSDX10Header
	Width      int
	Height     int
	Depth      int
	Slices     int
	MipLevels  int
	Format     Format
	DataOffset int64
}

var legacyFourCC = map[string]Format{
	"DXT1": FormatBC1,
	"DXT2": FormatBC2,
	"DXT3": FormatBC2,
	"DXT4": FormatBC3,
	"DXT5": FormatBC3,
	"ATI1": FormatBC4,
	"BC4U": FormatBC4,
	"ATI2": FormatBC5,
	"BC5U": FormatBC5,
}

// ParseDDS reads and parses a DDS header, leaving r positioned at the first
// byte of pixel data.
func ParseDDS(r io.Reader) (*DDSInfo, error) {
	info := &DDSInfo{}
	if err := binary.Read(r, binary.LittleEndian, &info.Header); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := &info.Header

	if h.Magic != DDS_MAGIC {
		return nil, fmt.Errorf("invalid DDS magic: 0x%08x", h.Magic)
	}
	if h.Size != DDS_HEADER_SIZE {
		return nil, fmt.Errorf("invalid DDS header size: %d", h.Size)
	}

	info.Width = int(h.Width)
	info.Height = int(h.Height)
	info.Depth = 1
	info.Slices = 1
	info.MipLevels = int(h.MipMapCount)
	if info.MipLevels == 0 {
		info.MipLevels = 1
	}
	if h.Flags&DDS_HEADER_FLAGS_DEPTH != 0 && h.Depth > 1 {
		info.Depth = int(h.Depth)
	}
	if h.Caps2&DDS_SURFACE_FLAGS_CUBEMAP != 0 {
		info.Slices = 6
	}

	fourCC := string(h.PixelFormat.FourCC[:])
	if h.PixelFormat.Flags&DDS_FOURCC == 0 {
		return nil, fmt.Errorf("uncompressed DDS pixel formats are not supported")
	}

	if fourCC == "DX10" {
		var dx10 DDSDX10Header
		if err := binary.Read(r, binary.LittleEndian, &dx10); err != nil {
			return nil, fmt.Errorf("read DX10 header: %w", err)
		}
		info.DX10 = &dx10
		info.DataOffset = 4 + DDS_HEADER_SIZE + 20

		format, ok := FormatFromDXGI(dx10.DXGIFormat)
		if !ok {
			return nil, fmt.Errorf("unsupported DXGI format: %s", FormatName(dx10.DXGIFormat))
		}
		info.Format = format

		if dx10.ArraySize > 1 {
			info.Slices = int(dx10.ArraySize)
		}
		if dx10.MiscFlag&DDS_RESOURCE_MISC_CUBE != 0 {
			info.Slices = 6 * max(1, int(dx10.ArraySize))
		}
		if dx10.ResourceDimension != DDS_DIMENSION_TEXTURE3D {
			info.Depth = 1
		}
	} else {
		format, ok := legacyFourCC[fourCC]
		if !ok {
			return nil, fmt.Errorf("unsupported fourCC: %q", fourCC)
		}
		info.Format = format
		info.DataOffset = 4 + DDS_HEADER_SIZE
	}

	if info.Width == 0 || info.Height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, info.Width, info.Height)
	}

	return info, nil
}

// mipChainSize returns the byte size of a full mip chain for one slice.
func mipChainSize(width, height, depth, mipLevels int, format Format) int64 {
	var total int64
	for i := 0; i < mipLevels; i++ {
		w := max(1, width>>i)
		h := max(1, height>>i)
		d := max(1, depth>>i)
		size, err := ImageSize(w, h, d, 1, format)
		if err != nil {
			break
		}
		total += size
	}
	return total
}

// ReadDDS reads a DDS file into an Image holding the top mip level of every
// slice.
func ReadDDS(r io.Reader) (*Image, error) {
	info, err := ParseDDS(r)
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	img, err := NewImage(info.Width, info.Height, info.Depth, info.Slices, info.Format)
	if err != nil {
		return nil, err
	}

	sliceSize := img.SliceSize()
	chainSize := mipChainSize(info.Width, info.Height, info.Depth, info.MipLevels, info.Format)
	for s := 0; s < info.Slices; s++ {
		if _, err := io.ReadFull(r, img.Data[s*sliceSize:(s+1)*sliceSize]); err != nil {
			return nil, fmt.Errorf("read slice %d: %w", s, err)
		}
		if s == info.Slices-1 {
			break
		}
		if _, err := io.CopyN(io.Discard, r, chainSize-int64(sliceSize)); err != nil {
			return nil, fmt.Errorf("skip mips of slice %d: %w", s, err)
		}
	}

	return img, nil
}

// EncodeDDS writes img as a single-mip DDS file with a DX10 header.
func EncodeDDS(w io.Writer, img *Image) error {
	if img.Format.DXGI() == DXGI_FORMAT_UNKNOWN {
		return fmt.Errorf("format %s has no DXGI equivalent", img.Format)
	}
	if img.Depth > 1 {
		return fmt.Errorf("volume textures are not supported")
	}
	if err := img.Check(); err != nil {
		return err
	}

	if _, err := w.Write(createDDSHeader(img)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := w.Write(img.Data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return nil
}

// createDDSHeader creates a complete DDS header with DX10 extension.
func createDDSHeader(img *Image) []byte {
	// DDS file = 4 bytes magic + 124 bytes header + 20 bytes DX10 extension + data
	header := make([]byte, 4+DDS_HEADER_SIZE+20)

	binary.LittleEndian.PutUint32(header[0:4], DDS_MAGIC)
	offset := 4

	binary.LittleEndian.PutUint32(header[offset:offset+4], DDS_HEADER_SIZE)
	offset += 4

	flags := uint32(DDS_HEADER_FLAGS_CAPS | DDS_HEADER_FLAGS_HEIGHT | DDS_HEADER_FLAGS_WIDTH |
		DDS_HEADER_FLAGS_PIXELFORMAT)
	if img.Format.IsCompressed() {
		flags |= DDS_HEADER_FLAGS_LINEARSIZE
	} else {
		flags |= DDS_HEADER_FLAGS_PITCH
	}
	binary.LittleEndian.PutUint32(header[offset:offset+4], flags)
	offset += 4

	binary.LittleEndian.PutUint32(header[offset:offset+4], uint32(img.Height))
	offset += 4

	binary.LittleEndian.PutUint32(header[offset:offset+4], uint32(img.Width))
	offset += 4

	// dwPitchOrLinearSize
	pitch := uint32(img.RowPitch())
	if img.Format.IsCompressed() {
		pitch = uint32(img.SliceSize())
	}
	binary.LittleEndian.PutUint32(header[offset:offset+4], pitch)
	offset += 4

	// dwDepth
	offset += 4

	// dwMipMapCount
	binary.LittleEndian.PutUint32(header[offset:offset+4], 1)
	offset += 4

	// dwReserved1[11]
	offset += 44

	binary.LittleEndian.PutUint32(header[offset:offset+4], DDS_PIXELFORMAT_SIZE)
	offset += 4
	binary.LittleEndian.PutUint32(header[offset:offset+4], DDS_FOURCC)
	offset += 4
	binary.LittleEndian.PutUint32(header[offset:offset+4], DX10_FOURCC)
	offset += 4

	// dwRGBBitCount and the four masks are zero for DX10
	offset += 20

	binary.LittleEndian.PutUint32(header[offset:offset+4], DDS_SURFACE_FLAGS_TEXTURE)
	offset += 4

	// dwCaps2, dwCaps3, dwCaps4, dwReserved2
	offset += 16

	binary.LittleEndian.PutUint32(header[offset:offset+4], img.Format.DXGI())
	offset += 4
	binary.LittleEndian.PutUint32(header[offset:offset+4], DDS_DIMENSION_TEXTURE2D)
	offset += 4
	// miscFlag
	offset += 4
	binary.LittleEndian.PutUint32(header[offset:offset+4], uint32(img.Slices))

	return header
}
