// Package texture provides the image model shared by the block decoders:
// pixel formats, image views over raw storage, and readers for the containers
// compressed textures usually ship in.
//
// Compressed formats are addressed in blocks (commonly 4x4 texels). Uncompressed
// formats are addressed as 1x1 blocks, so the same addressing helpers serve
// both sides of a decompress call.
package texture

import (
	"fmt"
	"strings"
)

// DXGI_FORMAT constants for the formats that map onto Format.
const (
	DXGI_FORMAT_UNKNOWN             = 0
	DXGI_FORMAT_R16G16_UNORM        = 35
	DXGI_FORMAT_R16G16_SNORM        = 37
	DXGI_FORMAT_R8G8_UNORM          = 49
	DXGI_FORMAT_R16_UNORM           = 56
	DXGI_FORMAT_R16_SNORM           = 58
	DXGI_FORMAT_R8_UNORM            = 61
	DXGI_FORMAT_BC1_UNORM           = 71
	DXGI_FORMAT_BC1_UNORM_SRGB      = 72
	DXGI_FORMAT_BC2_UNORM           = 74
	DXGI_FORMAT_BC2_UNORM_SRGB      = 75
	DXGI_FORMAT_BC3_UNORM           = 77
	DXGI_FORMAT_BC3_UNORM_SRGB      = 78
	DXGI_FORMAT_BC4_UNORM           = 80
	DXGI_FORMAT_BC4_SNORM           = 81
	DXGI_FORMAT_BC5_UNORM           = 83
	DXGI_FORMAT_BC5_SNORM           = 84
	DXGI_FORMAT_BC6H_UF16           = 95
	DXGI_FORMAT_BC6H_SF16           = 96
	DXGI_FORMAT_BC7_UNORM           = 98
	DXGI_FORMAT_BC7_UNORM_SRGB      = 99
	DXGI_FORMAT_R8G8B8A8_UNORM      = 28
	DXGI_FORMAT_R8G8B8A8_UNORM_SRGB = 29
)

// Format identifies a pixel format, compressed or not.
type Format uint16

const (
	FormatUnknown Format = iota

	// Uncompressed destination formats.
	FormatR8
	FormatRG8
	FormatRGBA8
	FormatRGBA8SRGB
	FormatR16
	FormatR16Signed
	FormatRG16
	FormatRG16Signed

	// Block-compressed formats.
	FormatBC1
	FormatBC1SRGB
	FormatBC2
	FormatBC2SRGB
	FormatBC3
	FormatBC3SRGB
	FormatBC4
	FormatBC5
	FormatBC6H
	FormatBC6HSigned
	FormatBC7
	FormatBC7SRGB
	FormatETC1
	FormatETC2RGB
	FormatETC2SRGB
	FormatETC2RGBA1
	FormatETC2SRGBA1
	FormatETC2RGBA8
	FormatETC2SRGBA8
	FormatEACR11
	FormatEACR11Signed
	FormatEACRG11
	FormatEACRG11Signed
	FormatASTC4x4
	FormatASTC6x6
	FormatASTC8x8
	FormatPVRTC2
	FormatPVRTC4

	formatCount
)

// formatInfo holds the static layout of a format. For uncompressed formats
// the block is a single pixel and blockBytes is the pixel size.
type formatInfo struct {
	name       string
	compressed bool
	blockW     int
	blockH     int
	blockBytes int
	srgb       bool
	dxgi       uint32
}

var formats = [formatCount]formatInfo{
	FormatUnknown: {name: "UNKNOWN"},

	FormatR8:         {name: "R8", blockW: 1, blockH: 1, blockBytes: 1, dxgi: DXGI_FORMAT_R8_UNORM},
	FormatRG8:        {name: "RG8", blockW: 1, blockH: 1, blockBytes: 2, dxgi: DXGI_FORMAT_R8G8_UNORM},
	FormatRGBA8:      {name: "RGBA8", blockW: 1, blockH: 1, blockBytes: 4, dxgi: DXGI_FORMAT_R8G8B8A8_UNORM},
	FormatRGBA8SRGB:  {name: "RGBA8_SRGB", blockW: 1, blockH: 1, blockBytes: 4, srgb: true, dxgi: DXGI_FORMAT_R8G8B8A8_UNORM_SRGB},
	FormatR16:        {name: "R16", blockW: 1, blockH: 1, blockBytes: 2, dxgi: DXGI_FORMAT_R16_UNORM},
	FormatR16Signed:  {name: "R16_SIGNED", blockW: 1, blockH: 1, blockBytes: 2, dxgi: DXGI_FORMAT_R16_SNORM},
	FormatRG16:       {name: "RG16", blockW: 1, blockH: 1, blockBytes: 4, dxgi: DXGI_FORMAT_R16G16_UNORM},
	FormatRG16Signed: {name: "RG16_SIGNED", blockW: 1, blockH: 1, blockBytes: 4, dxgi: DXGI_FORMAT_R16G16_SNORM},

	FormatBC1:           {name: "BC1", compressed: true, blockW: 4, blockH: 4, blockBytes: 8, dxgi: DXGI_FORMAT_BC1_UNORM},
	FormatBC1SRGB:       {name: "BC1_SRGB", compressed: true, blockW: 4, blockH: 4, blockBytes: 8, srgb: true, dxgi: DXGI_FORMAT_BC1_UNORM_SRGB},
	FormatBC2:           {name: "BC2", compressed: true, blockW: 4, blockH: 4, blockBytes: 16, dxgi: DXGI_FORMAT_BC2_UNORM},
	FormatBC2SRGB:       {name: "BC2_SRGB", compressed: true, blockW: 4, blockH: 4, blockBytes: 16, srgb: true, dxgi: DXGI_FORMAT_BC2_UNORM_SRGB},
	FormatBC3:           {name: "BC3", compressed: true, blockW: 4, blockH: 4, blockBytes: 16, dxgi: DXGI_FORMAT_BC3_UNORM},
	FormatBC3SRGB:       {name: "BC3_SRGB", compressed: true, blockW: 4, blockH: 4, blockBytes: 16, srgb: true, dxgi: DXGI_FORMAT_BC3_UNORM_SRGB},
	FormatBC4:           {name: "BC4", compressed: true, blockW: 4, blockH: 4, blockBytes: 8, dxgi: DXGI_FORMAT_BC4_UNORM},
	FormatBC5:           {name: "BC5", compressed: true, blockW: 4, blockH: 4, blockBytes: 16, dxgi: DXGI_FORMAT_BC5_UNORM},
	FormatBC6H:          {name: "BC6H", compressed: true, blockW: 4, blockH: 4, blockBytes: 16, dxgi: DXGI_FORMAT_BC6H_UF16},
	FormatBC6HSigned:    {name: "BC6H_SIGNED", compressed: true, blockW: 4, blockH: 4, blockBytes: 16, dxgi: DXGI_FORMAT_BC6H_SF16},
	FormatBC7:           {name: "BC7", compressed: true, blockW: 4, blockH: 4, blockBytes: 16, dxgi: DXGI_FORMAT_BC7_UNORM},
	FormatBC7SRGB:       {name: "BC7_SRGB", compressed: true, blockW: 4, blockH: 4, blockBytes: 16, srgb: true, dxgi: DXGI_FORMAT_BC7_UNORM_SRGB},
	FormatETC1:          {name: "ETC1", compressed: true, blockW: 4, blockH: 4, blockBytes: 8},
	FormatETC2RGB:       {name: "ETC2_RGB", compressed: true, blockW: 4, blockH: 4, blockBytes: 8},
	FormatETC2SRGB:      {name: "ETC2_SRGB", compressed: true, blockW: 4, blockH: 4, blockBytes: 8, srgb: true},
	FormatETC2RGBA1:     {name: "ETC2_RGBA1", compressed: true, blockW: 4, blockH: 4, blockBytes: 8},
	FormatETC2SRGBA1:    {name: "ETC2_SRGBA1", compressed: true, blockW: 4, blockH: 4, blockBytes: 8, srgb: true},
	FormatETC2RGBA8:     {name: "ETC2_RGBA8", compressed: true, blockW: 4, blockH: 4, blockBytes: 16},
	FormatETC2SRGBA8:    {name: "ETC2_SRGBA8", compressed: true, blockW: 4, blockH: 4, blockBytes: 16, srgb: true},
	FormatEACR11:        {name: "EAC_R11", compressed: true, blockW: 4, blockH: 4, blockBytes: 8},
	FormatEACR11Signed:  {name: "EAC_R11_SIGNED", compressed: true, blockW: 4, blockH: 4, blockBytes: 8},
	FormatEACRG11:       {name: "EAC_RG11", compressed: true, blockW: 4, blockH: 4, blockBytes: 16},
	FormatEACRG11Signed: {name: "EAC_RG11_SIGNED", compressed: true, blockW: 4, blockH: 4, blockBytes: 16},
	FormatASTC4x4:       {name: "ASTC_4x4", compressed: true, blockW: 4, blockH: 4, blockBytes: 16},
	FormatASTC6x6:       {name: "ASTC_6x6", compressed: true, blockW: 6, blockH: 6, blockBytes: 16},
	FormatASTC8x8:       {name: "ASTC_8x8", compressed: true, blockW: 8, blockH: 8, blockBytes: 16},
	FormatPVRTC2:        {name: "PVRTC_2BPP", compressed: true, blockW: 8, blockH: 4, blockBytes: 8},
	FormatPVRTC4:        {name: "PVRTC_4BPP", compressed: true, blockW: 4, blockH: 4, blockBytes: 8},
}

func (f Format) info() formatInfo {
	if int(f) >= len(formats) {
		return formats[FormatUnknown]
	}
	return formats[f]
}

// Valid reports whether f names a known format.
func (f Format) Valid() bool {
	return f != FormatUnknown && int(f) < len(formats)
}

// String returns the canonical format name.
func (f Format) String() string {
	if int(f) >= len(formats) {
		return fmt.Sprintf("UNKNOWN(%d)", uint16(f))
	}
	return formats[f].name
}

// IsCompressed reports whether f is a block-compressed format.
func (f Format) IsCompressed() bool { return f.info().compressed }

// IsSRGB reports whether f carries the sRGB tag.
func (f Format) IsSRGB() bool { return f.info().srgb }

// BlockDims returns the block footprint in texels (1x1 for uncompressed formats).
func (f Format) BlockDims() (w, h int) {
	i := f.info()
	return i.blockW, i.blockH
}

// BlockBytes returns the size of one block in bytes (the pixel size for
// uncompressed formats).
func (f Format) BlockBytes() int { return f.info().blockBytes }

// DXGI returns the DXGI_FORMAT value for f, or DXGI_FORMAT_UNKNOWN.
func (f Format) DXGI() uint32 { return f.info().dxgi }

// Formats returns every known format in declaration order.
func Formats() []Format {
	out := make([]Format, 0, formatCount-1)
	for f := FormatUnknown + 1; f < formatCount; f++ {
		out = append(out, f)
	}
	return out
}

// ParseFormat looks up a format by name, ignoring case.
func ParseFormat(name string) (Format, error) {
	for f := FormatUnknown + 1; f < formatCount; f++ {
		if strings.EqualFold(formats[f].name, name) {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unknown format %q", name)
}

// FormatFromDXGI maps a DXGI_FORMAT value onto a Format.
func FormatFromDXGI(dxgi uint32) (Format, bool) {
	if dxgi == DXGI_FORMAT_UNKNOWN {
		return FormatUnknown, false
	}
	for f := FormatUnknown + 1; f < formatCount; f++ {
		if formats[f].dxgi == dxgi {
			return f, true
		}
	}
	return FormatUnknown, false
}

// FormatName returns a human-readable name for a DXGI_FORMAT value.
func FormatName(dxgi uint32) string {
	switch dxgi {
	case DXGI_FORMAT_BC4_SNORM:
		return "BC4_SNORM"
	case DXGI_FORMAT_BC5_SNORM:
		return "BC5_SNORM"
	}
	if f, ok := FormatFromDXGI(dxgi); ok {
		return f.String()
	}
	return fmt.Sprintf("UNKNOWN(0x%x)", dxgi)
}
