package texture

import (
	"errors"
	"testing"
)

func TestFormatName(t *testing.T) {
	tests := []struct {
		format   uint32
		expected string
	}{
		{DXGI_FORMAT_BC1_UNORM, "BC1"},
		{DXGI_FORMAT_BC3_UNORM, "BC3"},
		{DXGI_FORMAT_BC4_SNORM, "BC4_SNORM"},
		{DXGI_FORMAT_BC7_UNORM, "BC7"},
		{DXGI_FORMAT_BC7_UNORM_SRGB, "BC7_SRGB"},
		{DXGI_FORMAT_R8G8B8A8_UNORM, "RGBA8"},
		{9999, "UNKNOWN(0x270f)"},
	}

	for _, tt := range tests {
		name := FormatName(tt.format)
		if name != tt.expected {
			t.Errorf("Format %d: expected %s, got %s", tt.format, tt.expected, name)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(f.String())
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", f, err)
			continue
		}
		if got != f {
			t.Errorf("ParseFormat(%q): expected %d, got %d", f, f, got)
		}
	}

	if f, err := ParseFormat("etc2_rgba8"); err != nil || f != FormatETC2RGBA8 {
		t.Errorf("expected case-insensitive match, got %v, %v", f, err)
	}
	if _, err := ParseFormat("BC9"); err == nil {
		t.Error("expected error for unknown name")
	}
}

func TestFormatProperties(t *testing.T) {
	tests := []struct {
		format     Format
		compressed bool
		srgb       bool
		blockW     int
		blockH     int
		blockBytes int
	}{
		{FormatRGBA8, false, false, 1, 1, 4},
		{FormatR16Signed, false, false, 1, 1, 2},
		{FormatBC1, true, false, 4, 4, 8},
		{FormatBC3SRGB, true, true, 4, 4, 16},
		{FormatETC2RGBA1, true, false, 4, 4, 8},
		{FormatEACRG11, true, false, 4, 4, 16},
		{FormatASTC6x6, true, false, 6, 6, 16},
		{FormatPVRTC2, true, false, 8, 4, 8},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if tt.format.IsCompressed() != tt.compressed {
				t.Errorf("expected compressed=%v", tt.compressed)
			}
			if tt.format.IsSRGB() != tt.srgb {
				t.Errorf("expected srgb=%v", tt.srgb)
			}
			w, h := tt.format.BlockDims()
			if w != tt.blockW || h != tt.blockH {
				t.Errorf("expected %dx%d blocks, got %dx%d", tt.blockW, tt.blockH, w, h)
			}
			if tt.format.BlockBytes() != tt.blockBytes {
				t.Errorf("expected %d block bytes, got %d", tt.blockBytes, tt.format.BlockBytes())
			}
		})
	}

	if FormatUnknown.Valid() || Format(0xFFFF).Valid() {
		t.Error("expected unknown formats to be invalid")
	}
	if Format(0xFFFF).String() != "UNKNOWN(65535)" {
		t.Errorf("unexpected name %q", Format(0xFFFF).String())
	}
}

func TestFormatFromDXGI(t *testing.T) {
	f, ok := FormatFromDXGI(DXGI_FORMAT_BC5_UNORM)
	if !ok || f != FormatBC5 {
		t.Errorf("expected BC5, got %v (%v)", f, ok)
	}
	if _, ok := FormatFromDXGI(DXGI_FORMAT_UNKNOWN); ok {
		t.Error("expected no mapping for DXGI_FORMAT_UNKNOWN")
	}
}

func TestImageSize(t *testing.T) {
	tests := []struct {
		w, h, d, s int
		format     Format
		expected   int64
	}{
		// BC1: 8 bytes per block
		{512, 512, 1, 1, FormatBC1, 128 * 128 * 8},
		// BC7: 16 bytes per block
		{512, 512, 1, 1, FormatBC7, 128 * 128 * 16},
		// Non-multiple of 4 (rounds up)
		{513, 513, 1, 1, FormatBC7, 129 * 129 * 16},
		{5, 3, 1, 6, FormatETC1, 2 * 1 * 8 * 6},
		{3, 3, 2, 1, FormatRGBA8, 3 * 3 * 4 * 2},
	}

	for _, tt := range tests {
		size, err := ImageSize(tt.w, tt.h, tt.d, tt.s, tt.format)
		if err != nil {
			t.Errorf("%dx%d %s: %v", tt.w, tt.h, tt.format, err)
			continue
		}
		if size != tt.expected {
			t.Errorf("%dx%d %s: expected %d, got %d", tt.w, tt.h, tt.format, tt.expected, size)
		}
	}

	if _, err := ImageSize(0, 4, 1, 1, FormatBC1); !errors.Is(err, ErrDimensions) {
		t.Errorf("expected ErrDimensions, got %v", err)
	}
	if _, err := ImageSize(1<<30, 1<<30, 1<<30, 1<<30, FormatRGBA8); !errors.Is(err, ErrAllocation) {
		t.Errorf("expected ErrAllocation on overflow, got %v", err)
	}
}

func TestAllocate(t *testing.T) {
	img, err := Allocate(8, 8, 1, 2, FormatBC1, 0)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(img.Data) != 64 {
		t.Errorf("expected 64 bytes, got %d", len(img.Data))
	}
	if err := img.Check(); err != nil {
		t.Errorf("check: %v", err)
	}

	if _, err := Allocate(1024, 1024, 1, 1, FormatRGBA8, 1024); !errors.Is(err, ErrAllocation) {
		t.Errorf("expected ErrAllocation, got %v", err)
	}
}

func TestImageAddressing(t *testing.T) {
	img, err := NewImage(10, 6, 1, 3, FormatBC1)
	if err != nil {
		t.Fatalf("new image: %v", err)
	}

	if img.BlocksWide() != 3 || img.BlocksHigh() != 2 {
		t.Errorf("expected 3x2 blocks, got %dx%d", img.BlocksWide(), img.BlocksHigh())
	}
	if img.RowPitch() != 24 {
		t.Errorf("expected row pitch 24, got %d", img.RowPitch())
	}
	if img.SliceSize() != 48 {
		t.Errorf("expected slice size 48, got %d", img.SliceSize())
	}
	if got := img.BlockIndex(2, 1, 2); got != 17 {
		t.Errorf("expected block index 17, got %d", got)
	}
	if got := img.BlockOffset(2, 1, 2); got != 136 {
		t.Errorf("expected block offset 136, got %d", got)
	}
	if len(img.SliceData(2)) != 48 {
		t.Errorf("expected 48 bytes of slice data, got %d", len(img.SliceData(2)))
	}

	img.Data = img.Data[:10]
	if err := img.Check(); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("expected ErrSizeMismatch, got %v", err)
	}
}
