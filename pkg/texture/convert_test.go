package texture

import (
	"image"
	"image/color"
	"testing"
)

func TestToImage(t *testing.T) {
	t.Run("RGBA8", func(t *testing.T) {
		img := &Image{Width: 2, Height: 1, Depth: 1, Slices: 2, Format: FormatRGBA8,
			Data: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}}
		out, err := img.ToImage(1)
		if err != nil {
			t.Fatalf("to image: %v", err)
		}
		nrgba, ok := out.(*image.NRGBA)
		if !ok {
			t.Fatalf("expected *image.NRGBA, got %T", out)
		}
		if got := nrgba.NRGBAAt(1, 0); got != (color.NRGBA{13, 14, 15, 16}) {
			t.Errorf("unexpected pixel %v", got)
		}
	})

	t.Run("RG8", func(t *testing.T) {
		img := &Image{Width: 1, Height: 1, Depth: 1, Slices: 1, Format: FormatRG8, Data: []byte{200, 50}}
		out, err := img.ToImage(0)
		if err != nil {
			t.Fatalf("to image: %v", err)
		}
		if got := out.(*image.NRGBA).NRGBAAt(0, 0); got != (color.NRGBA{200, 50, 0, 255}) {
			t.Errorf("unexpected pixel %v", got)
		}
	})

	t.Run("R8", func(t *testing.T) {
		img := &Image{Width: 2, Height: 1, Depth: 1, Slices: 1, Format: FormatR8, Data: []byte{7, 9}}
		out, err := img.ToImage(0)
		if err != nil {
			t.Fatalf("to image: %v", err)
		}
		if got := out.(*image.Gray).GrayAt(1, 0).Y; got != 9 {
			t.Errorf("expected 9, got %d", got)
		}
	})

	t.Run("R16Signed", func(t *testing.T) {
		// -96 and 0 as little-endian int16.
		img := &Image{Width: 2, Height: 1, Depth: 1, Slices: 1, Format: FormatR16Signed, Data: []byte{0xA0, 0xFF, 0x00, 0x00}}
		out, err := img.ToImage(0)
		if err != nil {
			t.Fatalf("to image: %v", err)
		}
		g := out.(*image.Gray16)
		if got := g.Gray16At(0, 0).Y; got != 0x8000-96 {
			t.Errorf("expected %d, got %d", 0x8000-96, got)
		}
		if got := g.Gray16At(1, 0).Y; got != 0x8000 {
			t.Errorf("expected %d, got %d", 0x8000, got)
		}
	})

	t.Run("RG16", func(t *testing.T) {
		img := &Image{Width: 1, Height: 1, Depth: 1, Slices: 1, Format: FormatRG16, Data: []byte{0x90, 0x80, 0x20, 0x00}}
		out, err := img.ToImage(0)
		if err != nil {
			t.Fatalf("to image: %v", err)
		}
		got := out.(*image.NRGBA64).NRGBA64At(0, 0)
		if got != (color.NRGBA64{R: 0x8090, G: 0x0020, A: 0xFFFF}) {
			t.Errorf("unexpected pixel %v", got)
		}
	})

	t.Run("Errors", func(t *testing.T) {
		compressed, _ := NewImage(4, 4, 1, 1, FormatBC1)
		if _, err := compressed.ToImage(0); err == nil {
			t.Error("expected error for compressed image")
		}

		rgba, _ := NewImage(4, 4, 1, 1, FormatRGBA8)
		if _, err := rgba.ToImage(1); err == nil {
			t.Error("expected error for slice out of range")
		}
	})
}
