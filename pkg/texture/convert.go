package texture

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
)

// ToImage converts one slice of an uncompressed image into an image.Image
// suitable for encoding with the standard image codecs.
//
// Signed 16-bit channels are biased by 0x8000 so that zero maps to mid-gray.
func (img *Image) ToImage(slice int) (image.Image, error) {
	if img.Format.IsCompressed() {
		return nil, fmt.Errorf("format %s is compressed", img.Format)
	}
	if img.Depth != 1 {
		return nil, fmt.Errorf("volume textures are not supported")
	}
	if slice < 0 || slice >= img.Slices {
		return nil, fmt.Errorf("slice %d out of range [0,%d)", slice, img.Slices)
	}
	if err := img.Check(); err != nil {
		return nil, err
	}

	data := img.SliceData(slice)
	rect := image.Rect(0, 0, img.Width, img.Height)
	n := img.Width * img.Height

	switch img.Format {
	case FormatRGBA8, FormatRGBA8SRGB:
		out := image.NewNRGBA(rect)
		copy(out.Pix, data)
		return out, nil

	case FormatR8:
		out := image.NewGray(rect)
		copy(out.Pix, data)
		return out, nil

	case FormatRG8:
		out := image.NewNRGBA(rect)
		for i := 0; i < n; i++ {
			out.Pix[i*4+0] = data[i*2+0]
			out.Pix[i*4+1] = data[i*2+1]
			out.Pix[i*4+3] = 0xFF
		}
		return out, nil

	case FormatR16, FormatR16Signed:
		out := image.NewGray16(rect)
		bias := uint16(0)
		if img.Format == FormatR16Signed {
			bias = 0x8000
		}
		for i := 0; i < n; i++ {
			v := binary.LittleEndian.Uint16(data[i*2:]) + bias
			out.SetGray16(i%img.Width, i/img.Width, color.Gray16{Y: v})
		}
		return out, nil

	case FormatRG16, FormatRG16Signed:
		out := image.NewNRGBA64(rect)
		bias := uint16(0)
		if img.Format == FormatRG16Signed {
			bias = 0x8000
		}
		for i := 0; i < n; i++ {
			r := binary.LittleEndian.Uint16(data[i*4:]) + bias
			g := binary.LittleEndian.Uint16(data[i*4+2:]) + bias
			out.SetNRGBA64(i%img.Width, i/img.Width, color.NRGBA64{R: r, G: g, A: 0xFFFF})
		}
		return out, nil
	}

	return nil, fmt.Errorf("conversion not implemented for format: %s", img.Format)
}
