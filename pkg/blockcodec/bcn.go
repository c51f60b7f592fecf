package blockcodec

import "encoding/binary"

// unpack565 expands a packed RGB565 color to 8 bits per channel.
func unpack565(c uint16) (r, g, b uint32) {
	r = uint32(ReplicateLowBitsToByte(uint32(c>>11)&0x1F, 5))
	g = uint32(ReplicateLowBitsToByte(uint32(c>>5)&0x3F, 6))
	b = uint32(ReplicateLowBitsToByte(uint32(c)&0x1F, 5))
	return
}

// decodeColorBlock decodes the 8-byte BC1 color sub-block into 16 RGBA
// texels. With punchthrough set, c0 <= c1 selects the 3-color mode with
// transparent black at index 3.
func decodeColorBlock(src, dst []byte, punchthrough bool) {
	c0 := binary.LittleEndian.Uint16(src[0:])
	c1 := binary.LittleEndian.Uint16(src[2:])
	r0, g0, b0 := unpack565(c0)
	r1, g1, b1 := unpack565(c1)

	var palette [4][4]uint8
	palette[0] = [4]uint8{uint8(r0), uint8(g0), uint8(b0), 255}
	palette[1] = [4]uint8{uint8(r1), uint8(g1), uint8(b1), 255}
	if !punchthrough || c0 > c1 {
		palette[2] = [4]uint8{
			uint8((2*r0 + r1 + 1) / 3),
			uint8((2*g0 + g1 + 1) / 3),
			uint8((2*b0 + b1 + 1) / 3),
			255,
		}
		palette[3] = [4]uint8{
			uint8((2*r1 + r0 + 1) / 3),
			uint8((2*g1 + g0 + 1) / 3),
			uint8((2*b1 + b0 + 1) / 3),
			255,
		}
	} else {
		palette[2] = [4]uint8{uint8((r0 + r1) / 2), uint8((g0 + g1) / 2), uint8((b0 + b1) / 2), 255}
	}

	c := NewBitCursor(src[:8])
	c.Seek(32)
	for i := 0; i < 16; i++ {
		copy(dst[i*4:i*4+4], palette[c.TakeBits(2)][:])
	}
}

// decodeExplicitAlpha writes 16 explicit 4-bit alpha values, one every pitch
// bytes.
func decodeExplicitAlpha(src, dst []byte, pitch int) {
	c := NewBitCursor(src[:8])
	for i := 0; i < 16; i++ {
		v := uint8(c.TakeBits(4))
		dst[i*pitch] = v<<4 | v
	}
}

// decodeInterpolatedAlpha writes 16 ramp-interpolated 8-bit values, one every
// pitch bytes.
func decodeInterpolatedAlpha(src, dst []byte, pitch int) {
	ramp := ExpandAlphaRamp8(src[0], src[1])
	c := NewBitCursor(src[:8])
	c.Seek(16)
	for i := 0; i < 16; i++ {
		dst[i*pitch] = ramp[c.TakeBits(3)]
	}
}

// DecodeBC1 decodes an 8-byte BC1 block into 64 bytes of RGBA8.
func DecodeBC1(src, dst []byte) bool {
	_, _ = src[7], dst[63]
	decodeColorBlock(src, dst, true)
	return true
}

// DecodeBC2 decodes a 16-byte BC2 block into 64 bytes of RGBA8.
func DecodeBC2(src, dst []byte) bool {
	_, _ = src[15], dst[63]
	decodeColorBlock(src[8:16], dst, false)
	decodeExplicitAlpha(src[0:8], dst[3:], 4)
	return true
}

// DecodeBC3 decodes a 16-byte BC3 block into 64 bytes of RGBA8.
func DecodeBC3(src, dst []byte) bool {
	_, _ = src[15], dst[63]
	decodeColorBlock(src[8:16], dst, false)
	decodeInterpolatedAlpha(src[0:8], dst[3:], 4)
	return true
}

// DecodeBC4 decodes an 8-byte BC4 block into 16 bytes of R8.
func DecodeBC4(src, dst []byte) bool {
	_, _ = src[7], dst[15]
	decodeInterpolatedAlpha(src[0:8], dst, 1)
	return true
}

// DecodeBC5 decodes a 16-byte BC5 block into 32 bytes of RG8.
func DecodeBC5(src, dst []byte) bool {
	_, _ = src[15], dst[31]
	decodeInterpolatedAlpha(src[0:8], dst, 2)
	decodeInterpolatedAlpha(src[8:16], dst[1:], 2)
	return true
}
