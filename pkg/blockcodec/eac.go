package blockcodec

import "encoding/binary"

// eacModifiers is the EAC intensity modifier table, indexed by table index
// and then by the 3-bit texel selector.
var eacModifiers = [16][8]int{
	{-3, -6, -9, -15, 2, 5, 8, 14},
	{-3, -7, -10, -13, 2, 6, 9, 12},
	{-2, -5, -8, -13, 1, 4, 7, 12},
	{-2, -4, -6, -13, 1, 3, 5, 12},
	{-3, -6, -8, -12, 2, 5, 7, 11},
	{-3, -7, -9, -11, 2, 6, 8, 10},
	{-4, -7, -8, -11, 3, 6, 7, 10},
	{-3, -5, -8, -11, 2, 4, 7, 10},
	{-2, -6, -8, -10, 1, 5, 7, 9},
	{-2, -5, -8, -10, 1, 4, 7, 9},
	{-2, -4, -8, -10, 1, 3, 7, 9},
	{-2, -5, -7, -10, 1, 4, 6, 9},
	{-3, -4, -7, -10, 2, 3, 6, 9},
	{-1, -2, -3, -10, 0, 1, 2, 9},
	{-4, -6, -8, -9, 3, 5, 7, 8},
	{-3, -5, -7, -9, 2, 4, 6, 8},
}

// eacBlock is the unpacked header of an 8-byte EAC block. Selectors are
// 3 bits each, stored big-endian from bit 47 down in column-major order.
type eacBlock struct {
	base    int
	mult    int
	table   *[8]int
	payload uint64
}

func readEACBlock(src []byte) eacBlock {
	return eacBlock{
		base:    int(src[0]),
		mult:    int(src[1] >> 4),
		table:   &eacModifiers[src[1]&0xF],
		payload: binary.BigEndian.Uint64(src[:8]),
	}
}

func (b *eacBlock) modifier(i int) int {
	return b.table[(b.payload>>(45-3*uint(i)))&7]
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// decodeR11 writes 16 unsigned 11-bit values widened to 16 bits, one every
// stride bytes in little-endian order.
func decodeR11(src, dst []byte, stride int) {
	b := readEACBlock(src)
	m8 := b.mult * 8
	if m8 == 0 {
		m8 = 1
	}
	for i := 0; i < 16; i++ {
		v := clampInt(b.base*8+4+b.modifier(i)*m8, 0, 2047)
		binary.LittleEndian.PutUint16(dst[etcTexel(i)*stride:], uint16(v<<5|v>>6))
	}
}

// decodeR11Signed writes 16 signed 11-bit values widened to int16. A base
// byte of -128 is decoded as -127 and reported.
func decodeR11Signed(src, dst []byte, stride int) bool {
	b := readEACBlock(src)
	ok := true
	b.base = int(int8(src[0]))
	if b.base == -128 {
		b.base, ok = -127, false
	}
	m8 := b.mult * 8
	if m8 == 0 {
		m8 = 1
	}
	for i := 0; i < 16; i++ {
		v := clampInt(b.base*8+b.modifier(i)*m8, -1023, 1023)
		var out int
		if v >= 0 {
			out = v<<5 | v>>5
		} else {
			out = -((-v)<<5 | (-v)>>5)
		}
		binary.LittleEndian.PutUint16(dst[etcTexel(i)*stride:], uint16(int16(out)))
	}
	return ok
}

// DecodeEACR11 decodes an 8-byte EAC R11 block into 16 little-endian uint16
// texels.
func DecodeEACR11(src, dst []byte) bool {
	_, _ = src[7], dst[31]
	decodeR11(src, dst, 2)
	return true
}

// DecodeEACR11Signed decodes an 8-byte signed EAC R11 block into 16
// little-endian int16 texels.
func DecodeEACR11Signed(src, dst []byte) bool {
	_, _ = src[7], dst[31]
	return decodeR11Signed(src, dst, 2)
}

// DecodeEACRG11 decodes a 16-byte EAC RG11 block into 16 texels of two
// little-endian uint16 values each, R first.
func DecodeEACRG11(src, dst []byte) bool {
	_, _ = src[15], dst[63]
	decodeR11(src[0:8], dst, 4)
	decodeR11(src[8:16], dst[2:], 4)
	return true
}

// DecodeEACRG11Signed is the signed variant of DecodeEACRG11.
func DecodeEACRG11Signed(src, dst []byte) bool {
	_, _ = src[15], dst[63]
	okR := decodeR11Signed(src[0:8], dst, 4)
	okG := decodeR11Signed(src[8:16], dst[2:], 4)
	return okR && okG
}

// DecodeETC2EAC decodes a 16-byte ETC2 RGBA8 block: an 8-bit EAC alpha block
// followed by an ETC2 color block.
func DecodeETC2EAC(src, dst []byte) bool {
	_, _ = src[15], dst[63]
	ok := DecodeETC2(src[8:16], dst)

	a := readEACBlock(src[0:8])
	for i := 0; i < 16; i++ {
		dst[etcTexel(i)*4+3] = ClampToByte(a.base + a.modifier(i)*a.mult)
	}
	return ok
}
