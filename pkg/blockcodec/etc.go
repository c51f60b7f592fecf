package blockcodec

import "encoding/binary"

// Intensity modifiers for ETC1 and opaque ETC2 blocks, indexed by table
// codeword and then by selector (msb<<1 | lsb).
var etc1Modifiers = [8][4]int{
	{2, 8, -2, -8},
	{5, 17, -5, -17},
	{9, 29, -9, -29},
	{13, 42, -13, -42},
	{18, 60, -18, -60},
	{24, 80, -24, -80},
	{33, 106, -33, -106},
	{47, 183, -47, -183},
}

// Modifiers for non-opaque punchthrough blocks. Selector 2 is transparent.
var etc2PunchthroughModifiers = [8][4]int{
	{0, 8, 0, -8},
	{0, 17, 0, -17},
	{0, 29, 0, -29},
	{0, 42, 0, -42},
	{0, 60, 0, -60},
	{0, 80, 0, -80},
	{0, 106, 0, -106},
	{0, 183, 0, -183},
}

var etc2Distances = [8]int{3, 6, 11, 16, 23, 32, 41, 64}

const (
	etc2ModeDifferential = iota
	etc2ModeT
	etc2ModeH
	etc2ModePlanar
)

// etcTexel maps a column-major ETC texel number (x*4+y) to its row-major
// output index.
func etcTexel(i int) int {
	return (i&3)*4 + i>>2
}

// etcSelector returns the 2-bit selector of texel i from the big-endian
// selector word in bytes 4..7: msb plane in the high half, lsb in the low.
func etcSelector(sel uint32, i int) int {
	return int((sel>>(16+i))&1)<<1 | int((sel>>i)&1)
}

func etcDelta(v byte) int {
	d := int(v & 7)
	if d >= 4 {
		d -= 8
	}
	return d
}

func putRGBA(dst []byte, r, g, b, a uint8) {
	dst[0], dst[1], dst[2], dst[3] = r, g, b, a
}

// etc2Mode selects the ETC2 mode of a block with the diff bit set by checking
// for 5-bit overflow in R, then G, then B.
func etc2Mode(src []byte) int {
	for ch := 0; ch < 3; ch++ {
		s := int(src[ch]>>3) + etcDelta(src[ch])
		if s < 0 || s > 31 {
			return etc2ModeT + ch
		}
	}
	return etc2ModeDifferential
}

// etcDifferentialBase returns the two subblock base colors of a differential
// block. An out-of-range second color is clamped and reported.
func etcDifferentialBase(src []byte) (base [2][3]int, ok bool) {
	ok = true
	for ch := 0; ch < 3; ch++ {
		b := int(src[ch] >> 3)
		s := b + etcDelta(src[ch])
		if s < 0 {
			s, ok = 0, false
		} else if s > 31 {
			s, ok = 31, false
		}
		base[0][ch] = int(ReplicateLowBitsToByte(uint32(b), 5))
		base[1][ch] = int(ReplicateLowBitsToByte(uint32(s), 5))
	}
	return base, ok
}

func etcIndividualBase(src []byte) (base [2][3]int) {
	for ch := 0; ch < 3; ch++ {
		base[0][ch] = int(ReplicateLowBitsToByte(uint32(src[ch]>>4), 4))
		base[1][ch] = int(ReplicateLowBitsToByte(uint32(src[ch]&0xF), 4))
	}
	return base
}

// decodeETCSubblocks writes a two-subblock block. With punchthrough set,
// selector 2 produces transparent black.
func decodeETCSubblocks(src, dst []byte, base [2][3]int, mods *[8][4]int, punchthrough bool) {
	flip := src[3]&1 != 0
	tables := [2]int{int(src[3]>>5) & 7, int(src[3]>>2) & 7}
	sel := binary.BigEndian.Uint32(src[4:8])

	for i := 0; i < 16; i++ {
		x, y := i>>2, i&3
		sub := 0
		if (flip && y >= 2) || (!flip && x >= 2) {
			sub = 1
		}
		idx := etcSelector(sel, i)
		px := dst[etcTexel(i)*4:]
		if punchthrough && idx == 2 {
			putRGBA(px, 0, 0, 0, 0)
			continue
		}
		m := mods[tables[sub]][idx]
		c := &base[sub]
		putRGBA(px, ClampToByte(c[0]+m), ClampToByte(c[1]+m), ClampToByte(c[2]+m), 255)
	}
}

// writePaints writes a T or H mode block from its four paint colors.
func writePaints(src, dst []byte, paint *[4][3]int, punchthrough bool) {
	sel := binary.BigEndian.Uint32(src[4:8])
	for i := 0; i < 16; i++ {
		idx := etcSelector(sel, i)
		px := dst[etcTexel(i)*4:]
		if punchthrough && idx == 2 {
			putRGBA(px, 0, 0, 0, 0)
			continue
		}
		p := &paint[idx]
		putRGBA(px, ClampToByte(p[0]), ClampToByte(p[1]), ClampToByte(p[2]), 255)
	}
}

func expand4(v uint64) int { return int(ReplicateLowBitsToByte(uint32(v&0xF), 4)) }

func decodeETC2T(src, dst []byte, punchthrough bool) {
	v := binary.BigEndian.Uint64(src)
	var paint [4][3]int
	paint[0] = [3]int{expand4((v>>57)&0xC | (v>>56)&3), expand4(v >> 52), expand4(v >> 48)}
	c2 := [3]int{expand4(v >> 44), expand4(v >> 40), expand4(v >> 36)}
	d := etc2Distances[(v>>33)&6|(v>>32)&1]
	for ch := 0; ch < 3; ch++ {
		paint[1][ch] = c2[ch] + d
		paint[2][ch] = c2[ch]
		paint[3][ch] = c2[ch] - d
	}
	writePaints(src, dst, &paint, punchthrough)
}

func decodeETC2H(src, dst []byte, punchthrough bool) {
	v := binary.BigEndian.Uint64(src)
	c1 := [3]int{expand4(v >> 59), expand4((v>>55)&0xE | (v>>52)&1), expand4((v>>48)&8 | (v>>47)&7)}
	c2 := [3]int{expand4(v >> 43), expand4(v >> 39), expand4(v >> 35)}

	di := (v>>32)&4 | (v>>31)&2
	if c1[0]<<16|c1[1]<<8|c1[2] >= c2[0]<<16|c2[1]<<8|c2[2] {
		di |= 1
	}
	d := etc2Distances[di]

	var paint [4][3]int
	for ch := 0; ch < 3; ch++ {
		paint[0][ch] = c1[ch] + d
		paint[1][ch] = c1[ch] - d
		paint[2][ch] = c2[ch] + d
		paint[3][ch] = c2[ch] - d
	}
	writePaints(src, dst, &paint, punchthrough)
}

func decodeETC2Planar(src, dst []byte) {
	v := binary.BigEndian.Uint64(src)
	e6 := func(x uint64) int { return int(ReplicateLowBitsToByte(uint32(x&0x3F), 6)) }
	e7 := func(x uint64) int { return int(ReplicateLowBitsToByte(uint32(x&0x7F), 7)) }

	o := [3]int{e6(v >> 57), e7((v>>50)&0x40 | (v>>49)&0x3F), e6((v>>43)&0x20 | (v>>40)&0x18 | (v>>39)&7)}
	h := [3]int{e6((v>>33)&0x3E | (v>>32)&1), e7(v >> 25), e6(v >> 19)}
	vv := [3]int{e6(v >> 13), e7(v >> 6), e6(v)}

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			px := dst[(y*4+x)*4:]
			for ch := 0; ch < 3; ch++ {
				px[ch] = ClampToByte((x*(h[ch]-o[ch]) + y*(vv[ch]-o[ch]) + 4*o[ch] + 2) >> 2)
			}
			px[3] = 255
		}
	}
}

func decodeETC1(src, dst []byte) bool {
	if src[3]&2 == 0 {
		decodeETCSubblocks(src, dst, etcIndividualBase(src), &etc1Modifiers, false)
		return true
	}
	base, ok := etcDifferentialBase(src)
	decodeETCSubblocks(src, dst, base, &etc1Modifiers, false)
	return ok
}

// DecodeETC1 decodes an 8-byte ETC1 block into 64 bytes of RGBA8. It returns
// false for a differential block whose second color leaves the 5-bit range;
// the output then uses the clamped color.
func DecodeETC1(src, dst []byte) bool {
	_, _ = src[7], dst[63]
	return decodeETC1(src, dst)
}

// DecodeETC2 decodes an 8-byte ETC2 RGB block into 64 bytes of RGBA8.
func DecodeETC2(src, dst []byte) bool {
	_, _ = src[7], dst[63]
	if src[3]&2 == 0 {
		return decodeETC1(src, dst)
	}
	switch etc2Mode(src) {
	case etc2ModeT:
		decodeETC2T(src, dst, false)
	case etc2ModeH:
		decodeETC2H(src, dst, false)
	case etc2ModePlanar:
		decodeETC2Planar(src, dst)
	default:
		return decodeETC1(src, dst)
	}
	return true
}

// DecodeETC2Punchthrough decodes an 8-byte ETC2 RGB8A1 block into 64 bytes of
// RGBA8. Bit 1 of byte 3 is the opaque flag; when clear, selector 2 yields
// transparent black in differential, T and H modes.
func DecodeETC2Punchthrough(src, dst []byte) bool {
	_, _ = src[7], dst[63]
	opaque := src[3]&2 != 0
	switch etc2Mode(src) {
	case etc2ModeT:
		decodeETC2T(src, dst, !opaque)
	case etc2ModeH:
		decodeETC2H(src, dst, !opaque)
	case etc2ModePlanar:
		decodeETC2Planar(src, dst)
	default:
		base, _ := etcDifferentialBase(src)
		mods := &etc1Modifiers
		if !opaque {
			mods = &etc2PunchthroughModifiers
		}
		decodeETCSubblocks(src, dst, base, mods, !opaque)
	}
	return true
}
