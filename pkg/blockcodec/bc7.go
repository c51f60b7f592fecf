package blockcodec

import "math/bits"

const (
	bc7PBitNone = iota
	bc7PBitShared
	bc7PBitEndpoint
)

// bc7Mode describes the bit layout of one BC7 mode.
type bc7Mode struct {
	subsets       int
	partitionBits uint
	rotationBits  uint
	indexSelBits  uint
	colorBits     uint
	alphaBits     uint
	pBits         int
	indexBits     uint
	index2Bits    uint
}

var bc7Modes = [8]bc7Mode{
	{subsets: 3, partitionBits: 4, colorBits: 4, pBits: bc7PBitEndpoint, indexBits: 3},
	{subsets: 2, partitionBits: 6, colorBits: 6, pBits: bc7PBitShared, indexBits: 3},
	{subsets: 3, partitionBits: 6, colorBits: 5, indexBits: 2},
	{subsets: 2, partitionBits: 6, colorBits: 7, pBits: bc7PBitEndpoint, indexBits: 2},
	{subsets: 1, rotationBits: 2, indexSelBits: 1, colorBits: 5, alphaBits: 6, indexBits: 2, index2Bits: 3},
	{subsets: 1, rotationBits: 2, colorBits: 7, alphaBits: 8, indexBits: 2, index2Bits: 2},
	{subsets: 1, colorBits: 7, alphaBits: 7, pBits: bc7PBitEndpoint, indexBits: 4},
	{subsets: 2, partitionBits: 6, colorBits: 5, alphaBits: 5, pBits: bc7PBitEndpoint, indexBits: 2},
}

func bc7Subset(subsets, shape, texel int) int {
	switch subsets {
	case 2:
		return int(bc7Partitions2[shape][texel])
	case 3:
		return int(bc7Partitions3[shape][texel])
	}
	return 0
}

// bc7IsAnchor reports whether texel stores its index with the top bit implied.
func bc7IsAnchor(subsets, shape, texel int) bool {
	if texel == 0 {
		return true
	}
	switch subsets {
	case 2:
		return texel == int(bc7Anchors2[shape])
	case 3:
		return texel == int(bc7Anchors3[shape][0]) || texel == int(bc7Anchors3[shape][1])
	}
	return false
}

// BC7Mode returns the mode of a BC7 block, or -1 when none of the low 8 bits
// is set.
func BC7Mode(src []byte) int {
	if src[0] == 0 {
		return -1
	}
	return bits.TrailingZeros8(src[0])
}

// DecodeBC7 decodes a 16-byte BC7 block into 64 bytes of RGBA8. A block with
// no mode bit decodes to all zero.
func DecodeBC7(src, dst []byte) bool {
	_, _ = src[15], dst[63]

	mode := BC7Mode(src)
	if mode < 0 {
		clear(dst[:64])
		return true
	}
	m := &bc7Modes[mode]

	c := NewBitCursor(src[:16])
	c.Skip(uint(mode) + 1)
	shape := int(c.TakeBits(m.partitionBits))
	rotation := c.TakeBits(m.rotationBits)
	indexSel := c.TakeBits(m.indexSelBits)

	endpoints := m.subsets * 2
	var ep [6][4]uint32
	for ch := 0; ch < 3; ch++ {
		for e := 0; e < endpoints; e++ {
			ep[e][ch] = c.TakeBits(m.colorBits)
		}
	}
	if m.alphaBits > 0 {
		for e := 0; e < endpoints; e++ {
			ep[e][3] = c.TakeBits(m.alphaBits)
		}
	}

	colorPrec, alphaPrec := m.colorBits, m.alphaBits
	switch m.pBits {
	case bc7PBitEndpoint:
		for e := 0; e < endpoints; e++ {
			p := c.TakeBits(1)
			for ch := range ep[e] {
				ep[e][ch] = ep[e][ch]<<1 | p
			}
		}
		colorPrec++
		alphaPrec++
	case bc7PBitShared:
		for s := 0; s < m.subsets; s++ {
			p := c.TakeBits(1)
			for e := 2 * s; e < 2*s+2; e++ {
				for ch := range ep[e] {
					ep[e][ch] = ep[e][ch]<<1 | p
				}
			}
		}
		colorPrec++
		alphaPrec++
	}

	for e := 0; e < endpoints; e++ {
		for ch := 0; ch < 3; ch++ {
			ep[e][ch] = uint32(ReplicateLowBitsToByte(ep[e][ch], colorPrec))
		}
		if m.alphaBits > 0 {
			ep[e][3] = uint32(ReplicateLowBitsToByte(ep[e][3], alphaPrec))
		} else {
			ep[e][3] = 255
		}
	}

	var index, index2 [16]uint32
	for i := 0; i < 16; i++ {
		n := m.indexBits
		if bc7IsAnchor(m.subsets, shape, i) {
			n--
		}
		index[i] = c.TakeBits(n)
	}
	if m.index2Bits > 0 {
		for i := 0; i < 16; i++ {
			n := m.index2Bits
			if i == 0 {
				n--
			}
			index2[i] = c.TakeBits(n)
		}
	}

	for i := 0; i < 16; i++ {
		s := bc7Subset(m.subsets, shape, i)
		e0, e1 := &ep[2*s], &ep[2*s+1]

		cw := bc7Weight(m.indexBits, index[i])
		aw := cw
		if m.index2Bits > 0 {
			aw = bc7Weight(m.index2Bits, index2[i])
			if indexSel == 1 {
				cw, aw = aw, cw
			}
		}

		px := dst[i*4 : i*4+4]
		px[0] = bc7Interpolate(e0[0], e1[0], cw)
		px[1] = bc7Interpolate(e0[1], e1[1], cw)
		px[2] = bc7Interpolate(e0[2], e1[2], cw)
		px[3] = bc7Interpolate(e0[3], e1[3], aw)

		if rotation > 0 {
			px[3], px[rotation-1] = px[rotation-1], px[3]
		}
	}
	return true
}
