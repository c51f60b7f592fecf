package blockcodec

// clampTable maps x+255 to x clamped into [0,255] for x in [-255,511].
var clampTable = func() (t [767]uint8) {
	for i := range t {
		v := i - 255
		switch {
		case v < 0:
			v = 0
		case v > 255:
			v = 255
		}
		t[i] = uint8(v)
	}
	return t
}()

// ClampToByte clamps an accumulator in [-255,511] to [0,255]. Inputs outside
// that range panic with an index out of range.
func ClampToByte(x int) uint8 {
	return clampTable[x+255]
}

// ReplicateLowBitsToByte expands a bits-wide value (1 to 8 bits) to 8 bits by
// repeating its most significant bits into the vacated low bits.
func ReplicateLowBitsToByte(v uint32, bits uint) uint8 {
	v <<= 8 - bits
	for s := bits; s < 8; s *= 2 {
		v |= v >> s
	}
	return uint8(v)
}

// ExpandAlphaRamp8 returns the 8-entry palette of a BC3/BC4/BC5 alpha block.
// a0 > a1 selects the 8-value ramp; otherwise a 6-value ramp followed by 0
// and 255.
func ExpandAlphaRamp8(a0, a1 uint8) [8]uint8 {
	r := [8]uint8{a0, a1}
	x0, x1 := uint32(a0), uint32(a1)
	if a0 > a1 {
		for k := uint32(1); k <= 6; k++ {
			r[k+1] = uint8(((7-k)*x0 + k*x1 + 3) / 7)
		}
		return r
	}
	for k := uint32(1); k <= 4; k++ {
		r[k+1] = uint8(((5-k)*x0 + k*x1 + 2) / 5)
	}
	r[6] = 0
	r[7] = 255
	return r
}

// bc7Weights holds the 2, 3 and 4-bit BC7 interpolation weights back to back.
var bc7Weights = [28]uint32{
	0, 21, 43, 64,
	0, 9, 18, 27, 37, 46, 55, 64,
	0, 4, 9, 13, 17, 21, 26, 30, 34, 38, 43, 47, 51, 55, 60, 64,
}

var bc7WeightOffset = [5]int{2: 0, 3: 4, 4: 12}

func bc7Weight(bits uint, index uint32) uint32 {
	return bc7Weights[bc7WeightOffset[bits]+int(index)]
}

func bc7Interpolate(e0, e1, w uint32) uint8 {
	return uint8((e0*(64-w) + e1*w + 32) >> 6)
}
