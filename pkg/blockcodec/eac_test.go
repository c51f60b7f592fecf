package blockcodec

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Selector index 4 for every texel.
var eacAllFour = []byte{0x92, 0x49, 0x24, 0x92, 0x49, 0x24}

func eacBlockOf(base, multTable byte, selectors []byte) []byte {
	return append([]byte{base, multTable}, selectors...)
}

func TestDecodeEACR11(t *testing.T) {
	t.Run("MidRange", func(t *testing.T) {
		// Base 128, multiplier 1, table 13 entry 4 is zero: 128*8+4 = 1028.
		src := eacBlockOf(128, 0x1D, eacAllFour)
		dst := make([]byte, 32)
		assert.True(t, DecodeEACR11(src, dst))

		for i := 0; i < 16; i++ {
			assert.Equal(t, uint16(1028<<5|1028>>6), binary.LittleEndian.Uint16(dst[i*2:]), "texel %d", i)
		}
	})

	t.Run("NearBase", func(t *testing.T) {
		src := eacBlockOf(128, 0x1D, make([]byte, 6))
		dst := make([]byte, 32)
		DecodeEACR11(src, dst)

		mid := float64(1028<<5 | 1028>>6)
		for i := 0; i < 16; i++ {
			assert.InDelta(t, mid, float64(binary.LittleEndian.Uint16(dst[i*2:])), 512, "texel %d", i)
		}
	})

	t.Run("ZeroMultiplier", func(t *testing.T) {
		// Multiplier 0 scales modifiers by 1 instead of 8.
		src := eacBlockOf(128, 0x00, make([]byte, 6))
		dst := make([]byte, 32)
		DecodeEACR11(src, dst)
		assert.Equal(t, uint16(1025<<5|1025>>6), binary.LittleEndian.Uint16(dst))
	})

	t.Run("ClampHigh", func(t *testing.T) {
		src := eacBlockOf(255, 0xF0, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
		dst := make([]byte, 32)
		DecodeEACR11(src, dst)
		for i := 0; i < 16; i++ {
			assert.Equal(t, uint16(0xFFFF), binary.LittleEndian.Uint16(dst[i*2:]), "texel %d", i)
		}
	})

	t.Run("ColumnMajor", func(t *testing.T) {
		// Texel 1 in block order is (x=0, y=1), row-major position 4.
		src := eacBlockOf(128, 0x1D, []byte{0x10, 0, 0, 0, 0, 0})
		dst := make([]byte, 32)
		DecodeEACR11(src, dst)

		for i := 0; i < 16; i++ {
			expected := uint16(1020<<5 | 1020>>6)
			if i == 4 {
				expected = 1028<<5 | 1028>>6
			}
			assert.Equal(t, expected, binary.LittleEndian.Uint16(dst[i*2:]), "texel %d", i)
		}
	})
}

func TestDecodeEACR11Signed(t *testing.T) {
	t.Run("MinusOneTwentyEight", func(t *testing.T) {
		src := eacBlockOf(0x80, 0x00, make([]byte, 6))
		dst := make([]byte, 32)
		assert.False(t, DecodeEACR11Signed(src, dst))

		// Decoded as -127: -127*8 - 3 = -1019.
		for i := 0; i < 16; i++ {
			assert.Equal(t, int16(-(1019<<5 | 1019>>5)), int16(binary.LittleEndian.Uint16(dst[i*2:])), "texel %d", i)
		}
	})

	t.Run("ClampPositive", func(t *testing.T) {
		src := eacBlockOf(127, 0xF0, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
		dst := make([]byte, 32)
		assert.True(t, DecodeEACR11Signed(src, dst))
		assert.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(dst)))
	})

	t.Run("Zero", func(t *testing.T) {
		src := eacBlockOf(0, 0x1D, eacAllFour)
		dst := make([]byte, 32)
		assert.True(t, DecodeEACR11Signed(src, dst))
		assert.Equal(t, make([]byte, 32), dst)
	})
}

func TestDecodeEACRG11(t *testing.T) {
	src := append(eacBlockOf(128, 0x1D, eacAllFour), make([]byte, 8)...)
	dst := make([]byte, 64)
	assert.True(t, DecodeEACRG11(src, dst))

	for i := 0; i < 16; i++ {
		assert.Equal(t, uint16(1028<<5|1028>>6), binary.LittleEndian.Uint16(dst[i*4:]), "red %d", i)
		assert.Equal(t, uint16(1<<5), binary.LittleEndian.Uint16(dst[i*4+2:]), "green %d", i)
	}
}

func TestDecodeEACRG11Signed(t *testing.T) {
	src := append(eacBlockOf(0, 0x1D, eacAllFour), eacBlockOf(0x80, 0x1D, eacAllFour)...)
	dst := make([]byte, 64)
	assert.False(t, DecodeEACRG11Signed(src, dst))

	for i := 0; i < 16; i++ {
		assert.Equal(t, int16(0), int16(binary.LittleEndian.Uint16(dst[i*4:])), "red %d", i)
		assert.Equal(t, int16(-(1016<<5 | 1016>>5)), int16(binary.LittleEndian.Uint16(dst[i*4+2:])), "green %d", i)
	}
}

func TestDecodeETC2EAC(t *testing.T) {
	src := append(eacBlockOf(200, 0x20, make([]byte, 6)), make([]byte, 8)...)
	dst := make([]byte, 64)
	assert.True(t, DecodeETC2EAC(src, dst))

	for i := 0; i < 16; i++ {
		assert.Equal(t, [4]byte{2, 2, 2, 194}, texel(dst, i), "texel %d", i)
	}

	t.Run("ZeroMultiplier", func(t *testing.T) {
		src := append(eacBlockOf(200, 0x00, make([]byte, 6)), make([]byte, 8)...)
		DecodeETC2EAC(src, dst)
		assert.Equal(t, uint8(200), dst[3])
	})
}
