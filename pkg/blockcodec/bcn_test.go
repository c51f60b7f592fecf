package blockcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func texel(dst []byte, i int) [4]byte {
	return [4]byte{dst[i*4], dst[i*4+1], dst[i*4+2], dst[i*4+3]}
}

func TestDecodeBC1(t *testing.T) {
	t.Run("RedBlueReference", func(t *testing.T) {
		// c0 = 0xF800 (red), c1 = 0x001F (blue); texels alternate index 0 and 1.
		src := []byte{0x00, 0xF8, 0x1F, 0x00, 0x44, 0x44, 0x44, 0x44}
		dst := make([]byte, 64)
		assert.True(t, DecodeBC1(src, dst))

		red := [4]byte{31<<3 | 31>>2, 0, 0, 255}
		blue := [4]byte{0, 0, 31<<3 | 31>>2, 255}
		for i := 0; i < 16; i++ {
			if i%2 == 0 {
				assert.Equal(t, red, texel(dst, i), "texel %d", i)
			} else {
				assert.Equal(t, blue, texel(dst, i), "texel %d", i)
			}
		}
	})

	t.Run("FourColor", func(t *testing.T) {
		// c0 > c1: index 2 and 3 interpolate, no transparency.
		src := []byte{0x00, 0xF8, 0x1F, 0x00, 0xEE, 0xEE, 0xEE, 0xEE}
		dst := make([]byte, 64)
		DecodeBC1(src, dst)

		assert.Equal(t, [4]byte{170, 0, 85, 255}, texel(dst, 0))
		assert.Equal(t, [4]byte{85, 0, 170, 255}, texel(dst, 1))
	})

	t.Run("ThreeColor", func(t *testing.T) {
		// c0 <= c1: index 2 is the midpoint and index 3 is transparent black.
		src := []byte{0x1F, 0x00, 0x00, 0xF8, 0xEE, 0xEE, 0xEE, 0xEE}
		dst := make([]byte, 64)
		DecodeBC1(src, dst)

		assert.Equal(t, [4]byte{127, 0, 127, 255}, texel(dst, 0))
		assert.Equal(t, [4]byte{0, 0, 0, 0}, texel(dst, 1))
	})

	t.Run("EqualEndpointsTransparent", func(t *testing.T) {
		src := []byte{0x00, 0xF8, 0x00, 0xF8, 0xFF, 0xFF, 0xFF, 0xFF}
		dst := make([]byte, 64)
		DecodeBC1(src, dst)
		for i := 0; i < 16; i++ {
			assert.Equal(t, [4]byte{}, texel(dst, i))
		}
	})
}

func TestDecodeBC2(t *testing.T) {
	src := make([]byte, 16)
	src[0] = 0xF0 // texel 0 alpha 0, texel 1 alpha 15
	src[7] = 0x5A // texel 14 alpha 10, texel 15 alpha 5
	src[8], src[9] = 0x00, 0xF8
	src[10], src[11] = 0x00, 0xF8
	dst := make([]byte, 64)
	assert.True(t, DecodeBC2(src, dst))

	assert.Equal(t, [4]byte{255, 0, 0, 0x00}, texel(dst, 0))
	assert.Equal(t, [4]byte{255, 0, 0, 0xFF}, texel(dst, 1))
	assert.Equal(t, [4]byte{255, 0, 0, 0xAA}, texel(dst, 14))
	assert.Equal(t, [4]byte{255, 0, 0, 0x55}, texel(dst, 15))
}

func TestDecodeBC3(t *testing.T) {
	src := make([]byte, 16)
	src[0], src[1] = 255, 0
	src[2] = 0x02 // texel 0 selects ramp entry 2
	src[8], src[9] = 0x1F, 0x00
	src[10], src[11] = 0x1F, 0x00
	dst := make([]byte, 64)
	assert.True(t, DecodeBC3(src, dst))

	assert.Equal(t, [4]byte{0, 0, 255, 219}, texel(dst, 0))
	assert.Equal(t, [4]byte{0, 0, 255, 255}, texel(dst, 1))
}

func TestDecodeBC4(t *testing.T) {
	src := []byte{255, 0, 0x02, 0, 0, 0, 0, 0}
	dst := make([]byte, 16)
	assert.True(t, DecodeBC4(src, dst))

	assert.Equal(t, uint8(219), dst[0])
	for i := 1; i < 16; i++ {
		assert.Equal(t, uint8(255), dst[i], "texel %d", i)
	}
}

func TestDecodeBC5(t *testing.T) {
	src := []byte{
		200, 100, 0, 0, 0, 0, 0, 0,
		50, 10, 0, 0, 0, 0, 0, 0,
	}
	dst := make([]byte, 32)
	assert.True(t, DecodeBC5(src, dst))

	for i := 0; i < 16; i++ {
		assert.Equal(t, []byte{200, 50}, dst[i*2:i*2+2], "texel %d", i)
	}
}
