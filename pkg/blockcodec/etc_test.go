package blockcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// pixel returns the RGBA texel at (x, y) of a decoded 4x4 block.
func pixel(dst []byte, x, y int) [4]byte {
	return texel(dst, y*4+x)
}

func TestDecodeETC1Individual(t *testing.T) {
	t.Run("VerticalSplit", func(t *testing.T) {
		src := []byte{0xF0, 0x00, 0x00, 0x00, 0, 0, 0, 0}
		dst := make([]byte, 64)
		assert.True(t, DecodeETC1(src, dst))

		assert.Equal(t, [4]byte{255, 2, 2, 255}, pixel(dst, 0, 0))
		assert.Equal(t, [4]byte{255, 2, 2, 255}, pixel(dst, 1, 3))
		assert.Equal(t, [4]byte{2, 2, 2, 255}, pixel(dst, 2, 0))
		assert.Equal(t, [4]byte{2, 2, 2, 255}, pixel(dst, 3, 3))
	})

	t.Run("FlippedSplit", func(t *testing.T) {
		src := []byte{0xF0, 0x00, 0x00, 0x01, 0, 0, 0, 0}
		dst := make([]byte, 64)
		assert.True(t, DecodeETC1(src, dst))

		assert.Equal(t, [4]byte{255, 2, 2, 255}, pixel(dst, 3, 1))
		assert.Equal(t, [4]byte{2, 2, 2, 255}, pixel(dst, 0, 2))
	})

	t.Run("ColumnMajorSelectors", func(t *testing.T) {
		// Texel 1 in ETC order is (x=0, y=1); give it selector 2 (-2).
		src := []byte{0x88, 0x88, 0x88, 0x00, 0x00, 0x02, 0x00, 0x00}
		dst := make([]byte, 64)
		DecodeETC1(src, dst)

		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				expected := [4]byte{138, 138, 138, 255}
				if x == 0 && y == 1 {
					expected = [4]byte{134, 134, 134, 255}
				}
				assert.Equal(t, expected, pixel(dst, x, y), "pixel %d,%d", x, y)
			}
		}
	})
}

func TestDecodeETC1Overflow(t *testing.T) {
	t.Run("Positive", func(t *testing.T) {
		// R base 31 with delta +3 leaves the 5-bit range.
		src := []byte{0xFB, 0x00, 0x00, 0x02, 0, 0, 0, 0}
		dst := make([]byte, 64)
		assert.False(t, DecodeETC1(src, dst))

		assert.Equal(t, [4]byte{255, 2, 2, 255}, pixel(dst, 0, 0))
		assert.Equal(t, [4]byte{255, 2, 2, 255}, pixel(dst, 3, 0))
	})

	t.Run("Negative", func(t *testing.T) {
		// G base 0 with delta -4.
		src := []byte{0x00, 0x04, 0x00, 0x02, 0, 0, 0, 0}
		dst := make([]byte, 64)
		assert.False(t, DecodeETC1(src, dst))
		assert.Equal(t, [4]byte{2, 2, 2, 255}, pixel(dst, 3, 3))
	})

	t.Run("InRange", func(t *testing.T) {
		src := []byte{0x81, 0x81, 0x81, 0x02, 0, 0, 0, 0}
		dst := make([]byte, 64)
		assert.True(t, DecodeETC1(src, dst))
	})
}

func TestETC2ModePriority(t *testing.T) {
	tests := []struct {
		name     string
		src      []byte
		expected int
	}{
		{"Differential", []byte{0x81, 0x81, 0x81, 0x02}, etc2ModeDifferential},
		{"ROnly", []byte{0xFB, 0x00, 0x00, 0x02}, etc2ModeT},
		{"RAndG", []byte{0xFB, 0xFB, 0x00, 0x02}, etc2ModeT},
		{"RGB", []byte{0xFB, 0x04, 0xFB, 0x02}, etc2ModeT},
		{"GOnly", []byte{0x00, 0xFB, 0x00, 0x02}, etc2ModeH},
		{"GAndB", []byte{0x00, 0x04, 0xFB, 0x02}, etc2ModeH},
		{"BOnly", []byte{0x00, 0x00, 0xFB, 0x02}, etc2ModePlanar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := etc2Mode(tt.src); got != tt.expected {
				t.Errorf("expected mode %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestDecodeETC2TMode(t *testing.T) {
	// R and G both overflow; R wins, so this is T mode with c1 = (15, 15, 11)
	// and c2 = 0 at distance 3.
	src := []byte{0xFB, 0xFB, 0x00, 0x02, 0x00, 0x00, 0x00, 0x01}
	dst := make([]byte, 64)
	assert.True(t, DecodeETC2(src, dst))

	assert.Equal(t, [4]byte{3, 3, 3, 255}, pixel(dst, 0, 0))
	assert.Equal(t, [4]byte{255, 255, 187, 255}, pixel(dst, 1, 0))
	assert.Equal(t, [4]byte{255, 255, 187, 255}, pixel(dst, 3, 3))
}

func TestDecodeETC2HMode(t *testing.T) {
	src := []byte{0x00, 0xFB, 0xFB, 0x02, 0x12, 0x34, 0x56, 0x78}
	expected := make([]byte, 64)
	decodeETC2H(src, expected, false)

	dst := make([]byte, 64)
	assert.True(t, DecodeETC2(src, dst))
	assert.Equal(t, expected, dst)
}

func TestDecodeETC2Planar(t *testing.T) {
	// Only B overflows: planar with O = (0, 0, 121) and H = V = 0.
	src := []byte{0x00, 0x00, 0xFB, 0x02, 0, 0, 0, 0}
	dst := make([]byte, 64)
	assert.True(t, DecodeETC2(src, dst))

	assert.Equal(t, [4]byte{0, 0, 121, 255}, pixel(dst, 0, 0))
	assert.Equal(t, [4]byte{0, 0, 91, 255}, pixel(dst, 1, 0))
	assert.Equal(t, [4]byte{0, 0, 91, 255}, pixel(dst, 0, 1))
	assert.Equal(t, [4]byte{0, 0, 0, 255}, pixel(dst, 3, 3))
}

func TestDecodeETC2Individual(t *testing.T) {
	src := []byte{0xF0, 0x00, 0x00, 0x00, 0, 0, 0, 0}
	etc1 := make([]byte, 64)
	etc2 := make([]byte, 64)
	DecodeETC1(src, etc1)
	assert.True(t, DecodeETC2(src, etc2))
	assert.Equal(t, etc1, etc2)
}

func TestDecodeETC2Punchthrough(t *testing.T) {
	// Selector 2 everywhere: msb plane set, lsb plane clear.
	sel := []byte{0xFF, 0xFF, 0x00, 0x00}

	t.Run("Transparent", func(t *testing.T) {
		src := append([]byte{0x80, 0x80, 0x80, 0x00}, sel...)
		dst := make([]byte, 64)
		assert.True(t, DecodeETC2Punchthrough(src, dst))
		for i := 0; i < 16; i++ {
			assert.Equal(t, [4]byte{}, texel(dst, i), "texel %d", i)
		}
	})

	t.Run("Opaque", func(t *testing.T) {
		src := append([]byte{0x80, 0x80, 0x80, 0x02}, sel...)
		dst := make([]byte, 64)
		assert.True(t, DecodeETC2Punchthrough(src, dst))
		for i := 0; i < 16; i++ {
			assert.Equal(t, [4]byte{130, 130, 130, 255}, texel(dst, i), "texel %d", i)
		}
	})

	t.Run("NonOpaqueZeroModifier", func(t *testing.T) {
		// Selector 0 uses the zero entry of the punchthrough table.
		src := []byte{0x80, 0x80, 0x80, 0x00, 0, 0, 0, 0}
		dst := make([]byte, 64)
		DecodeETC2Punchthrough(src, dst)
		assert.Equal(t, [4]byte{132, 132, 132, 255}, texel(dst, 0))
	})

	t.Run("TModeMasked", func(t *testing.T) {
		src := append([]byte{0xFB, 0x00, 0x00, 0x00}, sel...)
		dst := make([]byte, 64)
		DecodeETC2Punchthrough(src, dst)
		for i := 0; i < 16; i++ {
			assert.Equal(t, [4]byte{}, texel(dst, i), "texel %d", i)
		}
	})

	t.Run("PlanarNeverMasked", func(t *testing.T) {
		src := append([]byte{0x00, 0x00, 0xFB, 0x00}, sel...)
		dst := make([]byte, 64)
		DecodeETC2Punchthrough(src, dst)

		expected := make([]byte, 64)
		DecodeETC2([]byte{0x00, 0x00, 0xFB, 0x02, 0xFF, 0xFF, 0x00, 0x00}, expected)
		assert.Equal(t, expected, dst)
		for i := 0; i < 16; i++ {
			assert.Equal(t, uint8(255), dst[i*4+3], "texel %d", i)
		}
	})
}
