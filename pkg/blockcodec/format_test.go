package blockcodec

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EchoTools/texblock/pkg/texture"
)

func TestLookup(t *testing.T) {
	supported := Supported()
	require.Len(t, supported, 21)

	for _, f := range supported {
		t.Run(f.String(), func(t *testing.T) {
			d, err := Lookup(f)
			require.NoError(t, err)
			require.NotNil(t, d)

			again, err := Lookup(f)
			require.NoError(t, err)
			assert.Same(t, d, again)

			assert.Equal(t, f, d.SourceFormat())
			assert.True(t, d.Dest.Valid())
			assert.False(t, d.Dest.IsCompressed())
			assert.Equal(t, f.IsSRGB(), d.Dest.IsSRGB() && d.SRGB)
			assert.Equal(t, f.BlockBytes(), d.SrcBlockSize)
			assert.Equal(t, 16*d.Dest.BlockBytes(), d.DstBlockSize)
			assert.Equal(t, 4, d.BlockWidth)
			assert.Equal(t, 4, d.BlockHeight)
		})
	}
}

func TestLookupUnsupported(t *testing.T) {
	for _, f := range []texture.Format{
		texture.FormatBC6H,
		texture.FormatBC6HSigned,
		texture.FormatASTC4x4,
		texture.FormatASTC8x8,
		texture.FormatPVRTC2,
		texture.FormatPVRTC4,
		texture.FormatRGBA8,
		texture.FormatUnknown,
		texture.Format(0xFFFF),
	} {
		for i := 0; i < 2; i++ {
			d, err := Lookup(f)
			assert.Nil(t, d, "%v", f)
			assert.True(t, errors.Is(err, ErrUnsupportedFormat), "%v: %v", f, err)
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		register(texture.FormatBC1, texture.FormatRGBA8, DecodeBC1)
	})
	assert.Len(t, Supported(), 21)
}

func TestZeroBlocks(t *testing.T) {
	// Each zero block decodes to one repeated texel value.
	expected := map[texture.Format][]byte{
		texture.FormatBC1:           {0, 0, 0, 255},
		texture.FormatBC1SRGB:       {0, 0, 0, 255},
		texture.FormatBC2:           {0, 0, 0, 0},
		texture.FormatBC2SRGB:       {0, 0, 0, 0},
		texture.FormatBC3:           {0, 0, 0, 0},
		texture.FormatBC3SRGB:       {0, 0, 0, 0},
		texture.FormatBC4:           {0},
		texture.FormatBC5:           {0, 0},
		texture.FormatBC7:           {0, 0, 0, 0},
		texture.FormatBC7SRGB:       {0, 0, 0, 0},
		texture.FormatETC1:          {2, 2, 2, 255},
		texture.FormatETC2RGB:       {2, 2, 2, 255},
		texture.FormatETC2SRGB:      {2, 2, 2, 255},
		texture.FormatETC2RGBA1:     {0, 0, 0, 255},
		texture.FormatETC2SRGBA1:    {0, 0, 0, 255},
		texture.FormatETC2RGBA8:     {2, 2, 2, 0},
		texture.FormatETC2SRGBA8:    {2, 2, 2, 0},
		texture.FormatEACR11:        {0x20, 0x00},
		texture.FormatEACR11Signed:  {0xA0, 0xFF},
		texture.FormatEACRG11:       {0x20, 0x00, 0x20, 0x00},
		texture.FormatEACRG11Signed: {0xA0, 0xFF, 0xA0, 0xFF},
	}

	for _, f := range Supported() {
		t.Run(f.String(), func(t *testing.T) {
			d, err := Lookup(f)
			require.NoError(t, err)

			// Exact-size buffers: any read or write past the block panics.
			src := make([]byte, d.SrcBlockSize)
			dst := bytes.Repeat([]byte{0xAA}, d.DstBlockSize)
			assert.True(t, d.DecodeBlock(src, dst))

			pattern, ok := expected[f]
			require.True(t, ok, "no expectation for %v", f)
			assert.Equal(t, bytes.Repeat(pattern, 16), dst)
		})
	}
}

func TestRandomBlocksStayInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, f := range Supported() {
		d, _ := Lookup(f)
		src := make([]byte, d.SrcBlockSize)
		dst := make([]byte, d.DstBlockSize)
		for i := 0; i < 2000; i++ {
			rng.Read(src)
			d.DecodeBlock(src, dst)
		}
	}
}
