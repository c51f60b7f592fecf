package blockcodec

import (
	"errors"
	"fmt"

	"github.com/EchoTools/texblock/pkg/texture"
)

// ErrUnsupportedFormat is returned by Lookup for formats with no block decoder.
var ErrUnsupportedFormat = errors.New("unsupported format")

// DecodeFunc decodes one source block into one destination block and reports
// whether the block was well formed.
type DecodeFunc func(src, dst []byte) bool

// BlockDecoder decodes the fixed-size blocks of one compressed format.
type BlockDecoder interface {
	DecodeBlock(src, dst []byte) bool
	SourceFormat() texture.Format
	DestFormat() texture.Format
}

// Descriptor is the dispatch entry for one compressed format.
type Descriptor struct {
	Format       texture.Format
	Dest         texture.Format
	SrcBlockSize int
	DstBlockSize int
	BlockWidth   int
	BlockHeight  int
	SRGB         bool

	decode DecodeFunc
}

// DecodeBlock decodes src into dst. src must hold SrcBlockSize bytes and dst
// DstBlockSize bytes.
func (d *Descriptor) DecodeBlock(src, dst []byte) bool { return d.decode(src, dst) }

func (d *Descriptor) SourceFormat() texture.Format { return d.Format }

func (d *Descriptor) DestFormat() texture.Format { return d.Dest }

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s -> %s (%dx%d, %d -> %d bytes)",
		d.Format, d.Dest, d.BlockWidth, d.BlockHeight, d.SrcBlockSize, d.DstBlockSize)
}

var (
	registry = map[texture.Format]*Descriptor{}
	order    []texture.Format
)

func register(f, dest texture.Format, fn DecodeFunc) {
	if _, dup := registry[f]; dup {
		panic(fmt.Errorf("block decoder for %v already registered", f))
	}
	bw, bh := f.BlockDims()
	registry[f] = &Descriptor{
		Format:       f,
		Dest:         dest,
		SrcBlockSize: f.BlockBytes(),
		DstBlockSize: bw * bh * dest.BlockBytes(),
		BlockWidth:   bw,
		BlockHeight:  bh,
		SRGB:         f.IsSRGB(),
		decode:       fn,
	}
	order = append(order, f)
}

func init() {
	register(texture.FormatBC1, texture.FormatRGBA8, DecodeBC1)
	register(texture.FormatBC1SRGB, texture.FormatRGBA8SRGB, DecodeBC1)
	register(texture.FormatBC2, texture.FormatRGBA8, DecodeBC2)
	register(texture.FormatBC2SRGB, texture.FormatRGBA8SRGB, DecodeBC2)
	register(texture.FormatBC3, texture.FormatRGBA8, DecodeBC3)
	register(texture.FormatBC3SRGB, texture.FormatRGBA8SRGB, DecodeBC3)
	register(texture.FormatBC4, texture.FormatR8, DecodeBC4)
	register(texture.FormatBC5, texture.FormatRG8, DecodeBC5)
	register(texture.FormatBC7, texture.FormatRGBA8, DecodeBC7)
	register(texture.FormatBC7SRGB, texture.FormatRGBA8SRGB, DecodeBC7)

	register(texture.FormatETC1, texture.FormatRGBA8, DecodeETC1)
	register(texture.FormatETC2RGB, texture.FormatRGBA8, DecodeETC2)
	register(texture.FormatETC2SRGB, texture.FormatRGBA8SRGB, DecodeETC2)
	register(texture.FormatETC2RGBA1, texture.FormatRGBA8, DecodeETC2Punchthrough)
	register(texture.FormatETC2SRGBA1, texture.FormatRGBA8SRGB, DecodeETC2Punchthrough)
	register(texture.FormatETC2RGBA8, texture.FormatRGBA8, DecodeETC2EAC)
	register(texture.FormatETC2SRGBA8, texture.FormatRGBA8SRGB, DecodeETC2EAC)
	register(texture.FormatEACR11, texture.FormatR16, DecodeEACR11)
	register(texture.FormatEACR11Signed, texture.FormatR16Signed, DecodeEACR11Signed)
	register(texture.FormatEACRG11, texture.FormatRG16, DecodeEACRG11)
	register(texture.FormatEACRG11Signed, texture.FormatRG16Signed, DecodeEACRG11Signed)
}

// Lookup returns the decoder for f. Repeated lookups return the same
// descriptor.
func Lookup(f texture.Format) (*Descriptor, error) {
	if d, ok := registry[f]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%v: %w", f, ErrUnsupportedFormat)
}

// Supported lists the formats with a block decoder in registration order.
func Supported() []texture.Format {
	out := make([]texture.Format, len(order))
	copy(out, order)
	return out
}
