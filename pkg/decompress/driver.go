package decompress

import (
	"sync/atomic"

	"github.com/EchoTools/texblock/pkg/blockcodec"
	"github.com/EchoTools/texblock/pkg/texture"
)

// Largest source and decoded block any registered decoder handles.
const (
	maxSrcBlockBytes = 16
	maxDstBlockBytes = 64
)

// grid walks the blocks of one compressed image and writes the decoded texels
// of each block into its own rectangle of the destination.
type grid struct {
	src  *texture.Image
	dst  *texture.Image
	desc *blockcodec.Descriptor

	blocksX int
	blocksY int
	texel   int

	invalid atomic.Int64
}

func newGrid(src, dst *texture.Image, desc *blockcodec.Descriptor) *grid {
	return &grid{
		src:     src,
		dst:     dst,
		desc:    desc,
		blocksX: src.BlocksWide(),
		blocksY: src.BlocksHigh(),
		texel:   desc.Dest.BlockBytes(),
	}
}

func (g *grid) blocks() int { return g.blocksX * g.blocksY }

// decodeRange decodes blocks [lo, hi) of one slice in row-major block order.
func (g *grid) decodeRange(slice, lo, hi int) {
	var in [maxSrcBlockBytes]byte
	var out [maxDstBlockBytes]byte

	d := g.desc
	srcBlock := in[:d.SrcBlockSize]
	dstBlock := out[:d.DstBlockSize]
	rowBytes := d.BlockWidth * g.texel

	var bad int64
	for i := lo; i < hi; i++ {
		bx, by := i%g.blocksX, i/g.blocksX

		off := g.src.BlockOffset(bx, by, slice)
		copy(srcBlock, g.src.Data[off:off+d.SrcBlockSize])
		if !d.DecodeBlock(srcBlock, dstBlock) {
			bad++
		}

		x0, y0 := bx*d.BlockWidth, by*d.BlockHeight
		w := min(d.BlockWidth, g.dst.Width-x0) * g.texel
		h := min(d.BlockHeight, g.dst.Height-y0)
		for y := 0; y < h; y++ {
			o := g.dst.BlockOffset(x0, y0+y, slice)
			copy(g.dst.Data[o:o+w], dstBlock[y*rowBytes:y*rowBytes+w])
		}
	}
	if bad > 0 {
		g.invalid.Add(bad)
	}
}

// runSerial decodes every slice on the calling goroutine.
func (g *grid) runSerial() {
	for s := 0; s < g.src.Slices; s++ {
		g.decodeRange(s, 0, g.blocks())
	}
}

// runParallel hands each slice to sched in chunks of chunk blocks and joins
// before moving to the next slice.
func (g *grid) runParallel(sched Scheduler, chunk int) {
	total := g.blocks()
	jobs := (total + chunk - 1) / chunk
	for s := 0; s < g.src.Slices; s++ {
		slice := s
		sched.Run(jobs, func(job int) {
			lo := job * chunk
			g.decodeRange(slice, lo, min(lo+chunk, total))
		})
	}
}
