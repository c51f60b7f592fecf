// Package decompress turns block-compressed images into plain pixel images.
//
// Decompress walks the block grid on the calling goroutine. DecompressParallel
// splits each slice into chunks of blocks and hands them to a Scheduler; both
// produce byte-identical output. Blocks that decode as invalid are still
// written with a best-effort result and counted in Result.InvalidBlocks.
package decompress

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/EchoTools/texblock/pkg/blockcodec"
	"github.com/EchoTools/texblock/pkg/texture"
)

const (
	DefaultChunkBlocks       = 256
	DefaultParallelThreshold = 32
)

var (
	// ErrVolumetric is returned for images with more than one depth plane.
	ErrVolumetric = errors.New("volumetric images are not supported")

	// ErrInvalidBlocks is returned in strict mode when any block failed to
	// decode cleanly.
	ErrInvalidBlocks = errors.New("image contains invalid blocks")
)

// Result is the outcome of a successful decompress.
type Result struct {
	// Image is the decompressed image, or the source itself when it was not
	// compressed.
	Image *texture.Image

	// InvalidBlocks counts blocks whose decoder reported a malformed encoding.
	InvalidBlocks int64
}

type options struct {
	logger            logrus.FieldLogger
	chunkBlocks       int
	parallelThreshold int
	maxAlloc          int64
	strict            bool
}

// Option configures a decompress call.
type Option func(*options)

// WithLogger sets the logger for per-image debug output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithChunkBlocks sets how many blocks make up one parallel job.
func WithChunkBlocks(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkBlocks = n
		}
	}
}

// WithParallelThreshold sets the block count below which DecompressParallel
// decodes serially.
func WithParallelThreshold(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.parallelThreshold = n
		}
	}
}

// WithMaxAlloc caps the destination image size in bytes. n <= 0 disables the
// cap.
func WithMaxAlloc(n int64) Option {
	return func(o *options) {
		o.maxAlloc = n
	}
}

// WithStrict turns any invalid block into ErrInvalidBlocks. The whole image
// is still decoded first.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

func newOptions(opts []Option) *options {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	o := &options{
		logger:            discard,
		chunkBlocks:       DefaultChunkBlocks,
		parallelThreshold: DefaultParallelThreshold,
		maxAlloc:          texture.DefaultMaxAllocBytes,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Decompress decodes src on the calling goroutine.
func Decompress(src *texture.Image, opts ...Option) (*Result, error) {
	return decompress(src, nil, newOptions(opts))
}

// DecompressParallel decodes src using sched. A nil sched uses a Pool sized
// to GOMAXPROCS.
func DecompressParallel(src *texture.Image, sched Scheduler, opts ...Option) (*Result, error) {
	if sched == nil {
		sched = NewPool(0)
	}
	return decompress(src, sched, newOptions(opts))
}

func decompress(src *texture.Image, sched Scheduler, o *options) (*Result, error) {
	if src == nil {
		return nil, fmt.Errorf("decompress: nil image")
	}
	if !src.Format.IsCompressed() {
		return &Result{Image: src}, nil
	}

	desc, err := blockcodec.Lookup(src.Format)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	if src.Depth > 1 {
		return nil, fmt.Errorf("decompress %s: depth %d: %w", src.Format, src.Depth, ErrVolumetric)
	}

	need, err := texture.ImageSize(src.Width, src.Height, src.Depth, src.Slices, src.Format)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	if int64(len(src.Data)) < need {
		return nil, fmt.Errorf("decompress: %w: have %d bytes, need %d for %dx%d %s",
			texture.ErrSizeMismatch, len(src.Data), need, src.Width, src.Height, src.Format)
	}

	dst, err := texture.Allocate(src.Width, src.Height, 1, src.Slices, desc.Dest, o.maxAlloc)
	if err != nil {
		return nil, fmt.Errorf("decompress: allocate destination: %w", err)
	}

	g := newGrid(src, dst, desc)
	start := time.Now()

	parallel := sched != nil && g.blocks() >= o.parallelThreshold
	if parallel {
		g.runParallel(sched, o.chunkBlocks)
	} else {
		g.runSerial()
	}

	invalid := g.invalid.Load()
	log := o.logger.WithFields(logrus.Fields{
		"format":         src.Format.String(),
		"width":          src.Width,
		"height":         src.Height,
		"slices":         src.Slices,
		"parallel":       parallel,
		"invalid_blocks": invalid,
	})
	if invalid > 0 {
		log.Warn("image contains invalid blocks")
	}
	log.WithField("elapsed", time.Since(start)).Debug("decompressed")

	if o.strict && invalid > 0 {
		return nil, fmt.Errorf("decompress %s: %d of %d blocks: %w",
			src.Format, invalid, g.blocks()*src.Slices, ErrInvalidBlocks)
	}
	return &Result{Image: dst, InvalidBlocks: invalid}, nil
}
