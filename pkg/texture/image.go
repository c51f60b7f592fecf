package texture

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrAllocation is returned when an image cannot be allocated, either
	// because its size overflows or because it exceeds the allocation limit.
	ErrAllocation = errors.New("image allocation failed")

	// ErrSizeMismatch is returned when an image's storage does not match its
	// dimensions and format.
	ErrSizeMismatch = errors.New("image data size mismatch")

	// ErrDimensions is returned for zero or negative dimensions.
	ErrDimensions = errors.New("invalid image dimensions")
)

// DefaultMaxAllocBytes caps a single image allocation.
const DefaultMaxAllocBytes int64 = 1 << 32

// Image is a view over raw texture storage.
//
// Data holds Slices consecutive slices; each slice holds Depth planes of
// BlocksHigh rows of BlocksWide blocks.
type Image struct {
	Width  int
	Height int
	Depth  int
	Slices int
	Format Format
	Data   []byte
}

// NewImage allocates an image of the given dimensions using the default
// allocation limit.
func NewImage(width, height, depth, slices int, format Format) (*Image, error) {
	return Allocate(width, height, depth, slices, format, DefaultMaxAllocBytes)
}

// Allocate allocates an image of the given dimensions. A limit <= 0 means no
// limit beyond what fits in an int.
func Allocate(width, height, depth, slices int, format Format, limit int64) (*Image, error) {
	size, err := ImageSize(width, height, depth, slices, format)
	if err != nil {
		return nil, err
	}
	if limit > 0 && size > limit {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrAllocation, size, limit)
	}
	if size > int64(math.MaxInt) {
		return nil, fmt.Errorf("%w: %d bytes does not fit in memory", ErrAllocation, size)
	}

	return &Image{
		Width:  width,
		Height: height,
		Depth:  depth,
		Slices: slices,
		Format: format,
		Data:   make([]byte, int(size)),
	}, nil
}

// ImageSize returns the storage size of an image, checking for overflow.
func ImageSize(width, height, depth, slices int, format Format) (int64, error) {
	if width <= 0 || height <= 0 || depth <= 0 || slices <= 0 {
		return 0, fmt.Errorf("%w: %dx%dx%d with %d slices", ErrDimensions, width, height, depth, slices)
	}
	if !format.Valid() {
		return 0, fmt.Errorf("unknown format %s", format)
	}

	bw, bh := format.BlockDims()
	size := int64(1)
	for _, n := range []int64{
		int64((width + bw - 1) / bw),
		int64((height + bh - 1) / bh),
		int64(depth),
		int64(slices),
		int64(format.BlockBytes()),
	} {
		if size > math.MaxInt64/n {
			return 0, fmt.Errorf("%w: size overflows", ErrAllocation)
		}
		size *= n
	}
	return size, nil
}

// BlocksWide returns the number of block columns.
func (img *Image) BlocksWide() int {
	bw, _ := img.Format.BlockDims()
	return (img.Width + bw - 1) / bw
}

// BlocksHigh returns the number of block rows.
func (img *Image) BlocksHigh() int {
	_, bh := img.Format.BlockDims()
	return (img.Height + bh - 1) / bh
}

// RowPitch returns the byte distance between block rows.
func (img *Image) RowPitch() int {
	return img.BlocksWide() * img.Format.BlockBytes()
}

// SliceSize returns the byte size of one slice, all depth planes included.
func (img *Image) SliceSize() int {
	return img.RowPitch() * img.BlocksHigh() * img.Depth
}

// Size returns the expected storage size of the whole image.
func (img *Image) Size() int {
	return img.SliceSize() * img.Slices
}

// BlockIndex maps a block coordinate within a slice to a linear block index.
func (img *Image) BlockIndex(bx, by, slice int) int {
	return (slice*img.Depth*img.BlocksHigh()+by)*img.BlocksWide() + bx
}

// BlockOffset returns the byte offset of a block. For uncompressed formats
// bx and by are pixel coordinates.
func (img *Image) BlockOffset(bx, by, slice int) int {
	return img.BlockIndex(bx, by, slice) * img.Format.BlockBytes()
}

// SliceData returns the bytes of one slice.
func (img *Image) SliceData(slice int) []byte {
	size := img.SliceSize()
	return img.Data[slice*size : (slice+1)*size]
}

// Check verifies that the storage matches the dimensions and format.
func (img *Image) Check() error {
	expected, err := ImageSize(img.Width, img.Height, img.Depth, img.Slices, img.Format)
	if err != nil {
		return err
	}
	if int64(len(img.Data)) != expected {
		return fmt.Errorf("%w: image data size (0x%x) did not match expected (0x%x) for dimensions %dx%d",
			ErrSizeMismatch, len(img.Data), expected, img.Width, img.Height)
	}
	return nil
}

// String returns a human-readable representation.
func (img *Image) String() string {
	return fmt.Sprintf("Texture: %dx%d, depth=%d, slices=%d, format=%s, size=%d",
		img.Width, img.Height, img.Depth, img.Slices, img.Format, len(img.Data))
}
