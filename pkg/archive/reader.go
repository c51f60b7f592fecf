package archive

import (
	"fmt"
	"io"
	"math"

	"github.com/DataDog/zstd"

	"github.com/EchoTools/texblock/pkg/texture"
)

const (
	// DefaultCompressionLevel is the default compression level for encoding.
	DefaultCompressionLevel = zstd.BestSpeed
)

// Reader wraps an io.Reader to provide decompression of .ztex block data.
type Reader struct {
	header    *Header
	zReader   io.ReadCloser
	headerBuf [HeaderSize]byte
	maxBytes  int64
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithMaxBytes caps the uncompressed size a header may declare. A limit <= 0
// only rejects sizes that do not fit in memory.
func WithMaxBytes(n int64) ReaderOption {
	return func(r *Reader) {
		r.maxBytes = n
	}
}

// NewReader reads and validates the header, then returns a reader for the
// decompressed block data. Headers declaring more than the size limit
// (texture.DefaultMaxAllocBytes unless set) fail with texture.ErrAllocation.
func NewReader(r io.Reader, opts ...ReaderOption) (*Reader, error) {
	reader := &Reader{
		header:   &Header{},
		maxBytes: texture.DefaultMaxAllocBytes,
	}
	for _, opt := range opts {
		opt(reader)
	}

	if _, err := io.ReadFull(r, reader.headerBuf[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if err := reader.header.UnmarshalBinary(reader.headerBuf[:]); err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	length := reader.header.Length
	if length > math.MaxInt || (reader.maxBytes > 0 && length > uint64(reader.maxBytes)) {
		return nil, fmt.Errorf("%w: header declares %d bytes, limit %d",
			texture.ErrAllocation, length, reader.maxBytes)
	}

	reader.zReader = zstd.NewReader(io.LimitReader(r, int64(reader.header.CompressedLength)))
	return reader, nil
}

// Header returns the archive header.
func (r *Reader) Header() *Header {
	return r.header
}

// Read reads decompressed data into p.
func (r *Reader) Read(p []byte) (n int, err error) {
	return r.zReader.Read(p)
}

// Close closes the reader.
func (r *Reader) Close() error {
	return r.zReader.Close()
}

// Length returns the uncompressed data length.
func (r *Reader) Length() int {
	return int(r.header.Length)
}

// CompressedLength returns the compressed data length.
func (r *Reader) CompressedLength() int {
	return int(r.header.CompressedLength)
}

// ReadAll reads the entire decompressed content from an archive.
func ReadAll(r io.Reader, opts ...ReaderOption) ([]byte, error) {
	img, err := DecodeImage(r, opts...)
	if err != nil {
		return nil, err
	}
	return img.Data, nil
}

// DecodeImage reads a .ztex file into an image.
func DecodeImage(r io.Reader, opts ...ReaderOption) (*texture.Image, error) {
	reader, err := NewReader(r, opts...)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	h := reader.Header()
	img, err := texture.Allocate(int(h.Width), int(h.Height), int(h.Depth), int(h.Slices), h.Format, reader.maxBytes)
	if err != nil {
		return nil, err
	}

	n, err := io.ReadFull(reader, img.Data)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if n != reader.Length() {
		return nil, fmt.Errorf("incomplete read: expected %d, got %d", reader.Length(), n)
	}
	return img, nil
}
