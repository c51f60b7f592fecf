package archive

import (
	"fmt"
	"io"

	"github.com/DataDog/zstd"

	"github.com/EchoTools/texblock/pkg/texture"
)

// Writer wraps an io.WriteSeeker to provide compression of .ztex block data.
type Writer struct {
	dst     io.WriteSeeker
	zWriter *zstd.Writer
	header  *Header
	level   int
	start   int64
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithCompressionLevel sets the compression level for the writer.
func WithCompressionLevel(level int) WriterOption {
	return func(w *Writer) {
		w.level = level
	}
}

// NewWriter creates a new archive writer that writes to dst. header describes
// the image whose block data will be written; its Length must equal the
// number of bytes passed to Write.
func NewWriter(dst io.WriteSeeker, header *Header, opts ...WriterOption) (*Writer, error) {
	start, err := dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("get position: %w", err)
	}

	h := *header
	h.CompressedLength = 0 // Will be updated after writing
	w := &Writer{
		dst:    dst,
		level:  DefaultCompressionLevel,
		header: &h,
		start:  start,
	}

	for _, opt := range opts {
		opt(w)
	}

	// Write placeholder header
	headerBytes, err := w.header.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal header: %w", err)
	}
	if _, err := dst.Write(headerBytes); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	w.zWriter = zstd.NewWriterLevel(dst, w.level)
	return w, nil
}

// Write writes compressed data.
func (w *Writer) Write(p []byte) (n int, err error) {
	return w.zWriter.Write(p)
}

// Header returns the header as written so far.
func (w *Writer) Header() *Header {
	return w.header
}

// Close finalizes the archive by updating the header with the compressed size.
func (w *Writer) Close() error {
	if err := w.zWriter.Close(); err != nil {
		return fmt.Errorf("close compressor: %w", err)
	}

	pos, err := w.dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("get position: %w", err)
	}

	w.header.CompressedLength = uint64(pos - w.start - int64(w.header.Size()))

	if _, err := w.dst.Seek(w.start, io.SeekStart); err != nil {
		return fmt.Errorf("seek to start: %w", err)
	}

	headerBytes, err := w.header.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal header: %w", err)
	}

	if _, err := w.dst.Write(headerBytes); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if _, err := w.dst.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}

	return nil
}

// EncodeImage compresses img and writes it as a .ztex file to dst.
func EncodeImage(dst io.WriteSeeker, img *texture.Image, opts ...WriterOption) error {
	if err := img.Check(); err != nil {
		return fmt.Errorf("encode image: %w", err)
	}

	w, err := NewWriter(dst, NewHeader(img), opts...)
	if err != nil {
		return err
	}

	if _, err := w.Write(img.Data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}

	return w.Close()
}
