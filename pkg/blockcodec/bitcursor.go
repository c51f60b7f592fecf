package blockcodec

import "encoding/binary"

// BitCursor reads little-endian bit fields from a 64 or 128-bit block,
// starting at bit 0 of the first byte. A cursor belongs to one block decode.
type BitCursor struct {
	lo, hi uint64
	pos    uint
}

// NewBitCursor returns a cursor over an 8 or 16-byte block.
func NewBitCursor(block []byte) BitCursor {
	c := BitCursor{lo: binary.LittleEndian.Uint64(block)}
	if len(block) >= 16 {
		c.hi = binary.LittleEndian.Uint64(block[8:])
	}
	return c
}

// TakeBits returns the next n bits (n <= 32) and advances the cursor. Bits
// past the end of the block read as zero.
func (c *BitCursor) TakeBits(n uint) uint32 {
	if n == 0 {
		return 0
	}
	var v uint64
	switch {
	case c.pos >= 64:
		v = c.hi >> (c.pos - 64)
	case c.pos+n <= 64:
		v = c.lo >> c.pos
	default:
		v = c.lo>>c.pos | c.hi<<(64-c.pos)
	}
	c.pos += n
	return uint32(v & (1<<n - 1))
}

// Skip advances the cursor by n bits.
func (c *BitCursor) Skip(n uint) { c.pos += n }

// Seek moves the cursor to an absolute bit position.
func (c *BitCursor) Seek(pos uint) { c.pos = pos }

// Pos returns the current bit position.
func (c *BitCursor) Pos() uint { return c.pos }
