package consensus

import "encoding/binary"

// cursor is a forward-only reader over a byte slice. Every parse
// function in this package reads through a cursor so that a short
// read surfaces as a single, consistently-shaped decode error instead
// of a panic on an out-of-range slice.
type cursor struct {
	b   []byte
	pos int
}

func newCursor(b []byte) *cursor {
	return &cursor{b: b, pos: 0}
}

func (c *cursor) remaining() int {
	if c.pos >= len(c.b) {
		return 0
	}
	return len(c.b) - c.pos
}

func (c *cursor) readExact(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, newErr(ErrDecode, "truncated input")
	}
	start := c.pos
	c.pos += n
	return c.b[start:c.pos], nil
}

func (c *cursor) readU8() (byte, error) {
	b, err := c.readExact(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) readU32LE() (uint32, error) {
	b, err := c.readExact(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) readU64LE() (uint64, error) {
	b, err := c.readExact(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// readLengthPrefixed reads a 4-byte little-endian length prefix
// followed by that many bytes. It rejects a length prefix that
// exceeds the remaining buffer before ever attempting the read, per
// the Codec's decode-error contract.
func (c *cursor) readLengthPrefixed() ([]byte, error) {
	n, err := c.readU32LE()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(c.remaining()) {
		return nil, newErr(ErrDecode, "length prefix exceeds remaining buffer")
	}
	return c.readExact(int(n))
}

// readFixed reads a length-prefixed field and requires it to be
// exactly n bytes, for the hash/signature/pubkey/address fields whose
// on-wire length never varies.
func (c *cursor) readFixed(n int) ([]byte, error) {
	b, err := c.readLengthPrefixed()
	if err != nil {
		return nil, err
	}
	if len(b) != n {
		return nil, newErr(ErrDecode, "unexpected field length")
	}
	return b, nil
}

// AppendU32LE appends v as a 4-byte little-endian value to dst.
func AppendU32LE(dst []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(dst, buf[:]...)
}

// AppendU64LE appends v as an 8-byte little-endian value to dst.
func AppendU64LE(dst []byte, v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return append(dst, buf[:]...)
}

// AppendLengthPrefixed appends b's length as 4-byte little-endian
// followed by b itself.
func AppendLengthPrefixed(dst []byte, b []byte) []byte {
	dst = AppendU32LE(dst, uint32(len(b)))
	return append(dst, b...)
}
