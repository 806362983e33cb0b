// Package cursor reads little-endian scalars from a fixed byte buffer.
package cursor

import (
	"encoding/binary"
	"fmt"

	"github.com/zboralski/battledump/battle"
)

// Cursor wraps a byte slice with a read position. A failed read leaves the
// position where it was.
type Cursor struct {
	data []byte
	pos  int
}

// New returns a cursor at offset 0 of data. data is not copied and must not be modified.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Pos returns the current read position.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the buffer length.
func (c *Cursor) Len() int { return len(c.data) }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.data) - c.pos }

// Seek moves to an absolute offset in [0, Len].
func (c *Cursor) Seek(off int) error {
	if off < 0 || off > len(c.data) {
		return battle.DataErrf(off, battle.ErrOutOfRange, "seek past %d-byte buffer", len(c.data))
	}
	c.pos = off
	return nil
}

func (c *Cursor) need(n int, what string) error {
	if n < 0 || c.pos+n > len(c.data) {
		return battle.DataErrf(c.pos, battle.ErrOutOfRange, "%s: need %d bytes, have %d", what, n, c.Remaining())
	}
	return nil
}

// Peek returns the next byte without advancing.
func (c *Cursor) Peek() (byte, error) {
	if err := c.need(1, "peek"); err != nil {
		return 0, err
	}
	return c.data[c.pos], nil
}

func (c *Cursor) U8() (uint8, error) {
	if err := c.need(1, "u8"); err != nil {
		return 0, err
	}
	v := c.data[c.pos]
	c.pos++
	return v, nil
}

func (c *Cursor) I8() (int8, error) {
	v, err := c.U8()
	return int8(v), err
}

func (c *Cursor) U16() (uint16, error) {
	if err := c.need(2, "u16"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.data[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *Cursor) I16() (int16, error) {
	v, err := c.U16()
	return int16(v), err
}

func (c *Cursor) U24() (uint32, error) {
	if err := c.need(3, "u24"); err != nil {
		return 0, err
	}
	b := c.data[c.pos:]
	v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	c.pos += 3
	return v, nil
}

// I24 sign-extends a 24-bit value.
func (c *Cursor) I24() (int32, error) {
	v, err := c.U24()
	return int32(v<<8) >> 8, err
}

func (c *Cursor) U32() (uint32, error) {
	if err := c.need(4, "u32"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, nil
}

func (c *Cursor) I32() (int32, error) {
	v, err := c.U32()
	return int32(v), err
}

// Bytes returns a copy of the next n bytes.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if err := c.need(n, fmt.Sprintf("bytes(%d)", n)); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, c.data[c.pos:c.pos+n])
	c.pos += n
	return b, nil
}

// U16s reads n consecutive u16 values.
func (c *Cursor) U16s(n int) ([]uint16, error) {
	if err := c.need(n*2, fmt.Sprintf("u16[%d]", n)); err != nil {
		return nil, err
	}
	vs := make([]uint16, n)
	for i := range vs {
		vs[i] = binary.LittleEndian.Uint16(c.data[c.pos:])
		c.pos += 2
	}
	return vs, nil
}

// I16s reads n consecutive i16 values.
func (c *Cursor) I16s(n int) ([]int16, error) {
	us, err := c.U16s(n)
	if err != nil {
		return nil, err
	}
	vs := make([]int16, n)
	for i, u := range us {
		vs[i] = int16(u)
	}
	return vs, nil
}

// U32s reads n consecutive u32 values.
func (c *Cursor) U32s(n int) ([]uint32, error) {
	if err := c.need(n*4, fmt.Sprintf("u32[%d]", n)); err != nil {
		return nil, err
	}
	vs := make([]uint32, n)
	for i := range vs {
		vs[i] = binary.LittleEndian.Uint32(c.data[c.pos:])
		c.pos += 4
	}
	return vs, nil
}
