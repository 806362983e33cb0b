package cursor

import (
	"errors"
	"testing"

	"github.com/zboralski/battledump/battle"
)

func TestScalarsLittleEndian(t *testing.T) {
	c := New([]byte{
		0xFE,
		0x34, 0x12,
		0xFF, 0xFF,
		0x56, 0x34, 0x12,
		0xFF, 0xFF, 0xFF,
		0x78, 0x56, 0x34, 0x12,
	})
	if v, _ := c.I8(); v != -2 {
		t.Errorf("i8 = %d, want -2", v)
	}
	if v, _ := c.U16(); v != 0x1234 {
		t.Errorf("u16 = 0x%x", v)
	}
	if v, _ := c.I16(); v != -1 {
		t.Errorf("i16 = %d, want -1", v)
	}
	if v, _ := c.U24(); v != 0x123456 {
		t.Errorf("u24 = 0x%x", v)
	}
	if v, _ := c.I24(); v != -1 {
		t.Errorf("i24 = %d, want -1", v)
	}
	if v, _ := c.U32(); v != 0x12345678 {
		t.Errorf("u32 = 0x%x", v)
	}
	if c.Remaining() != 0 || c.Pos() != c.Len() {
		t.Errorf("pos=%d remaining=%d, want fully consumed", c.Pos(), c.Remaining())
	}
}

func TestOutOfRangeKeepsPosition(t *testing.T) {
	c := New([]byte{1, 2, 3})
	if _, err := c.U8(); err != nil {
		t.Fatal(err)
	}
	_, err := c.U32()
	if !errors.Is(err, battle.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	var de *battle.DataError
	if !errors.As(err, &de) || de.Off != 1 {
		t.Fatalf("expected DataError at offset 1, got %v", err)
	}
	if c.Pos() != 1 {
		t.Errorf("failed read moved position to %d", c.Pos())
	}
	if v, err := c.U16(); err != nil || v != 0x0302 {
		t.Errorf("u16 after failure = 0x%x, %v", v, err)
	}
}

func TestPeekDoesNotAdvance(t *testing.T) {
	c := New([]byte{0xEE})
	for i := 0; i < 2; i++ {
		b, err := c.Peek()
		if err != nil || b != 0xEE {
			t.Fatalf("peek = 0x%x, %v", b, err)
		}
	}
	if c.Pos() != 0 {
		t.Errorf("peek moved position to %d", c.Pos())
	}
	c.U8()
	if _, err := c.Peek(); !errors.Is(err, battle.ErrOutOfRange) {
		t.Errorf("peek at end: expected ErrOutOfRange, got %v", err)
	}
}

func TestSeekBounds(t *testing.T) {
	c := New(make([]byte, 4))
	if err := c.Seek(4); err != nil {
		t.Errorf("seek to end should succeed: %v", err)
	}
	if err := c.Seek(5); !errors.Is(err, battle.ErrOutOfRange) {
		t.Errorf("seek past end: got %v", err)
	}
	if err := c.Seek(-1); !errors.Is(err, battle.ErrOutOfRange) {
		t.Errorf("negative seek: got %v", err)
	}
	if c.Pos() != 4 {
		t.Errorf("failed seek moved position to %d", c.Pos())
	}
}

func TestArrays(t *testing.T) {
	c := New([]byte{1, 0, 2, 0, 0xFF, 0xFF, 9, 0, 0, 0})
	u, err := c.U16s(2)
	if err != nil || u[0] != 1 || u[1] != 2 {
		t.Fatalf("u16s = %v, %v", u, err)
	}
	i, err := c.I16s(1)
	if err != nil || i[0] != -1 {
		t.Fatalf("i16s = %v, %v", i, err)
	}
	w, err := c.U32s(1)
	if err != nil || w[0] != 9 {
		t.Fatalf("u32s = %v, %v", w, err)
	}
	if _, err := c.U32s(1); !errors.Is(err, battle.ErrOutOfRange) {
		t.Errorf("u32s past end: got %v", err)
	}
}

func TestBytesCopies(t *testing.T) {
	data := []byte{1, 2, 3}
	c := New(data)
	b, err := c.Bytes(2)
	if err != nil {
		t.Fatal(err)
	}
	b[0] = 0x7F
	if data[0] != 1 {
		t.Error("Bytes returned a slice aliasing the buffer")
	}
	if _, err := c.Bytes(-1); !errors.Is(err, battle.ErrOutOfRange) {
		t.Errorf("negative count: got %v", err)
	}
}
