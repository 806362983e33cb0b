package opcode

import (
	"errors"
	"testing"

	"github.com/zboralski/battledump/battle"
	"github.com/zboralski/battledump/battle/cursor"
)

func TestActionTerminators(t *testing.T) {
	got := Action.Terminators()
	if len(got) != 2 || got[0] != ActionRet || got[1] != ActionRet2 {
		t.Fatalf("action terminators = %x, want [ee ff]", got)
	}
	for _, tbl := range []*Table{CameraPosition, CameraDirection} {
		got := tbl.Terminators()
		if len(got) != 1 || got[0] != CameraRet {
			t.Errorf("%s terminators = %x, want [ff]", tbl.Name(), got)
		}
	}
}

func TestDecodeAnim(t *testing.T) {
	c := cursor.New([]byte{0x07})
	in, err := Decode(c, Action)
	if err != nil {
		t.Fatal(err)
	}
	if in.Name != "ANIM" || in.Length != 1 || in.Terminal {
		t.Fatalf("unexpected instruction %+v", in)
	}
	if v, ok := in.Field("anim"); !ok || v != 7 {
		t.Errorf("anim = %d, %v", v, ok)
	}
}

func TestDecodeOperands(t *testing.T) {
	// SOUND frame=3 sound=0x0102, then MOVE x=-1 z=2 frames=9
	c := cursor.New([]byte{0x90, 0x03, 0x02, 0x01, 0xD0, 0xFF, 0xFF, 0x02, 0x00, 0x09})
	in, err := Decode(c, Action)
	if err != nil {
		t.Fatal(err)
	}
	if in.Name != "SOUND" || in.Length != 4 || in.Offset != 0 {
		t.Fatalf("unexpected instruction %+v", in)
	}
	if v, _ := in.Field("sound"); v != 0x0102 {
		t.Errorf("sound = 0x%x", v)
	}
	in, err = Decode(c, Action)
	if err != nil {
		t.Fatal(err)
	}
	want := []battle.Field{{Name: "x", Value: -1}, {Name: "z", Value: 2}, {Name: "frames", Value: 9}}
	if in.Offset != 4 || in.Length != 6 || len(in.Fields) != len(want) {
		t.Fatalf("unexpected instruction %+v", in)
	}
	for i, f := range want {
		if in.Fields[i] != f {
			t.Errorf("field %d = %+v, want %+v", i, in.Fields[i], f)
		}
	}
	if c.Pos() != 10 {
		t.Errorf("cursor at %d, want 10", c.Pos())
	}
}

func TestConditionalOperand(t *testing.T) {
	c := cursor.New([]byte{0xC1, 0x01, 0xC1, 0xFF, 0x34, 0x12})
	in, err := Decode(c, Action)
	if err != nil {
		t.Fatal(err)
	}
	if in.Length != 2 {
		t.Errorf("SPELL kind=1 length = %d, want 2", in.Length)
	}
	if _, ok := in.Field("spell"); ok {
		t.Error("spell operand present for kind != 0xFF")
	}
	in, err = Decode(c, Action)
	if err != nil {
		t.Fatal(err)
	}
	if in.Length != 4 {
		t.Errorf("SPELL kind=0xFF length = %d, want 4", in.Length)
	}
	if v, _ := in.Field("spell"); v != 0x1234 {
		t.Errorf("spell = 0x%x", v)
	}

	// camera MODE: x,y only when mode != 0
	c = cursor.New([]byte{0xFE, 0x00, 0xFE, 0x02, 0x10, 0x00, 0x20, 0x00})
	in, _ = Decode(c, CameraPosition)
	if in.Length != 2 {
		t.Errorf("MODE 0 length = %d, want 2", in.Length)
	}
	in, _ = Decode(c, CameraDirection)
	if in.Length != 6 {
		t.Errorf("MODE 2 length = %d, want 6", in.Length)
	}
}

func TestUnknownOpcode(t *testing.T) {
	c := cursor.New([]byte{0x97, 0xEE})
	in, err := Decode(c, Action)
	if err != nil {
		t.Fatalf("unknown opcode should not error: %v", err)
	}
	if !in.Unknown || in.Name != battle.NameUnknown || in.Length != 1 {
		t.Fatalf("unexpected instruction %+v", in)
	}
	if c.Pos() != 1 {
		t.Errorf("cursor at %d, want 1", c.Pos())
	}
}

func TestTruncatedOperand(t *testing.T) {
	c := cursor.New([]byte{0x90, 0x03, 0x02})
	_, err := Decode(c, Action)
	if !errors.Is(err, battle.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if c.Pos() != 0 {
		t.Errorf("failed decode left cursor at %d", c.Pos())
	}
}

func TestConditionOnUndecodedField(t *testing.T) {
	bad := build("bad", op(0x01, "BAD", ifEq(u8("x"), "missing", 1)), ret(0xFF, "RET"))
	_, err := Decode(cursor.New([]byte{0x01, 0x00}), bad)
	if !errors.Is(err, battle.ErrMalformedScript) {
		t.Fatalf("expected ErrMalformedScript, got %v", err)
	}
}

func TestLayoutsConsistent(t *testing.T) {
	for _, tbl := range []*Table{Action, CameraPosition, CameraDirection} {
		for i := 0; i < 256; i++ {
			info, ok := tbl.Lookup(byte(i))
			if !ok {
				if tbl.MinLength(byte(i)) != 1 {
					t.Errorf("%s 0x%02x: unknown opcode min length %d", tbl.Name(), i, tbl.MinLength(byte(i)))
				}
				continue
			}
			seen := map[string]bool{}
			if info.Implicit != "" {
				seen[info.Implicit] = true
			}
			for _, o := range info.Operands {
				if seen[o.Name] {
					t.Errorf("%s %s: duplicate operand %q", tbl.Name(), info.Name, o.Name)
				}
				if o.When != nil && !seen[o.When.Field] {
					t.Errorf("%s %s: operand %q depends on later field %q", tbl.Name(), info.Name, o.Name, o.When.Field)
				}
				seen[o.Name] = true
			}
			if info.Terminal && len(info.Operands) != 0 {
				t.Errorf("%s %s: terminator with operands", tbl.Name(), info.Name)
			}
		}
	}
}

func TestDuplicateDefinitionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for duplicate opcode")
		}
	}()
	build("dup", op(0x01, "A"), op(0x01, "B"))
}

func TestBuildRequiresBareTerminator(t *testing.T) {
	cases := map[string]func(){
		"no terminator": func() { build("noret", op(0x01, "A")) },
		"operands":      func() { build("argret", []entry{{0xFF, Info{Name: "RET", Terminal: true, Operands: []Operand{u8("x")}}}}) },
	}
	for name, fn := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: expected panic", name)
				}
			}()
			fn()
		}()
	}
}
