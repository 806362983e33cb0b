// Package opcode decodes single instructions of the battle script formats.
//
// Each format has a static [256]Info table mapping the leading opcode byte to
// an operand layout. Operand widths are fixed per opcode; an operand may be
// present only when an earlier operand of the same instruction has a given
// value.
package opcode

import (
	"fmt"

	"github.com/zboralski/battledump/battle"
	"github.com/zboralski/battledump/battle/cursor"
)

// Kind is an operand's scalar type.
type Kind uint8

const (
	U8 Kind = iota + 1
	I8
	U16
	I16
	U24
	U32
)

// Width returns the operand size in bytes.
func (k Kind) Width() int {
	switch k {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	case U24:
		return 3
	case U32:
		return 4
	}
	return 0
}

// Cond makes an operand conditional on an earlier operand of the same instruction.
type Cond struct {
	Field string
	Equal bool // true: present when Field == Value; false: present when Field != Value
	Value int64
}

func (c *Cond) holds(fields []battle.Field) (bool, error) {
	for _, f := range fields {
		if f.Name == c.Field {
			return (f.Value == c.Value) == c.Equal, nil
		}
	}
	return false, fmt.Errorf("condition on undecoded operand %q", c.Field)
}

// Operand describes one operand of an opcode.
type Operand struct {
	Name string
	Kind Kind
	When *Cond
}

// Info holds metadata about an opcode. A zero Info means the opcode has no entry.
type Info struct {
	Name     string
	Operands []Operand
	Terminal bool
	// Implicit names a field whose value is the opcode byte itself
	// (e.g. the animation index of an action-sequence ANIM).
	Implicit string
}

// Table is an immutable opcode table for one instruction set.
type Table struct {
	name string
	ops  [256]Info
}

// Name returns the instruction set name.
func (t *Table) Name() string { return t.name }

// Lookup returns the entry for op.
func (t *Table) Lookup(op byte) (Info, bool) {
	info := t.ops[op]
	return info, info.Name != ""
}

// Terminators returns the terminator opcodes in ascending order.
func (t *Table) Terminators() []byte {
	var out []byte
	for i := range t.ops {
		if t.ops[i].Terminal {
			out = append(out, byte(i))
		}
	}
	return out
}

// MinLength returns the fixed part of op's width: the opcode byte plus all
// unconditional operands. Unknown opcodes are one byte.
func (t *Table) MinLength(op byte) int {
	n := 1
	for _, o := range t.ops[op].Operands {
		if o.When == nil {
			n += o.Kind.Width()
		}
	}
	return n
}

// Decode reads one instruction at the cursor. On error the cursor is left at
// the instruction start. Opcodes without an entry decode as a one-byte
// UNKNOWN instruction so byte accounting can continue.
func Decode(c *cursor.Cursor, t *Table) (battle.Instruction, error) {
	if t == nil {
		panic("opcode.Decode: table must not be nil")
	}
	start := c.Pos()
	op, err := c.U8()
	if err != nil {
		return battle.Instruction{}, err
	}
	in := battle.Instruction{Op: op, Offset: start}

	info, ok := t.Lookup(op)
	if !ok {
		in.Name = battle.NameUnknown
		in.Unknown = true
		in.Length = 1
		return in, nil
	}
	in.Name = info.Name
	in.Terminal = info.Terminal
	if info.Implicit != "" {
		in.Fields = append(in.Fields, battle.Field{Name: info.Implicit, Value: int64(op)})
	}

	want := 1
	for _, o := range info.Operands {
		if o.When != nil {
			present, err := o.When.holds(in.Fields)
			if err != nil {
				rewind(c, start)
				return battle.Instruction{}, battle.DataErrf(start, battle.ErrMalformedScript,
					"%s %s operand %s: %v", t.name, info.Name, o.Name, err)
			}
			if !present {
				continue
			}
		}
		v, err := read(c, o.Kind)
		if err != nil {
			rewind(c, start)
			return battle.Instruction{}, fmt.Errorf("%s %s operand %s: %w", t.name, info.Name, o.Name, err)
		}
		in.Fields = append(in.Fields, battle.Field{Name: o.Name, Value: v})
		want += o.Kind.Width()
	}

	in.Length = c.Pos() - start
	if in.Length != want {
		panic(fmt.Sprintf("opcode.Decode: %s 0x%02x at 0x%x consumed %d bytes, layout declares %d",
			info.Name, op, start, in.Length, want))
	}
	return in, nil
}

// rewind returns c to an instruction start it has already read from.
func rewind(c *cursor.Cursor, start int) {
	if err := c.Seek(start); err != nil {
		panic(fmt.Sprintf("opcode.Decode: rewind to 0x%x: %v", start, err))
	}
}

func read(c *cursor.Cursor, k Kind) (int64, error) {
	switch k {
	case U8:
		v, err := c.U8()
		return int64(v), err
	case I8:
		v, err := c.I8()
		return int64(v), err
	case U16:
		v, err := c.U16()
		return int64(v), err
	case I16:
		v, err := c.I16()
		return int64(v), err
	case U24:
		v, err := c.U24()
		return int64(v), err
	case U32:
		v, err := c.U32()
		return int64(v), err
	}
	return 0, battle.DataErrf(c.Pos(), battle.ErrMalformedScript, "operand kind %d", k)
}

// Table construction helpers. Tables are built once at package init.

type entry struct {
	op   byte
	info Info
}

func build(name string, groups ...[]entry) *Table {
	t := &Table{name: name}
	for _, g := range groups {
		for _, e := range g {
			if t.ops[e.op].Name != "" {
				panic(fmt.Sprintf("opcode: %s table defines 0x%02x twice", name, e.op))
			}
			for _, o := range e.info.Operands {
				if o.Kind.Width() == 0 {
					panic(fmt.Sprintf("opcode: %s 0x%02x operand %s has no width", name, e.op, o.Name))
				}
			}
			t.ops[e.op] = e.info
		}
	}
	term := t.Terminators()
	if len(term) == 0 {
		panic(fmt.Sprintf("opcode: %s table has no terminator", name))
	}
	for _, op := range term {
		if t.MinLength(op) != 1 || len(t.ops[op].Operands) != 0 {
			panic(fmt.Sprintf("opcode: %s terminator 0x%02x takes operands", name, op))
		}
	}
	return t
}

func op(code byte, name string, operands ...Operand) []entry {
	return []entry{{code, Info{Name: name, Operands: operands}}}
}

func ret(code byte, name string) []entry {
	return []entry{{code, Info{Name: name, Terminal: true}}}
}

func span(lo, hi byte, info Info) []entry {
	var out []entry
	for c := int(lo); c <= int(hi); c++ {
		out = append(out, entry{byte(c), info})
	}
	return out
}

func u8(name string) Operand  { return Operand{Name: name, Kind: U8} }
func i8(name string) Operand  { return Operand{Name: name, Kind: I8} }
func u16(name string) Operand { return Operand{Name: name, Kind: U16} }
func i16(name string) Operand { return Operand{Name: name, Kind: I16} }
func u24(name string) Operand { return Operand{Name: name, Kind: U24} }

// ifEq makes o present only when field == v.
func ifEq(o Operand, field string, v int64) Operand {
	o.When = &Cond{Field: field, Equal: true, Value: v}
	return o
}

// ifNe makes o present only when field != v.
func ifNe(o Operand, field string, v int64) Operand {
	o.When = &Cond{Field: field, Equal: false, Value: v}
	return o
}

func xyz(prefix string) []Operand {
	return []Operand{i16(prefix + "x"), i16(prefix + "y"), i16(prefix + "z")}
}

func cat(groups ...[]Operand) []Operand {
	var out []Operand
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
