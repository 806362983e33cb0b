package battle

// Field is one decoded operand. Fields keep the operand order of the opcode table.
type Field struct {
	Name  string `json:"name" msgpack:"name"`
	Value int64  `json:"value" msgpack:"value"`
}

// Instruction is one decoded script instruction.
type Instruction struct {
	Op       byte    `json:"op" msgpack:"op"`
	Name     string  `json:"name" msgpack:"name"`
	Offset   int     `json:"offset" msgpack:"offset"`
	Length   int     `json:"length" msgpack:"length"`
	Fields   []Field `json:"fields,omitempty" msgpack:"fields,omitempty"`
	Terminal bool    `json:"terminal,omitempty" msgpack:"terminal,omitempty"`
	Unknown  bool    `json:"unknown,omitempty" msgpack:"unknown,omitempty"`
	Error    string  `json:"error,omitempty" msgpack:"error,omitempty"`
}

// Mnemonics shared by every instruction set.
const (
	NameUnknown = "UNKNOWN"
	NameError   = "ERROR"
)

// Field returns the named operand value.
func (in Instruction) Field(name string) (int64, bool) {
	for _, f := range in.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return 0, false
}

// ErrorInstruction builds the marker that replaces a script which failed to decode.
func ErrorInstruction(off int, err error) Instruction {
	return Instruction{Name: NameError, Offset: off, Error: err.Error()}
}

// Script is an ordered run of instructions starting at Offset. A well-formed
// script is empty or ends in exactly one terminator; a failed script holds a
// single ERROR instruction.
type Script struct {
	Offset       int           `json:"offset" msgpack:"offset"`
	End          int           `json:"end" msgpack:"end"` // first byte past the trailing pad run
	Instructions []Instruction `json:"instructions" msgpack:"instructions"`
}

// EmptyScript is the script stored for a sentinel slot. Instructions is
// non-nil so the slot serializes as an empty list.
func EmptyScript(off int) Script {
	return Script{Offset: off, End: off, Instructions: []Instruction{}}
}

// Empty reports whether the script is a sentinel slot.
func (s Script) Empty() bool {
	return len(s.Instructions) == 0
}

// Failed reports whether the script holds an error marker.
func (s Script) Failed() bool {
	return len(s.Instructions) == 1 && s.Instructions[0].Name == NameError
}

// Terminated reports whether the last instruction is a terminator.
func (s Script) Terminated() bool {
	n := len(s.Instructions)
	return n > 0 && s.Instructions[n-1].Terminal
}

// Size returns the number of bytes covered by instructions, excluding padding.
func (s Script) Size() int {
	n := 0
	for _, in := range s.Instructions {
		n += in.Length
	}
	return n
}

// CountFailed returns the number of failed scripts.
func CountFailed(scripts []Script) int {
	n := 0
	for _, s := range scripts {
		if s.Failed() {
			n++
		}
	}
	return n
}
