// Package script resolves the extent of one script inside a buffer.
package script

import (
	"github.com/zboralski/battledump/battle"
	"github.com/zboralski/battledump/battle/cursor"
	"github.com/zboralski/battledump/battle/opcode"
)

// IsSentinel reports whether off points at no script: zero, past the end of
// buf, or at a zero byte.
func IsSentinel(buf []byte, off int) bool {
	return off <= 0 || off >= len(buf) || buf[off] == 0
}

// Resolve decodes the script starting at off with the given instruction set.
// Decoding stops at the first terminator; the run of zero bytes after it is
// skipped as padding. A sentinel offset yields an empty script.
//
// Resolve never fails: a script that runs out of bytes, exceeds the step cap
// or hits an inconsistent operand layout comes back as a single ERROR
// instruction at off.
func Resolve(buf []byte, off int, t *opcode.Table, opt battle.Options) battle.Script {
	if IsSentinel(buf, off) {
		return battle.EmptyScript(off)
	}
	s, err := decode(buf, off, t, opt)
	if err != nil {
		return battle.Script{
			Offset:       off,
			End:          off,
			Instructions: []battle.Instruction{battle.ErrorInstruction(off, err)},
		}
	}
	return s
}

func decode(buf []byte, off int, t *opcode.Table, opt battle.Options) (battle.Script, error) {
	c := cursor.New(buf)
	if err := c.Seek(off); err != nil {
		return battle.Script{}, err
	}
	s := battle.Script{Offset: off}
	maxSteps := opt.EffectiveMaxSteps()

	for steps := 0; ; steps++ {
		if steps >= maxSteps {
			return battle.Script{}, battle.DataErrf(c.Pos(), battle.ErrMalformedScript,
				"%s script at 0x%x: step limit %d exceeded", t.Name(), off, maxSteps)
		}
		if c.Remaining() == 0 {
			return battle.Script{}, battle.DataErrf(c.Pos(), battle.ErrMalformedScript,
				"%s script at 0x%x: end of buffer before terminator", t.Name(), off)
		}
		in, err := opcode.Decode(c, t)
		if err != nil {
			return battle.Script{}, err
		}
		s.Instructions = append(s.Instructions, in)
		if in.Terminal {
			break
		}
	}

	end := c.Pos()
	for end < len(buf) && buf[end] == 0 {
		end++
	}
	s.End = end
	return s, nil
}
