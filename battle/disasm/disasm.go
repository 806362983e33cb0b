// Package disasm renders decoded scripts as text listings.
package disasm

import (
	"fmt"
	"strings"

	"github.com/zboralski/battledump/battle"
)

const commentCol = 60

// Section is a titled offset table of scripts, in table order.
type Section struct {
	Title   string
	Scripts []battle.Script
}

// Script writes the listing of one script. Each instruction goes on its own
// line: address, mnemonic, operands as name=value, then a comment column.
func Script(b *strings.Builder, s battle.Script) {
	for _, in := range s.Instructions {
		col := 0
		addr := fmt.Sprintf("%05X", in.Offset)
		b.WriteString(addr)
		col += len(addr)

		b.WriteString("  ")
		col += 2

		name := in.Name
		if in.Unknown {
			name = fmt.Sprintf("OP_0x%02X", in.Op)
		}
		name = fmt.Sprintf("%-12s", name)
		b.WriteString(name)
		col += len(name)

		for _, f := range in.Fields {
			operand := fmt.Sprintf(" %s=%d", f.Name, f.Value)
			b.WriteString(operand)
			col += len(operand)
		}

		comment := ""
		switch {
		case in.Error != "":
			comment = in.Error
		case in.Unknown:
			comment = "unknown opcode"
		}
		if comment != "" {
			pad(b, col)
			fmt.Fprintf(b, "; %s", comment)
		}
		b.WriteByte('\n')
	}
	if n := s.End - s.Offset - s.Size(); n > 0 && !s.Failed() {
		line := fmt.Sprintf("%05X  ", s.Offset+s.Size())
		b.WriteString(line)
		pad(b, len(line))
		fmt.Fprintf(b, "; %d pad bytes\n", n)
	}
}

// Sections renders every section of a file. Slots sharing a script are
// listed once, under the first slot that references it; empty slots are
// summarized on one line per section.
func Sections(title string, sections []Section) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "; %s\n", title)
	}
	for _, sec := range sections {
		fmt.Fprintf(&b, "\n; %s: %d entries\n", sec.Title, len(sec.Scripts))
		b.WriteString("loc     op\n")
		b.WriteString("-----   --\n")

		slots := make(map[int][]int)
		var order []int
		var empty []int
		for i, s := range sec.Scripts {
			if s.Empty() {
				empty = append(empty, i)
				continue
			}
			if _, seen := slots[s.Offset]; !seen {
				order = append(order, i)
			}
			slots[s.Offset] = append(slots[s.Offset], i)
		}

		first := true
		for _, i := range order {
			s := sec.Scripts[i]
			if !first {
				b.WriteByte('\n')
			}
			first = false
			line := fmt.Sprintf("loc_%05X:", s.Offset)
			b.WriteString(line)
			pad(&b, len(line))
			fmt.Fprintf(&b, "; %s\n", entries(slots[s.Offset]))
			Script(&b, s)
		}
		if len(empty) > 0 {
			if !first {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "; empty: %s\n", entries(empty))
		}
	}
	return b.String()
}

func entries(idx []int) string {
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = fmt.Sprint(v)
	}
	if len(idx) == 1 {
		return "entry " + parts[0]
	}
	return "entries " + strings.Join(parts, ", ")
}

func pad(b *strings.Builder, col int) {
	n := commentCol - col
	if n < 1 {
		n = 1
	}
	b.WriteString(strings.Repeat(" ", n))
}
