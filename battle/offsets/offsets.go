// Package offsets reads offset tables and resolves each entry to a script.
//
// Table order is the externally meaningful index ("script #7"). A separate
// sorted, deduplicated view answers nearest-neighbour queries used to
// diagnose overlapping or ambiguous script regions; decoding never depends
// on it.
package offsets

import (
	"fmt"
	"slices"

	"github.com/zboralski/battledump/battle"
	"github.com/zboralski/battledump/battle/cursor"
	"github.com/zboralski/battledump/battle/opcode"
	"github.com/zboralski/battledump/battle/script"
)

// Table is an ordered list of stored offsets.
type Table struct {
	Raw []int

	sorted []int
	extra  []int
}

// Read16 reads n u16 offsets at the cursor.
func Read16(c *cursor.Cursor, n int) (*Table, error) {
	vs, err := c.U16s(n)
	if err != nil {
		return nil, fmt.Errorf("offset table u16[%d]: %w", n, err)
	}
	t := &Table{Raw: make([]int, n)}
	for i, v := range vs {
		t.Raw[i] = int(v)
	}
	return t, nil
}

// Read32 reads n u32 offsets at the cursor.
func Read32(c *cursor.Cursor, n int) (*Table, error) {
	vs, err := c.U32s(n)
	if err != nil {
		return nil, fmt.Errorf("offset table u32[%d]: %w", n, err)
	}
	t := &Table{Raw: make([]int, n)}
	for i, v := range vs {
		t.Raw[i] = int(v)
	}
	return t, nil
}

// Bound adds known region starts (e.g. the start of the next section) to the
// adjacency view. It does not change Raw.
func (t *Table) Bound(starts ...int) {
	t.extra = append(t.extra, starts...)
	t.sorted = nil
}

// Sorted returns the sorted, deduplicated non-zero offsets plus any bounds.
func (t *Table) Sorted() []int {
	if t.sorted != nil {
		return t.sorted
	}
	out := make([]int, 0, len(t.Raw)+len(t.extra))
	for _, v := range t.Raw {
		if v != 0 {
			out = append(out, v)
		}
	}
	out = append(out, t.extra...)
	slices.Sort(out)
	t.sorted = slices.Compact(out)
	return t.sorted
}

// Neighbors is the result of a nearest-neighbour query.
type Neighbors struct {
	Below, Above       int
	HasBelow, HasAbove bool
}

// Neighbors returns the greatest stored offset <= q and the least stored
// offset >= q. An exact match is returned on both sides.
func (t *Table) Neighbors(q int) Neighbors {
	s := t.Sorted()
	i, found := slices.BinarySearch(s, q)
	if found {
		return Neighbors{Below: q, Above: q, HasBelow: true, HasAbove: true}
	}
	var n Neighbors
	if i > 0 {
		n.Below, n.HasBelow = s[i-1], true
	}
	if i < len(s) {
		n.Above, n.HasAbove = s[i], true
	}
	return n
}

// Resolve decodes the script behind every entry. The result is aligned 1:1
// with t.Raw. Non-zero entries have bias added before decoding; a stored zero
// is always an empty script.
func Resolve(buf []byte, t *Table, bias int, ops *opcode.Table, opt battle.Options) []battle.Script {
	out := make([]battle.Script, len(t.Raw))
	for i, raw := range t.Raw {
		if raw == 0 {
			out[i] = battle.EmptyScript(0)
			continue
		}
		out[i] = script.Resolve(buf, raw+bias, ops, opt)
	}
	return out
}

// Check compares each decoded script's extent with the next stored start (or
// the end of buf) and reports gaps and overlaps. scripts must come from
// Resolve with the same table and bias.
func Check(buf []byte, t *Table, bias int, scripts []battle.Script) []battle.Diagnostic {
	var diags []battle.Diagnostic
	for i, s := range scripts {
		if s.Empty() || s.Failed() || i >= len(t.Raw) {
			continue
		}
		next := len(buf)
		if n := t.Neighbors(t.Raw[i] + 1); n.HasAbove {
			next = n.Above + bias
		}
		switch {
		case s.End > next:
			diags = append(diags, battle.Diagnostic{
				Offset: s.Offset,
				Kind:   "overlap",
				Msg:    fmt.Sprintf("entry %d: script ends at 0x%x, past next start 0x%x", i, s.End, next),
			})
		case s.End < next:
			diags = append(diags, battle.Diagnostic{
				Offset: s.End,
				Kind:   "gap",
				Msg:    fmt.Sprintf("entry %d: %d undecoded bytes before 0x%x", i, next-s.End, next),
			})
		}
	}
	return diags
}

// Failures returns one diagnostic per failed script.
func Failures(scripts []battle.Script) []battle.Diagnostic {
	var diags []battle.Diagnostic
	for i, s := range scripts {
		if s.Failed() {
			diags = append(diags, battle.Diagnostic{
				Offset: s.Offset,
				Kind:   "error",
				Msg:    fmt.Sprintf("entry %d: %s", i, s.Instructions[0].Error),
			})
		}
	}
	return diags
}
