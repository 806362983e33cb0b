// Package camera extracts battle camera scripts.
//
// A camera data file starts with eight u32 fields: the starts of the four
// u16 offset tables (position, direction, victory position, victory
// direction), then the starts of the four script blocks in the same order.
// Table lengths are not stored; each table runs to the next declared start,
// and the last table ends where the position scripts begin.
package camera

import (
	"fmt"

	"github.com/zboralski/battledump/battle"
	"github.com/zboralski/battledump/battle/cursor"
	"github.com/zboralski/battledump/battle/offsets"
	"github.com/zboralski/battledump/battle/opcode"
)

const (
	HeaderSize = 32
	FileCount  = 3
)

// FileName returns the name of camera file i.
func FileName(i int) string {
	return fmt.Sprintf("camdat%d.bin", i)
}

// Starts holds one offset per script kind, in file order.
type Starts struct {
	Position         int `json:"position" msgpack:"position"`
	Direction        int `json:"direction" msgpack:"direction"`
	VictoryPosition  int `json:"victoryPosition" msgpack:"victoryPosition"`
	VictoryDirection int `json:"victoryDirection" msgpack:"victoryDirection"`
}

func (s Starts) list() [4]int {
	return [4]int{s.Position, s.Direction, s.VictoryPosition, s.VictoryDirection}
}

// Header is the camera file header.
type Header struct {
	Tables  Starts `json:"tables" msgpack:"tables"`
	Scripts Starts `json:"scripts" msgpack:"scripts"`
}

// Record is the extracted content of one camera file.
type Record struct {
	Header           *Header             `json:"header,omitempty" msgpack:"header,omitempty"`
	Position         []battle.Script     `json:"position" msgpack:"position"`
	Direction        []battle.Script     `json:"direction" msgpack:"direction"`
	VictoryPosition  []battle.Script     `json:"victoryPosition" msgpack:"victoryPosition"`
	VictoryDirection []battle.Script     `json:"victoryDirection" msgpack:"victoryDirection"`
	Checksum         string              `json:"checksum,omitempty" msgpack:"checksum,omitempty"`
	Diagnostics      []battle.Diagnostic `json:"diagnostics,omitempty" msgpack:"diagnostics,omitempty"`
	Error            string              `json:"error,omitempty" msgpack:"error,omitempty"`
}

// ErrorRecord is the marker stored for a file that could not be extracted.
func ErrorRecord(err error) *Record {
	return &Record{
		Position:         []battle.Script{},
		Direction:        []battle.Script{},
		VictoryPosition:  []battle.Script{},
		VictoryDirection: []battle.Script{},
		Error:            err.Error(),
	}
}

// Failed reports whether r is an error marker.
func (r *Record) Failed() bool { return r.Error != "" }

// Errors counts the record marker and failed scripts.
func (r *Record) Errors() int {
	if r.Failed() {
		return 1
	}
	return battle.CountFailed(r.Position) + battle.CountFailed(r.Direction) +
		battle.CountFailed(r.VictoryPosition) + battle.CountFailed(r.VictoryDirection)
}

// dialects lists the instruction set of each kind, in header order.
var dialects = [4]*opcode.Table{
	opcode.CameraPosition,
	opcode.CameraDirection,
	opcode.CameraPosition,
	opcode.CameraDirection,
}

// ReadHeader parses and validates the header.
func ReadHeader(buf []byte) (*Header, error) {
	c := cursor.New(buf)
	v, err := c.U32s(8)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", battle.ErrInvalidHeader, err)
	}
	h := &Header{
		Tables:  Starts{int(v[0]), int(v[1]), int(v[2]), int(v[3])},
		Scripts: Starts{int(v[4]), int(v[5]), int(v[6]), int(v[7])},
	}
	starts := h.Tables.list()
	bounds := append(starts[:], h.Scripts.Position)
	if bounds[0] < HeaderSize {
		return nil, battle.DataErrf(0, battle.ErrInvalidHeader, "position table at 0x%x inside header", bounds[0])
	}
	for i := 0; i < 4; i++ {
		if bounds[i+1] < bounds[i] {
			return nil, battle.DataErrf(4*(i+1), battle.ErrInvalidHeader,
				"table start 0x%x before previous start 0x%x", bounds[i+1], bounds[i])
		}
		if (bounds[i+1]-bounds[i])%2 != 0 {
			return nil, battle.DataErrf(4*i, battle.ErrInvalidHeader,
				"table at 0x%x has odd length %d", bounds[i], bounds[i+1]-bounds[i])
		}
	}
	if bounds[4] > len(buf) {
		return nil, battle.DataErrf(16, battle.ErrInvalidHeader,
			"tables end at 0x%x past %d-byte file", bounds[4], len(buf))
	}
	return h, nil
}

// ReadTables reads the four offset tables described by h. Each table's
// adjacency view is bounded by the script block starts.
func (h *Header) ReadTables(buf []byte) ([4]*offsets.Table, error) {
	var out [4]*offsets.Table
	starts := h.Tables.list()
	blocks := h.Scripts.list()
	c := cursor.New(buf)
	for i, start := range starts {
		next := h.Scripts.Position
		if i < 3 {
			next = starts[i+1]
		}
		if err := c.Seek(start); err != nil {
			return out, fmt.Errorf("%w: %w", battle.ErrInvalidHeader, err)
		}
		t, err := offsets.Read16(c, (next-start)/2)
		if err != nil {
			return out, fmt.Errorf("%w: %w", battle.ErrInvalidHeader, err)
		}
		t.Bound(blocks[:]...)
		out[i] = t
	}
	return out, nil
}

// Extract decodes one camera file. Only header failures are returned, as
// errors wrapping battle.ErrInvalidHeader.
func Extract(buf []byte, opt battle.Options) (*Record, error) {
	h, err := ReadHeader(buf)
	if err != nil {
		return nil, err
	}
	tables, err := h.ReadTables(buf)
	if err != nil {
		return nil, err
	}
	r := &Record{Header: h}
	outs := [4]*[]battle.Script{&r.Position, &r.Direction, &r.VictoryPosition, &r.VictoryDirection}
	for i, t := range tables {
		scripts := offsets.Resolve(buf, t, 0, dialects[i], opt)
		*outs[i] = scripts
		r.Diagnostics = append(r.Diagnostics, offsets.Failures(scripts)...)
		r.Diagnostics = append(r.Diagnostics, offsets.Check(buf, t, 0, scripts)...)
	}
	return r, nil
}

// BattleTypes returns the static battle-type to camera-record-index table.
func BattleTypes() map[string]int {
	return map[string]int{
		"normal":       0,
		"preemptive":   0,
		"backAttack":   1,
		"ambush":       1,
		"sideAttack":   2,
		"pincerAttack": 2,
	}
}
