package camera

import (
	"fmt"

	"github.com/zboralski/battledump/battle"
	"github.com/zboralski/battledump/battle/cursor"
	"github.com/zboralski/battledump/battle/offsets"
	"github.com/zboralski/battledump/battle/opcode"
)

// Layout locates the initial camera data inside the executable image. The
// image holds a position table and a direction table of Count u16 entries
// each; stored offsets are relative to Bias.
type Layout struct {
	PositionTable  int `yaml:"positionTable" json:"positionTable"`
	DirectionTable int `yaml:"directionTable" json:"directionTable"`
	Count          int `yaml:"count" json:"count"`
	Bias           int `yaml:"bias" json:"bias"`
}

// DefaultLayout is the layout of the PC release executable (ff7.exe, about
// 5.3 MB). Both tables sit at the start of the camera block and stored
// offsets count from that start. Other builds, including the console boot
// executable, need their own layout.
var DefaultLayout = Layout{
	PositionTable:  0x2D1A58,
	DirectionTable: 0x2D1A78,
	Count:          16,
	Bias:           0x2D1A58,
}

// Initial is the camera data used before any per-battle camera file applies.
type Initial struct {
	Position    []battle.Script     `json:"position" msgpack:"position"`
	Direction   []battle.Script     `json:"direction" msgpack:"direction"`
	Diagnostics []battle.Diagnostic `json:"diagnostics,omitempty" msgpack:"diagnostics,omitempty"`
	Error       string              `json:"error,omitempty" msgpack:"error,omitempty"`
}

// InitialError is the marker stored when the image could not be read.
func InitialError(err error) *Initial {
	return &Initial{Position: []battle.Script{}, Direction: []battle.Script{}, Error: err.Error()}
}

// Errors counts the marker and failed scripts.
func (in *Initial) Errors() int {
	if in.Error != "" {
		return 1
	}
	return battle.CountFailed(in.Position) + battle.CountFailed(in.Direction)
}

// ExtractInitial decodes the initial camera scripts from an executable image.
func ExtractInitial(img []byte, l Layout, opt battle.Options) (*Initial, error) {
	if l.Count <= 0 {
		return nil, fmt.Errorf("%w: initial table count %d", battle.ErrInvalidHeader, l.Count)
	}
	c := cursor.New(img)
	read := func(at int, what string) (*offsets.Table, error) {
		if err := c.Seek(at); err != nil {
			return nil, fmt.Errorf("%w: %s table: %w", battle.ErrInvalidHeader, what, err)
		}
		t, err := offsets.Read16(c, l.Count)
		if err != nil {
			return nil, fmt.Errorf("%w: %s table: %w", battle.ErrInvalidHeader, what, err)
		}
		return t, nil
	}
	pos, err := read(l.PositionTable, "position")
	if err != nil {
		return nil, err
	}
	dir, err := read(l.DirectionTable, "direction")
	if err != nil {
		return nil, err
	}

	in := &Initial{
		Position:  offsets.Resolve(img, pos, l.Bias, opcode.CameraPosition, opt),
		Direction: offsets.Resolve(img, dir, l.Bias, opcode.CameraDirection, opt),
	}
	// No gap/overlap check: the camera block is followed by unrelated code.
	in.Diagnostics = append(offsets.Failures(in.Position), offsets.Failures(in.Direction)...)
	return in, nil
}
