// Package ab extracts action-sequence records from per-entity "ab" files.
//
// File layout (little-endian):
//
//	header     0x50 bytes, see Header
//	enemy      u32[24] when the file is exactly 372 bytes, u32[32] otherwise
//	player     u32[42], present only in player files
//	scripts    action-sequence bytecode, zero padded
package ab

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zboralski/battledump/battle"
	"github.com/zboralski/battledump/battle/cursor"
	"github.com/zboralski/battledump/battle/offsets"
	"github.com/zboralski/battledump/battle/opcode"
)

const (
	HeaderSize    = 0x50
	ShortFileSize = 372
	PlayerEntries = 42
)

// Record types.
const (
	TypeEnemy  = "enemy"
	TypePlayer = "player"
	TypeError  = "error"
)

// Variant is the enemy-table layout, decided once per file from its size.
type Variant int

const (
	VariantStandard Variant = iota
	VariantShort
)

// VariantFor returns the layout of a file of the given size.
func VariantFor(size int) Variant {
	if size == ShortFileSize {
		return VariantShort
	}
	return VariantStandard
}

// EnemyEntries returns the enemy-table length.
func (v Variant) EnemyEntries() int {
	if v == VariantShort {
		return 24
	}
	return 32
}

func (v Variant) String() string {
	if v == VariantShort {
		return "short"
	}
	return "standard"
}

// Header is the fixed file header. Field meanings are not known.
type Header struct {
	Unknown1 uint32     `json:"unknown1" msgpack:"unknown1"`
	Unknown2 uint32     `json:"unknown2" msgpack:"unknown2"`
	Unknown3 uint16     `json:"unknown3" msgpack:"unknown3"`
	Unknown4 uint16     `json:"unknown4" msgpack:"unknown4"`
	Unknown5 [4]uint8   `json:"unknown5" msgpack:"unknown5"`
	Unknown6 [8]int16   `json:"unknown6" msgpack:"unknown6"`
	Unknown7 [12]uint32 `json:"unknown7" msgpack:"unknown7"`
}

// Record is the extracted content of one file.
type Record struct {
	Header      *Header             `json:"header,omitempty" msgpack:"header,omitempty"`
	Variant     string              `json:"variant,omitempty" msgpack:"variant,omitempty"`
	Type        string              `json:"type" msgpack:"type"`
	EnemyCount  int                 `json:"enemyCount" msgpack:"enemyCount"`
	PlayerCount int                 `json:"playerCount" msgpack:"playerCount"`
	Scripts     []battle.Script     `json:"scripts" msgpack:"scripts"`
	Checksum    string              `json:"checksum,omitempty" msgpack:"checksum,omitempty"`
	Diagnostics []battle.Diagnostic `json:"diagnostics,omitempty" msgpack:"diagnostics,omitempty"`
	Error       string              `json:"error,omitempty" msgpack:"error,omitempty"`
}

// ErrorRecord is the marker stored for a file that could not be extracted.
func ErrorRecord(err error) *Record {
	return &Record{Type: TypeError, Scripts: []battle.Script{}, Error: err.Error()}
}

// Failed reports whether r is an error marker.
func (r *Record) Failed() bool { return r.Type == TypeError }

// Errors counts the record marker and failed scripts.
func (r *Record) Errors() int {
	if r.Failed() {
		return 1
	}
	return battle.CountFailed(r.Scripts)
}

// Match reports whether name follows the action-sequence file convention:
// four characters ending in "ab", no extension.
func Match(name string) bool {
	base := strings.ToLower(filepath.Base(name))
	return len(base) == 4 && strings.HasSuffix(base, "ab") && !strings.Contains(base, ".")
}

// Extract decodes one file. Only header and table failures are returned, as
// errors wrapping battle.ErrInvalidHeader; script failures stay inside their
// slots.
func Extract(buf []byte, opt battle.Options) (*Record, error) {
	c := cursor.New(buf)
	h, err := readHeader(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", battle.ErrInvalidHeader, err)
	}

	v := VariantFor(len(buf))
	enemy, err := offsets.Read32(c, v.EnemyEntries())
	if err != nil {
		return nil, fmt.Errorf("%w: enemy table: %w", battle.ErrInvalidHeader, err)
	}

	// Enemy-only files have their first script right after the enemy table.
	var player *offsets.Table
	if first := enemy.Raw[0]; first != 0 && first != c.Pos() {
		player, err = offsets.Read32(c, PlayerEntries)
		if err != nil {
			return nil, fmt.Errorf("%w: player table: %w", battle.ErrInvalidHeader, err)
		}
	}

	all := &offsets.Table{Raw: append([]int(nil), enemy.Raw...)}
	if player != nil {
		all.Raw = append(all.Raw, player.Raw...)
	}
	scripts := offsets.Resolve(buf, all, 0, opcode.Action, opt)

	r := &Record{
		Header:     h,
		Variant:    v.String(),
		Type:       TypeEnemy,
		EnemyCount: len(enemy.Raw),
		Scripts:    scripts,
	}
	if player != nil {
		r.Type = TypePlayer
		r.PlayerCount = len(player.Raw)
	}
	r.Diagnostics = append(offsets.Failures(scripts), offsets.Check(buf, all, 0, scripts)...)
	return r, nil
}

func readHeader(c *cursor.Cursor) (*Header, error) {
	if c.Len() < HeaderSize {
		return nil, battle.DataErrf(0, battle.ErrOutOfRange, "header needs %d bytes, file has %d", HeaderSize, c.Len())
	}
	h := &Header{}
	var err error
	if h.Unknown1, err = c.U32(); err != nil {
		return nil, fmt.Errorf("unknown1: %w", err)
	}
	if h.Unknown2, err = c.U32(); err != nil {
		return nil, fmt.Errorf("unknown2: %w", err)
	}
	if h.Unknown3, err = c.U16(); err != nil {
		return nil, fmt.Errorf("unknown3: %w", err)
	}
	if h.Unknown4, err = c.U16(); err != nil {
		return nil, fmt.Errorf("unknown4: %w", err)
	}
	b, err := c.Bytes(len(h.Unknown5))
	if err != nil {
		return nil, fmt.Errorf("unknown5: %w", err)
	}
	copy(h.Unknown5[:], b)
	s, err := c.I16s(len(h.Unknown6))
	if err != nil {
		return nil, fmt.Errorf("unknown6: %w", err)
	}
	copy(h.Unknown6[:], s)
	w, err := c.U32s(len(h.Unknown7))
	if err != nil {
		return nil, fmt.Errorf("unknown7: %w", err)
	}
	copy(h.Unknown7[:], w)
	if c.Pos() != HeaderSize {
		panic(fmt.Sprintf("ab: header consumed %d bytes, want %d", c.Pos(), HeaderSize))
	}
	return h, nil
}
