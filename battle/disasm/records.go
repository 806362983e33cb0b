package disasm

import (
	"github.com/zboralski/battledump/battle/ab"
	"github.com/zboralski/battledump/battle/camera"
)

// ActionSections splits an action-sequence record into its enemy and player tables.
func ActionSections(r *ab.Record) []Section {
	n := min(r.EnemyCount, len(r.Scripts))
	out := []Section{{Title: "enemy", Scripts: r.Scripts[:n]}}
	if r.PlayerCount > 0 {
		out = append(out, Section{Title: "player", Scripts: r.Scripts[n:]})
	}
	return out
}

// CameraSections returns the four tables of a camera record in file order.
func CameraSections(r *camera.Record) []Section {
	return []Section{
		{Title: "position", Scripts: r.Position},
		{Title: "direction", Scripts: r.Direction},
		{Title: "victory position", Scripts: r.VictoryPosition},
		{Title: "victory direction", Scripts: r.VictoryDirection},
	}
}

// InitialSections returns the initial camera tables.
func InitialSections(in *camera.Initial) []Section {
	return []Section{
		{Title: "initial position", Scripts: in.Position},
		{Title: "initial direction", Scripts: in.Direction},
	}
}
