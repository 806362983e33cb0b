// Package render draws offset tables as Graphviz graphs.
package render

import (
	"fmt"
	"strings"

	"github.com/zboralski/battledump/battle/disasm"
)

// DOT renders each section as a cluster of table slots with an edge from
// every non-empty slot to the script it points at. Slots that share a script
// share its node; failed scripts are drawn in red.
// Monochrome with thin rules; color marks only slot numbers and failures.
func DOT(sections []disasm.Section, title string) string {
	const (
		nasaBlue = "#0B3D91"
		nasaRed  = "#FC3D21"
		black    = "#1A1A1A"
		gray     = "#9E9E9E"
		lightBg  = "#F5F5F5"
	)

	var b strings.Builder
	b.WriteString("digraph scripts {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  splines=true;\n")
	b.WriteString("  nodesep=0.2;\n")
	b.WriteString("  ranksep=0.8;\n")
	fmt.Fprintf(&b, "  bgcolor=%q;\n", lightBg)
	fmt.Fprintf(&b, "  node [shape=rect, style=filled, fillcolor=white, color=%q, penwidth=0.5, fontname=\"Helvetica Neue,Helvetica,Arial\", fontsize=9, fontcolor=%q, height=0.3, margin=\"0.12,0.06\"];\n", black, black)
	fmt.Fprintf(&b, "  edge [color=%q, penwidth=0.5, arrowsize=0.5, arrowhead=vee];\n", gray)
	if title != "" {
		fmt.Fprintf(&b, "  labelloc=t;\n  labeljust=l;\n")
		fmt.Fprintf(&b, "  label=<<font face=\"Helvetica Neue,Helvetica\" point-size=\"8\" color=\"%s\">%s</font>>;\n", black, dotEscape(title))
	}
	b.WriteByte('\n')

	scriptSeen := map[int]bool{}
	for si, sec := range sections {
		fmt.Fprintf(&b, "  subgraph cluster_%d {\n", si)
		fmt.Fprintf(&b, "    label=%q;\n", sec.Title)
		fmt.Fprintf(&b, "    color=%q;\n", gray)
		for i, s := range sec.Scripts {
			if s.Empty() {
				continue
			}
			fmt.Fprintf(&b, "    %s [label=\"%d\", shape=plaintext, style=\"\", fillcolor=none, fontcolor=%q, fontsize=8];\n", slotID(si, i), i, nasaBlue)
		}
		b.WriteString("  }\n")

		for _, s := range sec.Scripts {
			if s.Empty() || scriptSeen[s.Offset] {
				continue
			}
			scriptSeen[s.Offset] = true
			label := fmt.Sprintf("loc_%05X\\n%d ops", s.Offset, len(s.Instructions))
			if s.Failed() {
				fmt.Fprintf(&b, "  %s [label=\"%s\", fillcolor=%q, fontcolor=white, penwidth=0];\n", scriptID(s.Offset), fmt.Sprintf("loc_%05X\\nerror", s.Offset), nasaRed)
			} else {
				fmt.Fprintf(&b, "  %s [label=\"%s\"];\n", scriptID(s.Offset), label)
			}
		}
	}
	b.WriteByte('\n')

	for si, sec := range sections {
		for i, s := range sec.Scripts {
			if s.Empty() {
				continue
			}
			if s.Failed() {
				fmt.Fprintf(&b, "  %s -> %s [color=%q, style=dashed];\n", slotID(si, i), scriptID(s.Offset), nasaRed)
			} else {
				fmt.Fprintf(&b, "  %s -> %s;\n", slotID(si, i), scriptID(s.Offset))
			}
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// dotEscape escapes a string for use in DOT HTML labels.
func dotEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

func slotID(section, entry int) string {
	return fmt.Sprintf("t%d_%d", section, entry)
}

func scriptID(off int) string {
	return fmt.Sprintf("loc_%05X", off)
}
