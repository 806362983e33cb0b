package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/zboralski/battledump/battle"
	"github.com/zboralski/battledump/battle/ab"
	"github.com/zboralski/battledump/battle/camera"
	"github.com/zboralski/battledump/battle/disasm"
	"github.com/zboralski/battledump/battle/render"
)

func printDiag(d battle.Diagnostic) {
	if d.File != "" {
		fmt.Fprintf(os.Stderr, "diag [%s] %s @0x%x: %s\n", d.Kind, d.File, d.Offset, d.Msg)
	} else {
		fmt.Fprintf(os.Stderr, "diag [%s] @0x%x: %s\n", d.Kind, d.Offset, d.Msg)
	}
}

func main() {
	kind := flag.String("kind", "auto", "input kind: auto, ab, camera, exe")
	dotFlag := flag.Bool("dot", false, "write a Graphviz table graph (and SVG when dot is installed)")
	maxSteps := flag.Int("max-steps", 0, "max instructions per script (0 uses default)")
	posTable := flag.Int("pos-table", camera.DefaultLayout.PositionTable, "exe: initial position table offset")
	dirTable := flag.Int("dir-table", camera.DefaultLayout.DirectionTable, "exe: initial direction table offset")
	count := flag.Int("count", camera.DefaultLayout.Count, "exe: entries per initial table")
	bias := flag.Int("bias", camera.DefaultLayout.Bias, "exe: offset added to stored entries")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: battledis [flags] <file>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	path := flag.Arg(0)
	name := filepath.Base(path)
	if *kind == "auto" {
		*kind = detect(name)
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	opt := battle.Options{MaxSteps: *maxSteps}

	var sections []disasm.Section
	var diags []battle.Diagnostic
	switch *kind {
	case "ab":
		r, err := ab.Extract(buf, opt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		sections, diags = disasm.ActionSections(r), r.Diagnostics
		name = fmt.Sprintf("%s (%s, %s)", name, r.Type, r.Variant)
	case "camera":
		r, err := camera.Extract(buf, opt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		sections, diags = disasm.CameraSections(r), r.Diagnostics
	case "exe":
		l := camera.Layout{PositionTable: *posTable, DirectionTable: *dirTable, Count: *count, Bias: *bias}
		in, err := camera.ExtractInitial(buf, l, opt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		sections, diags = disasm.InitialSections(in), in.Diagnostics
	default:
		fmt.Fprintf(os.Stderr, "error: unknown kind %q (use ab, camera or exe)\n", *kind)
		os.Exit(2)
	}
	for _, d := range diags {
		printDiag(d)
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)

	if *dotFlag {
		dot := render.DOT(sections, name)
		dotFile := base + ".dot"
		if err := os.WriteFile(dotFile, []byte(dot), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "error: could not write %s: %v\n", dotFile, err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", dotFile)

		dotPath, err := exec.LookPath("dot")
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: graphviz not found, skipping SVG\n")
			return
		}
		outFile := base + ".svg"
		cmd := exec.Command(dotPath, "-Tsvg", "-o", outFile, dotFile)
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "error: dot -Tsvg failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", outFile)
		return
	}

	out := disasm.Sections(name, sections)
	fmt.Print(out)

	// Write .dis file alongside input
	disPath := base + ".dis"
	if err := os.WriteFile(disPath, []byte(out), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not write %s: %v\n", disPath, err)
	}
}

func detect(name string) string {
	switch {
	case ab.Match(name):
		return "ab"
	case strings.HasPrefix(name, "camdat") && strings.HasSuffix(name, ".bin"):
		return "camera"
	default:
		return "exe"
	}
}
