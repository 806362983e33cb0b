package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/zboralski/battledump/battle"
	"github.com/zboralski/battledump/battle/config"
	"github.com/zboralski/battledump/battle/corpus"
)

func printDiag(d battle.Diagnostic) {
	if d.File != "" {
		fmt.Fprintf(os.Stderr, "diag [%s] %s @0x%x: %s\n", d.Kind, d.File, d.Offset, d.Msg)
	} else {
		fmt.Fprintf(os.Stderr, "diag [%s] @0x%x: %s\n", d.Kind, d.Offset, d.Msg)
	}
}

type progress struct{}

func (progress) Step(stage, name string, done, total int) {
	fmt.Fprintf(os.Stderr, "\r%-8s %4d/%-4d %-16s", stage, done, total, name)
	if done == total {
		fmt.Fprintln(os.Stderr)
	}
}

func main() {
	cfgPath := flag.String("config", "", "YAML config file")
	input := flag.String("input", "", "input root (overrides config)")
	output := flag.String("output", "", "output directory (overrides config)")
	format := flag.String("format", "", "artifact format: json, msgpack (overrides config)")
	archive := flag.String("archive", "", "also store records in this bbolt file (overrides config)")
	maxSteps := flag.Int("max-steps", -1, "max instructions per script (0 uses default)")
	showProgress := flag.Bool("progress", false, "report per-file progress")
	verbose := flag.Bool("v", false, "verbose logging")
	quiet := flag.Bool("q", false, "do not print diagnostics")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: battledump [flags]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
	}
	if *input != "" {
		cfg.Input = *input
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *format != "" {
		cfg.Format = *format
	}
	if *archive != "" {
		cfg.Archive = *archive
	}
	if *maxSteps >= 0 {
		cfg.MaxSteps = *maxSteps
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	opt := corpus.Options{Logger: logger, Decode: cfg.DecodeOptions()}
	if *showProgress {
		opt.Progress = progress{}
	}

	actions, err := corpus.Actions(cfg.ActionsDir(), opt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cams, err := corpus.Cameras(cfg.CameraDir(), cfg.ExecutablePath(), cfg.Initial, opt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if !*quiet {
		for _, d := range actions.Diagnostics() {
			printDiag(d)
		}
		for _, d := range cams.Diagnostics(cfg.ExecutablePath()) {
			printDiag(d)
		}
	}

	f := cfg.OutputFormat()
	for _, a := range []struct {
		name string
		v    any
	}{{"ab", actions}, {"camera", cams}} {
		path := cfg.ArtifactPath(a.name)
		if err := corpus.Write(path, a.v, f); err != nil {
			fmt.Fprintf(os.Stderr, "error: could not write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	}

	if p := cfg.ArchivePath(); p != "" {
		if err := writeArchive(p, actions, cams); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", p)
	}

	fmt.Fprintf(os.Stderr, "%d action files, %d camera files, %d errors\n",
		len(actions), len(cams.Records), actions.Errors()+cams.Errors())
}

func writeArchive(path string, actions corpus.ActionCorpus, cams *corpus.CameraCorpus) error {
	a, err := corpus.OpenArchive(path)
	if err != nil {
		return err
	}
	if err := a.PutActions(actions); err != nil {
		a.Close()
		return err
	}
	if err := a.PutCameras(cams); err != nil {
		a.Close()
		return err
	}
	return a.Close()
}
