// Package corpus runs extraction over every input file and assembles the
// aggregate result. Each input file produces exactly one entry; a file that
// cannot be extracted is stored as an error-marker record and the run goes on.
package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/zboralski/battledump/battle"
	"github.com/zboralski/battledump/battle/ab"
	"github.com/zboralski/battledump/battle/camera"
)

// Progress observes a run. It must not affect extraction.
type Progress interface {
	Step(stage, name string, done, total int)
}

// Options configures a run.
type Options struct {
	Logger   *slog.Logger
	Progress Progress
	Decode   battle.Options
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o Options) step(stage, name string, done, total int) {
	if o.Progress != nil {
		o.Progress.Step(stage, name, done, total)
	}
}

// Fingerprint returns the xxhash64 of a source file as 16 hex digits.
func Fingerprint(buf []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(buf))
}

// ActionCorpus maps an action-sequence file name to its record.
type ActionCorpus map[string]*ab.Record

// Errors counts error markers across all records.
func (c ActionCorpus) Errors() int {
	n := 0
	for _, r := range c {
		n += r.Errors()
	}
	return n
}

// Names returns the file names in sorted order.
func (c ActionCorpus) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Diagnostics collects record diagnostics tagged with their file name.
func (c ActionCorpus) Diagnostics() []battle.Diagnostic {
	var out []battle.Diagnostic
	for _, name := range c.Names() {
		r := c[name]
		if r.Failed() {
			out = append(out, battle.Diagnostic{Kind: "error", Msg: r.Error, File: name})
			continue
		}
		diags := append([]battle.Diagnostic(nil), r.Diagnostics...)
		battle.TagFile(diags, name)
		out = append(out, diags...)
	}
	return out
}

// Actions extracts every action-sequence file in dir. The only error
// returned is failure to list dir.
func Actions(dir string, opt Options) (ActionCorpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("action sequences: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && ab.Match(e.Name()) {
			names = append(names, e.Name())
		}
	}

	ctx := context.Background()
	log := opt.logger()
	out := make(ActionCorpus, len(names))
	for i, name := range names {
		r, err := extractAction(filepath.Join(dir, name), opt.Decode)
		if err != nil {
			log.LogAttrs(ctx, slog.LevelWarn, "corpus: action file failed", slog.String("file", name), slog.Any("err", err))
			r = ab.ErrorRecord(err)
		}
		out[name] = r
		opt.step("actions", name, i+1, len(names))
	}
	log.LogAttrs(ctx, slog.LevelInfo, "corpus: action sequences extracted",
		slog.String("dir", dir), slog.Int("files", len(out)), slog.Int("errors", out.Errors()))
	return out, nil
}

func extractAction(path string, opt battle.Options) (*ab.Record, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := ab.Extract(buf, opt)
	if err != nil {
		return nil, err
	}
	r.Checksum = Fingerprint(buf)
	return r, nil
}

// CameraCorpus is the camera data of a run: the per-file records indexed as
// camdat0..camdat2, the initial data from the executable image, and the
// static battle-type table.
type CameraCorpus struct {
	Records            []*camera.Record    `json:"records" msgpack:"records"`
	InitialPosition    []battle.Script     `json:"initialPosition" msgpack:"initialPosition"`
	InitialDirection   []battle.Script     `json:"initialDirection" msgpack:"initialDirection"`
	InitialDiagnostics []battle.Diagnostic `json:"initialDiagnostics,omitempty" msgpack:"initialDiagnostics,omitempty"`
	InitialError       string              `json:"initialError,omitempty" msgpack:"initialError,omitempty"`
	BattleTypes        map[string]int      `json:"battleTypes" msgpack:"battleTypes"`
}

// Errors counts error markers across records and the initial data.
func (c *CameraCorpus) Errors() int {
	n := battle.CountFailed(c.InitialPosition) + battle.CountFailed(c.InitialDirection)
	if c.InitialError != "" {
		n++
	}
	for _, r := range c.Records {
		n += r.Errors()
	}
	return n
}

// Diagnostics collects diagnostics tagged with their file name.
func (c *CameraCorpus) Diagnostics(exe string) []battle.Diagnostic {
	var out []battle.Diagnostic
	for i, r := range c.Records {
		name := camera.FileName(i)
		if r.Failed() {
			out = append(out, battle.Diagnostic{Kind: "error", Msg: r.Error, File: name})
			continue
		}
		diags := append([]battle.Diagnostic(nil), r.Diagnostics...)
		battle.TagFile(diags, name)
		out = append(out, diags...)
	}
	exe = filepath.Base(exe)
	if c.InitialError != "" {
		out = append(out, battle.Diagnostic{Kind: "error", Msg: c.InitialError, File: exe})
	}
	diags := append([]battle.Diagnostic(nil), c.InitialDiagnostics...)
	battle.TagFile(diags, exe)
	return append(out, diags...)
}

// Cameras extracts camdat0..camdat2 from dir and the initial camera data
// from the executable image exe. A missing camera file becomes an error
// record; the only error returned is a missing dir.
func Cameras(dir, exe string, layout camera.Layout, opt Options) (*CameraCorpus, error) {
	if fi, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("camera data: %w", err)
	} else if !fi.IsDir() {
		return nil, fmt.Errorf("camera data: %s is not a directory", dir)
	}

	ctx := context.Background()
	log := opt.logger()
	out := &CameraCorpus{
		Records:     make([]*camera.Record, camera.FileCount),
		BattleTypes: camera.BattleTypes(),
	}
	total := camera.FileCount + 1
	for i := range out.Records {
		name := camera.FileName(i)
		r, err := extractCamera(filepath.Join(dir, name), opt.Decode)
		if err != nil {
			log.LogAttrs(ctx, slog.LevelWarn, "corpus: camera file failed", slog.String("file", name), slog.Any("err", err))
			r = camera.ErrorRecord(err)
		}
		out.Records[i] = r
		opt.step("camera", name, i+1, total)
	}

	in, err := extractInitial(exe, layout, opt.Decode)
	if err != nil {
		log.LogAttrs(ctx, slog.LevelWarn, "corpus: initial camera data failed", slog.String("file", exe), slog.Any("err", err))
		in = camera.InitialError(err)
	}
	out.InitialPosition = in.Position
	out.InitialDirection = in.Direction
	out.InitialDiagnostics = in.Diagnostics
	out.InitialError = in.Error
	opt.step("camera", filepath.Base(exe), total, total)

	log.LogAttrs(ctx, slog.LevelInfo, "corpus: camera data extracted",
		slog.String("dir", dir), slog.Int("files", total), slog.Int("errors", out.Errors()))
	return out, nil
}

func extractCamera(path string, opt battle.Options) (*camera.Record, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := camera.Extract(buf, opt)
	if err != nil {
		return nil, err
	}
	r.Checksum = Fingerprint(buf)
	return r, nil
}

func extractInitial(exe string, layout camera.Layout, opt battle.Options) (*camera.Initial, error) {
	if exe == "" {
		return nil, fmt.Errorf("no executable image configured")
	}
	img, err := os.ReadFile(exe)
	if err != nil {
		return nil, err
	}
	return camera.ExtractInitial(img, layout, opt)
}
