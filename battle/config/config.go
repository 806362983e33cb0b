// Package config loads run settings for the battledump command.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zboralski/battledump/battle"
	"github.com/zboralski/battledump/battle/camera"
	"github.com/zboralski/battledump/battle/corpus"
)

// Config is a run configuration. Relative input paths resolve against Input,
// relative output paths against Output.
type Config struct {
	Input      string        `yaml:"input"`
	Output     string        `yaml:"output"`
	Actions    string        `yaml:"actions"`    // action-sequence directory
	Camera     string        `yaml:"camera"`     // camera file directory
	Executable string        `yaml:"executable"` // image holding the initial camera data
	Format     string        `yaml:"format"`     // json or msgpack
	Archive    string        `yaml:"archive"`    // optional bbolt archive
	MaxSteps   int           `yaml:"maxSteps"`
	Initial    camera.Layout `yaml:"initial"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Input:      ".",
		Output:     "out",
		Actions:    "battle",
		Camera:     "battle",
		Executable: "ff7.exe",
		Format:     "json",
		Initial:    camera.DefaultLayout,
	}
}

// Load reads a YAML configuration. Keys missing from the file keep their
// Default values.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c := Default()
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Validate checks values that cannot be caught at use.
func (c *Config) Validate() error {
	if _, err := corpus.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("maxSteps %d is negative", c.MaxSteps)
	}
	if c.Initial.Count < 0 {
		return fmt.Errorf("initial.count %d is negative", c.Initial.Count)
	}
	return nil
}

// ActionsDir is the resolved action-sequence directory.
func (c *Config) ActionsDir() string { return resolve(c.Input, c.Actions) }

// CameraDir is the resolved camera directory.
func (c *Config) CameraDir() string { return resolve(c.Input, c.Camera) }

// ExecutablePath is the resolved executable image path.
func (c *Config) ExecutablePath() string {
	if c.Executable == "" {
		return ""
	}
	return resolve(c.Input, c.Executable)
}

// ArchivePath is the resolved archive path, or "" when archiving is off.
func (c *Config) ArchivePath() string {
	if c.Archive == "" {
		return ""
	}
	return resolve(c.Output, c.Archive)
}

// OutputFormat is the parsed artifact format.
func (c *Config) OutputFormat() corpus.Format {
	f, _ := corpus.ParseFormat(c.Format)
	return f
}

// ArtifactPath returns the output path for the named artifact.
func (c *Config) ArtifactPath(name string) string {
	return filepath.Join(c.Output, name+c.OutputFormat().Ext())
}

// DecodeOptions returns the script decoding options.
func (c *Config) DecodeOptions() battle.Options {
	return battle.Options{MaxSteps: c.MaxSteps}
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
