package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/caarlos0/env/v11"

	"jetblack-anim/internal/anm"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	InputDir  string `json:"input_dir" env:"ANM_INPUT_DIR"`
	OutputDir string `json:"output_dir" env:"ANM_OUTPUT_DIR"`

	// Decode settings
	Engine string `json:"engine" env:"ANM_ENGINE"`

	// Render settings
	Format       string `json:"format" env:"ANM_FORMAT"`
	RenderSize   int    `json:"render_size" env:"ANM_RENDER_SIZE"`
	Supersample  int    `json:"supersample" env:"ANM_SUPERSAMPLE"`
	SheetColumns int    `json:"sheet_columns" env:"ANM_SHEET_COLUMNS"`
	SheetFrames  int    `json:"sheet_frames" env:"ANM_SHEET_FRAMES"`
	Workers      int    `json:"workers" env:"ANM_WORKERS"`
}

// Output formats.
const (
	FormatWebP = "webp"
	FormatTGA  = "tga"
)

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from ANM_* environment variables. Unset
// variables leave the current value alone.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// Resolve applies CLI flags, fills in defaults and validates the result.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) error {
	// CLI flags override config file and environment
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Engine != "" {
		c.Engine = flags.Engine
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.InputDir == "" {
		c.InputDir = "."
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, "anm-previews")
	} else if !filepath.IsAbs(c.OutputDir) && flags.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, c.OutputDir)
	}

	if c.Engine == "" {
		c.Engine = anm.DarkAlliance.String()
	}
	if _, err := anm.ParseEngineVersion(c.Engine); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Format = strings.ToLower(c.Format)
	switch c.Format {
	case "":
		c.Format = FormatWebP
	case FormatWebP, FormatTGA:
	default:
		return fmt.Errorf("config: unknown output format %q (want %s or %s)", c.Format, FormatWebP, FormatTGA)
	}

	// Defaults for render settings
	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.SheetColumns <= 0 {
		c.SheetColumns = 6
	}
	if c.SheetFrames <= 0 {
		c.SheetFrames = 24
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return nil
}

// EngineVersion returns the parsed engine. Call after Resolve.
func (c *Config) EngineVersion() anm.EngineVersion {
	v, _ := anm.ParseEngineVersion(c.Engine)
	return v
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir  string
	OutputDir string
	Engine    string
	Format    string
	Size      int
	Workers   int
}
