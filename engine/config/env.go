package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "OXY_VIEW_"

type envBinding struct {
	key   string
	apply func(c *Config, v string) error
}

var envBindings = []envBinding{
	{"WINDOW_TITLE", func(c *Config, v string) error { c.Window.Title = v; return nil }},
	{"WINDOW_WIDTH", intVar(func(c *Config) *int { return &c.Window.Width })},
	{"WINDOW_HEIGHT", intVar(func(c *Config) *int { return &c.Window.Height })},
	{"CAMERA_FOV", float32Var(func(c *Config) *float32 { return &c.Camera.Fov })},
	{"CONTROLS_DAMPING", float32Var(func(c *Config) *float32 { return &c.Controls.Damping })},
	{"CONTROLS_AUTO_ROTATE", float32Var(func(c *Config) *float32 { return &c.Controls.AutoRotate })},
	{"RENDER_FRAME_RATE", func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		c.Render.FrameRate = f
		return err
	}},
	{"RENDER_VSYNC", boolVar(func(c *Config) *bool { return &c.Render.VSync })},
	{"RENDER_MSAA", intVar(func(c *Config) *int { return &c.Render.MSAA })},
	{"RENDER_TONE_MAPPING", func(c *Config, v string) error { c.Render.ToneMapping = v; return nil }},
	{"RENDER_EXPOSURE", float32Var(func(c *Config) *float32 { return &c.Render.Exposure })},
	{"RENDER_PIXEL_RATIO", float32Var(func(c *Config) *float32 { return &c.Render.PixelRatio })},
	{"RENDER_FORCE_SOFTWARE", boolVar(func(c *Config) *bool { return &c.Render.ForceSoftware })},
	{"BLOOM_ENABLED", boolVar(func(c *Config) *bool { return &c.Bloom.Enabled })},
	{"BLOOM_THRESHOLD", float32Var(func(c *Config) *float32 { return &c.Bloom.Threshold })},
	{"BLOOM_STRENGTH", float32Var(func(c *Config) *float32 { return &c.Bloom.Strength })},
	{"BLOOM_RADIUS", float32Var(func(c *Config) *float32 { return &c.Bloom.Radius })},
	{"LOG_DEVELOPMENT", boolVar(func(c *Config) *bool { return &c.Log.Development })},
	{"LOG_DEBUG", boolVar(func(c *Config) *bool { return &c.Log.Debug })},
	{"LOG_PROFILE", boolVar(func(c *Config) *bool { return &c.Log.Profile })},
}

// LoadEnv loads .env style files into the process environment. Variables already set win.
// Missing files are skipped; with no arguments ".env" is tried.
//
// Parameters:
//   - files: the files to load
//
// Returns:
//   - error: a parse error
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from OXY_VIEW_* environment variables, e.g. OXY_VIEW_WINDOW_WIDTH.
//
// Returns:
//   - error: an error wrapping ErrInvalid for an unparsable value
func (c *Config) ApplyEnv() error {
	for _, b := range envBindings {
		v, ok := os.LookupEnv(EnvPrefix + b.key)
		if !ok {
			continue
		}
		if err := b.apply(c, v); err != nil {
			return fmt.Errorf("%w: %s%s=%q: %v", ErrInvalid, EnvPrefix, b.key, v, err)
		}
	}
	return nil
}

func intVar(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func float32Var(field func(*Config) *float32) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return err
		}
		*field(c) = float32(f)
		return nil
	}
}

func boolVar(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}
