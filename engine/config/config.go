package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-view/engine/postprocess"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the host configuration, read from TOML and overridden by OXY_VIEW_* environment variables.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Camera   CameraConfig   `toml:"camera"`
	Controls ControlsConfig `toml:"controls"`
	Render   RenderConfig   `toml:"render"`
	Bloom    BloomConfig    `toml:"bloom"`
	Drift    DriftConfig    `toml:"drift"`
	Log      LogConfig      `toml:"log"`
}

// WindowConfig sizes and titles the host window.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// CameraConfig sets the initial perspective camera. Fov is in degrees.
type CameraConfig struct {
	Fov      float32    `toml:"fov"`
	Near     float32    `toml:"near"`
	Far      float32    `toml:"far"`
	Position [3]float32 `toml:"position"`
}

// ControlsConfig tunes the orbit controls. A zero Damping disables inertia, a zero MaxDistance means unbounded.
type ControlsConfig struct {
	Damping     float32 `toml:"damping"`
	AutoRotate  float32 `toml:"auto_rotate"`
	MinDistance float32 `toml:"min_distance"`
	MaxDistance float32 `toml:"max_distance"`
}

// RenderConfig selects the frame rate and output quality.
type RenderConfig struct {
	FrameRate     float64 `toml:"frame_rate"`
	VSync         bool    `toml:"vsync"`
	MSAA          int     `toml:"msaa"`
	ToneMapping   string  `toml:"tone_mapping"`
	Exposure      float32 `toml:"exposure"`
	PixelRatio    float32 `toml:"pixel_ratio"`
	ForceSoftware bool    `toml:"force_software"`
}

// BloomConfig configures the glow pass.
type BloomConfig struct {
	Enabled   bool    `toml:"enabled"`
	Threshold float32 `toml:"threshold"`
	Strength  float32 `toml:"strength"`
	Radius    float32 `toml:"radius"`
}

// DriftConfig configures camera drift animations.
type DriftConfig struct {
	DurationMS float64 `toml:"duration_ms"`
}

// LogConfig configures the process logger and the frame profiler.
type LogConfig struct {
	Development bool `toml:"development"`
	Debug       bool `toml:"debug"`
	Profile     bool `toml:"profile"`
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Window: WindowConfig{Title: "oxy-view", Width: 1280, Height: 720},
		Camera: CameraConfig{Fov: 50, Near: 0.1, Far: 2000, Position: [3]float32{0, 25, 5}},
		Controls: ControlsConfig{
			Damping: 0.05,
		},
		Render: RenderConfig{
			FrameRate:   60,
			VSync:       true,
			MSAA:        4,
			ToneMapping: postprocess.ToneMappingReinhard.String(),
			Exposure:    1,
		},
		Bloom: BloomConfig{
			Enabled:   true,
			Threshold: postprocess.DefaultBloomThreshold,
			Strength:  postprocess.DefaultBloomStrength,
			Radius:    postprocess.DefaultBloomRadius,
		},
		Drift: DriftConfig{DurationMS: 2000},
		Log:   LogConfig{Development: true},
	}
}

// Load reads a TOML file over the defaults, then applies environment overrides.
// A missing file is an error; an empty path skips the file.
//
// Parameters:
//   - path: the TOML file path, may be empty
//
// Returns:
//   - Config: the validated configuration
//   - error: an error if the file cannot be read or decoded, or the result is invalid
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("config: open %s: %w", path, err)
		}
		defer f.Close()
		if err := cfg.Decode(f); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode reads TOML from r over the current values. Unknown keys are rejected.
//
// Parameters:
//   - r: the TOML source
//
// Returns:
//   - error: a decode error
func (c *Config) Decode(r io.Reader) error {
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("decode at %d:%d: %w", row, col, err)
		}
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// Encode writes the configuration as TOML.
//
// Parameters:
//   - w: the destination
//
// Returns:
//   - error: an encode error
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks ranges and enumerations.
//
// Returns:
//   - error: an error wrapping ErrInvalid naming the first bad field
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Camera.Fov <= 0 || c.Camera.Fov >= 180:
		return fmt.Errorf("%w: camera fov %v", ErrInvalid, c.Camera.Fov)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: camera clip planes %v..%v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Controls.Damping < 0 || c.Controls.Damping > 1:
		return fmt.Errorf("%w: controls damping %v", ErrInvalid, c.Controls.Damping)
	case c.Controls.MaxDistance != 0 && c.Controls.MaxDistance < c.Controls.MinDistance:
		return fmt.Errorf("%w: controls distance %v..%v", ErrInvalid, c.Controls.MinDistance, c.Controls.MaxDistance)
	case c.Render.FrameRate <= 0:
		return fmt.Errorf("%w: render frame rate %v", ErrInvalid, c.Render.FrameRate)
	case c.Render.Exposure <= 0:
		return fmt.Errorf("%w: render exposure %v", ErrInvalid, c.Render.Exposure)
	case c.Render.PixelRatio < 0:
		return fmt.Errorf("%w: render pixel ratio %v", ErrInvalid, c.Render.PixelRatio)
	case c.Bloom.Strength < 0 || c.Bloom.Radius < 0 || c.Bloom.Radius > 1:
		return fmt.Errorf("%w: bloom strength %v radius %v", ErrInvalid, c.Bloom.Strength, c.Bloom.Radius)
	case c.Drift.DurationMS <= 0:
		return fmt.Errorf("%w: drift duration %v", ErrInvalid, c.Drift.DurationMS)
	}
	switch c.Render.MSAA {
	case 1, 4, 8, 16:
	default:
		return fmt.Errorf("%w: render msaa %d", ErrInvalid, c.Render.MSAA)
	}
	if _, err := postprocess.ParseToneMapping(c.Render.ToneMapping); err != nil {
		return fmt.Errorf("%w: render %v", ErrInvalid, err)
	}
	return nil
}

// ToneMappingOperator returns the parsed tone-mapping operator.
//
// Returns:
//   - postprocess.ToneMapping: the operator, ToneMappingNone if the name is unknown
func (r RenderConfig) ToneMappingOperator() postprocess.ToneMapping {
	tm, _ := postprocess.ParseToneMapping(r.ToneMapping)
	return tm
}
