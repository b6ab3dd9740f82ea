package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

const (
	WindowWidth  = 1024
	WindowHeight = 512
	WindowTitle  = "Constellation - Space: pause, D: debug, Esc/Q: quit"

	FrameRingSize = 120

	// Page palette
	BackgroundColor = "#0f172a"
	StarColor       = "#60a5fa"

	// Constellation parameters
	StarCount    = 100
	MaxSpeed     = 0.25
	StarRadius   = 1.0
	StarAlpha    = 0.8
	LinkDistance = 100.0
	LinkAlpha    = 0.2
	LineWidth    = 0.5
	LayerOpacity = 0.3

	// Floating particle parameters
	DriftCount       = 50
	DriftAlpha       = 0.6
	DriftRadius      = 1.0
	DriftMinDuration = 10 * time.Second
	DriftMaxDuration = 30 * time.Second
	DriftMaxSway     = 100.0

	// Terminal cell geometry in virtual pixels
	CellWidth  = 8
	CellHeight = 16
)

// Backends accepted by the CLI and config file.
const (
	BackendEbiten   = "ebiten"
	BackendTerminal = "terminal"
)

var (
	ErrInvalidBackend = errors.New("invalid backend")
	ErrInvalidColor   = errors.New("invalid color")
	ErrInvalidValue   = errors.New("invalid value")
)

// Config holds all runtime settings.
type Config struct {
	Backend    string          `yaml:"backend"`
	Background string          `yaml:"background"`
	Window     WindowConfig    `yaml:"window"`
	Starfield  StarfieldConfig `yaml:"starfield"`
	Drift      DriftConfig     `yaml:"drift"`
	Logging    LoggingConfig   `yaml:"logging"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// StarfieldConfig configures the constellation layer.
type StarfieldConfig struct {
	Count        int     `yaml:"count"`
	Seed         int64   `yaml:"seed"` // 0 = time based
	MaxSpeed     float64 `yaml:"max_speed"`
	Color        string  `yaml:"color"`
	StarAlpha    float64 `yaml:"star_alpha"`
	StarRadius   float64 `yaml:"star_radius"`
	LinkDistance float64 `yaml:"link_distance"`
	LinkAlpha    float64 `yaml:"link_alpha"`
	LineWidth    float64 `yaml:"line_width"`
	Opacity      float64 `yaml:"opacity"`
	HueShift     float64 `yaml:"hue_shift"` // degrees per frame, 0 = fixed color
}

// DriftConfig configures the floating particle layer.
type DriftConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Count       int           `yaml:"count"`
	Color       string        `yaml:"color"`
	Alpha       float64       `yaml:"alpha"`
	Radius      float64       `yaml:"radius"`
	MinDuration time.Duration `yaml:"min_duration"`
	MaxDuration time.Duration `yaml:"max_duration"`
	MaxSway     float64       `yaml:"max_sway"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	File   string `yaml:"file"`   // empty = stderr
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend:    BackendEbiten,
		Background: BackgroundColor,
		Window: WindowConfig{
			Width:  WindowWidth,
			Height: WindowHeight,
			Title:  WindowTitle,
		},
		Starfield: StarfieldConfig{
			Count:        StarCount,
			MaxSpeed:     MaxSpeed,
			Color:        StarColor,
			StarAlpha:    StarAlpha,
			StarRadius:   StarRadius,
			LinkDistance: LinkDistance,
			LinkAlpha:    LinkAlpha,
			LineWidth:    LineWidth,
			Opacity:      LayerOpacity,
		},
		Drift: DriftConfig{
			Enabled:     true,
			Count:       DriftCount,
			Color:       StarColor,
			Alpha:       DriftAlpha,
			Radius:      DriftRadius,
			MinDuration: DriftMinDuration,
			MaxDuration: DriftMaxDuration,
			MaxSway:     DriftMaxSway,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file on top of the defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CONSTELLATION_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("CONSTELLATION_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CONSTELLATION_STARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Starfield.Count = n
		}
	}
	if v := os.Getenv("CONSTELLATION_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Starfield.Seed = n
		}
	}
}

// Validate checks the configuration for values the renderers cannot use.
func (c *Config) Validate() error {
	if c.Backend != BackendEbiten && c.Backend != BackendTerminal {
		return fmt.Errorf("%w: %q", ErrInvalidBackend, c.Backend)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidValue, c.Window.Width, c.Window.Height)
	}

	for name, hex := range map[string]string{
		"background":      c.Background,
		"starfield.color": c.Starfield.Color,
		"drift.color":     c.Drift.Color,
	} {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("%w: %s %q", ErrInvalidColor, name, hex)
		}
	}

	s := c.Starfield
	if s.Count < 0 {
		return fmt.Errorf("%w: starfield.count %d", ErrInvalidValue, s.Count)
	}
	if s.LinkDistance <= 0 {
		return fmt.Errorf("%w: starfield.link_distance %v", ErrInvalidValue, s.LinkDistance)
	}
	for name, v := range map[string]float64{
		"starfield.max_speed":   s.MaxSpeed,
		"starfield.star_radius": s.StarRadius,
		"starfield.line_width":  s.LineWidth,
		"drift.radius":          c.Drift.Radius,
		"drift.max_sway":        c.Drift.MaxSway,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s %v must not be negative", ErrInvalidValue, name, v)
		}
	}
	for name, v := range map[string]float64{
		"starfield.star_alpha": s.StarAlpha,
		"starfield.link_alpha": s.LinkAlpha,
		"starfield.opacity":    s.Opacity,
		"drift.alpha":          c.Drift.Alpha,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s %v outside [0,1]", ErrInvalidValue, name, v)
		}
	}

	d := c.Drift
	if d.Enabled {
		if d.Count < 0 {
			return fmt.Errorf("%w: drift.count %d", ErrInvalidValue, d.Count)
		}
		if d.MinDuration <= 0 || d.MaxDuration < d.MinDuration {
			return fmt.Errorf("%w: drift durations %v..%v", ErrInvalidValue, d.MinDuration, d.MaxDuration)
		}
	}
	return nil
}
