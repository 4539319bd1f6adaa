// Package config holds the settings shared by the command-line tools.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"honnef.co/go/roi"
)

// Config holds runtime configuration for extraction and the viewer.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	LogLevel string `json:"log_level"`

	// Extraction
	Interpolation string `json:"interpolation"`
	Frame         string `json:"frame"`
	Axes          [2]int `json:"axes"`

	// Shapes
	MinSize         [2]float64 `json:"min_size"`
	EllipseSegments int        `json:"ellipse_segments"`

	// Output
	Zoom         int    `json:"zoom"`
	OutputFormat string `json:"output_format"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "info",
		Interpolation:   roi.Bilinear.String(),
		Frame:           roi.FrameArray.String(),
		Axes:            [2]int{0, 1},
		MinSize:         [2]float64{0, 0},
		EllipseSegments: roi.MinEllipseSegments,
		Zoom:            1,
		OutputFormat:    "png",
	}
}

// Validate clamps/normalizes values to safe ranges. Unknown names fall back
// to their defaults and are reported in the returned error.
func (c *Config) Validate() error {
	def := DefaultConfig()
	var bad []string

	c.LogLevel = strings.ToLower(c.LogLevel)
	if _, err := ParseLevel(c.LogLevel); err != nil {
		bad = append(bad, fmt.Sprintf("log_level %q", c.LogLevel))
		c.LogLevel = def.LogLevel
	}
	c.Interpolation = strings.ToLower(c.Interpolation)
	if _, err := roi.ParseInterpolation(c.Interpolation); err != nil {
		bad = append(bad, fmt.Sprintf("interpolation %q", c.Interpolation))
		c.Interpolation = def.Interpolation
	}
	c.Frame = strings.ToLower(c.Frame)
	if _, err := roi.ParseFrame(c.Frame); err != nil {
		bad = append(bad, fmt.Sprintf("frame %q", c.Frame))
		c.Frame = def.Frame
	}
	if c.Axes[0] < 0 || c.Axes[1] < 0 || c.Axes[0] == c.Axes[1] {
		bad = append(bad, fmt.Sprintf("axes %v", c.Axes))
		c.Axes = def.Axes
	}
	for i, v := range c.MinSize {
		if !(v >= 0) {
			c.MinSize[i] = 0
		}
	}
	if c.EllipseSegments < roi.MinEllipseSegments {
		c.EllipseSegments = roi.MinEllipseSegments
	}
	if c.Zoom < 1 {
		c.Zoom = 1
	}
	c.OutputFormat = strings.ToLower(c.OutputFormat)
	switch c.OutputFormat {
	case "png", "tiff":
	default:
		bad = append(bad, fmt.Sprintf("output_format %q", c.OutputFormat))
		c.OutputFormat = def.OutputFormat
	}

	if len(bad) > 0 {
		return fmt.Errorf("config: invalid %s: %w", strings.Join(bad, ", "), roi.ErrInvalidArgument)
	}
	return nil
}

// Load attempts to read configuration from the given JSON file path. If the
// file does not exist it returns DefaultConfig(). On JSON error it returns
// defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// ParseLevel parses debug, info, warn and error.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, roi.ErrInvalidArgument)
	}
	return l, nil
}

// Extractor returns the extractor described by the configuration.
func (c *Config) Extractor() (roi.Extractor, error) {
	interp, err := roi.ParseInterpolation(c.Interpolation)
	if err != nil {
		return roi.Extractor{}, err
	}
	frame, err := roi.ParseFrame(c.Frame)
	if err != nil {
		return roi.Extractor{}, err
	}
	return roi.Extractor{Interpolation: interp, Frame: frame}, nil
}

// ShapeOptions returns the shape options described by the configuration.
func (c *Config) ShapeOptions() []roi.Option {
	return []roi.Option{
		roi.WithMinSize(roi.Sz(c.MinSize[0], c.MinSize[1])),
		roi.WithEllipseSegments(c.EllipseSegments),
	}
}
