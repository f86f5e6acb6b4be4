// Package config loads render settings from TOML files.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// ErrInvalidConfig is returned for settings that cannot drive a render
var ErrInvalidConfig = errors.New("invalid config")

// RenderConfig holds everything needed to render a scene. Zero image
// settings keep the scene's own camera values.
type RenderConfig struct {
	Scene  string `toml:"scene"`  // Preset name or path to a YAML scene file
	Output string `toml:"output"` // Image path; the extension picks the encoder

	Width   int `toml:"width"`
	Height  int `toml:"height"`
	Samples int `toml:"samples"`

	MaxDepth           int     `toml:"max_depth"`
	Threshold          float64 `toml:"threshold"`
	ImportanceSampling bool    `toml:"importance_sampling"`

	Workers  int   `toml:"workers"` // 0 = one per CPU
	TileSize int   `toml:"tile_size"`
	Seed     int64 `toml:"seed"`

	Bench int `toml:"bench"` // Random pixels to time before rendering, 0 to skip
}

// Default returns sensible default values
func Default() RenderConfig {
	return RenderConfig{
		Scene:              "default",
		Output:             "output.png",
		MaxDepth:           integrator.DefaultMaxDepth,
		Threshold:          integrator.DefaultThreshold,
		ImportanceSampling: true,
		TileSize:           renderer.DefaultOptions().TileSize,
		Seed:               1,
	}
}

// Load reads a TOML file over the defaults and validates the result
func Load(path string) (RenderConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return RenderConfig{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg, err := Read(file)
	if err != nil {
		return RenderConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Read decodes TOML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Read(r io.Reader) (RenderConfig, error) {
	cfg := Default()
	decoder := toml.NewDecoder(r).DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return RenderConfig{}, fmt.Errorf("%w: %s", ErrInvalidConfig, strict.String())
		}
		return RenderConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return RenderConfig{}, err
	}
	return cfg, nil
}

// Validate checks the settings without touching the scene
func (c RenderConfig) Validate() error {
	var problems []error
	if c.Scene == "" {
		problems = append(problems, errors.New("scene is required"))
	}
	if c.Width < 0 || c.Height < 0 {
		problems = append(problems, fmt.Errorf("negative resolution %dx%d", c.Width, c.Height))
	}
	if c.Samples < 0 {
		problems = append(problems, fmt.Errorf("negative samples %d", c.Samples))
	}
	if c.MaxDepth <= 0 {
		problems = append(problems, fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth))
	}
	if c.Threshold < 0 {
		problems = append(problems, fmt.Errorf("negative threshold %g", c.Threshold))
	}
	if c.TileSize <= 0 {
		problems = append(problems, fmt.Errorf("tile_size must be positive, got %d", c.TileSize))
	}
	if c.Bench < 0 {
		problems = append(problems, fmt.Errorf("negative bench pixel count %d", c.Bench))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(problems...))
	}
	return nil
}

// ApplyCamera overrides the image settings of camera that are set in c
func (c RenderConfig) ApplyCamera(camera geometry.CameraConfig) geometry.CameraConfig {
	if c.Width > 0 {
		camera.Width = c.Width
	}
	if c.Height > 0 {
		camera.Height = c.Height
	}
	if c.Samples > 0 {
		camera.Samples = c.Samples
	}
	return camera
}

// Tracer builds the integrator described by c
func (c RenderConfig) Tracer() *integrator.PathTracer {
	tracer := integrator.NewPathTracer(c.MaxDepth, c.ImportanceSampling)
	tracer.Threshold = c.Threshold
	return tracer
}

// RenderOptions builds renderer options from c
func (c RenderConfig) RenderOptions(logger *slog.Logger) renderer.Options {
	opts := renderer.DefaultOptions()
	opts.TileSize = c.TileSize
	opts.NumWorkers = c.Workers
	opts.Seed = c.Seed
	opts.Logger = logger
	return opts
}
