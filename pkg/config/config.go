// Package config loads rcad settings from a YAML file with environment
// variable overrides.
//
// Precedence, lowest first: Defaults(), the YAML file, RCAD_* variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override, e.g.
// RCAD_KERNEL_NAME or RCAD_KERNEL_MESH_CELLS. Keys derive from field names;
// explicit envconfig tags are avoided because they also match unprefixed
// variables such as PATH.
const EnvPrefix = "RCAD"

// KernelConfig selects and tunes the geometry kernel.
type KernelConfig struct {
	Name string `yaml:"name"` // "sdfx" or "manifold"
	// MeshCells is the marching-cubes resolution along the longest axis.
	MeshCells int `yaml:"mesh_cells" split_words:"true"`
	// Tolerance is the chord error used when flattening curves, in mm.
	Tolerance float64 `yaml:"tolerance"`
	// Segments is the facet count for kernels that need explicit circle segmentation.
	Segments int `yaml:"segments"`
}

// FontConfig is the default font used by text shapes.
type FontConfig struct {
	Path string  `yaml:"path"` // empty = built-in Go Regular
	Size float64 `yaml:"size"`
}

// EngineConfig tunes script evaluation.
type EngineConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig mirrors log.Options.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Config is the complete configuration document.
type Config struct {
	Kernel  KernelConfig  `yaml:"kernel"`
	Font    FontConfig    `yaml:"font"`
	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Kernel:  KernelConfig{Name: "sdfx", MeshCells: 200, Tolerance: 0.05, Segments: 64},
		Font:    FontConfig{Size: 12},
		Engine:  EngineConfig{Timeout: 5 * time.Second},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads the YAML file at path (if path is non-empty), applies
// environment overrides and validates the result. A missing file is an error;
// an empty path means defaults plus environment.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	switch c.Kernel.Name {
	case "sdfx", "manifold":
	default:
		errs = append(errs, fmt.Errorf("kernel.name %q: want sdfx or manifold", c.Kernel.Name))
	}
	if c.Kernel.MeshCells <= 0 {
		errs = append(errs, fmt.Errorf("kernel.mesh_cells must be positive, got %d", c.Kernel.MeshCells))
	}
	if c.Kernel.Tolerance <= 0 {
		errs = append(errs, fmt.Errorf("kernel.tolerance must be positive, got %g", c.Kernel.Tolerance))
	}
	if c.Kernel.Segments < 3 {
		errs = append(errs, fmt.Errorf("kernel.segments must be at least 3, got %d", c.Kernel.Segments))
	}
	if c.Font.Size <= 0 {
		errs = append(errs, fmt.Errorf("font.size must be positive, got %g", c.Font.Size))
	}
	if c.Engine.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("engine.timeout must be positive, got %s", c.Engine.Timeout))
	}
	return errors.Join(errs...)
}

// Save writes c as YAML to path.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
