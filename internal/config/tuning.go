package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/trajectory.report/internal/stdbscan"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the tunable clustering parameters. All
// fields are optional pointers so the same JSON can carry a partial
// override; the Get* methods supply defaults for unset fields.
type TuningConfig struct {
	// Distance thresholds
	SpatialLimit  *float64 `json:"s_limit,omitempty"`
	TemporalLimit *float64 `json:"t_limit,omitempty"`

	// Density rescale params
	Steepness *float64 `json:"steepness,omitempty"`
	Bandwidth *float64 `json:"bandwidth,omitempty"` // 0 or absent selects Scott's rule

	// DTW band half-width; absent selects the measurement-count default
	Window *int `json:"window,omitempty"`

	// Expansion params
	MinimumNeighbors *int `json:"minimum_neighbors,omitempty"`

	// Distance-phase parallelism; absent uses GOMAXPROCS
	Workers *int `json:"workers,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under
// the max file size. Fields omitted from the JSON file retain their
// default values, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that any set configuration values are usable.
func (c *TuningConfig) Validate() error {
	if c.SpatialLimit != nil && *c.SpatialLimit <= 0 {
		return fmt.Errorf("s_limit must be positive, got %f", *c.SpatialLimit)
	}
	if c.TemporalLimit != nil && *c.TemporalLimit <= 0 {
		return fmt.Errorf("t_limit must be positive, got %f", *c.TemporalLimit)
	}
	if c.Steepness != nil && *c.Steepness <= 0 {
		return fmt.Errorf("steepness must be positive, got %f", *c.Steepness)
	}
	if c.Bandwidth != nil && *c.Bandwidth < 0 {
		return fmt.Errorf("bandwidth must be non-negative, got %f", *c.Bandwidth)
	}
	if c.Window != nil && *c.Window < 1 {
		return fmt.Errorf("window must be at least 1, got %d", *c.Window)
	}
	if c.MinimumNeighbors != nil && *c.MinimumNeighbors < 1 {
		return fmt.Errorf("minimum_neighbors must be at least 1, got %d", *c.MinimumNeighbors)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	return nil
}

// GetSpatialLimit returns the s_limit value or the default.
func (c *TuningConfig) GetSpatialLimit() float64 {
	if c.SpatialLimit == nil {
		return 1.0
	}
	return *c.SpatialLimit
}

// GetTemporalLimit returns the t_limit value or the default.
func (c *TuningConfig) GetTemporalLimit() float64 {
	if c.TemporalLimit == nil {
		return 1.0
	}
	return *c.TemporalLimit
}

// GetSteepness returns the steepness value or the default.
func (c *TuningConfig) GetSteepness() float64 {
	if c.Steepness == nil {
		return 1.0
	}
	return *c.Steepness
}

// GetBandwidth returns the bandwidth value, or 0 to select Scott's rule.
func (c *TuningConfig) GetBandwidth() float64 {
	if c.Bandwidth == nil {
		return 0
	}
	return *c.Bandwidth
}

// GetMinimumNeighbors returns the minimum_neighbors value or the default.
func (c *TuningConfig) GetMinimumNeighbors() int {
	if c.MinimumNeighbors == nil {
		return 4
	}
	return *c.MinimumNeighbors
}

// GetWorkers returns the workers value, or 0 to use GOMAXPROCS.
func (c *TuningConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

// Params assembles the engine parameters described by this config.
func (c *TuningConfig) Params() stdbscan.Params {
	return stdbscan.Params{
		SpatialLimit:     c.GetSpatialLimit(),
		TemporalLimit:    c.GetTemporalLimit(),
		Steepness:        c.GetSteepness(),
		MinimumNeighbors: c.GetMinimumNeighbors(),
		Window:           c.Window,
		Bandwidth:        c.GetBandwidth(),
		Workers:          c.GetWorkers(),
	}
}
