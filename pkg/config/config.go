// Package config handles configuration loading and management
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/packline/packline/pkg/types"
)

// Manager handles configuration operations
type Manager struct{}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{}
}

// LoadConfig loads configuration from a file
func (m *Manager) LoadConfig(path string) (*types.PacklineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg types.PacklineConfig

	// Try JSON first
	if err := json.Unmarshal(data, &cfg); err == nil {
		return m.applyAndValidate(&cfg)
	}

	// Try YAML
	cfg = types.PacklineConfig{}
	if err := yaml.Unmarshal(data, &cfg); err == nil {
		return m.applyAndValidate(&cfg)
	}

	return nil, fmt.Errorf("failed to parse config as JSON or YAML")
}

func (m *Manager) applyAndValidate(cfg *types.PacklineConfig) (*types.PacklineConfig, error) {
	m.applyDefaults(cfg)
	if err := m.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills unset fields from the default configuration
func (m *Manager) applyDefaults(cfg *types.PacklineConfig) {
	defaults := types.DefaultConfig()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.Quality.Weight == (types.Range{}) {
		cfg.Quality.Weight = defaults.Quality.Weight
	}
	if cfg.Quality.Length == (types.Range{}) {
		cfg.Quality.Length = defaults.Quality.Length
	}
	if len(cfg.Quality.AllowedColors) == 0 {
		cfg.Quality.AllowedColors = defaults.Quality.AllowedColors
	}
	if cfg.Packing.BoxCapacity == 0 {
		cfg.Packing.BoxCapacity = defaults.Packing.BoxCapacity
	}
	if cfg.Batch.Columns.Weight == "" {
		cfg.Batch.Columns.Weight = defaults.Batch.Columns.Weight
	}
	if cfg.Batch.Columns.Color == "" {
		cfg.Batch.Columns.Color = defaults.Batch.Columns.Color
	}
	if cfg.Batch.Columns.Length == "" {
		cfg.Batch.Columns.Length = defaults.Batch.Columns.Length
	}
	if cfg.Intake != nil && cfg.Intake.SettlingDelay == 0 {
		cfg.Intake.SettlingDelay = types.DefaultSettlingDelay
	}
}

// ValidateConfig validates a configuration
func (m *Manager) ValidateConfig(cfg *types.PacklineConfig) error {
	// Check version
	if cfg.Version != types.ConfigVersion {
		return fmt.Errorf("unsupported config version: %s", cfg.Version)
	}

	if cfg.Quality.Weight.Min > cfg.Quality.Weight.Max {
		return fmt.Errorf("weight tolerance: min %g exceeds max %g", cfg.Quality.Weight.Min, cfg.Quality.Weight.Max)
	}
	if cfg.Quality.Length.Min > cfg.Quality.Length.Max {
		return fmt.Errorf("length tolerance: min %g exceeds max %g", cfg.Quality.Length.Min, cfg.Quality.Length.Max)
	}
	if len(cfg.Quality.AllowedColors) == 0 {
		return fmt.Errorf("no allowed colors defined")
	}

	if cfg.Packing.BoxCapacity <= 0 {
		return fmt.Errorf("invalid box capacity: %d", cfg.Packing.BoxCapacity)
	}

	columns := []struct {
		attr string
		name string
	}{
		{"weight", cfg.Batch.Columns.Weight},
		{"color", cfg.Batch.Columns.Color},
		{"length", cfg.Batch.Columns.Length},
	}
	seen := make(map[string]string, len(columns))
	for _, col := range columns {
		if col.name == "" {
			return fmt.Errorf("batch column for %s not defined", col.attr)
		}
		if prev, dup := seen[col.name]; dup {
			return fmt.Errorf("batch columns %s and %s share header name %q", prev, col.attr, col.name)
		}
		seen[col.name] = col.attr
	}

	if cfg.Intake != nil {
		if cfg.Intake.Directory == "" {
			return fmt.Errorf("intake directory not defined")
		}
		if cfg.Intake.SettlingDelay < 0 {
			return fmt.Errorf("invalid intake settling delay: %d", cfg.Intake.SettlingDelay)
		}
	}

	return nil
}
