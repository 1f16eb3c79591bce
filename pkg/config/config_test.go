package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/packline/packline/pkg/config"
	"github.com/packline/packline/pkg/types"
)

func writeConfig(t *testing.T, name string, marshal func(interface{}) ([]byte, error), doc map[string]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	data, err := marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeConfig(t, "packline.config.json", json.Marshal, map[string]interface{}{
		"version": "1.0",
		"quality": map[string]interface{}{
			"weight":        map[string]float64{"min": 90, "max": 110},
			"allowedColors": []string{"red", "black"},
			"length":        map[string]float64{"min": 5, "max": 25},
		},
		"packing": map[string]interface{}{"boxCapacity": 6},
	})

	manager := config.NewManager()
	cfg, err := manager.LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Version != "1.0" {
		t.Errorf("expected version 1.0, got %s", cfg.Version)
	}
	if cfg.Quality.Weight.Min != 90 || cfg.Quality.Weight.Max != 110 {
		t.Errorf("unexpected weight tolerance: %+v", cfg.Quality.Weight)
	}
	if cfg.Packing.BoxCapacity != 6 {
		t.Errorf("expected box capacity 6, got %d", cfg.Packing.BoxCapacity)
	}
	// Unset sections fall back to defaults.
	if cfg.Batch.Columns.Weight != "weight" {
		t.Errorf("expected default weight column, got %s", cfg.Batch.Columns.Weight)
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeConfig(t, "packline.config.yaml", yaml.Marshal, map[string]interface{}{
		"version": "1.0",
		"batch": map[string]interface{}{
			"columns": map[string]string{
				"weight": "peso",
				"color":  "cor",
				"length": "comprimento",
			},
		},
	})

	manager := config.NewManager()
	cfg, err := manager.LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Batch.Columns.Weight != "peso" {
		t.Errorf("expected localized weight column, got %s", cfg.Batch.Columns.Weight)
	}
	if cfg.Quality.Weight.Min != 95 {
		t.Errorf("expected default weight min 95, got %g", cfg.Quality.Weight.Min)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	manager := config.NewManager()
	if _, err := manager.LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateConfig(t *testing.T) {
	manager := config.NewManager()

	cases := []struct {
		name   string
		mutate func(*types.PacklineConfig)
	}{
		{"bad version", func(c *types.PacklineConfig) { c.Version = "2.0" }},
		{"inverted weight range", func(c *types.PacklineConfig) { c.Quality.Weight = types.Range{Min: 110, Max: 90} }},
		{"inverted length range", func(c *types.PacklineConfig) { c.Quality.Length = types.Range{Min: 25, Max: 5} }},
		{"no colors", func(c *types.PacklineConfig) { c.Quality.AllowedColors = nil }},
		{"zero capacity", func(c *types.PacklineConfig) { c.Packing.BoxCapacity = 0 }},
		{"blank column", func(c *types.PacklineConfig) { c.Batch.Columns.Color = "" }},
		{"duplicate columns", func(c *types.PacklineConfig) {
			c.Batch.Columns.Weight = "value"
			c.Batch.Columns.Length = "value"
		}},
		{"intake without directory", func(c *types.PacklineConfig) { c.Intake = &types.IntakeConfig{} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := types.DefaultConfig()
			tc.mutate(cfg)
			if err := manager.ValidateConfig(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := manager.ValidateConfig(types.DefaultConfig()); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}
