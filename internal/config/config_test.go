package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Problem != "linear-quadratic" {
		t.Errorf("expected problem linear-quadratic, got %s", cfg.Problem)
	}
	if cfg.Horizon != 2 || cfg.X0 != 8 {
		t.Errorf("expected horizon 2 from x0 8, got %d from %f", cfg.Horizon, cfg.X0)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}

	states, controls, err := cfg.Grids()
	if err != nil {
		t.Fatalf("grids failed: %v", err)
	}
	if states.Len() != 5001 || controls.Len() != 1001 {
		t.Errorf("expected 5001 states and 1001 controls, got %d and %d", states.Len(), controls.Len())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty problem", func(c *Config) { c.Problem = "" }},
		{"negative horizon", func(c *Config) { c.Horizon = -1 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"zero state step", func(c *Config) { c.StateGrid.Step = 0 }},
		{"inverted control grid", func(c *Config) { c.ControlGrid.Min, c.ControlGrid.Max = 1, -1 }},
		{"tiny state step", func(c *Config) { c.StateGrid.Step = 1e-300 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "problem.yaml")

	cfg := DefaultConfig()
	cfg.Horizon = 5
	cfg.Params = map[string]float64{"a": 1.5}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Horizon != 5 || loaded.Params["a"] != 1.5 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("horizon: 4\nstate_grid:\n  min: -1\n  max: 1\n  step: 0.5\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Horizon != 4 || cfg.StateGrid.Step != 0.5 {
		t.Errorf("expected file values, got horizon %d step %f", cfg.Horizon, cfg.StateGrid.Step)
	}
	if cfg.Problem != DefaultProblem || cfg.ControlGrid.Step != DefaultStep {
		t.Errorf("expected defaults for missing keys, got %+v", cfg)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("lq-long")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Horizon != 10 {
		t.Errorf("expected horizon 10, got %d", cfg.Horizon)
	}

	cfg.Params["a"] = 99
	if Presets["lq-long"].Params["a"] == 99 {
		t.Error("GetPreset should return an independent copy")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValid(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
