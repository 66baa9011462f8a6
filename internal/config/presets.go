package config

import "sort"

var Presets = map[string]*Config{
	"lq-example": DefaultConfig(),
	"lq-coarse": {
		Problem: "linear-quadratic", X0: 8, Horizon: 2,
		StateGrid:   GridConfig{Min: -40, Max: 40, Step: 0.5},
		ControlGrid: GridConfig{Min: -10, Max: 10, Step: 0.25},
		LogLevel:    DefaultLogLevel,
	},
	"lq-long": {
		Problem: "linear-quadratic", X0: 2, Horizon: 10,
		StateGrid:   GridConfig{Min: -10, Max: 10, Step: 0.05},
		ControlGrid: GridConfig{Min: -5, Max: 5, Step: 0.05},
		Params:      map[string]float64{"a": 1.1, "b": 0.5, "target": 0},
		LogLevel:    DefaultLogLevel,
	},
	"swing-small": {
		Problem: "swing", X0: 0.3, Horizon: 20,
		StateGrid:   GridConfig{Min: -1, Max: 1, Step: 0.005},
		ControlGrid: GridConfig{Min: -5, Max: 5, Step: 0.05},
		LogLevel:    DefaultLogLevel,
	},
	"swing-large": {
		Problem: "swing", X0: 2.5, Horizon: 40,
		StateGrid:   GridConfig{Min: -3.2, Max: 3.2, Step: 0.01},
		ControlGrid: GridConfig{Min: -10, Max: 10, Step: 0.1},
		LogLevel:    DefaultLogLevel,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	if cfg.Params != nil {
		c.Params = make(map[string]float64, len(cfg.Params))
		for k, v := range cfg.Params {
			c.Params[k] = v
		}
	}
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
