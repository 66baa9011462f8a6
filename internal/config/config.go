package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gridopt/internal/dp"
)

const (
	DefaultProblem  = "linear-quadratic"
	DefaultX0       = 8.0
	DefaultHorizon  = 2
	DefaultStateMin = -50.0
	DefaultStateMax = 50.0
	DefaultControl  = 10.0
	DefaultStep     = 0.02
	DefaultLogLevel = "info"
)

type Config struct {
	Problem     string             `yaml:"problem"`
	X0          float64            `yaml:"x0"`
	Horizon     int                `yaml:"horizon"`
	StateGrid   GridConfig         `yaml:"state_grid"`
	ControlGrid GridConfig         `yaml:"control_grid"`
	Params      map[string]float64 `yaml:"params,omitempty"`
	Workers     int                `yaml:"workers"`
	LogLevel    string             `yaml:"log_level"`
}

// GridConfig describes the grid min, min+step, ..., max.
type GridConfig struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

func (g GridConfig) Build() (dp.Grid, error) {
	return dp.Range(g.Min, g.Max, g.Step)
}

func DefaultConfig() *Config {
	return &Config{
		Problem: DefaultProblem,
		X0:      DefaultX0,
		Horizon: DefaultHorizon,
		StateGrid: GridConfig{
			Min:  DefaultStateMin,
			Max:  DefaultStateMax,
			Step: DefaultStep,
		},
		ControlGrid: GridConfig{
			Min:  -DefaultControl,
			Max:  DefaultControl,
			Step: DefaultStep,
		},
		LogLevel: DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything that can be checked without running the solver.
func (c *Config) Validate() error {
	var errs []error
	if c.Problem == "" {
		errs = append(errs, errors.New("problem must be set"))
	}
	if c.Horizon < 0 {
		errs = append(errs, fmt.Errorf("horizon must be non-negative, got %d", c.Horizon))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be non-negative, got %d", c.Workers))
	}
	if _, err := c.StateGrid.Build(); err != nil {
		errs = append(errs, fmt.Errorf("state_grid: %w", err))
	}
	if _, err := c.ControlGrid.Build(); err != nil {
		errs = append(errs, fmt.Errorf("control_grid: %w", err))
	}
	return errors.Join(errs...)
}

// Grids builds the state and control grids.
func (c *Config) Grids() (states, controls dp.Grid, err error) {
	if states, err = c.StateGrid.Build(); err != nil {
		return dp.Grid{}, dp.Grid{}, fmt.Errorf("state_grid: %w", err)
	}
	if controls, err = c.ControlGrid.Build(); err != nil {
		return dp.Grid{}, dp.Grid{}, fmt.Errorf("control_grid: %w", err)
	}
	return states, controls, nil
}
