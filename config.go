package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"fluid_eos/eos"
)

// Config is the YAML solver configuration.
type Config struct {
	Solver       SolverConfig `yaml:"solver"`
	Workers      int          `yaml:"workers" validate:"gte=1,lte=256"`
	PressureUnit string       `yaml:"pressure_unit" validate:"oneof=Pa kPa MPa bar"`
}

// SolverConfig is the file form of eos.SolverOptions.
type SolverConfig struct {
	AbsoluteTolerance float64 `yaml:"absolute_tolerance" validate:"gte=0"`
	RelativeTolerance float64 `yaml:"relative_tolerance" validate:"gte=0"`
	MaxIterations     int     `yaml:"max_iterations" validate:"gte=1"`
	MaxStepFraction   float64 `yaml:"max_step_fraction" validate:"gt=0,lte=2"`
	MaxReducedDensity float64 `yaml:"max_reduced_density" validate:"gt=1"`
}

func new_solver_config(o eos.SolverOptions) SolverConfig {
	return SolverConfig{
		AbsoluteTolerance: o.AbsoluteTolerance,
		RelativeTolerance: o.RelativeTolerance,
		MaxIterations:     o.MaxIterations,
		MaxStepFraction:   o.MaxStepFraction,
		MaxReducedDensity: o.MaxReducedDensity,
	}
}

// 反復の設定
func (c SolverConfig) options() eos.SolverOptions {
	return eos.SolverOptions{
		AbsoluteTolerance: c.AbsoluteTolerance,
		RelativeTolerance: c.RelativeTolerance,
		MaxIterations:     c.MaxIterations,
		MaxStepFraction:   c.MaxStepFraction,
		MaxReducedDensity: c.MaxReducedDensity,
	}
}

var config_validator = validator.New()

func default_config() Config {
	return Config{
		Solver:       new_solver_config(eos.DefaultSolverOptions()),
		Workers:      4,
		PressureUnit: "Pa",
	}
}

/*
設定ファイルを読み込む。

	Args:
		path: YAML ファイルのパス (空の場合は既定値)

	Returns:
		設定

	Notes:
		ファイルに書かれていない項目は既定値のまま。
*/
func load_config(path string) (Config, error) {
	cfg := default_config()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	return config_validator.Struct(c)
}

// 圧力の出力単位
func (c *Config) pressure_unit() eos.Unit {
	u, err := eos.ParseUnit(c.PressureUnit)
	if err != nil {
		panic(err)
	}
	return u
}
