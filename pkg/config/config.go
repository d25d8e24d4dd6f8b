// Package config loads the YAML run configuration of the netdesign tool.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-netdesign/pkg/logging"
	"github.com/dd0wney/cluso-netdesign/pkg/model"
	"github.com/dd0wney/cluso-netdesign/pkg/solver/bnb"
	"github.com/dd0wney/cluso-netdesign/pkg/validation"
)

// Config is the whole run configuration
type Config struct {
	Model   ModelConfig   `yaml:"model"`
	Solver  SolverConfig  `yaml:"solver"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ModelConfig holds the constants of the generated model
type ModelConfig struct {
	BetaUpperBound  float64 `yaml:"beta_ub"`
	LinkedCommodity int     `yaml:"linked_commodity"`
	ProblemName     string  `yaml:"problem_name"`
}

// SolverConfig holds the branch-and-bound limits. Zero limits mean none.
type SolverConfig struct {
	TimeLimit            time.Duration `yaml:"time_limit"`
	NodeLimit            int           `yaml:"node_limit"`
	Workers              int           `yaml:"workers"`
	Gap                  float64       `yaml:"gap"`
	IntegralityTolerance float64       `yaml:"integrality_tolerance"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// MetricsConfig names the Prometheus textfile written after a run; empty disables it
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

const MaxWorkers = 256

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Model: ModelConfig{
			BetaUpperBound:  model.DefaultBetaUpperBound,
			LinkedCommodity: model.DefaultLinkedCommodity,
			ProblemName:     model.DefaultProblemName,
		},
		Solver: SolverConfig{
			TimeLimit:            5 * time.Minute,
			Workers:              bnb.DefaultWorkers,
			Gap:                  bnb.DefaultGap,
			IntegralityTolerance: bnb.DefaultIntegralityTolerance,
		},
		Log: LogConfig{
			Level: logging.InfoLevel.String(),
		},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are errors.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section and joins all failures
func (c *Config) Validate() error {
	v := validation.NewConfigValidator("config")

	v.Finite("model.beta_ub", c.Model.BetaUpperBound).
		PositiveFloat("model.beta_ub", c.Model.BetaUpperBound).
		NonNegative("model.linked_commodity", c.Model.LinkedCommodity).
		Required("model.problem_name", c.Model.ProblemName)

	v.NonNegativeDuration("solver.time_limit", c.Solver.TimeLimit).
		NonNegative("solver.node_limit", c.Solver.NodeLimit).
		RangeInt("solver.workers", c.Solver.Workers, 1, MaxWorkers).
		RangeFloat("solver.gap", c.Solver.Gap, 0, 1).
		RangeFloat("solver.integrality_tolerance", c.Solver.IntegralityTolerance, 1e-12, 0.1)

	v.Custom("log.level", func() error {
		_, err := logging.LookupLevel(c.Log.Level)
		return err
	})

	return v.Validate()
}

// LogLevel returns the configured level; Validate guarantees it parses
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}

// SolverOptions maps the solver section onto bnb options
func (c *Config) SolverOptions(logger logging.Logger, observer bnb.Observer) bnb.Options {
	return bnb.Options{
		NodeLimit:            c.Solver.NodeLimit,
		TimeLimit:            c.Solver.TimeLimit,
		Gap:                  c.Solver.Gap,
		IntegralityTolerance: c.Solver.IntegralityTolerance,
		Workers:              c.Solver.Workers,
		Logger:               logger,
		Observer:             observer,
	}
}

// ModelOptions maps the model section onto builder options, with a bnb
// engine configured from the solver section.
func (c *Config) ModelOptions(logger logging.Logger, observer bnb.Observer) []model.Option {
	return []model.Option{
		model.WithBetaUpperBound(c.Model.BetaUpperBound),
		model.WithLinkedCommodity(c.Model.LinkedCommodity),
		model.WithProblemName(c.Model.ProblemName),
		model.WithSolverFactory(bnb.NewFactory(c.SolverOptions(logger, observer))),
		model.WithLogger(logger),
	}
}
