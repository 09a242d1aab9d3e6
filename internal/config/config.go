// Package config holds the YAML run configuration for the stability
// pipeline. Command-line flags override file values; defaults apply when
// neither is given.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

type Config struct {
	DataPath      string  `yaml:"data_path"`
	Regenerate    bool    `yaml:"regenerate"`
	Rows          int     `yaml:"rows" validate:"gte=0"`
	BaseRate      float64 `yaml:"base_rate" validate:"gte=0,lte=1"`
	Algo          string  `yaml:"algo" validate:"oneof=logistic dt rf gb"`
	Estimators    int     `yaml:"estimators" validate:"gte=1"`
	MaxDepth      int     `yaml:"max_depth" validate:"gte=1"`
	MinSamples    int     `yaml:"min_samples" validate:"gte=1"`
	LearningRate  float64 `yaml:"learning_rate" validate:"gt=0"`
	Bootstraps    int     `yaml:"bootstraps" validate:"gte=1"`
	Seed          int64   `yaml:"seed"`
	Bins          int     `yaml:"bins" validate:"gte=2"`
	TrainFraction float64 `yaml:"train_fraction" validate:"gt=0,lt=1"`
	OutDir        string  `yaml:"out_dir"`
	BundlePath    string  `yaml:"bundle_path"`
}

func Default() *Config {
	return &Config{
		DataPath:      "data/episodes.csv",
		Regenerate:    true,
		Rows:          20000,
		BaseRate:      0.04,
		Algo:          "logistic",
		Estimators:    30,
		MaxDepth:      6,
		MinSamples:    100,
		LearningRate:  0.1,
		Bootstraps:    stabilityDefaultBootstraps,
		Seed:          1,
		Bins:          10,
		TrainFraction: 0.8,
		OutDir:        "out",
		BundlePath:    "out/run.gob",
	}
}

const stabilityDefaultBootstraps = 200

// Load reads a YAML file over the defaults and validates the result. An
// empty path returns the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
