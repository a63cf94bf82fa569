package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runningwild/linefit/pkg/ransac"
)

// Config represents the top-level configuration for a fit run.
type Config struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Fit    Fit    `yaml:"fit"`

	Report  string `yaml:"report,omitempty"`  // JSON report path
	Plot    string `yaml:"plot,omitempty"`    // PNG plot path
	History string `yaml:"history,omitempty"` // SQLite run history path
}

type Fit struct {
	Confidence     float64       `yaml:"confidence"`
	Threshold      float64       `yaml:"threshold"`
	InlierFraction float64       `yaml:"inlier_fraction"`
	Seed           uint64        `yaml:"seed"`
	Workers        int           `yaml:"workers"`
	MaxTrials      int           `yaml:"max_trials"`
	FixedTrials    bool          `yaml:"fixed_trials"`
	Refine         bool          `yaml:"refine"`
	TimeBudget     time.Duration `yaml:"time_budget"`
}

const DefaultOutput = "output.txt"

func Default() *Config {
	p := ransac.DefaultParams()
	return &Config{
		Output: DefaultOutput,
		Fit: Fit{
			Confidence:     p.Confidence,
			Threshold:      p.Threshold,
			InlierFraction: p.InlierFraction,
			Workers:        p.Workers,
			MaxTrials:      p.MaxTrials,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	def := Default()
	if cfg.Output == "" {
		cfg.Output = def.Output
	}
	if cfg.Fit.Confidence == 0 {
		cfg.Fit.Confidence = def.Fit.Confidence
	}
	if cfg.Fit.Threshold == 0 {
		cfg.Fit.Threshold = def.Fit.Threshold
	}
	if cfg.Fit.InlierFraction == 0 {
		cfg.Fit.InlierFraction = def.Fit.InlierFraction
	}
	if cfg.Fit.Workers == 0 {
		cfg.Fit.Workers = def.Fit.Workers
	}
	if cfg.Fit.MaxTrials == 0 {
		cfg.Fit.MaxTrials = def.Fit.MaxTrials
	}
	return &cfg, nil
}

// Save writes cfg as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Params() ransac.Params {
	return ransac.Params{
		Confidence:     c.Fit.Confidence,
		Threshold:      c.Fit.Threshold,
		InlierFraction: c.Fit.InlierFraction,
		Seed:           c.Fit.Seed,
		Workers:        c.Fit.Workers,
		MaxTrials:      c.Fit.MaxTrials,
		FixedTrials:    c.Fit.FixedTrials,
		Refine:         c.Fit.Refine,
		TimeBudget:     c.Fit.TimeBudget,
	}
}

// Validate checks the fit section with the same rules the engine applies.
func (c *Config) Validate() error {
	return c.Params().Validate()
}
