package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

var (
	ErrPopulationSize = errors.New("population size must be at least 1")
	ErrStdDev         = errors.New("std_dev must not be negative")
	ErrGeneticWeight  = errors.New("genetic weight must be within [0, 1]")
	ErrRankSize       = errors.New("rank_size must be at least 1")
)

// Config is the root configuration structure
type Config struct {
	Seed       uint64           `yaml:"seed"` // 0 = unseeded
	Population PopulationConfig `yaml:"population"`
	Weight     WeightConfig     `yaml:"weight"`
	Run        RunConfig        `yaml:"run"`
	Sweep      SweepConfig      `yaml:"sweep"`
	Logging    LogConfig        `yaml:"logging"`
}

// PopulationConfig defines the synthetic population
type PopulationConfig struct {
	Size     int     `yaml:"size"`
	Mean     float64 `yaml:"mean"`
	StdDev   float64 `yaml:"std_dev"`
	RankSize int     `yaml:"rank_size"`
}

// WeightConfig holds the genetic weight as a fraction.
// Genetic is a pointer so that an explicit 0 survives defaulting.
type WeightConfig struct {
	Genetic *float64 `yaml:"genetic"`
}

// RunConfig defines headless run parameters
type RunConfig struct {
	Rounds int `yaml:"rounds"`
}

// SweepConfig defines the multi-trial weight sweep
type SweepConfig struct {
	Weights []float64 `yaml:"weights"`
	Trials  int       `yaml:"trials"`
	Rounds  int       `yaml:"rounds"`
	Workers int       `yaml:"workers"`
}

// LogConfig defines logging parameters
type LogConfig struct {
	Level      string `yaml:"level"` // debug|info|warn|error
	EveryRound bool   `yaml:"every_round"`
	CSVPath    string `yaml:"csv_path"`
	JSONPath   string `yaml:"json_path"`
}

// Load reads a YAML config file and returns a Config
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Default returns a fully defaulted config without reading a file
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Population.Size == 0 {
		cfg.Population.Size = 100
	}
	if cfg.Population.Mean == 0 {
		cfg.Population.Mean = 100
	}
	if cfg.Population.StdDev == 0 {
		cfg.Population.StdDev = 10
	}
	if cfg.Population.RankSize == 0 {
		cfg.Population.RankSize = 5
	}
	if cfg.Weight.Genetic == nil {
		w := 0.5
		cfg.Weight.Genetic = &w
	}
	if cfg.Run.Rounds == 0 {
		cfg.Run.Rounds = 5
	}
	if len(cfg.Sweep.Weights) == 0 {
		cfg.Sweep.Weights = []float64{0, 0.25, 0.5, 0.75, 1}
	}
	if cfg.Sweep.Trials == 0 {
		cfg.Sweep.Trials = 20
	}
	if cfg.Sweep.Rounds == 0 {
		cfg.Sweep.Rounds = 1
	}
	if cfg.Sweep.Workers <= 0 {
		cfg.Sweep.Workers = runtime.NumCPU()
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.CSVPath == "" {
		cfg.Logging.CSVPath = "runs/rounds.csv"
	}
	if cfg.Logging.JSONPath == "" {
		cfg.Logging.JSONPath = "runs/rounds.jsonl"
	}
}

// Validate checks ranges that defaulting cannot repair
func (c *Config) Validate() error {
	if c.Population.Size < 1 {
		return ErrPopulationSize
	}
	if c.Population.StdDev < 0 {
		return ErrStdDev
	}
	if c.Population.RankSize < 1 {
		return ErrRankSize
	}
	if w := c.GeneticWeight(); w < 0 || w > 1 || math.IsNaN(w) {
		return ErrGeneticWeight
	}
	for _, w := range c.Sweep.Weights {
		if w < 0 || w > 1 || math.IsNaN(w) {
			return fmt.Errorf("sweep weight %v: %w", w, ErrGeneticWeight)
		}
	}
	return nil
}

// GeneticWeight returns the configured weight fraction
func (c *Config) GeneticWeight() float64 {
	if c.Weight.Genetic == nil {
		return 0.5
	}
	return *c.Weight.Genetic
}

// SetGeneticWeight overrides the configured weight fraction
func (c *Config) SetGeneticWeight(w float64) {
	c.Weight.Genetic = &w
}

// LoadOrDefault loads path, falling back to Default when the file does not exist
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}
