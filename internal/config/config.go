package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/convmon/internal/histogram"
	"github.com/san-kum/convmon/internal/kinetic"
	"github.com/san-kum/convmon/internal/monitor"
)

const (
	DefaultInterval = 30 * time.Millisecond
	DefaultBinMin   = 0.0
	DefaultBinMax   = 5.0
	DefaultBinEdges = 40
	DefaultLogLevel = "info"
)

type Config struct {
	Nodes        int           `yaml:"nodes"`
	Alpha        float64       `yaml:"alpha"`
	NoiseStd     float64       `yaml:"noise_std"`
	Spread       float64       `yaml:"spread"`
	Seed         int64         `yaml:"seed"`
	HistoryLimit int           `yaml:"history_limit"`
	Interval     time.Duration `yaml:"interval"`
	Ticks        int           `yaml:"ticks"`
	Bins         BinsConfig    `yaml:"bins"`
	Axis         AxisConfig    `yaml:"axis"`
	LogLevel     string        `yaml:"log_level"`
}

// BinsConfig describes the histogram edges. Explicit Edges win over the
// evenly spaced Min/Max/Count form.
type BinsConfig struct {
	Min   float64   `yaml:"min"`
	Max   float64   `yaml:"max"`
	Count int       `yaml:"count"`
	Edges []float64 `yaml:"edges,omitempty"`
}

type AxisConfig struct {
	MinWindow  int     `yaml:"min_window"`
	Lead       int     `yaml:"lead"`
	LowFactor  float64 `yaml:"low_factor"`
	HighFactor float64 `yaml:"high_factor"`
	Floor      float64 `yaml:"floor"`
	DensityMax float64 `yaml:"density_max"`
}

func DefaultConfig() *Config {
	return &Config{
		Nodes:    kinetic.DefaultNodes,
		Alpha:    kinetic.DefaultAlpha,
		NoiseStd: kinetic.DefaultNoiseStd,
		Spread:   kinetic.DefaultSpread,
		Interval: DefaultInterval,
		Bins: BinsConfig{
			Min:   DefaultBinMin,
			Max:   DefaultBinMax,
			Count: DefaultBinEdges,
		},
		Axis: AxisConfig{
			MinWindow:  monitor.DefaultMinWindow,
			Lead:       monitor.DefaultLead,
			LowFactor:  monitor.DefaultLowFactor,
			HighFactor: monitor.DefaultHighFactor,
			Floor:      monitor.DefaultFloor,
			DensityMax: monitor.DefaultDensityMax,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a yaml file over the defaults, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Bins.Edges = slices.Clone(c.Bins.Edges)
	return &cp
}

func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if _, err := c.Edges(); err != nil {
		return err
	}
	if err := c.AxisPolicy().Validate(); err != nil {
		return err
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	}
	if c.Ticks < 0 {
		return fmt.Errorf("ticks must be non-negative, got %d", c.Ticks)
	}
	return nil
}

func (c *Config) Params() kinetic.Params {
	return kinetic.Params{
		Nodes:        c.Nodes,
		Alpha:        c.Alpha,
		NoiseStd:     c.NoiseStd,
		Spread:       c.Spread,
		Seed:         c.Seed,
		HistoryLimit: c.HistoryLimit,
	}
}

func (c *Config) Edges() (histogram.Edges, error) {
	if len(c.Bins.Edges) > 0 {
		return histogram.NewEdges(c.Bins.Edges)
	}
	return histogram.Linspace(c.Bins.Min, c.Bins.Max, c.Bins.Count)
}

func (c *Config) AxisPolicy() monitor.AxisPolicy {
	return monitor.AxisPolicy{
		MinWindow:  c.Axis.MinWindow,
		Lead:       c.Axis.Lead,
		LowFactor:  c.Axis.LowFactor,
		HighFactor: c.Axis.HighFactor,
		Floor:      c.Axis.Floor,
		DensityMax: c.Axis.DensityMax,
	}
}
