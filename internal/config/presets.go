package config

import (
	"slices"
	"time"
)

var presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"dense": func(c *Config) {
		c.Nodes = 5000
	},
	"sparse": func(c *Config) {
		c.Nodes = 50
		c.Spread = 25
	},
	"sluggish": func(c *Config) {
		c.Alpha = 0.02
		c.Interval = 50 * time.Millisecond
	},
	"noisy": func(c *Config) {
		c.NoiseStd = 0.5
		c.Bins.Max = 3
	},
	"bounded": func(c *Config) {
		c.HistoryLimit = 300
		c.Ticks = 2000
	},
}

// GetPreset returns a fresh config with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
