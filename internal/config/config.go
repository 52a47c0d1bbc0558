// Package config loads the run-time tunables a host wires into the
// dispatcher's supporting services (event batching, cache GC) from a YAML
// file with environment-variable overrides, the same two-layer shape the
// teacher's own service configs use.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every host-tunable knob outside the board/run itself.
type Config struct {
	Events EventsConfig `yaml:"events"`
	Cache  CacheConfig  `yaml:"cache"`
	Log    LogConfig    `yaml:"log"`
}

// EventsConfig configures the buffered event handler.
type EventsConfig struct {
	IntervalMillis int `yaml:"intervalMillis"`
	Capacity       int `yaml:"capacity"`
	PerTypeCap     int `yaml:"perTypeCap"`
}

func (e EventsConfig) Interval() time.Duration {
	return time.Duration(e.IntervalMillis) * time.Millisecond
}

// CacheConfig configures the resource cache's idle-based GC.
type CacheConfig struct {
	IdleSeconds     int `yaml:"idleSeconds"`
	SweepIntervalMs int `yaml:"sweepIntervalMs"`
}

func (c CacheConfig) IdleThreshold() time.Duration {
	return time.Duration(c.IdleSeconds) * time.Second
}

func (c CacheConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMs) * time.Millisecond
}

// LogConfig configures obslog's output level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in tunables, matching BufferedHandler's and
// ResourceCache's own package defaults so a host that skips config entirely
// still gets sane behavior.
func Default() Config {
	return Config{
		Events: EventsConfig{IntervalMillis: 20, Capacity: 200, PerTypeCap: 50},
		Cache:  CacheConfig{IdleSeconds: 300, SweepIntervalMs: 30000},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads path (if non-empty and present) over the defaults, then
// applies FLOWBOARD_-prefixed environment overrides on top.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := envInt("FLOWBOARD_EVENTS_INTERVAL_MS"); ok {
		cfg.Events.IntervalMillis = v
	}
	if v, ok := envInt("FLOWBOARD_EVENTS_CAPACITY"); ok {
		cfg.Events.Capacity = v
	}
	if v, ok := envInt("FLOWBOARD_EVENTS_PER_TYPE_CAP"); ok {
		cfg.Events.PerTypeCap = v
	}
	if v, ok := envInt("FLOWBOARD_CACHE_IDLE_SECONDS"); ok {
		cfg.Cache.IdleSeconds = v
	}
	if v := os.Getenv("FLOWBOARD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func envInt(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
