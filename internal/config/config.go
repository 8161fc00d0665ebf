// Package config holds server-tuning knobs for the MazeWar server: the
// listen port and maze template required by the protocol, plus the
// ambient knobs (purgatory duration, registry capacity, rate limiting,
// logging) every long-running service in this codebase exposes.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the fully-resolved server configuration: flags override
// File, and File overrides Defaults(), mirroring the user/project merge
// precedence used elsewhere in this codebase.
type Config struct {
	Port         int           `yaml:"port"`
	TemplatePath string        `yaml:"template_path"`
	Purgatory    time.Duration `yaml:"purgatory"`
	RegistryCap  int           `yaml:"registry_capacity"`
	RateLimit    float64       `yaml:"rate_limit_per_sec"`
	RateBurst    int           `yaml:"rate_burst"`
	PollInterval time.Duration `yaml:"poll_interval"`
	LogLevel     string        `yaml:"log_level"`
	LogFile      string        `yaml:"log_file"`
}

// Defaults returns the hardcoded fallback configuration.
func Defaults() Config {
	return Config{
		Port:         0,
		TemplatePath: "",
		Purgatory:    3 * time.Second,
		RegistryCap:  128,
		RateLimit:    20,
		RateBurst:    40,
		PollInterval: 200 * time.Millisecond,
		LogLevel:     "info",
		LogFile:      "",
	}
}

// LoadFile reads a YAML overrides file. A missing path is not an error —
// the server runs fine on flags and defaults alone.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge overlays non-zero fields of override onto base, matching the
// project-overrides-user precedence used by the rest of this codebase's
// config layering (flags are the "project" layer here: most specific wins).
func Merge(base, override Config) Config {
	out := base
	if override.Port != 0 {
		out.Port = override.Port
	}
	if override.TemplatePath != "" {
		out.TemplatePath = override.TemplatePath
	}
	if override.Purgatory != 0 {
		out.Purgatory = override.Purgatory
	}
	if override.RegistryCap != 0 {
		out.RegistryCap = override.RegistryCap
	}
	if override.RateLimit != 0 {
		out.RateLimit = override.RateLimit
	}
	if override.RateBurst != 0 {
		out.RateBurst = override.RateBurst
	}
	if override.PollInterval != 0 {
		out.PollInterval = override.PollInterval
	}
	if override.LogLevel != "" {
		out.LogLevel = override.LogLevel
	}
	if override.LogFile != "" {
		out.LogFile = override.LogFile
	}
	return out
}

// Validate checks the fields required before a server can start: a
// mandatory positive port.
func (c Config) Validate() error {
	if c.Port <= 0 {
		return fmt.Errorf("port must be a positive integer, got %d", c.Port)
	}
	return nil
}
