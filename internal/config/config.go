// Package config reads the server configuration from the environment
// and an optional difficulty-profile override file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tompom/gameserver/internal/opponent"
)

// Defaults for the opponent subsystem.
const (
	DefaultEndpoint = "http://localhost:1234/v1/chat/completions"
	DefaultModel    = "meta-llama-3-8b-instruct"
	DefaultTimeout  = 800 * time.Millisecond
)

// Config is the environment-driven configuration surface. Addresses
// come from flags in the binaries, everything else from TOMPOM_* vars.
type Config struct {
	Mode         opponent.Mode // off | on | auto
	Strategy     string        // predict | oracle
	Difficulty   string
	Endpoint     string
	Model        string
	Timeout      time.Duration
	ProfilesPath string // optional YAML difficulty overrides
}

// FromEnv reads the configuration, applying defaults for anything
// unset. Invalid values fall back to their default rather than failing
// startup.
func FromEnv() Config {
	cfg := Config{
		Mode:         opponent.ModeOff,
		Strategy:     getEnv("TOMPOM_AI_STRATEGY", "predict"),
		Difficulty:   getEnv("TOMPOM_AI_DIFFICULTY", opponent.DefaultDifficulty),
		Endpoint:     getEnv("TOMPOM_AI_ENDPOINT", DefaultEndpoint),
		Model:        getEnv("TOMPOM_AI_MODEL", DefaultModel),
		Timeout:      DefaultTimeout,
		ProfilesPath: os.Getenv("TOMPOM_AI_PROFILES"),
	}

	switch mode := opponent.Mode(getEnv("TOMPOM_AI", "off")); mode {
	case opponent.ModeOff, opponent.ModeOn, opponent.ModeAuto:
		cfg.Mode = mode
	}

	if raw := os.Getenv("TOMPOM_AI_TIMEOUT"); raw != "" {
		if secs, err := strconv.ParseFloat(raw, 64); err == nil && secs > 0 {
			cfg.Timeout = time.Duration(secs * float64(time.Second))
		}
	}

	if cfg.Strategy != "predict" && cfg.Strategy != "oracle" {
		cfg.Strategy = "predict"
	}

	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// profileYAML is the file form of a difficulty profile. Zero fields
// keep the built-in value.
type profileYAML struct {
	IntervalMS  int     `yaml:"interval_ms"`
	Deadband    float64 `yaml:"deadband"`
	PaddleSpeed float64 `yaml:"paddle_speed"`
}

// LoadProfiles merges YAML overrides from path over the built-in
// difficulty table. An empty path returns the built-ins unchanged.
func LoadProfiles(path string) (map[string]opponent.Profile, error) {
	table := opponent.Profiles()
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	var raw map[string]profileYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}

	for name, override := range raw {
		p, ok := table[name]
		if !ok {
			p = table[opponent.DefaultDifficulty]
		}
		if override.IntervalMS > 0 {
			p.Interval = time.Duration(override.IntervalMS) * time.Millisecond
		}
		if override.Deadband > 0 {
			p.Deadband = override.Deadband
		}
		if override.PaddleSpeed > 0 {
			p.PaddleSpeed = override.PaddleSpeed
		}
		table[name] = p
	}
	return table, nil
}
