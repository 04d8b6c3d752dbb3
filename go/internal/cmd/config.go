package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pitchnight/arena/go/internal/phaseclock"
)

// Config is the optional yaml configuration. Phase durations default to the
// built-in round configs; operators override seconds per phase name.
type Config struct {
	Rounds struct {
		Voting map[string]int `yaml:"voting"`
		Final  map[string]int `yaml:"final"`
	} `yaml:"rounds"`
	NATS struct {
		Enabled       bool   `yaml:"enabled"`
		URL           string `yaml:"url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	var config Config
	config.NATS.URL = "nats://localhost:4222"
	config.NATS.SubjectPrefix = "arena.live"

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &config, nil
}

// applyDurations overrides phase durations by name, in seconds.
func applyDurations(cfg phaseclock.RoundConfig, overrides map[string]int) phaseclock.RoundConfig {
	for i, p := range cfg.Phases {
		if secs, ok := overrides[p.Name]; ok && secs >= 0 {
			cfg.Phases[i].Duration = time.Duration(secs) * time.Second
		}
	}
	return cfg
}
