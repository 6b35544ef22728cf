package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseConfigYAML parses a Config from YAML bytes, applies defaults and
// validates it. This is also used where config is provided as payload
// rather than via the filesystem.
func ParseConfigYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// validateConfig performs validation on the configuration
func validateConfig(cfg *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if cfg.Growth.InitialReferrers < 0 {
		return fmt.Errorf("growth.initial_referrers must be non-negative, got %d", cfg.Growth.InitialReferrers)
	}
	if cfg.Growth.Capacity < 0 {
		return fmt.Errorf("growth.capacity must be non-negative, got %d", cfg.Growth.Capacity)
	}
	if cfg.Growth.MaxDays < 1 {
		return fmt.Errorf("growth.max_days must be positive, got %d", cfg.Growth.MaxDays)
	}
	if cfg.Bonus.MaxBonus < 10 {
		return fmt.Errorf("bonus.max_bonus must be at least 10, got %d", cfg.Bonus.MaxBonus)
	}

	return nil
}
