package config

// Config represents the daemon configuration
type Config struct {
	LogLevel string         `yaml:"log_level"`
	HTTPAddr string         `yaml:"http_addr"`
	Growth   GrowthDefaults `yaml:"growth"`
	Bonus    BonusSearch    `yaml:"bonus"`
}

// GrowthDefaults holds the cohort parameters used when a simulation
// request does not specify them. A zero (or omitted) field takes the
// Default value; requests that genuinely need a zero cohort pass it
// per request instead.
type GrowthDefaults struct {
	InitialReferrers int `yaml:"initial_referrers"`
	Capacity         int `yaml:"capacity"`
	MaxDays          int `yaml:"max_days"`
}

// BonusSearch holds the bonus optimizer search bounds.
type BonusSearch struct {
	MaxBonus int `yaml:"max_bonus"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		HTTPAddr: ":8080",
		Growth: GrowthDefaults{
			InitialReferrers: 100,
			Capacity:         10,
			MaxDays:          100000,
		},
		Bonus: BonusSearch{
			MaxBonus: 10 * (1 << 20),
		},
	}
}

// applyDefaults fills zero-valued fields from Default. Zero is
// reserved to mean "unset" here: an explicit 0 in the file is
// replaced by the default.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = def.HTTPAddr
	}
	if cfg.Growth.InitialReferrers == 0 {
		cfg.Growth.InitialReferrers = def.Growth.InitialReferrers
	}
	if cfg.Growth.Capacity == 0 {
		cfg.Growth.Capacity = def.Growth.Capacity
	}
	if cfg.Growth.MaxDays == 0 {
		cfg.Growth.MaxDays = def.Growth.MaxDays
	}
	if cfg.Bonus.MaxBonus == 0 {
		cfg.Bonus.MaxBonus = def.Bonus.MaxBonus
	}
}
