package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		SocketURL string `yaml:"socket_url"`
		APIURL    string `yaml:"api_url"`
	} `yaml:"server"`
	Game struct {
		CountdownFrom  int    `yaml:"countdown_from"`
		StartGrace     string `yaml:"start_grace"`
		RevealDuration string `yaml:"reveal_duration"`
		LogCapacity    int    `yaml:"log_capacity"`
	} `yaml:"game"`
	Credentials struct {
		Backend string `yaml:"backend"` // "memory" or "redis"
	} `yaml:"credentials"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
}

// Load reads YAML config from path. A missing file yields the zero config so
// flags and defaults can stand alone.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty/invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// CountdownFrom returns the configured countdown start value or the default 3.
func (c Config) CountdownFrom() int {
	if c.Game.CountdownFrom > 0 {
		return c.Game.CountdownFrom
	}
	return 3
}

// LogCapacity returns the session log bound or the default 100.
func (c Config) LogCapacity() int {
	if c.Game.LogCapacity > 0 {
		return c.Game.LogCapacity
	}
	return 100
}
