package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the admin console.
type Config struct {
	// BaseURL is the backend origin every endpoint is resolved against.
	BaseURL string
	// DBPath is the SQLite file that keeps the token between runs.
	DBPath string
	// RequestTimeout bounds a single HTTP call. Zero disables it.
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:3000"
	c.DBPath = "gophadmin.db"
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig applies defaults, then the JSON file named by -c/-config, then
// command-line flags. Later sources win.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
