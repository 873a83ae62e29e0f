package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophadmin/internal/flagx"
	"github.com/dmitrijs2005/gophadmin/internal/timex"
)

// jsonConfig mirrors Config for the JSON file. Empty fields keep the value
// already in Config.
type jsonConfig struct {
	BaseURL        string          `json:"base_url"`
	DBPath         string          `json:"db_path"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	LogLevel       string          `json:"log_level"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.DBPath != "" {
		cfg.DBPath = jc.DBPath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	return nil
}
