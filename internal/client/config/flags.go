package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophadmin/internal/flagx"
)

// parseFlags overlays cfg with -a, -d, -t and -l. Unknown flags are
// ignored so -c can share the command line.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-t", "-l"})

	fs := flag.NewFlagSet("gophadmin", flag.ContinueOnError)
	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "backend base URL")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path of the local SQLite database")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
