package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/dmitrijs2005/gophadmin/internal/server/config"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "gophadmin-server",
	Short:        "gophadmin backend",
	Long:         "REST backend for the gophadmin console: sign-in, users, profiles, permissions and file storage.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
}

// load reads the config and builds the JSON logger it asks for.
func load() (*config.Config, logging.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(os.Stdout, level, cfg.Log.Format), nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
