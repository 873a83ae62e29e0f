package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophadmin/internal/buildinfo"
	"github.com/dmitrijs2005/gophadmin/internal/client/cli"
	"github.com/dmitrijs2005/gophadmin/internal/client/config"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(os.Stderr, level, "text")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
