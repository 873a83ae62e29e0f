package main

import (
	"github.com/dmitrijs2005/gophadmin/internal/server"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/repomanager"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE:  runMigrate,
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	RunE:  runMigrateDown,
}

func init() {
	migrateCmd.AddCommand(migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := load()
	if err != nil {
		return err
	}
	db, err := server.OpenDB(cmd.Context(), cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repomanager.NewPostgresRepositoryManager().RunMigrations(cmd.Context(), db); err != nil {
		return err
	}
	logger.Info(cmd.Context(), "migrations applied")
	return nil
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := load()
	if err != nil {
		return err
	}
	db, err := server.OpenDB(cmd.Context(), cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repomanager.NewPostgresRepositoryManager().RollbackMigrations(cmd.Context(), db); err != nil {
		return err
	}
	logger.Info(cmd.Context(), "migrations rolled back")
	return nil
}
