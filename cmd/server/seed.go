package main

import (
	"os"

	"github.com/dmitrijs2005/gophadmin/internal/server"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophadmin/internal/server/services"
	"github.com/spf13/cobra"
)

var seedOpts services.SeedOptions

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the permission catalogue, the ADMIN profile and an admin user",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedOpts.AdminLogin, "admin-login", "admin@gophadmin.local", "admin user login")
	seedCmd.Flags().StringVar(&seedOpts.AdminPassword, "admin-password", os.Getenv("GOPHADMIN_ADMIN_PASSWORD"), "admin user password (default $GOPHADMIN_ADMIN_PASSWORD, random when empty)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := load()
	if err != nil {
		return err
	}
	db, err := server.OpenDB(cmd.Context(), cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	return services.Seed(cmd.Context(), db, repomanager.NewPostgresRepositoryManager(), seedOpts, logger)
}
