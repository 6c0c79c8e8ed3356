package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/config"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/db"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/logging"
)

var (
	configFile string
	envFile    string
)

func main() {
	root := &cobra.Command{
		Use:           "donaciones",
		Short:         "Donation management API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: ./donaciones.{yaml,json,toml} if present)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded into the environment")

	root.AddCommand(serveCmd(), migrateCmd(), createAdminCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration, installs the logger and opens the migrated
// database. The returned cleanup closes both.
func setup(ctx context.Context) (config.Config, *db.DB, func(), error) {
	cfg, err := config.Load(configFile, envFile)
	if err != nil {
		return cfg, nil, nil, err
	}

	closeLog, err := logging.Setup(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return cfg, nil, nil, err
	}

	database, err := db.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		closeLog()
		return cfg, nil, nil, fmt.Errorf("opening database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		closeLog()
		return cfg, nil, nil, fmt.Errorf("migrating database: %w", err)
	}
	slog.Info("database ready", "driver", database.Dialect)

	cleanup := func() {
		database.Close()
		closeLog()
	}
	return cfg, database, cleanup, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, cleanup, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			cleanup()
			return nil
		},
	}
}
