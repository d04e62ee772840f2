package cmd

import (
	"fmt"

	"gamedb/core/config"
	"gamedb/core/database"
	"gamedb/core/logger"
	"gamedb/feature/catalog/models"

	"github.com/spf13/cobra"
)

// initDBCmd creates or updates the catalog schema.
var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create or update the catalog database schema",
	RunE:  runInitDB,
}

func init() {
	RootCmd.AddCommand(initDBCmd)
}

func runInitDB(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := models.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	l.Info("Catalog schema is up to date")
	return nil
}
