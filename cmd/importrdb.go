package cmd

import (
	"fmt"

	"gamedb/core/config"
	"gamedb/core/database"
	"gamedb/core/logger"
	"gamedb/core/skiplog"
	"gamedb/feature/catalog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the import-rdb command
	rdbSource     string
	rdbLimit      int
	rdbSkippedLog string
)

// importRdbCmd imports one .rdb file or a directory of them.
var importRdbCmd = &cobra.Command{
	Use:   "import-rdb <path>",
	Short: "Import .rdb database files into the catalog",
	Long: `Import a single .rdb file or every *.rdb file in a directory.

Each file becomes a system named after its file stem. Rows are reconciled
into titles, releases and roms; unrecognized fields are kept as attributes.

Examples:
  # Import a whole rdb directory
  gamedb import-rdb ./rdb

  # Import one file, first 100 rows only
  gamedb import-rdb ./rdb/Nintendo - Game Boy.rdb --limit 100`,
	Args: cobra.ExactArgs(1),
	RunE: runImportRdb,
}

func init() {
	importRdbCmd.Flags().StringVar(&rdbSource, "source", catalog.DefaultSource, "Source label stored on imported attributes")
	importRdbCmd.Flags().IntVar(&rdbLimit, "limit", 0, "Maximum rows to import per file (0 = no limit)")
	importRdbCmd.Flags().StringVar(&rdbSkippedLog, "skipped-log", "", "Append skipped rows to this file")

	RootCmd.AddCommand(importRdbCmd)
}

func runImportRdb(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()
	l = l.With(zap.String("run_id", uuid.NewString()))

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	importer := catalog.NewImporter(db, l, rdbSource, skiplog.New(rdbSkippedLog))
	stats, err := importer.ImportPath(args[0], rdbLimit)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Println("Imported: " + stats.String())
	return nil
}
