package cmd

import (
	"fmt"

	"gamedb/core/config"
	"gamedb/core/database"
	"gamedb/core/logger"
	"gamedb/core/skiplog"
	"gamedb/feature/media"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the import-media command
	mediaLimit      int
	mediaDryRun     bool
	mediaSkippedLog string
)

// importMediaCmd matches a thumbnail tree against the imported catalog.
var importMediaCmd = &cobra.Command{
	Use:   "import-media <path>",
	Short: "Match thumbnail images against the catalog",
	Long: `Scan a thumbnail tree and match each image to a catalog release.

The media table is truncated and repopulated on every run. A thumbnails
subdirectory under the given path is used as the scan root when present.

Examples:
  # Match a thumbnail tree
  gamedb import-media ./thumbnails

  # Preview matching without writing anything
  gamedb import-media ./thumbnails --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImportMedia,
}

func init() {
	importMediaCmd.Flags().IntVar(&mediaLimit, "limit", 0, "Maximum files to scan (0 = no limit)")
	importMediaCmd.Flags().BoolVar(&mediaDryRun, "dry-run", false, "Match and count without writing")
	importMediaCmd.Flags().StringVar(&mediaSkippedLog, "skipped-log", "", "Append skipped files to this file")

	RootCmd.AddCommand(importMediaCmd)
}

func runImportMedia(cmd *cobra.Command, args []string) error {
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

	importer := media.NewImporter(db, l, mediaDryRun, skiplog.New(mediaSkippedLog))
	stats, err := importer.ImportPath(args[0], mediaLimit)
	if err != nil {
		return fmt.Errorf("media import failed: %w", err)
	}

	fmt.Println("Imported media: " + stats.String())
	return nil
}
