package media

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gamedb/core/skiplog"
	"gamedb/feature/catalog/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// mediaTypes maps the fixed thumbnail folder names onto stored media types.
var mediaTypes = map[string]string{
	"named_boxarts": "boxart",
	"named_snaps":   "snapshot",
	"named_titles":  "title",
	"named_logos":   "logo",
}

// supportedExts are the image extensions considered for matching.
var supportedExts = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
}

// errLimitReached stops the directory walk once the file limit is hit.
var errLimitReached = errors.New("media file limit reached")

// Importer matches loose image files against the reconciled catalog and
// upserts media rows. A run first truncates the media table (unless dry
// run), then repopulates it, committing once per system directory.
type Importer struct {
	db     *gorm.DB
	log    *zap.Logger
	dryRun bool
	skips  *skiplog.Writer
}

// NewImporter creates a media importer. In dry-run mode matching and
// statistics behave identically but nothing is written.
func NewImporter(db *gorm.DB, log *zap.Logger, dryRun bool, skips *skiplog.Writer) *Importer {
	return &Importer{db: db, log: log, dryRun: dryRun, skips: skips}
}

// ImportPath scans the media tree under path. A `thumbnails` subdirectory
// is preferred as the scan root when present; stored paths stay relative
// to path itself. limit caps scanned files across all systems; zero means
// no limit.
func (i *Importer) ImportPath(path string, limit int) (Stats, error) {
	var stats Stats
	root := resolveRoot(path)

	if !i.dryRun {
		i.log.Info("truncating media table")
		if err := i.db.Exec("TRUNCATE TABLE media").Error; err != nil {
			return stats, err
		}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return stats, err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		systemName := entry.Name()

		var system models.System
		err := i.db.Where("name = ?", systemName).First(&system).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			stats.SkippedUnknownSystem++
			i.skips.Skip("unknown_system", systemName)
			continue
		}
		if err != nil {
			return stats, err
		}

		i.log.Info("matching system media", zap.String("system", systemName))
		titles, err := i.loadTitles(system.ID)
		if err != nil {
			return stats, err
		}
		releases, err := i.loadReleases(titles)
		if err != nil {
			return stats, err
		}

		before := stats
		limited := false
		scan := func(tx *gorm.DB) error {
			err := i.scanSystem(tx, filepath.Join(root, systemName), path, root, titles, releases, limit, &stats)
			// The limit is a clean stop, not a failure; returning the
			// sentinel would roll back the rows created before it tripped.
			if errors.Is(err, errLimitReached) {
				limited = true
				return nil
			}
			return err
		}

		// One commit per system directory; dry runs have nothing to commit.
		if i.dryRun {
			err = scan(i.db)
		} else {
			err = i.db.Transaction(scan)
		}
		if err != nil {
			return stats, err
		}

		i.log.Info("system media done",
			zap.String("system", systemName),
			zap.Int("matched", stats.MediaCreated-before.MediaCreated),
			zap.Int("skipped", stats.totalSkipped()-before.totalSkipped()),
		)
		if limited {
			break
		}
	}
	return stats, nil
}

// scanSystem walks every immediate subdirectory of the system directory
// recursively and handles each supported image file.
func (i *Importer) scanSystem(tx *gorm.DB, systemPath, mediaRoot, root string, titles map[string]uint, releases map[uint][]ReleaseRef, limit int, stats *Stats) error {
	folders, err := os.ReadDir(systemPath)
	if err != nil {
		return err
	}
	scanned := 0
	for _, folder := range folders {
		if !folder.IsDir() {
			continue
		}
		err := filepath.WalkDir(filepath.Join(systemPath, folder.Name()), func(fullPath string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			if _, ok := supportedExts[strings.ToLower(filepath.Ext(fullPath))]; !ok {
				return nil
			}

			stats.FilesScanned++
			scanned++
			if limit > 0 && stats.FilesScanned > limit {
				return errLimitReached
			}
			if scanned%5000 == 0 {
				i.log.Info("matching progress",
					zap.String("dir", systemPath),
					zap.Int("scanned", scanned),
				)
			}
			return i.handleFile(tx, fullPath, mediaRoot, root, titles, releases, stats)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// handleFile resolves one image file to a (title, release) pair and upserts
// its media row. Every mismatch is recoverable: counted, logged, and the
// walk continues.
func (i *Importer) handleFile(tx *gorm.DB, fullPath, mediaRoot, root string, titles map[string]uint, releases map[uint][]ReleaseRef, stats *Stats) error {
	relPath, err := filepath.Rel(root, fullPath)
	if err != nil {
		return err
	}
	relPath = filepath.ToSlash(relPath)

	parts := strings.Split(relPath, "/")
	if len(parts) < 3 {
		stats.SkippedUnknownType++
		i.skips.Skip("path_too_short", relPath)
		return nil
	}

	mediaType, ok := mediaTypes[strings.ToLower(parts[1])]
	if !ok {
		stats.SkippedUnknownType++
		i.skips.Skip("unknown_media_type", relPath)
		return nil
	}

	filename := parts[len(parts)-1]
	titleName := strings.TrimSuffix(filename, filepath.Ext(filename))
	titleID := findTitleID(titleName, titles)
	if titleID == 0 {
		stats.SkippedUnknownTitle++
		i.skips.Skip("unknown_title", relPath)
		return nil
	}
	stats.TitlesMatched++

	releaseID, reason := MatchRelease(releases[titleID], titleName)
	if releaseID == 0 {
		if reason == ReasonAmbiguous {
			stats.SkippedAmbiguousRelease++
		} else {
			stats.SkippedUnmatchedRelease++
		}
		if reason == "" {
			reason = ReasonUnmatched
		}
		i.skips.Skip(reason, relPath)
		return nil
	}
	stats.ReleasesMatched++

	// Stored paths are relative to the caller-supplied root, not the
	// resolved thumbnails directory.
	dbPath, err := filepath.Rel(mediaRoot, fullPath)
	if err != nil {
		return err
	}
	dbPath = filepath.ToSlash(dbPath)

	var existing models.Media
	err = tx.Where("release_id = ? AND media_type = ? AND path = ?", releaseID, mediaType, dbPath).
		First(&existing).Error
	if err == nil {
		stats.SkippedExisting++
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if !i.dryRun {
		media := models.Media{ReleaseID: releaseID, MediaType: mediaType, Path: dbPath}
		if err := tx.Create(&media).Error; err != nil {
			return err
		}
	}
	stats.MediaCreated++
	return nil
}

// findTitleID tries every lookup candidate in generation order; the first
// hit wins.
func findTitleID(titleName string, titles map[string]uint) uint {
	for _, candidate := range TitleCandidates(titleName) {
		if id, ok := titles[candidate]; ok {
			return id
		}
	}
	return 0
}

// loadTitles maps each normalized title name of the system to its id. On
// normalization collisions the first id seen wins.
func (i *Importer) loadTitles(systemID uint) (map[string]uint, error) {
	var rows []models.Title
	if err := i.db.Where("system_id = ?", systemID).Find(&rows).Error; err != nil {
		return nil, err
	}
	titles := make(map[string]uint, len(rows))
	for _, t := range rows {
		key := NormalizeTitle(t.Name)
		if _, ok := titles[key]; !ok {
			titles[key] = t.ID
		}
	}
	return titles, nil
}

// loadReleases groups the release refs of every preloaded title by title id.
func (i *Importer) loadReleases(titles map[string]uint) (map[uint][]ReleaseRef, error) {
	if len(titles) == 0 {
		return map[uint][]ReleaseRef{}, nil
	}
	ids := make([]uint, 0, len(titles))
	for _, id := range titles {
		ids = append(ids, id)
	}

	var rows []models.Release
	if err := i.db.Where("title_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	releases := make(map[uint][]ReleaseRef)
	for _, r := range rows {
		releases[r.TitleID] = append(releases[r.TitleID], ReleaseRef{
			ID:          r.ID,
			Region:      r.Region,
			DisplayName: r.DisplayName,
		})
	}
	return releases, nil
}

// resolveRoot prefers a thumbnails subdirectory of the given path.
func resolveRoot(path string) string {
	thumbs := filepath.Join(path, "thumbnails")
	if info, err := os.Stat(thumbs); err == nil && info.IsDir() {
		return thumbs
	}
	return path
}
