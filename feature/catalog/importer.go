package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gamedb/core/skiplog"
	"gamedb/core/utils"
	"gamedb/feature/catalog/models"
	"gamedb/feature/rdb"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultSource is the attribute source label when none is configured.
const DefaultSource = "libretro_rdb"

// knownFields are the row fields that map onto dedicated entity columns.
// Everything else lands in the attributes table.
var knownFields = map[string]struct{}{
	"name":         {},
	"description":  {},
	"region":       {},
	"releaseyear":  {},
	"releasemonth": {},
	"serial":       {},
	"rom_name":     {},
	"size":         {},
	"crc":          {},
	"md5":          {},
	"sha1":         {},
}

// Importer folds decoded RDB rows into the normalized catalog. Get-or-create
// is a read followed by a conditional write; callers must serialize import
// runs, the importer itself takes no locks.
type Importer struct {
	db     *gorm.DB
	log    *zap.Logger
	source string
	skips  *skiplog.Writer
}

// NewImporter creates an importer writing through db. source tags every
// stored attribute row; skips may be nil-path (discarding) but not nil.
func NewImporter(db *gorm.DB, log *zap.Logger, source string, skips *skiplog.Writer) *Importer {
	if source == "" {
		source = DefaultSource
	}
	return &Importer{db: db, log: log, source: source, skips: skips}
}

// ImportPath imports a single .rdb file, or every *.rdb entry of a
// directory in sorted filename order. limit caps rows per file; zero means
// no limit. Statistics accumulate across files, commits do not: each file
// is its own transaction.
func (i *Importer) ImportPath(path string, limit int) (Stats, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Stats{}, err
	}
	if !info.IsDir() {
		return i.ImportFile(path, limit)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return Stats{}, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".rdb") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	var stats Stats
	for idx, name := range files {
		i.log.Info("importing file",
			zap.Int("index", idx+1),
			zap.Int("total", len(files)),
			zap.String("file", name),
		)
		fileStats, err := i.ImportFile(filepath.Join(path, name), limit)
		stats.Merge(fileStats)
		if err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// ImportFile decodes one .rdb file and upserts its rows in a single
// transaction. The system name is the file stem. Rows without a name field
// are counted and logged, never imported.
func (i *Importer) ImportFile(path string, limit int) (Stats, error) {
	var stats Stats

	i.log.Info("loading rdb file", zap.String("path", path))
	table, err := rdb.Load(path)
	if err != nil {
		return stats, fmt.Errorf("failed to load %s: %w", path, err)
	}

	systemName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	err = i.db.Transaction(func(tx *gorm.DB) error {
		system, err := i.getOrCreateSystem(tx, systemName, &stats)
		if err != nil {
			return err
		}

		for idx, row := range table.Rows {
			if limit > 0 && idx >= limit {
				break
			}

			nameMsg, ok := row.Get("name")
			titleName := nameMsg.Text()
			if !ok || titleName == "" {
				stats.SkippedRows++
				i.logSkippedRow(path, systemName, idx, row)
				continue
			}

			title, err := i.getOrCreateTitle(tx, system.ID, titleName, textValue(row, "description"), &stats)
			if err != nil {
				return err
			}
			release, err := i.getOrCreateRelease(tx, title.ID, row, &stats)
			if err != nil {
				return err
			}
			if err := i.getOrCreateRom(tx, release.ID, row, &stats); err != nil {
				return err
			}
			if err := i.storeAttributes(tx, release.ID, row, &stats); err != nil {
				return err
			}

			if (idx+1)%5000 == 0 {
				i.log.Info("import progress",
					zap.String("system", systemName),
					zap.Int("rows", idx+1),
				)
			}
		}
		return nil
	})
	return stats, err
}

func (i *Importer) getOrCreateSystem(tx *gorm.DB, name string, stats *Stats) (*models.System, error) {
	var system models.System
	err := tx.Where("name = ?", name).First(&system).Error
	if err == nil {
		return &system, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	system = models.System{Name: name}
	if err := tx.Create(&system).Error; err != nil {
		return nil, err
	}
	stats.Systems++
	return &system, nil
}

func (i *Importer) getOrCreateTitle(tx *gorm.DB, systemID uint, name string, description *string, stats *Stats) (*models.Title, error) {
	var title models.Title
	err := tx.Where("system_id = ? AND name = ?", systemID, name).First(&title).Error
	if err == nil {
		// Backfill the description once; never overwrite.
		if isEmpty(title.Description) && !isEmpty(description) {
			if err := tx.Model(&title).Update("description", description).Error; err != nil {
				return nil, err
			}
			title.Description = description
		}
		return &title, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	title = models.Title{SystemID: systemID, Name: name, Description: description}
	if err := tx.Create(&title).Error; err != nil {
		return nil, err
	}
	stats.Titles++
	return &title, nil
}

func (i *Importer) getOrCreateRelease(tx *gorm.DB, titleID uint, row rdb.Row, stats *Stats) (*models.Release, error) {
	release := models.Release{
		TitleID:      titleID,
		Region:       textValue(row, "region"),
		ReleaseYear:  intValue(row, "releaseyear"),
		ReleaseMonth: intValue(row, "releasemonth"),
		Serial:       textValue(row, "serial"),
		DisplayName:  nil, // RDB-sourced releases never carry one
	}

	var existing models.Release
	err := tx.Where(map[string]any{
		"title_id":      release.TitleID,
		"region":        release.Region,
		"release_year":  release.ReleaseYear,
		"release_month": release.ReleaseMonth,
		"serial":        release.Serial,
		"display_name":  nil,
	}).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := tx.Create(&release).Error; err != nil {
		return nil, err
	}
	stats.Releases++
	return &release, nil
}

func (i *Importer) getOrCreateRom(tx *gorm.DB, releaseID uint, row rdb.Row, stats *Stats) error {
	rom := models.Rom{
		ReleaseID: releaseID,
		RomName:   textValue(row, "rom_name"),
		Size:      int64Value(row, "size"),
		CRC:       textValue(row, "crc"),
		MD5:       textValue(row, "md5"),
		SHA1:      textValue(row, "sha1"),
	}

	var existing models.Rom
	err := tx.Where(map[string]any{
		"release_id": rom.ReleaseID,
		"rom_name":   rom.RomName,
		"size":       rom.Size,
		"crc":        rom.CRC,
		"md5":        rom.MD5,
		"sha1":       rom.SHA1,
	}).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := tx.Create(&rom).Error; err != nil {
		return err
	}
	stats.Roms++
	return nil
}

// storeAttributes inserts one attribute row per non-null unrecognized field.
// Attributes are never deduplicated: re-importing a row inserts them again.
func (i *Importer) storeAttributes(tx *gorm.DB, releaseID uint, row rdb.Row, stats *Stats) error {
	for _, f := range row {
		if f.Name == "" {
			stats.SkippedFields++
			continue
		}
		if _, known := knownFields[f.Name]; known {
			continue
		}
		if f.Value.IsNil() {
			continue
		}

		value := f.Value.Text()
		attr := models.Attribute{
			EntityType: "release",
			EntityID:   releaseID,
			Key:        f.Name,
			Value:      &value,
			Source:     &i.source,
		}
		if err := tx.Create(&attr).Error; err != nil {
			return err
		}
		stats.Attributes++
	}
	return nil
}

func (i *Importer) logSkippedRow(path, systemName string, idx int, row rdb.Row) {
	fields := make([]string, 0, len(row))
	for _, f := range row {
		fields = append(fields, fmt.Sprintf("%s=%q", f.Name, f.Value.Text()))
	}
	i.skips.Line(fmt.Sprintf("skipped_row file=%s system=%s row=%d %s",
		path, systemName, idx, strings.Join(fields, " ")))
}

// textValue returns the field rendered as a string, or nil when absent or
// wire-nil.
func textValue(row rdb.Row, key string) *string {
	v, ok := row.Get(key)
	if !ok || v.IsNil() {
		return nil
	}
	s := v.Text()
	return &s
}

// intValue best-effort parses the field as an integer; nil on failure.
func intValue(row rdb.Row, key string) *int {
	v, ok := row.Get(key)
	if !ok {
		return nil
	}
	return utils.ParseInt(v.Any())
}

func int64Value(row rdb.Row, key string) *int64 {
	v, ok := row.Get(key)
	if !ok {
		return nil
	}
	return utils.ParseInt64(v.Any())
}

func isEmpty(s *string) bool {
	return s == nil || *s == ""
}
