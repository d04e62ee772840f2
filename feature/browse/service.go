package browse

import (
	"errors"

	"gamedb/core/server"
	"gamedb/feature/catalog/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound reports a missing system or title.
var ErrNotFound = errors.New("not found")

// SystemSummary is one row of the systems listing.
type SystemSummary struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	TitleCount int64  `json:"title_count"`
}

// TitlePage is one page of titles within a system.
type TitlePage struct {
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
	Titles []models.Title `json:"titles"`
}

// ReleaseDetail is a release with its roms and matched media.
type ReleaseDetail struct {
	models.Release
	Roms  []models.Rom   `json:"roms"`
	Media []models.Media `json:"media"`
}

// TitleDetail is a fully expanded title.
type TitleDetail struct {
	models.Title
	Releases []ReleaseDetail `json:"releases"`
}

// Service reads the catalog for the browse API.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
	cfg    server.Config
}

// NewService creates a new browse service.
func NewService(db *gorm.DB, logger *zap.Logger, cfg server.Config) *Service {
	return &Service{db: db, logger: logger, cfg: cfg}
}

// ListSystems returns every system with its title count, ordered by name.
func (s *Service) ListSystems() ([]SystemSummary, error) {
	var rows []SystemSummary
	err := s.db.Model(&models.System{}).
		Select("systems.id, systems.name, COUNT(titles.id) AS title_count").
		Joins("LEFT JOIN titles ON titles.system_id = systems.id").
		Group("systems.id, systems.name").
		Order("systems.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListTitles returns one page of a system's titles, optionally filtered by a
// case-insensitive name substring. The limit is clamped to the server config.
func (s *Service) ListTitles(systemID uint, query string, limit, offset int) (*TitlePage, error) {
	var system models.System
	if err := s.db.First(&system, systemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	limit = s.cfg.Limit(limit)
	if offset < 0 {
		offset = 0
	}

	// Chains are not reusable after a finisher, so build the filter per query.
	filtered := func() *gorm.DB {
		q := s.db.Model(&models.Title{}).Where("system_id = ?", systemID)
		if query != "" {
			q = q.Where("name LIKE ?", "%"+query+"%")
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, err
	}

	titles := make([]models.Title, 0, limit)
	if err := filtered().Order("name").Limit(limit).Offset(offset).Find(&titles).Error; err != nil {
		return nil, err
	}

	return &TitlePage{Total: total, Limit: limit, Offset: offset, Titles: titles}, nil
}

// GetTitle returns a title with all of its releases, roms and media.
func (s *Service) GetTitle(titleID uint) (*TitleDetail, error) {
	var title models.Title
	if err := s.db.First(&title, titleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var releases []models.Release
	if err := s.db.Where("title_id = ?", titleID).Order("id").Find(&releases).Error; err != nil {
		return nil, err
	}

	detail := &TitleDetail{Title: title, Releases: make([]ReleaseDetail, 0, len(releases))}
	if len(releases) == 0 {
		return detail, nil
	}

	ids := make([]uint, 0, len(releases))
	for _, r := range releases {
		ids = append(ids, r.ID)
	}

	var roms []models.Rom
	if err := s.db.Where("release_id IN ?", ids).Order("id").Find(&roms).Error; err != nil {
		return nil, err
	}
	var media []models.Media
	if err := s.db.Where("release_id IN ?", ids).Order("id").Find(&media).Error; err != nil {
		return nil, err
	}

	romsByRelease := make(map[uint][]models.Rom, len(releases))
	for _, r := range roms {
		romsByRelease[r.ReleaseID] = append(romsByRelease[r.ReleaseID], r)
	}
	mediaByRelease := make(map[uint][]models.Media, len(releases))
	for _, m := range media {
		mediaByRelease[m.ReleaseID] = append(mediaByRelease[m.ReleaseID], m)
	}

	for _, r := range releases {
		detail.Releases = append(detail.Releases, ReleaseDetail{
			Release: r,
			Roms:    romsByRelease[r.ID],
			Media:   mediaByRelease[r.ID],
		})
	}
	return detail, nil
}
