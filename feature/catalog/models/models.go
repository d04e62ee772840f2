package models

import "gorm.io/gorm"

// System is one catalog source, one per imported .rdb file. The name is the
// file stem.
type System struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

func (System) TableName() string { return "systems" }

// Title is a game within a system, unique per (system, name). The
// description is filled by the first non-empty value seen and never
// overwritten afterwards.
type Title struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	SystemID    uint    `gorm:"not null;uniqueIndex:uq_titles_system_name" json:"system_id"`
	Name        string  `gorm:"not null;uniqueIndex:uq_titles_system_name" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
}

func (Title) TableName() string { return "titles" }

// Release is a concrete issue of a title. Its natural key is the full
// six-tuple (title, region, year, month, serial, display name); two rows
// agreeing on all six fields are the same release. DisplayName is always
// NULL for RDB-imported rows and exists for the media matcher to query.
type Release struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	TitleID      uint    `gorm:"not null;index:idx_releases_title_region" json:"title_id"`
	Region       *string `gorm:"index:idx_releases_title_region" json:"region"`
	ReleaseYear  *int    `json:"release_year"`
	ReleaseMonth *int    `json:"release_month"`
	Serial       *string `json:"serial"`
	DisplayName  *string `json:"display_name"`
}

func (Release) TableName() string { return "releases" }

// Rom is a dump belonging to a release; the natural key is the full
// six-tuple of its fields.
type Rom struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ReleaseID uint    `gorm:"not null" json:"release_id"`
	RomName   *string `json:"rom_name"`
	Size      *int64  `gorm:"type:bigint" json:"size"`
	CRC       *string `gorm:"column:crc;index:idx_roms_crc" json:"crc"`
	MD5       *string `gorm:"column:md5;index:idx_roms_md5" json:"md5"`
	SHA1      *string `gorm:"column:sha1;index:idx_roms_sha1" json:"sha1"`
}

func (Rom) TableName() string { return "roms" }

// Attribute carries one unrecognized row field, tagged with its source
// label. Attributes are intentionally not deduplicated: re-importing a file
// inserts fresh rows.
type Attribute struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	EntityType string  `gorm:"not null;index:idx_attributes_entity" json:"entity_type"`
	EntityID   uint    `gorm:"not null;index:idx_attributes_entity" json:"entity_id"`
	Key        string  `gorm:"not null;index:idx_attributes_entity" json:"key"`
	Value      *string `gorm:"type:text" json:"value"`
	Source     *string `json:"source"`
}

func (Attribute) TableName() string { return "attributes" }

// Media is one matched image file for a release, deduplicated on
// (release, media type, path).
type Media struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ReleaseID uint   `gorm:"not null" json:"release_id"`
	MediaType string `gorm:"not null" json:"media_type"`
	Path      string `gorm:"not null" json:"path"`
}

func (Media) TableName() string { return "media" }

// Migrate creates or updates the catalog schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&System{},
		&Title{},
		&Release{},
		&Rom{},
		&Attribute{},
		&Media{},
	)
}
