package catalog

import "fmt"

// Stats aggregates what one import run created and skipped. Counts are
// creations, not totals: importing an already-known entity leaves its
// counter untouched.
type Stats struct {
	Systems       int
	Titles        int
	Releases      int
	Roms          int
	Attributes    int
	SkippedRows   int
	SkippedFields int
}

// Merge folds another stats block into this one.
func (s *Stats) Merge(other Stats) {
	s.Systems += other.Systems
	s.Titles += other.Titles
	s.Releases += other.Releases
	s.Roms += other.Roms
	s.Attributes += other.Attributes
	s.SkippedRows += other.SkippedRows
	s.SkippedFields += other.SkippedFields
}

// String renders the one-line summary printed by the import-rdb command.
func (s Stats) String() string {
	return fmt.Sprintf(
		"systems=%d titles=%d releases=%d roms=%d attributes=%d skipped_rows=%d skipped_fields=%d",
		s.Systems, s.Titles, s.Releases, s.Roms, s.Attributes, s.SkippedRows, s.SkippedFields,
	)
}
