package media

import "fmt"

// Stats aggregates one media import run.
type Stats struct {
	FilesScanned            int
	TitlesMatched           int
	ReleasesMatched         int
	MediaCreated            int
	SkippedExisting         int
	SkippedUnknownSystem    int
	SkippedUnknownTitle     int
	SkippedUnknownType      int
	SkippedAmbiguousRelease int
	SkippedUnmatchedRelease int
}

func (s Stats) totalSkipped() int {
	return s.SkippedExisting +
		s.SkippedUnknownSystem +
		s.SkippedUnknownTitle +
		s.SkippedUnknownType +
		s.SkippedAmbiguousRelease +
		s.SkippedUnmatchedRelease
}

// String renders the one-line summary printed by the import-media command.
func (s Stats) String() string {
	return fmt.Sprintf(
		"files=%d titles=%d releases=%d created=%d skipped_existing=%d "+
			"skipped_unknown_system=%d skipped_unknown_title=%d skipped_unknown_type=%d "+
			"skipped_ambiguous_release=%d skipped_unmatched_release=%d",
		s.FilesScanned, s.TitlesMatched, s.ReleasesMatched, s.MediaCreated,
		s.SkippedExisting, s.SkippedUnknownSystem, s.SkippedUnknownTitle,
		s.SkippedUnknownType, s.SkippedAmbiguousRelease, s.SkippedUnmatchedRelease,
	)
}
