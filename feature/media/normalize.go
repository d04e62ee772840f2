package media

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Trimming heuristics. Pure string functions, no store access.
var (
	regionRe          = regexp.MustCompile(`\(([^)]+)\)\s*$`)
	trailingGroupRe   = regexp.MustCompile(`\s*(\[[^\]]*\]|\([^)]*\))\s*$`)
	trailingVersionRe = regexp.MustCompile(`(?i)\s+v?\d+(\.\d+)*$`)
	trailingRevRe     = regexp.MustCompile(`(?i)\s+rev\s*[0-9a-z]+$`)
)

// NormalizeTitle maps a file-derived title string to its lookup key:
// compatibility-composed (NFKC), whitespace collapsed, concatenated
// region/variant parens split apart, case folded. Idempotent.
func NormalizeTitle(name string) string {
	s := norm.NFKC.String(name)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, ")(", ") (")
	return cases.Fold().String(s)
}

// TitleCandidates generates the normalized lookup candidates for a title,
// in lookup order: the title itself, then progressively stripped of one
// trailing bracketed or parenthesized group per step (cycle guarded), then
// every candidate additionally stripped of trailing version and revision
// suffixes. Each bracket-stripped candidate is no longer than its
// predecessor, so the sequence is finite.
func TitleCandidates(name string) []string {
	seen := make(map[string]struct{})
	var out []string

	current := NormalizeTitle(name)
	for current != "" {
		if _, dup := seen[current]; dup {
			break
		}
		seen[current] = struct{}{}
		out = append(out, current)

		trimmed := strings.TrimSpace(trailingGroupRe.ReplaceAllString(current, ""))
		if trimmed == current {
			break
		}
		current = trimmed
	}

	// Version/revision stripping applies to the snapshot collected above;
	// results join the pool but are not stripped further.
	for _, c := range out {
		stripped := strings.TrimSpace(trailingVersionRe.ReplaceAllString(c, ""))
		stripped = strings.TrimSpace(trailingRevRe.ReplaceAllString(stripped, ""))
		if stripped == "" {
			continue
		}
		if _, dup := seen[stripped]; !dup {
			seen[stripped] = struct{}{}
			out = append(out, stripped)
		}
	}
	return out
}

// ReleaseRef is the slice of a release the matcher needs for
// disambiguation.
type ReleaseRef struct {
	ID          uint
	Region      *string
	DisplayName *string
}

// Skip reasons for release matching.
const (
	ReasonNoReleases = "no_releases"
	ReasonAmbiguous  = "ambiguous_release"
	ReasonUnmatched  = "unmatched_release"
)

// MatchRelease resolves a title's releases against the original (pre-strip)
// title string. It returns the matched release id, or zero and a reason:
//
//  1. no releases → ReasonNoReleases
//  2. exactly one release → matched unconditionally
//  3. a display name equal to the title string → matched
//  4. a trailing "(...)" group names a region: exactly one release with
//     that region matches, several fail ReasonAmbiguous
//  5. exactly one release without a region → matched
//  6. otherwise ReasonAmbiguous
func MatchRelease(releases []ReleaseRef, titleName string) (uint, string) {
	if len(releases) == 0 {
		return 0, ReasonNoReleases
	}
	if len(releases) == 1 {
		return releases[0].ID, ""
	}

	for _, r := range releases {
		if r.DisplayName != nil && *r.DisplayName != "" && *r.DisplayName == titleName {
			return r.ID, ""
		}
	}

	if m := regionRe.FindStringSubmatch(titleName); m != nil {
		region := m[1]
		var hits []ReleaseRef
		for _, r := range releases {
			if r.Region != nil && *r.Region == region {
				hits = append(hits, r)
			}
		}
		if len(hits) == 1 {
			return hits[0].ID, ""
		}
		if len(hits) > 1 {
			return 0, ReasonAmbiguous
		}
	}

	var nullRegion []ReleaseRef
	for _, r := range releases {
		if r.Region == nil {
			nullRegion = append(nullRegion, r)
		}
	}
	if len(nullRegion) == 1 {
		return nullRegion[0].ID, ""
	}

	return 0, ReasonAmbiguous
}
