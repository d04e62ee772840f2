// Package media matches loose image files against the reconciled catalog.
//
// The matcher walks `<root>[/thumbnails]/<system>/<type-folder>/**` for
// supported image extensions, normalizes each file stem into a title lookup
// key, and resolves it to a (title, release) pair already present in the
// store. Matched files become media rows keyed on (release, type, path).
//
// # Matching pipeline
//
//  1. The system directory name must equal an existing system exactly.
//  2. The type folder maps through a fixed table (named_boxarts → boxart,
//     named_snaps → snapshot, named_titles → title, named_logos → logo).
//  3. Title lookup tries normalized candidates, progressively stripping
//     trailing bracketed groups and version/revision suffixes.
//  4. Release disambiguation uses display name, a trailing region code,
//     then a sole NULL-region release, in that order.
//
// # Run semantics
//
// A non-dry run starts by truncating the media table. No transaction
// spans the whole run; commits happen per system directory. Dry runs match and count identically without
// writing. Every rejected file is counted and recorded in the skip log.
package media
