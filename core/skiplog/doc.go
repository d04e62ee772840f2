// Package skiplog implements the append-only skip log side channel.
//
// Importers record every item they decline to process as one line in a
// caller-supplied file, "<reason> path=<relative-path>" for media files and
// full row content for RDB rows. The channel is fire-and-forget: write
// failures are silently dropped.
package skiplog
