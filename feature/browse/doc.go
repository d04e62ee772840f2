// Package browse exposes the reconciled catalog over a read-only HTTP API.
//
// Three endpoints cover the catalog hierarchy: GET /systems lists systems
// with title counts, GET /systems/:id/titles pages through a system's
// titles with optional substring search, and GET /titles/:id expands one
// title into its releases, roms and matched media. The API never writes.
package browse
