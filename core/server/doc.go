// Package server holds the HTTP server configuration.
//
// The serve command owns startup and shutdown; this package only defines
// the configuration structure (port, paging bounds) embedded by
// core/config and consumed by the browse feature.
package server
