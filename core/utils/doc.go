// Package utils provides common utility functions for GameDB.
// It currently covers best-effort numeric coercion of dynamic row values,
// where unparseable input maps to nil (stored as NULL) instead of an error.
package utils
