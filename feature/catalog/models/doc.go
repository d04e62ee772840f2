// Package models defines the normalized catalog schema:
// systems → titles → releases → roms, with free-form attributes and matched
// media hanging off releases.
//
// All traversal is query-driven through foreign-key ids; entities carry no
// back references. Natural keys (documented per entity) define dedup
// behavior for the reconciliation pipeline.
package models
