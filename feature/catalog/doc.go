// Package catalog implements the reconciliation pipeline that folds decoded
// RDB rows into the normalized catalog (systems → titles → releases → roms,
// plus free-form attributes).
//
// # Processing model
//
// Each source file runs as Load → per-row upsert → commit: one transaction
// per file, rows strictly in post-decode order so later rows reuse entities
// created by earlier ones. Entities deduplicate on their natural keys;
// attribute rows deliberately do not: re-importing a file inserts them
// again. The package tests pin this asymmetry.
//
// # Preconditions
//
// Exclusive write access during a run. Get-or-create is read-then-insert
// with no guard beyond the unique constraints on systems.name and
// titles(system_id, name); concurrent importers can duplicate releases and
// roms.
//
// # Error model
//
// Wire faults (*rdb.FormatError) and store errors abort the current file's
// transaction; already-committed files stay committed. Rows without a name
// are skipped, counted, and written to the skip log; unparseable numeric
// values become NULL.
package catalog
