// Package catalog persists the intake ledger in SQLite: one row per image
// asset with its last fetch outcome, and one row per intake run with its
// counters.
//
// The ledger is advisory. The asset directory stays the source of truth for
// whether an image exists; the catalog answers "what happened last time" for
// the assets and status commands. Schema changes bump schemaVersion in
// schema.go; users delete the database to adopt the new schema.
package catalog
