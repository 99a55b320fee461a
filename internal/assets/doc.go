// Package assets materializes recipe images in the local asset directory.
//
// Each record maps to one file named by its asset key. Fetch is idempotent:
// an existing file short-circuits the network entirely. New files are
// downloaded once, sniffed, optionally rescaled and re-encoded, and written
// atomically while holding a per-key file lock so concurrent processes never
// interleave writes to the same asset. Outcomes are mirrored into the catalog
// ledger when one is attached.
package assets
