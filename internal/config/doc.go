// Package config loads, normalizes, and validates recipeview configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// RECIPEVIEW_DATASET. The Config type centralizes every knob the intake
// pipeline and the CLI need, so dataset, asset and state locations are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical policy names, and clear validation errors.
package config
