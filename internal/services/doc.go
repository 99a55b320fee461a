// Package services defines shared utilities consumed by the intake stages and
// the network-facing image components.
//
// Key responsibilities:
//   - Context helpers that stamp record positions, stage names, and run
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper and the ErrorClassifier
//     contract that separate per-record failures from fatal ones.
//
// Use these helpers when wiring new pipeline logic so error handling and
// observability stay uniform.
package services
