// Package main hosts the recipeview CLI entrypoint and command graph.
//
// The Cobra-based command tree loads a recipe document through the intake
// pipeline and renders the accepted recipes as terminal tables: a paginated
// listing with search, a details view, the asset ledger, and a preflight
// status report. Configuration resolution, logger setup, and ledger access are
// centralized in commandContext so subcommands only deal with presentation.
//
// Keep this package lean: behavior belongs in the internal packages, and
// commands here only wire and render it.
package main
