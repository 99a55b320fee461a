// Package preflight provides readiness checks for the dataset, the local
// directories and the image host that recipeview depends on.
//
// The CLI "recipeview status" command runs RunAll to display health, and the
// load command runs the filesystem checks before touching the network so a
// missing dataset fails fast.
package preflight
