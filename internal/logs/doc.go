// Package logs reads back the recipeview log file for the logs command.
//
// Last returns the trailing lines of the file with bounded memory, optionally
// filtered to one intake run. Follow polls from an offset and emits new lines
// until the context ends, starting over when the file is truncated or
// replaced by retention cleanup.
package logs
