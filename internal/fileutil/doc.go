// Package fileutil holds small filesystem helpers for atomic asset writes.
package fileutil
