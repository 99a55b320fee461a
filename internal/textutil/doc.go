// Package textutil provides text helpers shared by recipe intake and browsing:
// filename sanitization for asset keys, Unicode case folding for search, and
// title casing for table headings.
package textutil
