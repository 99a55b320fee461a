// Package browse pages and searches the loaded recipe list. All state lives in
// an explicit ViewState value so rendering stays a pure function of it.
package browse

import (
	"recipeview/internal/recipe"
	"recipeview/internal/textutil"
)

// DefaultPageSize matches the 4x4 grid of the desktop viewer.
const DefaultPageSize = 16

// ViewState is the browsing position: a 1-based page, its size and the
// active search query.
type ViewState struct {
	Page     int
	PageSize int
	Query    string
}

// Normalized returns s with defaults applied and the page clamped to at least 1.
func (s ViewState) Normalized() ViewState {
	if s.PageSize <= 0 {
		s.PageSize = DefaultPageSize
	}
	if s.Page < 1 {
		s.Page = 1
	}
	return s
}

// Entry is a record together with its position in the full list.
type Entry struct {
	Index  int
	Record recipe.Record
}

// Page is one rendered page of entries.
type Page struct {
	Entries    []Entry
	Number     int
	TotalPages int
	TotalItems int
}

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// Search returns the records whose name contains every query term, ignoring
// case. Order is preserved and an empty query matches everything.
func Search(records []recipe.Record, query string) []Entry {
	out := make([]Entry, 0, len(records))
	for i, rec := range records {
		if textutil.MatchesAll(rec.Name(), query) {
			out = append(out, Entry{Index: i, Record: rec})
		}
	}
	return out
}

// View applies the search and pagination in state to records. A page past the
// end is clamped to the last page.
func View(records []recipe.Record, state ViewState) Page {
	state = state.Normalized()
	matches := Search(records, state.Query)

	total := len(matches)
	pages := (total + state.PageSize - 1) / state.PageSize
	if pages == 0 {
		return Page{Number: 1, TotalPages: 0, TotalItems: 0}
	}
	number := state.Page
	if number > pages {
		number = pages
	}
	start := (number - 1) * state.PageSize
	end := start + state.PageSize
	if end > total {
		end = total
	}
	return Page{
		Entries:    matches[start:end],
		Number:     number,
		TotalPages: pages,
		TotalItems: total,
	}
}

// Grid splits entries into rows of columns cells for grid rendering.
func Grid(entries []Entry, columns int) [][]Entry {
	if columns <= 0 {
		columns = 4
	}
	rows := make([][]Entry, 0, (len(entries)+columns-1)/columns)
	for start := 0; start < len(entries); start += columns {
		end := start + columns
		if end > len(entries) {
			end = len(entries)
		}
		rows = append(rows, entries[start:end])
	}
	return rows
}
