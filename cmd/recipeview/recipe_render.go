package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"

	"recipeview/internal/browse"
	"recipeview/internal/intake"
	"recipeview/internal/recipe"
	"recipeview/internal/textutil"
)

const noImagePlaceholder = "(no image)"

var recipeHeaders = []string{"#", "Name", "Prep", "Cook", "Yield", "Image"}

var recipeAligns = []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft, alignLeft}

func recipeRows(session *intake.Session, entries []browse.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rec := entry.Record
		rows = append(rows, []string{
			strconv.Itoa(entry.Index + 1),
			rec.Name(),
			rec.PrepTime(),
			rec.CookTime(),
			rec.Yield(),
			string(session.ImageState(rec)),
		})
	}
	return rows
}

// renderGrid lays entries out display.columns wide. Each cell shows the list
// number and name, marked with * when the image is not on disk.
func renderGrid(session *intake.Session, entries []browse.Entry, columns int) string {
	rows := browse.Grid(entries, columns)
	width := columns
	if len(rows) == 1 && len(rows[0]) < width {
		width = len(rows[0])
	}
	headers := make([]string, width)
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := make([]string, 0, len(row))
		for _, entry := range row {
			marker := textutil.Ternary(session.ImageState(entry.Record) == intake.ImageReady, "", " *")
			line = append(line, fmt.Sprintf("%d. %s%s", entry.Index+1, entry.Record.Name(), marker))
		}
		cells = append(cells, line)
	}
	return renderTable("", headers, cells, nil)
}

func allEntries(records []recipe.Record) []browse.Entry {
	entries := make([]browse.Entry, len(records))
	for i, rec := range records {
		entries[i] = browse.Entry{Index: i, Record: rec}
	}
	return entries
}

func pageFooter(page browse.Page, query string) string {
	if page.TotalItems == 0 {
		if query != "" {
			return fmt.Sprintf("No recipes match %q", query)
		}
		return "No recipes"
	}
	footer := fmt.Sprintf("Page %d of %d (%d recipes)", page.Number, page.TotalPages, page.TotalItems)
	var hints []string
	if page.HasPrev() {
		hints = append(hints, fmt.Sprintf("--page %d for previous", page.Number-1))
	}
	if page.HasNext() {
		hints = append(hints, fmt.Sprintf("--page %d for next", page.Number+1))
	}
	if len(hints) > 0 {
		footer += "; " + strings.Join(hints, ", ")
	}
	return footer
}

// recipeDetails renders every field of rec. imagePath is empty when the image
// could not be shown.
func recipeDetails(rec recipe.Record, index int, imagePath string) string {
	image := imagePath
	if image == "" {
		image = noImagePlaceholder
	}
	description := textutil.Ternary(rec.HasDescription(), text.WrapSoft(rec.Description(), maxCellWidth), "(none)")
	ingredients := "(none)"
	if rec.HasIngredients() {
		lines := make([]string, 0, len(rec.Ingredients()))
		for _, item := range rec.Ingredients() {
			lines = append(lines, "- "+item)
		}
		ingredients = strings.Join(lines, "\n")
	}
	pairs := [][2]string{
		{"Recipe", strconv.Itoa(index + 1)},
		{"Prep time", rec.PrepTime()},
		{"Cook time", rec.CookTime()},
		{"Yield", rec.Yield()},
		{"Description", description},
		{"Ingredients", ingredients},
		{"Image", image},
		{"Source", rec.ImageURL()},
	}
	return renderDetails(rec.Name(), pairs)
}
