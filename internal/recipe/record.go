package recipe

import (
	"path/filepath"
	"strings"

	"recipeview/internal/duration"
	"recipeview/internal/services"
	"recipeview/internal/textutil"
)

// Record is an accepted recipe with normalized times and a derived asset key.
// Records are immutable; accessors return copies.
type Record struct {
	name           string
	cookTime       string
	prepTime       string
	yield          string
	imageURL       string
	assetKey       string
	description    string
	ingredients    []string
	hasDescription bool
	hasIngredients bool
}

// Construct builds a Record from a raw recipe that already passed image
// validation. ext is the local asset extension (for example "gif").
// Duration failures are returned wrapped with the offending field name and
// still match *duration.ParseError through errors.As.
func Construct(raw RawRecipe, ext string) (Record, error) {
	cook, err := duration.Normalize(raw.CookTime)
	if err != nil {
		return Record{}, services.Wrap(services.ErrValidation, "construct", "cookTime", raw.Name, err)
	}
	prep, err := duration.Normalize(raw.PrepTime)
	if err != nil {
		return Record{}, services.Wrap(services.ErrValidation, "construct", "prepTime", raw.Name, err)
	}

	rec := Record{
		name:     strings.TrimSpace(raw.Name),
		cookTime: cook,
		prepTime: prep,
		yield:    strings.TrimSpace(string(raw.RecipeYield)),
		imageURL: strings.TrimSpace(raw.Image),
	}
	rec.assetKey = DeriveAssetKey(rec.imageURL, ext)
	if raw.Description != nil {
		rec.hasDescription = true
		rec.description = strings.TrimSpace(*raw.Description)
	}
	if raw.Ingredients != nil {
		rec.hasIngredients = true
		rec.ingredients = append([]string(nil), raw.Ingredients...)
	}
	return rec, nil
}

// DeriveAssetKey returns the local filename for an image URL: the segment after
// the last slash, without its three character format suffix and dot, with ext
// appended.
func DeriveAssetKey(url, ext string) string {
	base := url
	if idx := strings.LastIndex(url, "/"); idx >= 0 {
		base = url[idx+1:]
	}
	if len(base) >= 3 {
		base = base[:len(base)-3]
	}
	base = strings.TrimSuffix(base, ".")
	base = textutil.SanitizeFileName(base)
	if base == "" {
		base = "image"
	}
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		return base
	}
	return base + "." + ext
}

func (r Record) Name() string        { return r.name }
func (r Record) CookTime() string    { return r.cookTime }
func (r Record) PrepTime() string    { return r.prepTime }
func (r Record) Yield() string       { return r.yield }
func (r Record) ImageURL() string    { return r.imageURL }
func (r Record) AssetKey() string    { return r.assetKey }
func (r Record) Description() string { return r.description }

// Ingredients returns a copy of the ingredient lines; empty when absent.
func (r Record) Ingredients() []string {
	if len(r.ingredients) == 0 {
		return []string{}
	}
	return append([]string(nil), r.ingredients...)
}

// HasDescription reports whether the source entry carried a description field.
func (r Record) HasDescription() bool { return r.hasDescription }

// HasIngredients reports whether the source entry carried an ingredients field.
func (r Record) HasIngredients() bool { return r.hasIngredients }

// ImagePath returns where the record's asset lives under root.
func (r Record) ImagePath(root string) string {
	return filepath.Join(root, r.assetKey)
}
