package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Recipe is a loosely typed dataset entry. Keys left out of the map are
// absent from the written JSON, which is how the leaner schema era is modeled.
type Recipe map[string]any

// NewRecipe returns an entry with the required fields populated.
func NewRecipe(name, image string) Recipe {
	return Recipe{
		"name":        name,
		"cookTime":    "PT30M",
		"prepTime":    "PT15M",
		"recipeYield": "4 servings",
		"image":       image,
	}
}

// With returns a copy of r with key set to value.
func (r Recipe) With(key string, value any) Recipe {
	out := make(Recipe, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	out[key] = value
	return out
}

// DatasetJSON encodes recipes as a JSON array.
func DatasetJSON(t testing.TB, recipes ...Recipe) []byte {
	t.Helper()

	if recipes == nil {
		recipes = []Recipe{}
	}
	data, err := json.Marshal(recipes)
	if err != nil {
		t.Fatalf("marshal dataset: %v", err)
	}
	return data
}

// WriteDataset writes recipes as a JSON array to path.
func WriteDataset(t testing.TB, path string, recipes ...Recipe) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, DatasetJSON(t, recipes...), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
