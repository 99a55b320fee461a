package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recipeview/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCreatableDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "a", "b", "images")
	result := CheckCreatableDirectory("assets", missing)
	if !result.Passed || !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("expected creatable pass, got %+v", result)
	}

	f := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(f, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if CheckCreatableDirectory("assets", f).Passed {
		t.Fatal("a file is not a usable directory")
	}
}

func TestCheckDataset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recipes.json")
	doc := `[{"name":"A","image":""},{"name":"B","image":"http://x/b.jpg"}]`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	result, sample := CheckDataset("Dataset", path)
	if !result.Passed || !strings.Contains(result.Detail, "2 entries") {
		t.Fatalf("unexpected result %+v", result)
	}
	if sample != "http://x/b.jpg" {
		t.Fatalf("sample = %q", sample)
	}

	if result, _ := CheckDataset("Dataset", filepath.Join(dir, "missing.json")); result.Passed {
		t.Fatal("expected failure for missing dataset")
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result, _ := CheckDataset("Dataset", bad); result.Passed {
		t.Fatal("expected failure for malformed dataset")
	}
}

func TestCheckDatasetCountsMalformedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.json")
	doc := `[{"name":"A","image":"http://x/a.jpg","recipeYield":true},{"name":"B","image":"http://x/b.jpg"}]`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	result, sample := CheckDataset("Dataset", path)
	if !result.Passed || !strings.Contains(result.Detail, "2 entries, 1 malformed") {
		t.Fatalf("unexpected result %+v", result)
	}
	if sample != "http://x/b.jpg" {
		t.Fatalf("sample = %q", sample)
	}
}

func TestCheckImageHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	result := CheckImageHost(context.Background(), srv.Client(), srv.URL+"/a.jpg")
	if !result.Passed || !strings.Contains(result.Detail, "HTTP 404") {
		t.Fatalf("any response should count as reachable, got %+v", result)
	}
	if CheckImageHost(context.Background(), srv.Client(), "not a url").Passed {
		t.Fatal("expected failure for invalid url")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.Dataset = filepath.Join(base, "recipes.json")
	cfg.Paths.AssetDir = filepath.Join(base, "images")
	cfg.Paths.StateDir = base
	doc := `[{"name":"A","image":"` + srv.URL + `/a.jpg"}]`
	if err := os.WriteFile(cfg.Paths.Dataset, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), &cfg, srv.Client())
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures %+v", failed)
	}
}
