package catalog_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"recipeview/internal/catalog"
	"recipeview/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)

	if store.Path() != cfg.CatalogPath() {
		t.Fatalf("Path = %q, want %q", store.Path(), cfg.CatalogPath())
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
}

func TestRecordAssetUpserts(t *testing.T) {
	store := testsupport.MustOpenCatalog(t, testsupport.NewConfig(t))
	ctx := context.Background()

	err := store.RecordAsset(ctx, catalog.Asset{
		Key:         "soup.gif",
		URL:         "http://x/soup.jpg",
		RecipeName:  "Soup",
		State:       catalog.AssetFetched,
		ContentType: "image/jpeg",
		Width:       200,
		Height:      150,
		SizeBytes:   1234,
		RunID:       "run-1",
	})
	if err != nil {
		t.Fatalf("RecordAsset: %v", err)
	}

	err = store.RecordAsset(ctx, catalog.Asset{
		Key:   "soup.gif",
		URL:   "http://x/soup.jpg",
		State: catalog.AssetReused,
		RunID: "run-2",
	})
	if err != nil {
		t.Fatalf("RecordAsset second: %v", err)
	}

	asset, err := store.GetAsset(ctx, "soup.gif")
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	if asset == nil {
		t.Fatal("expected asset row")
	}
	if asset.State != catalog.AssetReused || asset.RunID != "run-2" {
		t.Fatalf("unexpected state/run %q %q", asset.State, asset.RunID)
	}
	if asset.Width != 200 || asset.Height != 150 || asset.SizeBytes != 1234 || asset.ContentType != "image/jpeg" {
		t.Fatalf("reuse should keep earlier dimensions, got %+v", asset)
	}
	if asset.UpdatedAt.IsZero() {
		t.Fatal("expected updated timestamp")
	}
}

func TestRecordAssetRequiresKeyAndState(t *testing.T) {
	store := testsupport.MustOpenCatalog(t, testsupport.NewConfig(t))
	ctx := context.Background()
	if err := store.RecordAsset(ctx, catalog.Asset{State: catalog.AssetFetched}); err == nil {
		t.Fatal("expected error for missing key")
	}
	if err := store.RecordAsset(ctx, catalog.Asset{Key: "a.gif"}); err == nil {
		t.Fatal("expected error for missing state")
	}
}

func TestListAssetsAndStats(t *testing.T) {
	store := testsupport.MustOpenCatalog(t, testsupport.NewConfig(t))
	ctx := context.Background()

	rows := []catalog.Asset{
		{Key: "c.gif", URL: "u", State: catalog.AssetUnavailable, ErrorKind: "network", ErrorMessage: "404"},
		{Key: "a.gif", URL: "u", State: catalog.AssetFetched},
		{Key: "b.gif", URL: "u", State: catalog.AssetFetched},
	}
	for _, row := range rows {
		if err := store.RecordAsset(ctx, row); err != nil {
			t.Fatalf("RecordAsset %s: %v", row.Key, err)
		}
	}

	all, err := store.ListAssets(ctx)
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(all) != 3 || all[0].Key != "a.gif" || all[2].Key != "c.gif" {
		t.Fatalf("unexpected ordering: %+v", all)
	}

	unavailable, err := store.ListAssets(ctx, catalog.AssetUnavailable)
	if err != nil {
		t.Fatalf("ListAssets filtered: %v", err)
	}
	if len(unavailable) != 1 || unavailable[0].ErrorKind != "network" {
		t.Fatalf("unexpected filtered rows: %+v", unavailable)
	}

	stats, err := store.AssetStats(ctx)
	if err != nil {
		t.Fatalf("AssetStats: %v", err)
	}
	if stats[catalog.AssetFetched] != 2 || stats[catalog.AssetUnavailable] != 1 {
		t.Fatalf("unexpected stats %v", stats)
	}

	if err := store.RemoveAsset(ctx, "c.gif"); err != nil {
		t.Fatalf("RemoveAsset: %v", err)
	}
	if asset, _ := store.GetAsset(ctx, "c.gif"); asset != nil {
		t.Fatal("expected asset to be removed")
	}
}

func TestRunLifecycle(t *testing.T) {
	store := testsupport.MustOpenCatalog(t, testsupport.NewConfig(t))
	ctx := context.Background()

	started := time.Now().UTC().Add(-time.Minute)
	if err := store.StartRun(ctx, catalog.Run{ID: "run-a", Dataset: "recipes.json", Policy: "bounded", Limit: 50, StartedAt: started}); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if err := store.StartRun(ctx, catalog.Run{ID: "run-b", Policy: "full"}); err != nil {
		t.Fatalf("StartRun b: %v", err)
	}
	if err := store.FinishRun(ctx, "run-a", catalog.RunCompleted, `{"accepted":3}`, ""); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	if err := store.FinishRun(ctx, "missing", catalog.RunFailed, "", "boom"); err == nil {
		t.Fatal("expected error finishing unknown run")
	}

	run, err := store.GetRun(ctx, "run-a")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run == nil || run.Status != catalog.RunCompleted || run.StatsJSON != `{"accepted":3}` || run.Limit != 50 {
		t.Fatalf("unexpected run %+v", run)
	}
	if run.FinishedAt == nil || run.Duration() <= 0 {
		t.Fatalf("expected finished run with positive duration, got %+v", run)
	}

	recent, err := store.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "run-b" {
		t.Fatalf("unexpected recent runs %+v", recent)
	}
	if recent[0].Status != catalog.RunRunning || recent[0].Duration() != 0 {
		t.Fatalf("run-b should still be running: %+v", recent[0])
	}
}

func TestOpenPathRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	store, err := catalog.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	if err := store.ForceSchemaVersion(context.Background(), 99); err != nil {
		t.Fatalf("ForceSchemaVersion: %v", err)
	}
	store.Close()

	if _, err := catalog.OpenPath(path); !errors.Is(err, catalog.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
