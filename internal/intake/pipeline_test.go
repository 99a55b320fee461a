package intake_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"recipeview/internal/assets"
	"recipeview/internal/catalog"
	"recipeview/internal/imagecheck"
	"recipeview/internal/intake"
	"recipeview/internal/recipe"
	"recipeview/internal/services"
	"recipeview/internal/testsupport"
)

type fakeValidator struct {
	calls []string
}

// Check rejects images whose URL contains "invalid".
func (v *fakeValidator) Check(_ context.Context, raw recipe.RawRecipe) imagecheck.Verdict {
	v.calls = append(v.calls, raw.Name)
	if strings.Contains(raw.Image, "invalid") {
		return imagecheck.VerdictStatus
	}
	return imagecheck.VerdictOK
}

// cancelingValidator cancels the load while checking the named recipe and
// reports a transport failure for it, as a real check does when its request
// is aborted.
type cancelingValidator struct {
	at     string
	cancel context.CancelFunc
}

func (v *cancelingValidator) Check(_ context.Context, raw recipe.RawRecipe) imagecheck.Verdict {
	if raw.Name == v.at {
		v.cancel()
		return imagecheck.VerdictTransport
	}
	return imagecheck.VerdictOK
}

type fakeFetcher struct {
	calls []string
	fail  map[string]error
	on    func(key string)
}

func (f *fakeFetcher) Materialize(_ context.Context, rec recipe.Record) (assets.Outcome, error) {
	f.calls = append(f.calls, rec.AssetKey())
	if f.on != nil {
		f.on(rec.AssetKey())
	}
	if err := f.fail[rec.AssetKey()]; err != nil {
		return assets.Outcome{}, err
	}
	return assets.Outcome{State: catalog.AssetFetched}, nil
}

func dataset(t *testing.T, recipes ...testsupport.Recipe) *bytes.Reader {
	t.Helper()
	return bytes.NewReader(testsupport.DatasetJSON(t, recipes...))
}

func names(records []recipe.Record) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.Name()
	}
	return out
}

func TestLoadPreservesSourceOrder(t *testing.T) {
	v, f := &fakeValidator{}, &fakeFetcher{}
	p := intake.New(intake.Deps{Validator: v, Fetcher: f})

	src := dataset(t,
		testsupport.NewRecipe("Zucchini Bread", "http://x/zucchini.jpg"),
		testsupport.NewRecipe("Apple Pie", "http://x/apple.jpg"),
		testsupport.NewRecipe("Mango Lassi", "http://x/mango.jpg"),
	)
	res, err := p.Load(context.Background(), src, intake.Options{Policy: "full"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := strings.Join(names(res.Records), ",")
	if got != "Zucchini Bread,Apple Pie,Mango Lassi" {
		t.Fatalf("order = %s", got)
	}
	if strings.Join(f.calls, ",") != "zucchini.gif,apple.gif,mango.gif" {
		t.Fatalf("fetch order = %v", f.calls)
	}
	if res.RunID == "" {
		t.Fatal("expected run id")
	}
}

func TestLoadBoundedStopsAtLimit(t *testing.T) {
	v, f := &fakeValidator{}, &fakeFetcher{}
	p := intake.New(intake.Deps{Validator: v, Fetcher: f})

	src := dataset(t,
		testsupport.NewRecipe("V1", "http://x/v1.jpg"),
		testsupport.NewRecipe("I1", "http://x/invalid1.jpg"),
		testsupport.NewRecipe("V2", "http://x/v2.jpg"),
		testsupport.NewRecipe("V3", "http://x/v3.jpg"),
		testsupport.NewRecipe("I2", "http://x/invalid2.jpg"),
		testsupport.NewRecipe("V4", "http://x/v4.jpg"),
		testsupport.NewRecipe("V5", "http://x/v5.jpg"),
	)
	res, err := p.Load(context.Background(), src, intake.Options{Policy: "bounded", Limit: 3})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := strings.Join(names(res.Records), ","); got != "V1,V2,V3" {
		t.Fatalf("records = %s, want V1,V2,V3", got)
	}
	if got := strings.Join(v.calls, ","); got != "V1,I1,V2,V3" {
		t.Fatalf("validated = %s, want scanning to stop at the limit", got)
	}
	if res.Stats.Scanned != 4 || res.Stats.Accepted != 3 || res.Stats.Rejected[imagecheck.VerdictStatus] != 1 {
		t.Fatalf("unexpected stats %+v", res.Stats)
	}
}

func TestLoadBoundedInsufficientData(t *testing.T) {
	v, f := &fakeValidator{}, &fakeFetcher{}
	p := intake.New(intake.Deps{Validator: v, Fetcher: f})

	src := dataset(t,
		testsupport.NewRecipe("V1", "http://x/v1.jpg"),
		testsupport.NewRecipe("I1", "http://x/invalid.jpg"),
		testsupport.NewRecipe("V2", "http://x/v2.jpg"),
	)
	res, err := p.Load(context.Background(), src, intake.Options{Limit: 5})
	if res != nil {
		t.Fatalf("expected no partial result, got %+v", res)
	}
	var insufficient *intake.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if insufficient.Wanted != 5 || insufficient.Got != 2 {
		t.Fatalf("unexpected error %+v", insufficient)
	}
	if services.Kind(err) != "insufficient_data" {
		t.Fatalf("Kind = %q", services.Kind(err))
	}
	if len(f.calls) != 0 {
		t.Fatalf("no fetches expected, got %v", f.calls)
	}
}

func TestLoadSkipsUnparseableDurations(t *testing.T) {
	v, f := &fakeValidator{}, &fakeFetcher{}
	p := intake.New(intake.Deps{Validator: v, Fetcher: f})

	src := dataset(t,
		testsupport.NewRecipe("Good", "http://x/good.jpg"),
		testsupport.NewRecipe("Bad", "http://x/bad.jpg").With("cookTime", "about an hour"),
		testsupport.NewRecipe("Also Good", "http://x/also.jpg"),
	)
	res, err := p.Load(context.Background(), src, intake.Options{Policy: "full"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := strings.Join(names(res.Records), ","); got != "Good,Also Good" {
		t.Fatalf("records = %s", got)
	}
	if res.Stats.Skipped != 1 {
		t.Fatalf("Skipped = %d, want 1", res.Stats.Skipped)
	}
}

func TestLoadMissingOptionalFields(t *testing.T) {
	p := intake.New(intake.Deps{Validator: &fakeValidator{}, Fetcher: &fakeFetcher{}})

	src := dataset(t,
		testsupport.NewRecipe("Lean", "http://x/lean.jpg"),
		testsupport.NewRecipe("Rich", "http://x/rich.jpg").
			With("description", "Layered").
			With("ingredients", []string{"flour", "sugar"}),
	)
	res, err := p.Load(context.Background(), src, intake.Options{Limit: 2})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	lean, rich := res.Records[0], res.Records[1]
	if lean.HasDescription() || lean.HasIngredients() || lean.Description() != "" || len(lean.Ingredients()) != 0 {
		t.Fatalf("lean record should default optional fields, got %+v", lean)
	}
	if !rich.HasIngredients() || len(rich.Ingredients()) != 2 || rich.Description() != "Layered" {
		t.Fatalf("rich record lost fields: %+v", rich)
	}
}

func TestLoadKeepsRecordsWhoseFetchFails(t *testing.T) {
	f := &fakeFetcher{fail: map[string]error{
		"two.gif": &assets.FetchError{Kind: assets.KindNetwork, Key: "two.gif", Err: errors.New("404")},
	}}
	p := intake.New(intake.Deps{Validator: &fakeValidator{}, Fetcher: f})

	src := dataset(t,
		testsupport.NewRecipe("One", "http://x/one.jpg"),
		testsupport.NewRecipe("Two", "http://x/two.jpg"),
	)
	res, err := p.Load(context.Background(), src, intake.Options{Policy: "full"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(res.Records))
	}
	if res.Unavailable["two.gif"] != "network" || res.Stats.Unavailable != 1 || res.Stats.Fetched != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestLoadReportsProgressAndCheckpoints(t *testing.T) {
	p := intake.New(intake.Deps{Validator: &fakeValidator{}, Fetcher: &fakeFetcher{}})

	var events []string
	checkpoints := 0
	src := dataset(t,
		testsupport.NewRecipe("A", "http://x/a.jpg"),
		testsupport.NewRecipe("B", "http://x/invalid.jpg"),
		testsupport.NewRecipe("C", "http://x/c.jpg"),
	)
	_, err := p.Load(context.Background(), src, intake.Options{
		Policy: "full",
		OnProgress: func(phase intake.Phase, completed, total int) {
			events = append(events, fmt.Sprintf("%s %d/%d", phase, completed, total))
		},
		Checkpoint: func(context.Context) error {
			checkpoints++
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := "validate 1/3|validate 2/3|validate 3/3|fetch 1/2|fetch 2/2"
	if got := strings.Join(events, "|"); got != want {
		t.Fatalf("events = %s, want %s", got, want)
	}
	if checkpoints != 5 {
		t.Fatalf("checkpoints = %d, want one per progress event", checkpoints)
	}
}

func TestLoadCancelDuringFetchLeavesPending(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := &fakeFetcher{}
	f.on = func(key string) {
		if key == "b.gif" {
			cancel()
		}
	}
	p := intake.New(intake.Deps{Validator: &fakeValidator{}, Fetcher: f})

	src := dataset(t,
		testsupport.NewRecipe("A", "http://x/a.jpg"),
		testsupport.NewRecipe("B", "http://x/b.jpg"),
		testsupport.NewRecipe("C", "http://x/c.jpg"),
		testsupport.NewRecipe("D", "http://x/d.jpg"),
	)
	res, err := p.Load(ctx, src, intake.Options{Policy: "full"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !res.Interrupted || len(res.Records) != 4 {
		t.Fatalf("expected all records and an interrupted flag, got %+v", res)
	}
	if got := strings.Join(res.Pending, ","); got != "c.gif,d.gif" {
		t.Fatalf("Pending = %s, want c.gif,d.gif", got)
	}
	if strings.Join(f.calls, ",") != "a.gif,b.gif" {
		t.Fatalf("fetch calls = %v", f.calls)
	}
}

func TestLoadCheckpointErrorStopsFetching(t *testing.T) {
	stop := errors.New("window closed")
	fetched := 0
	f := &fakeFetcher{on: func(string) { fetched++ }}
	p := intake.New(intake.Deps{Validator: &fakeValidator{}, Fetcher: f})

	src := dataset(t,
		testsupport.NewRecipe("A", "http://x/a.jpg"),
		testsupport.NewRecipe("B", "http://x/b.jpg"),
	)
	res, err := p.Load(context.Background(), src, intake.Options{
		Policy:     "full",
		OnProgress: func(phase intake.Phase, completed, total int) {},
		Checkpoint: func(context.Context) error {
			if fetched > 0 {
				return stop
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fetched != 1 || strings.Join(res.Pending, ",") != "b.gif" {
		t.Fatalf("fetched = %d pending = %v", fetched, res.Pending)
	}
}

func TestLoadCancelDuringValidationFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := intake.New(intake.Deps{Validator: &fakeValidator{}, Fetcher: &fakeFetcher{}})

	_, err := p.Load(ctx, dataset(t, testsupport.NewRecipe("A", "http://x/a.jpg")), intake.Options{Policy: "full"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoadCancelWhileCheckingLastEntryFails(t *testing.T) {
	for _, opts := range []intake.Options{{Policy: "full"}, {Policy: "bounded", Limit: 2}} {
		t.Run(opts.Policy, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			f := &fakeFetcher{}
			p := intake.New(intake.Deps{Validator: &cancelingValidator{at: "B", cancel: cancel}, Fetcher: f})

			src := dataset(t,
				testsupport.NewRecipe("A", "http://x/a.jpg"),
				testsupport.NewRecipe("B", "http://x/b.jpg"),
			)
			res, err := p.Load(ctx, src, opts)
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("expected context.Canceled, got %v (result %+v)", err, res)
			}
			var insufficient *intake.InsufficientDataError
			if errors.As(err, &insufficient) {
				t.Fatalf("cancel reported as insufficient data: %v", err)
			}
			if len(f.calls) != 0 {
				t.Fatalf("no fetches expected, got %v", f.calls)
			}
		})
	}
}

func TestLoadSkipsMalformedEntries(t *testing.T) {
	v, f := &fakeValidator{}, &fakeFetcher{}
	p := intake.New(intake.Deps{Validator: v, Fetcher: f})

	src := dataset(t,
		testsupport.NewRecipe("Good", "http://x/good.jpg"),
		testsupport.NewRecipe("Object Yield", "http://x/o.jpg").With("recipeYield", map[string]int{"n": 4}),
		testsupport.NewRecipe("Bool Yield", "http://x/b.jpg").With("recipeYield", true),
		testsupport.NewRecipe("Numeric Time", "http://x/n.jpg").With("cookTime", 45),
		testsupport.NewRecipe("Also Good", "http://x/also.jpg"),
	)
	res, err := p.Load(context.Background(), src, intake.Options{Policy: "full"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := strings.Join(names(res.Records), ","); got != "Good,Also Good" {
		t.Fatalf("records = %s", got)
	}
	if res.Stats.Scanned != 5 || res.Stats.Skipped != 3 {
		t.Fatalf("stats = %+v", res.Stats)
	}
	if got := strings.Join(v.calls, ","); got != "Good,Also Good" {
		t.Fatalf("malformed entries should not be checked, validator saw %s", got)
	}
}

func TestLoadRejectsBadOptions(t *testing.T) {
	p := intake.New(intake.Deps{Validator: &fakeValidator{}, Fetcher: &fakeFetcher{}})
	for _, opts := range []intake.Options{{Policy: "bounded"}, {Policy: "sometimes", Limit: 1}} {
		_, err := p.Load(context.Background(), strings.NewReader("[]"), opts)
		if !errors.Is(err, services.ErrConfiguration) {
			t.Fatalf("opts %+v: expected configuration error, got %v", opts, err)
		}
	}
	if _, err := intake.New(intake.Deps{}).Load(context.Background(), strings.NewReader("[]"), intake.Options{}); err == nil {
		t.Fatal("expected error without collaborators")
	}
}

func TestLoadMalformedDocument(t *testing.T) {
	p := intake.New(intake.Deps{Validator: &fakeValidator{}, Fetcher: &fakeFetcher{}})
	_, err := p.Load(context.Background(), strings.NewReader("{not json"), intake.Options{Policy: "full"})
	var docErr *recipe.DocumentError
	if !errors.As(err, &docErr) || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected wrapped DocumentError, got %v", err)
	}
}

func TestLoadRecordsRunInLedger(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ledger := testsupport.MustOpenCatalog(t, cfg)
	p := intake.New(intake.Deps{Validator: &fakeValidator{}, Fetcher: &fakeFetcher{}, Ledger: ledger})

	res, err := p.Load(context.Background(), dataset(t,
		testsupport.NewRecipe("A", "http://x/a.jpg"),
		testsupport.NewRecipe("B", "http://x/invalid.jpg"),
	), intake.Options{Policy: "full", Dataset: "recipes.json"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	run, err := ledger.GetRun(context.Background(), res.RunID)
	if err != nil || run == nil {
		t.Fatalf("GetRun: %v %v", run, err)
	}
	if run.Status != catalog.RunCompleted || run.Dataset != "recipes.json" || run.Policy != "full" {
		t.Fatalf("unexpected run %+v", run)
	}
	var stats intake.Stats
	if err := json.Unmarshal([]byte(run.StatsJSON), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Accepted != 1 || stats.Rejected[imagecheck.VerdictStatus] != 1 {
		t.Fatalf("unexpected stored stats %+v", stats)
	}
}
