package catalog

import "time"

// AssetState is the last known outcome for an image asset.
type AssetState string

const (
	// AssetFetched means the image was downloaded and written this time.
	AssetFetched AssetState = "fetched"
	// AssetReused means the file already existed and no request was made.
	AssetReused AssetState = "reused"
	// AssetUnavailable means the last fetch failed; the recipe shows a placeholder.
	AssetUnavailable AssetState = "unavailable"
)

// Asset is one ledger row.
type Asset struct {
	Key          string
	URL          string
	RecipeName   string
	State        AssetState
	ErrorKind    string
	ErrorMessage string
	ContentType  string
	Width        int
	Height       int
	SizeBytes    int64
	RunID        string
	UpdatedAt    time.Time
}

// RunStatus tracks the lifecycle of an intake run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunCanceled  RunStatus = "canceled"
	RunFailed    RunStatus = "failed"
)

// Run is one intake run row. StatsJSON holds the serialized run counters.
type Run struct {
	ID           string
	Dataset      string
	Policy       string
	Limit        int
	Status       RunStatus
	ErrorMessage string
	StatsJSON    string
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// Duration returns how long the run took, or zero while it is running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
