package intake

import (
	"encoding/json"

	"recipeview/internal/imagecheck"
	"recipeview/internal/recipe"
)

// Phase names a stage of a load for progress reporting.
type Phase string

const (
	PhaseValidate Phase = "validate"
	PhaseFetch    Phase = "fetch"
)

// Stats counts what happened during a load.
type Stats struct {
	Scanned     int                        `json:"scanned"`
	Accepted    int                        `json:"accepted"`
	Rejected    map[imagecheck.Verdict]int `json:"rejected"`
	Skipped     int                        `json:"skipped"`
	Fetched     int                        `json:"fetched"`
	Reused      int                        `json:"reused"`
	Unavailable int                        `json:"unavailable"`
	Pending     int                        `json:"pending"`
}

// RejectedTotal sums rejections across reasons.
func (s Stats) RejectedTotal() int {
	total := 0
	for _, n := range s.Rejected {
		total += n
	}
	return total
}

func (s Stats) json() string {
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(data)
}

// Result is the outcome of a load.
type Result struct {
	RunID   string
	Records []recipe.Record
	Stats   Stats
	// Unavailable maps asset keys whose fetch failed to the failure kind.
	Unavailable map[string]string
	// Pending lists asset keys not fetched because the load was interrupted.
	Pending []string
	// Interrupted is set when cancellation or the checkpoint stopped the
	// fetch phase early.
	Interrupted bool
}
