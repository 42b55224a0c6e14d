package domain

import "time"

type OutcomeStatus string

const (
	OutcomeCreated OutcomeStatus = "created"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Outcome is what observers receive for every submitted node
type Outcome struct {
	RunID  string        `json:"run_id"`
	Status OutcomeStatus `json:"status"`
	Path   Path          `json:"path"`
	Title  string        `json:"title"`
	Parent *TaxonomyID   `json:"parent,omitempty"`
	// ID is set for created nodes only
	ID         *TaxonomyID `json:"id,omitempty"`
	StatusCode int         `json:"status_code"`
	Detail     string      `json:"detail,omitempty"`
	// Skipped counts descendants that were never submitted
	Skipped    int       `json:"skipped,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Summary totals one run
type Summary struct {
	RunID   string `json:"run_id"`
	Total   int    `json:"total"`
	Created int    `json:"created"`
	Failed  int    `json:"failed"`
	Skipped int    `json:"skipped"`
}
