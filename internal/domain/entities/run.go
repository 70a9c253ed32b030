package entities

import "time"

// MergeRun is the record kept for one merge pass.
type MergeRun struct {
	ID          string
	CatalogPath string
	Locale      string
	Source      string // batch name or request file
	Policy      string
	DryRun      bool
	Changed     int
	Skipped     int
	Total       int
	Decisions   []RunDecision
	CreatedAt   time.Time
}

// RunDecision is one phrase's outcome within a MergeRun.
type RunDecision struct {
	Phrase   string
	Outcome  string
	Reason   string // set when skipped
	Previous string
	Value    string
}
