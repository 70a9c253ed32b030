package input

import (
	"context"

	"xcmerge/internal/domain"
	"xcmerge/internal/domain/entities"
)

// MergeCommand describes one invocation: every request is merged, in order,
// into the catalog at CatalogPath, which is persisted once.
type MergeCommand struct {
	CatalogPath string
	Requests    []entities.UpdateRequest
	Locale      string
	Policy      domain.Policy
	DryRun      bool
}

// RunReport is what a merge invocation produced.
type RunReport struct {
	Runs    []RunOutcome
	Written bool
	// Patch is set on dry runs.
	Patch []byte
	Total int
}

// RunOutcome pairs a request with its merge result.
type RunOutcome struct {
	Run    *entities.MergeRun
	Result domain.Result
}

type MergeUseCase interface {
	Apply(ctx context.Context, cmd MergeCommand) (*RunReport, error)
}

// Coverage summarizes how much of a catalog is translated for one locale.
type Coverage struct {
	Locale     string
	Total      int
	Translated int
	Missing    []string
}

type StatsUseCase interface {
	Coverage(ctx context.Context, path, locale string) (*Coverage, error)
}

type HistoryUseCase interface {
	Recent(ctx context.Context, limit int) ([]entities.MergeRun, error)
	Run(ctx context.Context, runID string) ([]entities.RunDecision, error)
}
