package output

import (
	"context"

	"xcmerge/internal/domain/entities"
)

type RunHistoryRepository interface {
	Record(ctx context.Context, run *entities.MergeRun) error
	Recent(ctx context.Context, limit int) ([]entities.MergeRun, error)
	Decisions(ctx context.Context, runID string) ([]entities.RunDecision, error)
}
