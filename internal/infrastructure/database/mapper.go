package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"xcmerge/internal/domain/entities"
)

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func timeToPgtypeTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func mergeRunToRow(r *entities.MergeRun) (mergeRunRow, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return mergeRunRow{}, fmt.Errorf("run id %q: %w", r.ID, err)
	}
	return mergeRunRow{
		ID:          id,
		CatalogPath: r.CatalogPath,
		Locale:      r.Locale,
		Source:      r.Source,
		Policy:      r.Policy,
		DryRun:      r.DryRun,
		Changed:     int32(r.Changed),
		Skipped:     int32(r.Skipped),
		Total:       int32(r.Total),
		CreatedAt:   timeToPgtypeTimestamptz(r.CreatedAt),
	}, nil
}

func mergeRunToDomain(r mergeRunRow) entities.MergeRun {
	return entities.MergeRun{
		ID:          r.ID.String(),
		CatalogPath: r.CatalogPath,
		Locale:      r.Locale,
		Source:      r.Source,
		Policy:      r.Policy,
		DryRun:      r.DryRun,
		Changed:     int(r.Changed),
		Skipped:     int(r.Skipped),
		Total:       int(r.Total),
		CreatedAt:   pgtypeTimestamptzToTime(r.CreatedAt),
	}
}

func decisionRows(runID uuid.UUID, ds []entities.RunDecision) [][]any {
	rows := make([][]any, 0, len(ds))
	for i, d := range ds {
		rows = append(rows, []any{runID, int32(i), d.Phrase, d.Outcome, d.Reason, d.Previous, d.Value})
	}
	return rows
}
