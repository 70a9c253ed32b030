package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"xcmerge/internal/domain/entities"
	"xcmerge/internal/ports/output"
)

var _ output.RunHistoryRepository = (*HistoryRepository)(nil)

type HistoryRepository struct {
	pool *pgxpool.Pool
	q    *Queries
}

func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool, q: NewQueries(pool)}
}

// Record stores run and its decisions in one transaction.
func (r *HistoryRepository) Record(ctx context.Context, run *entities.MergeRun) error {
	row, err := mergeRunToRow(run)
	if err != nil {
		return fmt.Errorf("record merge run: %w", err)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		q := r.q.WithTx(tx)
		if err := q.InsertMergeRun(ctx, row); err != nil {
			return fmt.Errorf("insert merge run: %w", err)
		}
		if len(run.Decisions) == 0 {
			return nil
		}
		if _, err := q.CopyMergeDecisions(ctx, decisionRows(row.ID, run.Decisions)); err != nil {
			return fmt.Errorf("copy merge decisions: %w", err)
		}
		return nil
	})
}

// Recent returns the latest runs, newest first, without their decisions.
func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]entities.MergeRun, error) {
	rows, err := r.q.ListRecentMergeRuns(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("list merge runs: %w", err)
	}
	runs := make([]entities.MergeRun, 0, len(rows))
	for _, row := range rows {
		runs = append(runs, mergeRunToDomain(row))
	}
	return runs, nil
}

// Decisions returns the recorded decisions of one run in merge order.
func (r *HistoryRepository) Decisions(ctx context.Context, runID string) ([]entities.RunDecision, error) {
	rows, err := r.q.ListMergeDecisions(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("list merge decisions: %w", err)
	}
	return rows, nil
}
