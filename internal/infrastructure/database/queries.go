package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"xcmerge/internal/domain/entities"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
}

// Queries holds the history statements.
type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx runs the same statements inside tx.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

type mergeRunRow struct {
	ID          uuid.UUID
	CatalogPath string
	Locale      string
	Source      string
	Policy      string
	DryRun      bool
	Changed     int32
	Skipped     int32
	Total       int32
	CreatedAt   pgtype.Timestamptz
}

const insertMergeRun = `
INSERT INTO merge_runs (id, catalog_path, locale, source, policy, dry_run, changed, skipped, total, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, NOW()))`

func (q *Queries) InsertMergeRun(ctx context.Context, r mergeRunRow) error {
	_, err := q.db.Exec(ctx, insertMergeRun,
		r.ID, r.CatalogPath, r.Locale, r.Source, r.Policy,
		r.DryRun, r.Changed, r.Skipped, r.Total, r.CreatedAt,
	)
	return err
}

var decisionColumns = []string{"run_id", "position", "phrase", "outcome", "reason", "previous_value", "value"}

// CopyMergeDecisions bulk-inserts rows, each in decisionColumns order.
func (q *Queries) CopyMergeDecisions(ctx context.Context, rows [][]any) (int64, error) {
	return q.db.CopyFrom(ctx, pgx.Identifier{"merge_decisions"}, decisionColumns, pgx.CopyFromRows(rows))
}

const listRecentMergeRuns = `
SELECT id, catalog_path, locale, source, policy, dry_run, changed, skipped, total, created_at
FROM merge_runs
ORDER BY created_at DESC
LIMIT $1`

func (q *Queries) ListRecentMergeRuns(ctx context.Context, limit int32) ([]mergeRunRow, error) {
	rows, err := q.db.Query(ctx, listRecentMergeRuns, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (mergeRunRow, error) {
		var r mergeRunRow
		err := row.Scan(
			&r.ID, &r.CatalogPath, &r.Locale, &r.Source, &r.Policy,
			&r.DryRun, &r.Changed, &r.Skipped, &r.Total, &r.CreatedAt,
		)
		return r, err
	})
}

const listMergeDecisions = `
SELECT phrase, outcome, reason, previous_value, value
FROM merge_decisions
WHERE run_id = $1
ORDER BY position`

func (q *Queries) ListMergeDecisions(ctx context.Context, runID string) ([]entities.RunDecision, error) {
	rows, err := q.db.Query(ctx, listMergeDecisions, runID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[entities.RunDecision])
}
