package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xcmerge/internal/domain/entities"
)

// testRepository connects to XCMERGE_TEST_DATABASE_URL, migrates it and
// empties the history tables.
func testRepository(t *testing.T) *HistoryRepository {
	t.Helper()
	dsn := os.Getenv("XCMERGE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("XCMERGE_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	_, err := RunMigrations(dsn, nil)
	require.NoError(t, err)
	pool, err := NewPool(ctx, dsn, nil)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "TRUNCATE merge_runs CASCADE")
	require.NoError(t, err)
	return NewHistoryRepository(pool)
}

func TestHistoryRepository_RecordAndRecent(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	first := &entities.MergeRun{
		ID: uuid.NewString(), CatalogPath: "Localizable.xcstrings", Locale: "sv", Source: "core",
		Policy: "keep", Changed: 1, Skipped: 1, Total: 2, CreatedAt: base,
		Decisions: []entities.RunDecision{
			{Phrase: "Save", Outcome: "added_entry", Value: "Spara"},
			{Phrase: "Done", Outcome: "skipped", Reason: "identical", Previous: "Klar", Value: "Klar"},
		},
	}
	second := &entities.MergeRun{
		ID: uuid.NewString(), CatalogPath: "Localizable.xcstrings", Locale: "sv", Source: "explore",
		Policy: "overwrite", DryRun: true, Total: 2, CreatedAt: base.Add(time.Minute),
	}
	require.NoError(t, repo.Record(ctx, first))
	require.NoError(t, repo.Record(ctx, second))

	runs, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.True(t, runs[0].DryRun)
	assert.Equal(t, "core", runs[1].Source)
	assert.Equal(t, 1, runs[1].Changed)
	assert.True(t, base.Equal(runs[1].CreatedAt))

	ds, err := repo.Decisions(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Decisions, ds)

	runs, err = repo.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestHistoryRepository_RecordRollsBack(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	run := &entities.MergeRun{ID: uuid.NewString(), Locale: "sv", Source: "core", Policy: "keep"}
	require.NoError(t, repo.Record(ctx, run))
	// Same ID again: the insert fails and nothing of the second run is kept.
	run.Decisions = []entities.RunDecision{{Phrase: "Save", Outcome: "updated", Value: "Spara"}}
	assert.Error(t, repo.Record(ctx, run))

	ds, err := repo.Decisions(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, ds)
}

func TestMergeRunToRow(t *testing.T) {
	_, err := mergeRunToRow(&entities.MergeRun{ID: "run-1"})
	assert.Error(t, err)

	id := uuid.New()
	row, err := mergeRunToRow(&entities.MergeRun{ID: id.String(), Changed: 3})
	require.NoError(t, err)
	assert.Equal(t, id, row.ID)
	assert.False(t, row.CreatedAt.Valid)

	run := mergeRunToDomain(row)
	assert.Equal(t, id.String(), run.ID)
	assert.Equal(t, 3, run.Changed)
	assert.True(t, run.CreatedAt.IsZero())

	rows := decisionRows(id, []entities.RunDecision{{Phrase: "a"}, {Phrase: "b"}})
	require.Len(t, rows, 2)
	assert.Equal(t, int32(1), rows[1][1])
}
