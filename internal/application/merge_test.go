package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xcmerge/internal/domain"
	"xcmerge/internal/domain/entities"
	"xcmerge/internal/ports/input"
	"xcmerge/internal/ports/output"
)

type memCatalogs struct {
	catalog  *entities.Catalog
	loadErr  error
	saveErr  error
	saves    int
	previews int
}

func (m *memCatalogs) Load(ctx context.Context, path string) (*entities.Catalog, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.catalog, nil
}

func (m *memCatalogs) Save(ctx context.Context, path string, c *entities.Catalog) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	return nil
}

func (m *memCatalogs) Preview(ctx context.Context, path string, c *entities.Catalog) ([]byte, error) {
	m.previews++
	return []byte(`{"strings": {}}`), nil
}

type memHistory struct {
	runs []entities.MergeRun
	err  error
}

func (m *memHistory) Record(ctx context.Context, run *entities.MergeRun) error {
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, *run)
	return nil
}

func (m *memHistory) Recent(ctx context.Context, limit int) ([]entities.MergeRun, error) {
	if len(m.runs) > limit {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

func (m *memHistory) Decisions(ctx context.Context, runID string) ([]entities.RunDecision, error) {
	for _, r := range m.runs {
		if r.ID == runID {
			return r.Decisions, nil
		}
	}
	return nil, nil
}

type memNotifier struct {
	runs []*entities.MergeRun
}

func (m *memNotifier) NotifyRun(ctx context.Context, run *entities.MergeRun) error {
	m.runs = append(m.runs, run)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func request(name string, pairs ...string) entities.UpdateRequest {
	var ts []entities.Translation
	for i := 0; i+1 < len(pairs); i += 2 {
		ts = append(ts, entities.Translation{Source: pairs[i], Target: pairs[i+1]})
	}
	return entities.NewUpdateRequest(name, "", ts)
}

func newTestService(c output.CatalogRepository, h output.RunHistoryRepository, n output.Notifier) *MergeService {
	s := NewMergeService(c, h, n, quietLogger())
	s.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestMergeService_ApplyWritesOnce(t *testing.T) {
	catalogs := &memCatalogs{catalog: entities.NewCatalog()}
	history := &memHistory{}
	notifier := &memNotifier{}
	s := newTestService(catalogs, history, notifier)

	report, err := s.Apply(context.Background(), input.MergeCommand{
		CatalogPath: "Localizable.xcstrings",
		Locale:      "sv",
		Requests: []entities.UpdateRequest{
			request("first", "Save", "Spara"),
			request("second", "Save", "Spara", "Cancel", "Avbryt"),
		},
	})
	require.NoError(t, err)

	assert.True(t, report.Written)
	assert.Equal(t, 1, catalogs.saves)
	assert.Equal(t, 2, report.Total)
	require.Len(t, report.Runs, 2)
	assert.Equal(t, 1, report.Runs[0].Result.Changed())
	assert.Equal(t, 1, report.Runs[1].Result.Changed())
	assert.Equal(t, 1, report.Runs[1].Result.Skipped())

	require.Len(t, history.runs, 2)
	assert.Equal(t, "first", history.runs[0].Source)
	assert.Equal(t, "sv", history.runs[0].Locale)
	assert.Equal(t, "overwrite", history.runs[0].Policy)
	assert.NotEmpty(t, history.runs[0].ID)
	assert.Equal(t, 2026, history.runs[0].CreatedAt.Year())
	assert.Len(t, notifier.runs, 2)
}

func TestMergeService_NothingChangedSkipsWrite(t *testing.T) {
	catalogs := &memCatalogs{catalog: entities.NewCatalog()}
	notifier := &memNotifier{}
	s := newTestService(catalogs, nil, notifier)
	cmd := input.MergeCommand{CatalogPath: "c", Requests: []entities.UpdateRequest{request("r", "Done", "Klar")}}

	_, err := s.Apply(context.Background(), cmd)
	require.NoError(t, err)
	report, err := s.Apply(context.Background(), cmd)
	require.NoError(t, err)

	assert.False(t, report.Written)
	assert.Equal(t, 1, catalogs.saves)
	assert.Equal(t, 1, report.Runs[0].Result.Skipped())
	assert.Len(t, notifier.runs, 1)
}

func TestMergeService_DryRunPreviewsOnly(t *testing.T) {
	catalogs := &memCatalogs{catalog: entities.NewCatalog()}
	notifier := &memNotifier{}
	history := &memHistory{}
	s := newTestService(catalogs, history, notifier)

	report, err := s.Apply(context.Background(), input.MergeCommand{
		CatalogPath: "c",
		DryRun:      true,
		Requests:    []entities.UpdateRequest{request("r", "Save", "Spara")},
	})
	require.NoError(t, err)

	assert.False(t, report.Written)
	assert.NotEmpty(t, report.Patch)
	assert.Equal(t, 0, catalogs.saves)
	assert.Equal(t, 1, catalogs.previews)
	assert.Empty(t, notifier.runs)
	require.Len(t, history.runs, 1)
	assert.True(t, history.runs[0].DryRun)
}

func TestMergeService_RequestPolicyOverridesCommand(t *testing.T) {
	c := entities.NewCatalog()
	domain.Merge(c, request("seed", "Done", "Klar"), domain.PolicyOverwrite)
	catalogs := &memCatalogs{catalog: c}
	s := newTestService(catalogs, nil, nil)

	keep := request("keep", "Done", "Färdig")
	keep.Policy = "keep"
	report, err := s.Apply(context.Background(), input.MergeCommand{
		CatalogPath: "c",
		Policy:      domain.PolicyOverwrite,
		Requests:    []entities.UpdateRequest{keep},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SkipKept, report.Runs[0].Result.Decisions[0].Reason)
	assert.Equal(t, 0, catalogs.saves)
}

func TestMergeService_ValidatesBeforeLoading(t *testing.T) {
	loadErr := errors.New("must not load")
	catalogs := &memCatalogs{loadErr: loadErr}
	s := newTestService(catalogs, nil, nil)

	_, err := s.Apply(context.Background(), input.MergeCommand{CatalogPath: "c"})
	assert.ErrorIs(t, err, domain.ErrEmptyRequest)

	_, err = s.Apply(context.Background(), input.MergeCommand{
		CatalogPath: "c",
		Requests:    []entities.UpdateRequest{request("empty")},
	})
	assert.ErrorIs(t, err, domain.ErrEmptyRequest)

	bad := request("bad", "Save", "Spara")
	bad.Locale = "not a locale"
	_, err = s.Apply(context.Background(), input.MergeCommand{CatalogPath: "c", Requests: []entities.UpdateRequest{bad}})
	assert.ErrorIs(t, err, domain.ErrInvalidLocale)
}

func TestMergeService_LoadAndPersistFailuresPropagate(t *testing.T) {
	cmd := input.MergeCommand{CatalogPath: "c", Requests: []entities.UpdateRequest{request("r", "Save", "Spara")}}

	s := newTestService(&memCatalogs{loadErr: domain.ErrLoad}, nil, nil)
	_, err := s.Apply(context.Background(), cmd)
	assert.ErrorIs(t, err, domain.ErrLoad)

	history := &memHistory{}
	s = newTestService(&memCatalogs{catalog: entities.NewCatalog(), saveErr: domain.ErrPersist}, history, nil)
	_, err = s.Apply(context.Background(), cmd)
	assert.ErrorIs(t, err, domain.ErrPersist)
	assert.Empty(t, history.runs)
}

func TestMergeService_HistoryFailureIsNotFatal(t *testing.T) {
	s := newTestService(&memCatalogs{catalog: entities.NewCatalog()}, &memHistory{err: errors.New("db down")}, nil)

	report, err := s.Apply(context.Background(), input.MergeCommand{
		CatalogPath: "c",
		Requests:    []entities.UpdateRequest{request("r", "Save", "Spara")},
	})
	require.NoError(t, err)
	assert.True(t, report.Written)
}

func TestStatsService_Coverage(t *testing.T) {
	c := entities.NewCatalog()
	domain.Merge(c, request("seed", "Save", "Spara"), domain.PolicyOverwrite)
	c.Strings.Set("Cancel", &entities.TranslationEntry{})
	s := NewStatsService(&memCatalogs{catalog: c})

	cov, err := s.Coverage(context.Background(), "c", "SV")
	require.NoError(t, err)

	assert.Equal(t, "sv", cov.Locale)
	assert.Equal(t, 2, cov.Total)
	assert.Equal(t, 1, cov.Translated)
	assert.Equal(t, []string{"Cancel"}, cov.Missing)
}

func TestHistoryService_Recent(t *testing.T) {
	_, err := NewHistoryService(nil).Recent(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrHistoryDisabled)

	h := &memHistory{runs: make([]entities.MergeRun, 30)}
	runs, err := NewHistoryService(h).Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, defaultHistoryLimit)

	_, err = NewHistoryService(nil).Run(context.Background(), "id")
	assert.ErrorIs(t, err, domain.ErrHistoryDisabled)

	runID := "6f1c2b9e-4d0a-4a57-9c3e-2b8f0d1e7a44"
	h.runs[3] = entities.MergeRun{ID: runID, Decisions: []entities.RunDecision{{Phrase: "Save"}}}
	ds, err := NewHistoryService(h).Run(context.Background(), strings.ToUpper(runID))
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, "Save", ds[0].Phrase)
}

func TestHistoryService_RunRejectsMalformedID(t *testing.T) {
	h := &memHistory{}
	for _, id := range []string{"", "abc", "6f1c2b9e-4d0a-4a57-9c3e", "6f1c2b9e-4d0a-4a57-9c3e-2b8f0d1e7a44'; --"} {
		_, err := NewHistoryService(h).Run(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrInvalidRunID, id)
		assert.Equal(t, "invalid_run_id", domain.Code(err), id)
	}
}
