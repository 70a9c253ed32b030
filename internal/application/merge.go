package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"xcmerge/internal/domain"
	"xcmerge/internal/domain/entities"
	"xcmerge/internal/ports/input"
	"xcmerge/internal/ports/output"
)

var _ input.MergeUseCase = (*MergeService)(nil)

type MergeService struct {
	catalogs output.CatalogRepository
	history  output.RunHistoryRepository
	notifier output.Notifier
	log      *slog.Logger
	now      func() time.Time
}

// NewMergeService wires the merge use case. history and notifier may be nil.
func NewMergeService(
	catalogs output.CatalogRepository,
	history output.RunHistoryRepository,
	notifier output.Notifier,
	log *slog.Logger,
) *MergeService {
	if log == nil {
		log = slog.Default()
	}
	return &MergeService{
		catalogs: catalogs,
		history:  history,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Apply loads the catalog once, merges every request in order and persists
// the result once. Nothing is written on a dry run or when no request
// changed anything. History and notification failures are logged only.
func (s *MergeService) Apply(ctx context.Context, cmd input.MergeCommand) (*input.RunReport, error) {
	requests, err := s.prepare(cmd)
	if err != nil {
		return nil, err
	}

	catalog, err := s.catalogs.Load(ctx, cmd.CatalogPath)
	if err != nil {
		return nil, err
	}
	s.log.Debug("catalog loaded", "path", cmd.CatalogPath, "entries", catalog.Len())

	report := &input.RunReport{}
	changed := 0
	for _, p := range requests {
		res := domain.Merge(catalog, p.req, p.policy)
		changed += res.Changed()
		report.Runs = append(report.Runs, input.RunOutcome{
			Run:    s.newRun(cmd, p, res),
			Result: res,
		})
		s.log.Info("request merged",
			"source", p.req.Name,
			"locale", res.Locale,
			"changed", res.Changed(),
			"skipped", res.Skipped(),
		)
		for _, d := range res.Decisions {
			if d.Reason == domain.SkipVariations {
				s.log.Warn("phrase uses variations, left untouched", "phrase", d.Phrase, "locale", res.Locale)
			}
		}
	}
	report.Total = catalog.Len()

	switch {
	case cmd.DryRun:
		patch, err := s.catalogs.Preview(ctx, cmd.CatalogPath, catalog)
		if err != nil {
			return nil, err
		}
		report.Patch = patch
	case changed > 0:
		if err := s.catalogs.Save(ctx, cmd.CatalogPath, catalog); err != nil {
			return nil, err
		}
		report.Written = true
		s.log.Info("catalog written", "path", cmd.CatalogPath, "entries", report.Total)
	default:
		s.log.Info("no changes, catalog left untouched", "path", cmd.CatalogPath)
	}

	for _, o := range report.Runs {
		s.record(ctx, o.Run)
		if report.Written && o.Run.Changed > 0 {
			s.notify(ctx, o.Run)
		}
	}
	return report, nil
}

type preparedRequest struct {
	req    entities.UpdateRequest
	policy domain.Policy
}

// prepare validates every request before anything is loaded. Requests
// without their own locale or policy take the command's.
func (s *MergeService) prepare(cmd input.MergeCommand) ([]preparedRequest, error) {
	if len(cmd.Requests) == 0 {
		return nil, domain.ErrEmptyRequest
	}
	out := make([]preparedRequest, 0, len(cmd.Requests))
	for _, req := range cmd.Requests {
		if req.Len() == 0 {
			return nil, fmt.Errorf("%s: %w", req.Name, domain.ErrEmptyRequest)
		}

		locale := req.Locale
		if locale == "" {
			locale = cmd.Locale
		}
		if locale == "" {
			locale = domain.DefaultLocale
		}
		normalized, err := domain.NormalizeLocale(locale)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", req.Name, err)
		}
		req.Locale = normalized

		policy := cmd.Policy
		if req.Policy != "" {
			if policy, err = domain.ParsePolicy(req.Policy); err != nil {
				return nil, fmt.Errorf("%s: %w", req.Name, err)
			}
		}
		if policy == "" {
			policy = domain.PolicyOverwrite
		}
		out = append(out, preparedRequest{req: req, policy: policy})
	}
	return out, nil
}

func (s *MergeService) newRun(cmd input.MergeCommand, p preparedRequest, res domain.Result) *entities.MergeRun {
	run := &entities.MergeRun{
		ID:          uuid.NewString(),
		CatalogPath: cmd.CatalogPath,
		Locale:      res.Locale,
		Source:      p.req.Name,
		Policy:      string(p.policy),
		DryRun:      cmd.DryRun,
		Changed:     res.Changed(),
		Skipped:     res.Skipped(),
		Total:       res.Total,
		Decisions:   make([]entities.RunDecision, 0, len(res.Decisions)),
		CreatedAt:   s.now().UTC(),
	}
	for _, d := range res.Decisions {
		run.Decisions = append(run.Decisions, entities.RunDecision{
			Phrase:   d.Phrase,
			Outcome:  string(d.Outcome),
			Reason:   string(d.Reason),
			Previous: d.Previous,
			Value:    d.Value,
		})
	}
	return run
}

func (s *MergeService) record(ctx context.Context, run *entities.MergeRun) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, run); err != nil {
		s.log.Warn("failed to record merge run", "run_id", run.ID, "error", err)
	}
}

func (s *MergeService) notify(ctx context.Context, run *entities.MergeRun) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyRun(ctx, run); err != nil {
		s.log.Warn("failed to send merge notification", "run_id", run.ID, "error", err)
	}
}
