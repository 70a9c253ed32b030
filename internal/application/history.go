package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"xcmerge/internal/domain"
	"xcmerge/internal/domain/entities"
	"xcmerge/internal/ports/input"
	"xcmerge/internal/ports/output"
)

var _ input.HistoryUseCase = (*HistoryService)(nil)

const defaultHistoryLimit = 20

type HistoryService struct {
	history output.RunHistoryRepository
}

// NewHistoryService accepts a nil repository; Recent then reports
// domain.ErrHistoryDisabled.
func NewHistoryService(history output.RunHistoryRepository) *HistoryService {
	return &HistoryService{history: history}
}

func (s *HistoryService) Recent(ctx context.Context, limit int) ([]entities.MergeRun, error) {
	if s.history == nil {
		return nil, domain.ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.history.Recent(ctx, limit)
}

// Run returns the decisions recorded for one run. runID must be a UUID as
// printed by the history listing.
func (s *HistoryService) Run(ctx context.Context, runID string) ([]entities.RunDecision, error) {
	if s.history == nil {
		return nil, domain.ErrHistoryDisabled
	}
	id, err := uuid.Parse(runID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRunID, runID)
	}
	return s.history.Decisions(ctx, id.String())
}
