package application

import (
	"context"

	"xcmerge/internal/domain"
	"xcmerge/internal/ports/input"
	"xcmerge/internal/ports/output"
)

var _ input.StatsUseCase = (*StatsService)(nil)

type StatsService struct {
	catalogs output.CatalogRepository
}

func NewStatsService(catalogs output.CatalogRepository) *StatsService {
	return &StatsService{catalogs: catalogs}
}

// Coverage counts the phrases that hold a translated string unit for locale
// and lists, in catalog order, the ones that do not.
func (s *StatsService) Coverage(ctx context.Context, path, locale string) (*input.Coverage, error) {
	locale, err := domain.NormalizeLocale(locale)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalogs.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	cov := &input.Coverage{Locale: locale, Total: catalog.Len()}
	for phrase, entry := range catalog.Strings.All() {
		if entry != nil {
			if loc, ok := entry.Localization(locale); ok && loc != nil && loc.StringUnit != nil &&
				loc.StringUnit.State == domain.StateTranslated {
				cov.Translated++
				continue
			}
		}
		cov.Missing = append(cov.Missing, phrase)
	}
	return cov, nil
}
