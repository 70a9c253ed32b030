package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"xcmerge/internal/domain/entities"
	"xcmerge/pkg/jsonobj"
)

// Policy decides what happens when the target locale already holds a
// different value.
type Policy string

const (
	PolicyOverwrite Policy = "overwrite"
	PolicyKeep      Policy = "keep"
)

// ParsePolicy accepts "overwrite" or "keep". An empty name means overwrite.
func ParsePolicy(name string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(name))) {
	case "", PolicyOverwrite:
		return PolicyOverwrite, nil
	case PolicyKeep:
		return PolicyKeep, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, name)
	}
}

// Outcome classifies what the merge did with one requested phrase.
type Outcome string

const (
	OutcomeAddedEntry         Outcome = "added_entry"
	OutcomeAddedLocalizations Outcome = "added_localizations"
	OutcomeAddedLocale        Outcome = "added_locale"
	OutcomeUpdated            Outcome = "updated"
	OutcomeSkipped            Outcome = "skipped"
)

// Changed reports whether the outcome modified the catalog.
func (o Outcome) Changed() bool {
	return o != OutcomeSkipped
}

// SkipReason explains a skipped decision.
type SkipReason string

const (
	SkipIdentical  SkipReason = "identical"
	SkipKept       SkipReason = "kept"
	SkipVariations SkipReason = "variations"
)

// Decision is the outcome for one requested phrase.
type Decision struct {
	Phrase   string
	Outcome  Outcome
	Reason   SkipReason
	Previous string
	Value    string
}

// Result collects the decisions of one merge pass.
type Result struct {
	Locale    string
	Decisions []Decision
	// Total is the number of phrases in the catalog after the merge.
	Total int
}

// Count returns how many decisions had outcome o.
func (r Result) Count(o Outcome) int {
	n := 0
	for _, d := range r.Decisions {
		if d.Outcome == o {
			n++
		}
	}
	return n
}

// Changed returns the number of added and updated phrases.
func (r Result) Changed() int {
	return len(r.Decisions) - r.Skipped()
}

func (r Result) Skipped() int {
	return r.Count(OutcomeSkipped)
}

// NormalizeLocale validates a locale code and returns its canonical BCP 47
// form ("SV" -> "sv", "pt_BR" -> "pt-BR").
func NormalizeLocale(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidLocale)
	}
	tag, err := language.Parse(code)
	if err != nil || tag == language.Und {
		return "", fmt.Errorf("%w: %q", ErrInvalidLocale, code)
	}
	return tag.String(), nil
}

// Merge applies req to c in place, in request order, and classifies every
// requested phrase. It never removes an entry or another locale's
// localization. An empty req.Locale means DefaultLocale.
func Merge(c *entities.Catalog, req entities.UpdateRequest, policy Policy) Result {
	locale := req.Locale
	if locale == "" {
		locale = DefaultLocale
	}
	if c.Strings == nil {
		c.Strings = jsonobj.New[*entities.TranslationEntry]()
	}

	res := Result{
		Locale:    locale,
		Decisions: make([]Decision, 0, len(req.Translations)),
	}
	for _, t := range req.Translations {
		res.Decisions = append(res.Decisions, mergeOne(c, locale, t, policy))
	}
	res.Total = c.Len()
	return res
}

func mergeOne(c *entities.Catalog, locale string, t entities.Translation, policy Policy) Decision {
	d := Decision{Phrase: t.Source, Value: t.Target}

	entry, ok := c.Entry(t.Source)
	if !ok || entry == nil {
		entry = &entities.TranslationEntry{
			ExtractionState: ExtractionStateManual,
			Localizations:   jsonobj.New[*entities.Localization](),
		}
		entry.Localizations.Set(locale, entities.NewStringLocalization(StateTranslated, t.Target))
		c.Strings.Set(t.Source, entry)
		d.Outcome = OutcomeAddedEntry
		return d
	}

	if entry.Localizations == nil {
		entry.Localizations = jsonobj.New[*entities.Localization]()
		entry.Localizations.Set(locale, entities.NewStringLocalization(StateTranslated, t.Target))
		d.Outcome = OutcomeAddedLocalizations
		return d
	}

	loc, ok := entry.Localization(locale)
	if !ok || loc == nil {
		entry.Localizations.Set(locale, entities.NewStringLocalization(StateTranslated, t.Target))
		d.Outcome = OutcomeAddedLocale
		return d
	}

	d.Outcome = OutcomeSkipped
	if loc.StringUnit == nil {
		d.Reason = SkipVariations
		return d
	}

	d.Previous = loc.StringUnit.Value
	switch {
	case loc.StringUnit.Value == t.Target:
		d.Reason = SkipIdentical
	case policy == PolicyKeep:
		d.Reason = SkipKept
	default:
		loc.StringUnit.Value = t.Target
		loc.StringUnit.State = StateTranslated
		d.Outcome = OutcomeUpdated
	}
	return d
}
