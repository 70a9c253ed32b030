package cli

import (
	"fmt"
	"io"
	"time"

	"xcmerge/internal/domain"
	"xcmerge/internal/domain/entities"
	"xcmerge/internal/infrastructure/requests"
	"xcmerge/internal/ports/input"
	"xcmerge/internal/ports/output"
	"xcmerge/pkg/tz"
)

// Renderer writes console reports through the message catalog.
type Renderer struct {
	w    io.Writer
	t    output.T
	lang string
}

func NewRenderer(w io.Writer, t output.T, lang string) *Renderer {
	return &Renderer{w: w, t: t, lang: lang}
}

func (r *Renderer) line(s string) {
	fmt.Fprintln(r.w, s)
}

func decisionKey(d domain.Decision) string {
	if d.Outcome == domain.OutcomeSkipped {
		return "report.skipped." + string(d.Reason)
	}
	return "report." + string(d.Outcome)
}

// Merge prints each run's decisions, unless quiet, then the summary.
func (r *Renderer) Merge(report *input.RunReport, path string, quiet bool) {
	changed, skipped := 0, 0
	for _, o := range report.Runs {
		changed += o.Result.Changed()
		skipped += o.Result.Skipped()
		if quiet {
			continue
		}
		r.line(r.t.T(r.lang, "report.run", map[string]any{
			"Source": o.Run.Source,
			"Locale": o.Run.Locale,
			"Policy": o.Run.Policy,
		}))
		for _, d := range o.Result.Decisions {
			r.line(r.t.T(r.lang, decisionKey(d), map[string]any{
				"Phrase":   d.Phrase,
				"Previous": d.Previous,
				"Value":    d.Value,
			}))
		}
	}

	r.line(r.t.Plural(r.lang, "report.summary.changed", changed, nil))
	r.line(r.t.Plural(r.lang, "report.summary.skipped", skipped, nil))
	r.line(r.t.Plural(r.lang, "report.summary.total", report.Total, nil))

	data := map[string]any{"Path": path}
	switch {
	case report.Patch != nil:
		r.line(r.t.T(r.lang, "report.dry_run", data))
		r.line(string(report.Patch))
	case report.Written:
		r.line(r.t.T(r.lang, "report.written", data))
	default:
		r.line(r.t.T(r.lang, "report.no_changes", data))
	}
}

func (r *Renderer) Batches(infos []requests.BatchInfo) {
	for _, b := range infos {
		r.line(r.t.Plural(r.lang, "batches.line", b.Size, map[string]any{
			"Name":        b.Name,
			"Locale":      b.Locale,
			"Policy":      b.Policy,
			"Description": b.Description,
		}))
	}
}

func (r *Renderer) Coverage(c *input.Coverage, missing bool) {
	r.line(r.t.T(r.lang, "stats.coverage", map[string]any{
		"Translated": c.Translated,
		"Total":      c.Total,
		"Locale":     c.Locale,
	}))
	if !missing || len(c.Missing) == 0 {
		return
	}
	r.line(r.t.Plural(r.lang, "stats.missing", len(c.Missing), nil))
	for _, phrase := range c.Missing {
		r.line("  " + phrase)
	}
}

func (r *Renderer) History(runs []entities.MergeRun, loc *time.Location) {
	if len(runs) == 0 {
		r.line(r.t.T(r.lang, "history.empty", nil))
		return
	}
	for _, run := range runs {
		r.line(r.t.T(r.lang, "history.line", map[string]any{
			"Time":    tz.Stamp(run.CreatedAt, loc),
			"Source":  run.Source,
			"Locale":  run.Locale,
			"Changed": run.Changed,
			"Skipped": run.Skipped,
			"DryRun":  run.DryRun,
		}) + "  " + run.ID)
	}
}

// Decisions prints the recorded decisions of one run.
func (r *Renderer) Decisions(ds []entities.RunDecision) {
	for _, d := range ds {
		key := decisionKey(domain.Decision{Outcome: domain.Outcome(d.Outcome), Reason: domain.SkipReason(d.Reason)})
		r.line(r.t.T(r.lang, key, map[string]any{
			"Phrase":   d.Phrase,
			"Previous": d.Previous,
			"Value":    d.Value,
		}))
	}
}

// Error prints err as a translated message. Domain errors get their own
// message; anything else is shown as is.
func (r *Renderer) Error(err error) {
	key := "error.generic"
	if code := domain.Code(err); code != "" {
		key = "error." + code
	}
	r.line(r.t.T(r.lang, key, map[string]any{"Detail": err.Error()}))
}
