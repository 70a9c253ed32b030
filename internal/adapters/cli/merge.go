package cli

import (
	"github.com/spf13/cobra"

	"xcmerge/internal/application"
	"xcmerge/internal/domain"
	"xcmerge/internal/domain/entities"
	"xcmerge/internal/infrastructure/requests"
	"xcmerge/internal/infrastructure/xcstrings"
	"xcmerge/internal/ports/input"
)

type mergeOptions struct {
	batches []string
	files   []string
	dryRun  bool
	quiet   bool
}

func (a *App) newMergeCommand() *cobra.Command {
	var opts mergeOptions
	cmd := &cobra.Command{
		Use:   "merge [FILE]...",
		Short: "Merge translation batches into the catalog",
		Long: `Merge applies every --batch, then every --file and FILE argument, in the order given.
Each one is a separate pass over the same loaded catalog, which is written once at the end,
and only when something changed.`,
		Example: `  xcmerge merge --batch core --batch explore
  xcmerge merge --file extra.yaml --policy keep --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.files = append(opts.files, args...)
			return a.runMerge(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.batches, "batch", "b", nil, "Embedded batch to apply (repeatable, see xcmerge batches)")
	f.StringArrayVarP(&opts.files, "file", "f", nil, "YAML, JSON or TOML request file to apply (repeatable)")
	f.BoolVarP(&opts.dryRun, "dry-run", "n", false, "Show the resulting merge patch without writing")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "Only print the summary")
	f.String("style", "", "Key separator on write: auto, json or xcode (default: auto)")
	_ = a.v.BindPFlag("write.style", f.Lookup("style"))
	return cmd
}

func loadRequests(batchNames, files []string) ([]entities.UpdateRequest, error) {
	batches := requests.NewBatches()
	out := make([]entities.UpdateRequest, 0, len(batchNames)+len(files))
	for _, name := range batchNames {
		req, err := batches.Load(name)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	for _, path := range files {
		req, err := requests.LoadFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

func (a *App) runMerge(cmd *cobra.Command, opts mergeOptions) error {
	ctx := cmd.Context()

	reqs, err := loadRequests(opts.batches, opts.files)
	if err != nil {
		return err
	}
	policy, err := domain.ParsePolicy(a.cfg.Policy)
	if err != nil {
		return err
	}
	store, err := xcstrings.NewStore(a.cfg.Write.Style)
	if err != nil {
		return err
	}

	history, err := a.historyRepo(ctx)
	if err != nil {
		a.log.Warn("history database unavailable, run will not be recorded", "error", err)
		history = nil
	}
	notifier, err := a.notifier()
	if err != nil {
		return err
	}

	svc := application.NewMergeService(store, history, notifier, a.log)
	report, err := svc.Apply(ctx, input.MergeCommand{
		CatalogPath: a.cfg.Catalog,
		Requests:    reqs,
		Locale:      a.cfg.Locale,
		Policy:      policy,
		DryRun:      opts.dryRun,
	})
	if err != nil {
		return err
	}
	a.renderer(cmd.OutOrStdout()).Merge(report, a.cfg.Catalog, opts.quiet)
	return nil
}
