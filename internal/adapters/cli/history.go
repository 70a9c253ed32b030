package cli

import (
	"github.com/spf13/cobra"

	"xcmerge/internal/application"
	"xcmerge/internal/domain"
)

func (a *App) newHistoryCommand() *cobra.Command {
	var (
		limit int
		runID string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent merge runs from the history database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.HistoryEnabled() {
				return domain.ErrHistoryDisabled
			}
			repo, err := a.historyRepo(cmd.Context())
			if err != nil {
				return err
			}
			svc := application.NewHistoryService(repo)
			r := a.renderer(cmd.OutOrStdout())

			if runID != "" {
				ds, err := svc.Run(cmd.Context(), runID)
				if err != nil {
					return err
				}
				r.Decisions(ds)
				return nil
			}
			runs, err := svc.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			r.History(runs, a.loc)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show the decisions of one run")
	return cmd
}
