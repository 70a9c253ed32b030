package cli

import (
	"github.com/spf13/cobra"

	"xcmerge/internal/application"
	"xcmerge/internal/infrastructure/xcstrings"
)

func (a *App) newStatsCommand() *cobra.Command {
	var missing bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show how much of the catalog is translated to the target locale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := xcstrings.NewStore(a.cfg.Write.Style)
			if err != nil {
				return err
			}
			cov, err := application.NewStatsService(store).Coverage(cmd.Context(), a.cfg.Catalog, a.cfg.Locale)
			if err != nil {
				return err
			}
			a.renderer(cmd.OutOrStdout()).Coverage(cov, missing)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&missing, "missing", "m", false, "List the phrases without a translation")
	return cmd
}
