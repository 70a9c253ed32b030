package cli

import (
	"github.com/spf13/cobra"

	"xcmerge/internal/domain"
	"xcmerge/internal/infrastructure/database"
)

func (a *App) newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending history database migrations",
		Long:  `Create or upgrade the merge_runs and merge_decisions tables in history.database_url.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.HistoryEnabled() {
				return domain.ErrHistoryDisabled
			}
			if _, err := database.RunMigrations(a.cfg.History.DatabaseURL, a.log); err != nil {
				return err
			}
			a.renderer(cmd.OutOrStdout()).line(a.tr.T(a.lang(), "migrate.done", nil))
			return nil
		},
	}
}
