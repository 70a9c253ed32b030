package cli

import (
	"github.com/spf13/cobra"

	"xcmerge/internal/infrastructure/requests"
)

func (a *App) newBatchesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "batches",
		Short: "List the embedded translation batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := requests.NewBatches().List()
			if err != nil {
				return err
			}
			a.renderer(cmd.OutOrStdout()).Batches(infos)
			return nil
		},
	}
}
