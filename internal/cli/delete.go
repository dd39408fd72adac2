package cli

import (
	"github.com/spf13/cobra"
)

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "del <id>",
		Short: "Delete a record and its thumbnail from the local store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.library.Delete(cmd.Context(), args[0])
		},
	}
}
