package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the merged local+remote library, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := app.library.List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tWHERE\tTYPE\tSIZE\tNAME")
			for _, f := range files {
				where := "remote"
				if f.IsLocal {
					where = "local"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", f.ID, where, f.Type, f.Size, f.Name)
			}
			return w.Flush()
		},
	}
}
