package cli

import (
	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"
)

func newBackupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "backup <id>",
		Short: "Upload a local record to the remote repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Milestone-based: tracks protocol steps completed, not bytes.
			bar := pb.New(100)
			bar.SetWriter(cmd.ErrOrStderr())
			bar.Start()
			defer bar.Finish()

			return app.library.Backup(cmd.Context(), args[0], func(step string, percent int) {
				bar.SetCurrent(int64(percent))
			})
		},
	}
}
