package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkarpovich/mediavault/internal/models"
)

func newAddCmd(app *App) *cobra.Command {
	var name, mediaType string

	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Import a media file into the local store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta := models.FileMetadata{
				Name: name,
				Type: models.MediaType(mediaType),
			}

			id, err := app.library.Import(cmd.Context(), args[0], meta)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "stored name (defaults to the file's basename)")
	cmd.Flags().StringVar(&mediaType, "type", "", "media type: audio, video or thumbnail (inferred when empty)")

	return cmd
}
