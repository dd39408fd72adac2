// Package cli implements the mediavault command tree.
package cli

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkarpovich/mediavault/internal/config"
	"github.com/mkarpovich/mediavault/internal/logging"
	"github.com/mkarpovich/mediavault/internal/remote"
	"github.com/mkarpovich/mediavault/internal/service"
	"github.com/mkarpovich/mediavault/internal/store"
)

// App holds the wired components shared by all commands.
type App struct {
	cfg     *config.Config
	db      *sql.DB
	library service.LibraryService
	log     logging.Logger
}

func newApp(ctx context.Context, cfg *config.Config) (*App, error) {

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	db, err := store.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	st, err := store.NewSQLiteStore(db, cfg.CacheDir, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	rc := remote.NewSyncClient(cfg, log)
	lib := service.NewLibraryService(st, rc, log)

	return &App{cfg: cfg, db: db, library: lib, log: log}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

// NewRootCmd builds the command tree. Flags mirror the ones the config
// loader reads from os.Args, so cobra accepts them while the loader keeps
// its defaults → JSON → flags layering.
func NewRootCmd() *cobra.Command {
	app := &App{}

	root := &cobra.Command{
		Use:           "mediavault",
		Short:         "Local-first media vault with git-backed backup",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			*app = *a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.db != nil {
				return app.Close()
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "path to JSON config file")
	pf.StringP("database", "d", "", "path to local database file")
	pf.StringP("token", "t", "", "bearer token for the remote API")
	pf.StringP("owner", "o", "", "remote repository owner")
	pf.StringP("repo", "r", "", "remote repository name")
	pf.StringP("branch", "b", "", "remote branch")

	root.AddCommand(
		newAddCmd(app),
		newListCmd(app),
		newDeleteCmd(app),
		newBackupCmd(app),
	)

	return root
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
