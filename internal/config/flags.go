package config

import (
	"flag"
	"os"

	"github.com/mkarpovich/mediavault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short and long forms):
//
//	-d, --database string   path to the local database file
//	-t, --token string      bearer token for the remote API
//	-o, --owner string      remote repository owner
//	-r, --repo string       remote repository name
//	-b, --branch string     remote branch
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-d", "--database", "-t", "--token", "-o", "--owner", "-r", "--repo", "-b", "--branch",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to local database file")
	fs.StringVar(&cfg.DatabasePath, "database", cfg.DatabasePath, "path to local database file")
	fs.StringVar(&cfg.Token, "t", cfg.Token, "bearer token for the remote API")
	fs.StringVar(&cfg.Token, "token", cfg.Token, "bearer token for the remote API")
	fs.StringVar(&cfg.RepoOwner, "o", cfg.RepoOwner, "remote repository owner")
	fs.StringVar(&cfg.RepoOwner, "owner", cfg.RepoOwner, "remote repository owner")
	fs.StringVar(&cfg.RepoName, "r", cfg.RepoName, "remote repository name")
	fs.StringVar(&cfg.RepoName, "repo", cfg.RepoName, "remote repository name")
	fs.StringVar(&cfg.Branch, "b", cfg.Branch, "remote branch")
	fs.StringVar(&cfg.Branch, "branch", cfg.Branch, "remote branch")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
