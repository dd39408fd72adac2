// Package config loads runtime settings for mediavault.
//
// Values are layered: defaults first, then a JSON config file (if one is
// named via -c/-config), then command-line flags. Later sources take
// precedence over earlier ones.
package config

// Config holds runtime settings for the mediavault CLI.
//
// The remote fields identify a git-hosting repository written to via its
// git-data API; Token is the bearer credential for that API. Path prefixes
// route uploads by content category.
type Config struct {
	// Local store.
	DatabasePath string
	CacheDir     string

	// Remote repository identity and credential.
	APIBaseURL string
	Token      string
	RepoOwner  string
	RepoName   string
	Branch     string

	// Upload path routing.
	MediaPathPrefix     string
	ThumbnailPathPrefix string
}

// LoadDefaults populates c with sensible defaults. Credentials and the
// repository identity have no defaults: the remote client refuses to run
// without them.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "mediavault.db"
	c.CacheDir = ".mediavault-cache"
	c.APIBaseURL = "https://api.github.com"
	c.Branch = "main"
	c.MediaPathPrefix = "media"
	c.ThumbnailPathPrefix = "thumbnails"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
