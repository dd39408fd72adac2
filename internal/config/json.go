package config

import (
	"encoding/json"
	"os"

	"github.com/mkarpovich/mediavault/internal/flagx"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Known fields
// are copied into the runtime Config afterwards; absent fields leave the
// existing (default) values untouched.
type jsonConfig struct {
	DatabasePath        *string `json:"database_path"`
	CacheDir            *string `json:"cache_dir"`
	APIBaseURL          *string `json:"api_base_url"`
	Token               *string `json:"token"`
	RepoOwner           *string `json:"repo_owner"`
	RepoName            *string `json:"repo_name"`
	Branch              *string `json:"branch"`
	MediaPathPrefix     *string `json:"media_path_prefix"`
	ThumbnailPathPrefix *string `json:"thumbnail_path_prefix"`
}

// parseJSON overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. When no file is named, nothing happens. Read or parse
// errors panic; the file was explicitly requested, so silently ignoring it
// would hide a misconfiguration.
func parseJSON(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIfPresent(&cfg.DatabasePath, jc.DatabasePath)
	setIfPresent(&cfg.CacheDir, jc.CacheDir)
	setIfPresent(&cfg.APIBaseURL, jc.APIBaseURL)
	setIfPresent(&cfg.Token, jc.Token)
	setIfPresent(&cfg.RepoOwner, jc.RepoOwner)
	setIfPresent(&cfg.RepoName, jc.RepoName)
	setIfPresent(&cfg.Branch, jc.Branch)
	setIfPresent(&cfg.MediaPathPrefix, jc.MediaPathPrefix)
	setIfPresent(&cfg.ThumbnailPathPrefix, jc.ThumbnailPathPrefix)
}

func setIfPresent(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
