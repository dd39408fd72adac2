package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/mkarpovich/mediavault/internal/common"
	"github.com/mkarpovich/mediavault/internal/models"
)

// ListFiles fetches a snapshot of the remote media directory. Entries use
// the provider's object id; a file that disappears from a later listing is
// considered gone (the provider sends no delete notifications).
//
// An empty or missing directory (including an empty repository) yields an
// empty listing, not an error.
func (c *SyncClient) ListFiles(ctx context.Context) ([]*models.RemoteEntry, error) {
	if err := c.checkConfig(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		c.cfg.APIBaseURL, c.cfg.RepoOwner, c.cfg.RepoName, c.cfg.MediaPathPrefix, c.cfg.Branch)

	status, body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusConflict:
		return nil, nil
	default:
		return nil, statusError(status, body)
	}

	var entries []contentsEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode listing: %w", common.ErrRemote, err)
	}

	result := make([]*models.RemoteEntry, 0, len(entries))
	for _, e := range entries {
		if e.Type != "file" {
			continue
		}
		mimeType, mediaType, ok := classifyName(e.Name)
		if !ok {
			continue
		}
		result = append(result, &models.RemoteEntry{
			ID:       e.SHA,
			Name:     e.Name,
			Type:     mediaType,
			MimeType: mimeType,
			Size:     e.Size,
		})
	}

	return result, nil
}

// mediaMimeByExt covers the media extensions this system produces, so
// classification does not depend on the host mime database.
var mediaMimeByExt = map[string]string{
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// classifyName infers mime and media type from the filename extension.
// The listing endpoint exposes no content type of its own. Names that map
// to neither audio, video nor image (README.md and the like) are not media
// and are reported as not ok.
func classifyName(name string) (string, models.MediaType, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	mimeType, known := mediaMimeByExt[ext]
	if !known {
		mimeType = mime.TypeByExtension(ext)
	}

	switch {
	case strings.HasPrefix(mimeType, "audio/"):
		return mimeType, models.MediaTypeAudio, true
	case strings.HasPrefix(mimeType, "video/"):
		return mimeType, models.MediaTypeVideo, true
	case strings.HasPrefix(mimeType, "image/"):
		return mimeType, models.MediaTypeThumbnail, true
	default:
		return "", "", false
	}
}
