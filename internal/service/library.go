// Package service wires the store, reconciler and remote client into the
// operations the presentation layer calls.
package service

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mkarpovich/mediavault/internal/logging"
	"github.com/mkarpovich/mediavault/internal/models"
	"github.com/mkarpovich/mediavault/internal/reconcile"
	"github.com/mkarpovich/mediavault/internal/remote"
	"github.com/mkarpovich/mediavault/internal/store"
)

// Remote is the subset of the sync client the library needs.
type Remote interface {
	Upload(ctx context.Context, content []byte, name string, kind remote.ContentKind, onProgress remote.ProgressFunc) error
	ListFiles(ctx context.Context) ([]*models.RemoteEntry, error)
}

// LibraryService exposes the unified media library operations.
type LibraryService interface {
	// List returns the merged local+remote library view, newest first.
	List(ctx context.Context) ([]*models.EnhancedFileRecord, error)

	// Import reads a file from disk and saves it as a local record,
	// inferring absent metadata from the file itself.
	Import(ctx context.Context, path string, meta models.FileMetadata) (string, error)

	// Delete removes a record and its derived artifacts (thumbnail).
	Delete(ctx context.Context, id string) error

	// Backup uploads one local record to the remote repository.
	Backup(ctx context.Context, id string, onProgress remote.ProgressFunc) error
}

type libraryService struct {
	store  store.Store
	remote Remote
	log    logging.Logger
}

func NewLibraryService(st store.Store, rc Remote, log logging.Logger) LibraryService {
	return &libraryService{store: st, remote: rc, log: log}
}

func (s *libraryService) List(ctx context.Context) ([]*models.EnhancedFileRecord, error) {

	local, err := s.store.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing local files: %w", err)
	}

	var remoteEntries []*models.RemoteEntry
	if s.remote != nil {
		remoteEntries, err = s.remote.ListFiles(ctx)
		if err != nil {
			// The local library stays usable without the remote view.
			s.log.Warn(ctx, "remote listing unavailable, showing local files only", "error", err)
			remoteEntries = nil
		}
	}

	return reconcile.CombineAndDeduplicateFiles(local, remoteEntries), nil
}

func (s *libraryService) Import(ctx context.Context, path string, meta models.FileMetadata) (string, error) {

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	if meta.Name == "" {
		meta.Name = filepath.Base(path)
	}
	if meta.MimeType == "" {
		meta.MimeType = mime.TypeByExtension(filepath.Ext(meta.Name))
	}
	if meta.Type == "" {
		meta.Type = typeFromMime(meta.MimeType)
	}
	if meta.Created == 0 {
		meta.Created = time.Now().UnixMilli()
	}
	meta.Size = int64(len(content))

	id, err := s.store.SaveFile(ctx, content, meta)
	if err != nil {
		return "", fmt.Errorf("saving %s: %w", meta.Name, err)
	}

	s.log.Info(ctx, "file imported", "id", id, "name", meta.Name, "size", meta.Size)
	return id, nil
}

func typeFromMime(mimeType string) models.MediaType {
	switch {
	case strings.HasPrefix(mimeType, "video/"):
		return models.MediaTypeVideo
	case strings.HasPrefix(mimeType, "image/"):
		return models.MediaTypeThumbnail
	default:
		return models.MediaTypeAudio
	}
}

func (s *libraryService) Delete(ctx context.Context, id string) error {

	// The cascade set only needs names and types, so the content (and its
	// materialized cache copy) stays untouched.
	local, err := s.store.ListMetadata(ctx)
	if err != nil {
		return fmt.Errorf("listing local files: %w", err)
	}

	ids, _ := reconcile.FindFilesToRemove(local, id)

	for _, rid := range ids {
		if err := s.store.DeleteFile(ctx, rid); err != nil {
			return fmt.Errorf("deleting %s: %w", rid, err)
		}
	}

	s.log.Info(ctx, "files deleted", "ids", ids)
	return nil
}

func (s *libraryService) Backup(ctx context.Context, id string, onProgress remote.ProgressFunc) error {

	rec, err := s.store.GetFile(ctx, id)
	if err != nil {
		return fmt.Errorf("loading %s: %w", id, err)
	}

	kind := remote.KindMedia
	if rec.Type == models.MediaTypeThumbnail {
		kind = remote.KindThumbnail
	}

	if err := s.remote.Upload(ctx, rec.Content, rec.Name, kind, onProgress); err != nil {
		return fmt.Errorf("uploading %s: %w", rec.Name, err)
	}

	return nil
}
