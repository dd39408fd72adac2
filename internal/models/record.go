// Package models defines the media record types shared by the local store,
// the reconciler and the remote sync client.
package models

import (
	"path/filepath"
	"strings"
)

// MediaType classifies a stored record.
type MediaType string

const (
	MediaTypeAudio     MediaType = "audio"
	MediaTypeVideo     MediaType = "video"
	MediaTypeThumbnail MediaType = "thumbnail"
)

// IsPlayable reports whether the type is user-facing media (audio or video),
// as opposed to a derived display artifact.
func (t MediaType) IsPlayable() bool {
	return t == MediaTypeAudio || t == MediaTypeVideo
}

// FileMetadata describes one media file. ID is optional on creation: the
// local store assigns one when empty, and it is immutable afterwards.
type FileMetadata struct {
	ID       string    `json:"id,omitempty"`
	Name     string    `json:"name"`
	Type     MediaType `json:"type"`
	MimeType string    `json:"mimeType"`
	Size     int64     `json:"size"`
	// Duration is the playback length in seconds (zero for thumbnails).
	Duration float64 `json:"duration"`
	// Created is the capture/import time in unix milliseconds.
	Created int64 `json:"created"`
}

// FileRecord is a stored media file: metadata plus the exclusively-owned
// binary content. The content lives and dies with the record.
type FileRecord struct {
	FileMetadata

	// Content is the raw media payload. Only the store replaces it, and only
	// as part of creating or destroying the record.
	Content []byte `json:"-"`

	// ContentPath is a transient materialized copy of Content for display or
	// playback. It is derived on every ListFiles call, never persisted, and
	// cleanup is the caller's responsibility.
	ContentPath string `json:"-"`
}

// RemoteEntry is a snapshot of one object in the remote store, immutable
// once fetched. An entry is considered gone when a later listing no longer
// contains it; there is no delete notification.
type RemoteEntry struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     MediaType `json:"type"`
	MimeType string    `json:"mimeType"`
	Size     int64     `json:"size"`
	Created  int64     `json:"created"`
}

// EnhancedFileRecord is the transient view produced by reconciliation:
// a local record or remote entry tagged with its provenance. It is never
// persisted and is recomputed on every reconciliation.
type EnhancedFileRecord struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     MediaType `json:"type"`
	MimeType string    `json:"mimeType"`
	Size     int64     `json:"size"`
	Duration float64   `json:"duration"`
	Created  int64     `json:"created"`

	IsLocal bool `json:"isLocal"`
	// Uploaded is set only for remote-origin entries.
	Uploaded bool `json:"uploaded"`

	// ContentPath carries the local record's materialized copy, when present.
	ContentPath string `json:"-"`
}

// EnhanceLocal converts a stored record into its reconciled view form.
func EnhanceLocal(r *FileRecord) *EnhancedFileRecord {
	return &EnhancedFileRecord{
		ID:          r.ID,
		Name:        r.Name,
		Type:        r.Type,
		MimeType:    r.MimeType,
		Size:        r.Size,
		Duration:    r.Duration,
		Created:     r.Created,
		IsLocal:     true,
		ContentPath: r.ContentPath,
	}
}

// EnhanceRemote converts a remote listing entry into its reconciled view form.
func EnhanceRemote(e *RemoteEntry) *EnhancedFileRecord {
	return &EnhancedFileRecord{
		ID:       e.ID,
		Name:     e.Name,
		Type:     e.Type,
		MimeType: e.MimeType,
		Size:     e.Size,
		Created:  e.Created,
		IsLocal:  false,
		Uploaded: true,
	}
}

// ThumbnailName returns the conventional thumbnail filename for a media
// file: the basename with its extension replaced by ".jpg". This filename
// convention is the only association between a thumbnail and its parent;
// there is no explicit foreign key.
func ThumbnailName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
}
