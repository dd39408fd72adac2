// Package reconcile merges the local store view with a remote listing into
// one deduplicated, sorted library view, and computes cascading-delete sets.
//
// All functions are pure and synchronous: they allocate and return, hold no
// shared state and never block.
package reconcile

import (
	"log/slog"

	"github.com/mkarpovich/mediavault/internal/models"
)

// CombineAndDeduplicateFiles merges local records with a remote listing.
//
// Local records win outright over remote entries that collide on name or id:
// the remote entry is dropped from the view entirely, not merged field by
// field. Thumbnails are local-only display artifacts and are excluded from
// the merged view. The result is defensively deduplicated by id and ordered
// newest-first by the date comparator.
func CombineAndDeduplicateFiles(local []*models.FileRecord, remote []*models.RemoteEntry) []*models.EnhancedFileRecord {

	combined := make([]*models.EnhancedFileRecord, 0, len(local)+len(remote))

	localNames := make(map[string]struct{}, len(local))
	localIDs := make(map[string]struct{}, len(local))

	for _, r := range local {
		if !r.Type.IsPlayable() {
			continue
		}
		combined = append(combined, models.EnhanceLocal(r))
		localNames[r.Name] = struct{}{}
		localIDs[r.ID] = struct{}{}
	}

	for _, e := range remote {
		if _, ok := localNames[e.Name]; ok {
			continue
		}
		if _, ok := localIDs[e.ID]; ok {
			continue
		}
		combined = append(combined, models.EnhanceRemote(e))
	}

	combined = DeduplicateByID(combined)
	SortFilesByDate(combined)

	return combined
}

// DeduplicateByID drops repeated ids in a single forward pass, keeping the
// first occurrence and preserving order. Producers should already guarantee
// uniqueness; a drop here indicates a bug upstream, so each one is logged.
func DeduplicateByID(items []*models.EnhancedFileRecord) []*models.EnhancedFileRecord {

	seen := make(map[string]struct{}, len(items))
	result := make([]*models.EnhancedFileRecord, 0, len(items))

	for _, it := range items {
		if _, ok := seen[it.ID]; ok {
			slog.Warn("duplicate id dropped from library view", "id", it.ID)
			continue
		}
		seen[it.ID] = struct{}{}
		result = append(result, it)
	}

	return result
}

// FindFilesToRemove computes the cascading-delete set for one record: the
// record itself plus, for audio/video, the thumbnail associated by filename
// convention. Matched records come back thumbnail-before-main in cleanup so
// derived artifacts are removed first.
//
// An unknown id still yields itself in filesToRemove: the store's delete is
// idempotent, so the caller may attempt the direct delete regardless.
func FindFilesToRemove(local []*models.FileRecord, id string) (filesToRemove []string, cleanup []*models.FileRecord) {

	var target *models.FileRecord
	for _, r := range local {
		if r.ID == id {
			target = r
			break
		}
	}

	if target == nil {
		return []string{id}, nil
	}

	filesToRemove = []string{target.ID}
	cleanup = []*models.FileRecord{target}

	if !target.Type.IsPlayable() {
		return filesToRemove, cleanup
	}

	thumbName := models.ThumbnailName(target.Name)
	for _, r := range local {
		if r.Type == models.MediaTypeThumbnail && r.Name == thumbName {
			filesToRemove = append([]string{r.ID}, filesToRemove...)
			cleanup = append([]*models.FileRecord{r}, cleanup...)
			break
		}
	}

	return filesToRemove, cleanup
}
