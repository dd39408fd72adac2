package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarpovich/mediavault/internal/common"
	"github.com/mkarpovich/mediavault/internal/logging"
	"github.com/mkarpovich/mediavault/internal/models"
	"github.com/mkarpovich/mediavault/internal/remote"
	"github.com/mkarpovich/mediavault/internal/store"
)

type fakeRemote struct {
	entries  []*models.RemoteEntry
	listErr  error
	uploaded []string
	kinds    []remote.ContentKind
}

func (f *fakeRemote) Upload(ctx context.Context, content []byte, name string, kind remote.ContentKind, onProgress remote.ProgressFunc) error {
	f.uploaded = append(f.uploaded, name)
	f.kinds = append(f.kinds, kind)
	return nil
}

func (f *fakeRemote) ListFiles(ctx context.Context) ([]*models.RemoteEntry, error) {
	return f.entries, f.listErr
}

func setupService(t *testing.T, rc Remote) (LibraryService, store.Store) {
	t.Helper()
	dir := t.TempDir()

	db, err := store.InitDatabase(context.Background(), filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	st, err := store.NewSQLiteStore(db, filepath.Join(dir, "cache"), logging.NewNop())
	require.NoError(t, err)

	return NewLibraryService(st, rc, logging.NewNop()), st
}

func saveAudio(t *testing.T, st store.Store, id, name string) {
	t.Helper()
	_, err := st.SaveFile(context.Background(), []byte("x"), models.FileMetadata{
		ID: id, Name: name, Type: models.MediaTypeAudio, MimeType: "audio/mp3", Size: 1, Created: 100,
	})
	require.NoError(t, err)
}

func TestList_MergesLocalAndRemote(t *testing.T) {
	rc := &fakeRemote{entries: []*models.RemoteEntry{
		{ID: "r1", Name: "remote.mp3", Type: models.MediaTypeAudio},
	}}
	svc, st := setupService(t, rc)
	saveAudio(t, st, "l1", "local.mp3")

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestList_DegradesWhenRemoteFails(t *testing.T) {
	rc := &fakeRemote{listErr: errors.New("offline")}
	svc, st := setupService(t, rc)
	saveAudio(t, st, "l1", "local.mp3")

	got, err := svc.List(context.Background())
	require.NoError(t, err, "remote failure must not break the local library")
	require.Len(t, got, 1)
	assert.Equal(t, "l1", got[0].ID)
}

func TestImport_InfersMetadata(t *testing.T) {
	svc, st := setupService(t, &fakeRemote{})

	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))

	id, err := svc.Import(context.Background(), path, models.FileMetadata{})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, err := st.GetFile(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "clip.mp4", rec.Name)
	assert.Equal(t, models.MediaTypeVideo, rec.Type)
	assert.Equal(t, int64(7), rec.Size)
	assert.NotZero(t, rec.Created)
}

func TestDelete_CascadesToThumbnail(t *testing.T) {
	svc, st := setupService(t, &fakeRemote{})
	ctx := context.Background()

	saveAudio(t, st, "audio-1", "song.mp3")
	_, err := st.SaveFile(ctx, []byte("t"), models.FileMetadata{
		ID: "thumb-1", Name: "song.jpg", Type: models.MediaTypeThumbnail, MimeType: "image/jpeg", Size: 1, Created: 100,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "audio-1"))

	files, err := st.ListFiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, files, "both the record and its thumbnail must be gone")
}

func TestDelete_DoesNotMaterializeContent(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")

	db, err := store.InitDatabase(context.Background(), filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	st, err := store.NewSQLiteStore(db, cacheDir, logging.NewNop())
	require.NoError(t, err)
	svc := NewLibraryService(st, &fakeRemote{}, logging.NewNop())

	saveAudio(t, st, "a1", "song.mp3")
	require.NoError(t, svc.Delete(context.Background(), "a1"))

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "delete must not write cache copies")
}

func TestDelete_UnknownIDSucceeds(t *testing.T) {
	svc, _ := setupService(t, &fakeRemote{})
	require.NoError(t, svc.Delete(context.Background(), "ghost"))
}

func TestBackup_RoutesByType(t *testing.T) {
	rc := &fakeRemote{}
	svc, st := setupService(t, rc)
	ctx := context.Background()

	saveAudio(t, st, "a1", "song.mp3")
	_, err := st.SaveFile(ctx, []byte("t"), models.FileMetadata{
		ID: "t1", Name: "song.jpg", Type: models.MediaTypeThumbnail, MimeType: "image/jpeg", Size: 1, Created: 100,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Backup(ctx, "a1", nil))
	require.NoError(t, svc.Backup(ctx, "t1", nil))

	require.Equal(t, []string{"song.mp3", "song.jpg"}, rc.uploaded)
	assert.Equal(t, []remote.ContentKind{remote.KindMedia, remote.KindThumbnail}, rc.kinds)
}

func TestBackup_MissingRecord(t *testing.T) {
	svc, _ := setupService(t, &fakeRemote{})

	err := svc.Backup(context.Background(), "missing", nil)
	require.ErrorIs(t, err, common.ErrNotFound)
}
