package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarpovich/mediavault/internal/common"
	"github.com/mkarpovich/mediavault/internal/logging"
	"github.com/mkarpovich/mediavault/internal/models"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()

	db, err := InitDatabase(context.Background(), filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewSQLiteStore(db, filepath.Join(dir, "cache"), logging.NewNop())
	require.NoError(t, err)
	return s
}

func audioMeta(name string) models.FileMetadata {
	return models.FileMetadata{
		Name:     name,
		Type:     models.MediaTypeAudio,
		MimeType: "audio/mp3",
		Size:     100,
		Duration: 5,
		Created:  1000,
	}
}

func TestInitDatabase_Reentrant(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "test.db")

	db1, err := InitDatabase(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	// second open re-runs migrations over an up-to-date schema
	db2, err := InitDatabase(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, db2.Close())
}

func TestSaveFile_GeneratesIDAndPersists(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	id, err := s.SaveFile(ctx, []byte("payload"), audioMeta("a.mp3"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	files, err := s.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)

	got := files[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "a.mp3", got.Name)
	assert.Equal(t, models.MediaTypeAudio, got.Type)
	assert.Equal(t, []byte("payload"), got.Content)

	require.NotEmpty(t, got.ContentPath, "ListFiles must derive a transient reference")
	b, err := os.ReadFile(got.ContentPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), b)
}

func TestSaveFile_KeepsProvidedID(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	meta := audioMeta("a.mp3")
	meta.ID = "fixed-1"

	id, err := s.SaveFile(ctx, []byte("x"), meta)
	require.NoError(t, err)
	assert.Equal(t, "fixed-1", id)
}

func TestSaveFile_DuplicateIDFails(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	meta := audioMeta("a.mp3")
	meta.ID = "dup"

	_, err := s.SaveFile(ctx, []byte("x"), meta)
	require.NoError(t, err)

	_, err = s.SaveFile(ctx, []byte("y"), meta)
	require.ErrorIs(t, err, common.ErrTransactionFailure)
}

func TestListFiles_FreshReferencePerCall(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.SaveFile(ctx, []byte("x"), audioMeta("a.mp3"))
	require.NoError(t, err)

	first, err := s.ListFiles(ctx)
	require.NoError(t, err)
	second, err := s.ListFiles(ctx)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0].ContentPath, second[0].ContentPath,
		"each call must allocate a new transient reference")
}

func TestListMetadata_OmitsContentAndCacheCopies(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	id, err := s.SaveFile(ctx, []byte("payload"), audioMeta("a.mp3"))
	require.NoError(t, err)

	files, err := s.ListMetadata(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)

	got := files[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "a.mp3", got.Name)
	assert.Equal(t, models.MediaTypeAudio, got.Type)
	assert.Equal(t, int64(100), got.Size)
	assert.Nil(t, got.Content)
	assert.Empty(t, got.ContentPath)

	entries, err := os.ReadDir(s.cacheDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "metadata listing must not touch the cache")
}

func TestDeleteFile_Idempotent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	id, err := s.SaveFile(ctx, []byte("x"), audioMeta("a.mp3"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteFile(ctx, id))
	require.NoError(t, s.DeleteFile(ctx, id), "second delete must succeed silently")
	require.NoError(t, s.DeleteFile(ctx, "never-existed"))

	files, err := s.ListFiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestUpdateFile_PartialUpdate(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	id, err := s.SaveFile(ctx, []byte("payload"), audioMeta("a.mp3"))
	require.NoError(t, err)

	name := "b.mp3"
	dur := 7.5
	require.NoError(t, s.UpdateFile(ctx, id, MetadataPatch{Name: &name, Duration: &dur}))

	got, err := s.GetFile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "b.mp3", got.Name)
	assert.Equal(t, 7.5, got.Duration)
	// untouched fields survive the read-modify-write
	assert.Equal(t, models.MediaTypeAudio, got.Type)
	assert.Equal(t, int64(100), got.Size)
	assert.Equal(t, []byte("payload"), got.Content, "content must never change on update")
	assert.Equal(t, id, got.ID)
}

func TestUpdateFile_NotFound(t *testing.T) {
	s := setupStore(t)

	name := "x"
	err := s.UpdateFile(context.Background(), "missing", MetadataPatch{Name: &name})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetFile_NotFound(t *testing.T) {
	s := setupStore(t)

	_, err := s.GetFile(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}
