// Package store implements the local blob+metadata store: an asynchronous,
// transactional key-value store over SQLite, keyed by record id. Each call
// is individually atomic; the engine serializes transactions, so callers
// only need to sequence dependent calls.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mkarpovich/mediavault/internal/common"
	"github.com/mkarpovich/mediavault/internal/dbx"
	"github.com/mkarpovich/mediavault/internal/filex"
	"github.com/mkarpovich/mediavault/internal/logging"
	"github.com/mkarpovich/mediavault/internal/models"
)

// Store describes the local media store operations.
type Store interface {
	// SaveFile persists content together with its metadata in one atomic
	// write and returns the record id (generated when meta.ID is empty).
	SaveFile(ctx context.Context, content []byte, meta models.FileMetadata) (string, error)

	// ListFiles returns every record. For each record a fresh transient
	// copy of the content is materialized on disk and referenced via
	// ContentPath; these files are caller-owned.
	ListFiles(ctx context.Context) ([]*models.FileRecord, error)

	// ListMetadata returns every record without its content. Nothing is
	// written to the cache directory; ContentPath stays empty.
	ListMetadata(ctx context.Context) ([]*models.FileRecord, error)

	// GetFile returns one record with its content.
	// Returns common.ErrNotFound when the id is absent.
	GetFile(ctx context.Context, id string) (*models.FileRecord, error)

	// DeleteFile removes a record. Idempotent: deleting an absent id
	// succeeds silently, so cascading deletes may race direct deletes.
	DeleteFile(ctx context.Context, id string) error

	// UpdateFile applies a partial metadata update. The stored id and
	// content are never touched. Returns common.ErrNotFound when absent.
	UpdateFile(ctx context.Context, id string, patch MetadataPatch) error
}

// MetadataPatch is a partial metadata update: nil fields are left unchanged.
// The record id and binary content are deliberately not part of the patch;
// metadata fields are the only mutable surface of a record.
type MetadataPatch struct {
	Name     *string
	Type     *models.MediaType
	MimeType *string
	Size     *int64
	Duration *float64
	Created  *int64
}

// SQLiteStore is the SQLite-backed Store implementation.
type SQLiteStore struct {
	db       *sql.DB
	cacheDir string
	log      logging.Logger
}

// NewSQLiteStore wires a store over an already-initialized database handle
// (see InitDatabase). cacheDir holds the transient materialized copies
// produced by ListFiles and is created if missing.
func NewSQLiteStore(db *sql.DB, cacheDir string, log logging.Logger) (*SQLiteStore, error) {
	dir, err := filex.EnsureDir(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}
	return &SQLiteStore{db: db, cacheDir: dir, log: log}, nil
}

// newID generates a record id as <unix-millis>-<random>: monotonically
// informative but not strictly ordered.
func newID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

func (s *SQLiteStore) SaveFile(ctx context.Context, content []byte, meta models.FileMetadata) (string, error) {
	id := meta.ID
	if id == "" {
		id = newID()
	}

	query := `INSERT INTO files (id, name, type, mime_type, size, duration, created, content)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		id, meta.Name, string(meta.Type), meta.MimeType, meta.Size, meta.Duration, meta.Created, content)
	if err != nil {
		return "", fmt.Errorf("%w: failed to insert file: %w", common.ErrTransactionFailure, err)
	}

	s.log.Debug(ctx, "file saved", "id", id, "name", meta.Name, "size", meta.Size)
	return id, nil
}

func (s *SQLiteStore) ListFiles(ctx context.Context) ([]*models.FileRecord, error) {

	query := `SELECT id, name, type, mime_type, size, duration, created, content FROM files`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: error selecting files: %w", common.ErrTransactionFailure, err)
	}
	defer rows.Close()

	var result []*models.FileRecord

	for rows.Next() {
		item := &models.FileRecord{}
		var typ string
		err := rows.Scan(&item.ID, &item.Name, &typ, &item.MimeType, &item.Size, &item.Duration, &item.Created, &item.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrTransactionFailure, err)
		}
		item.Type = models.MediaType(typ)

		path, err := s.materialize(item)
		if err != nil {
			return nil, err
		}
		item.ContentPath = path

		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrTransactionFailure, err)
	}

	return result, nil
}

func (s *SQLiteStore) ListMetadata(ctx context.Context) ([]*models.FileRecord, error) {

	query := `SELECT id, name, type, mime_type, size, duration, created FROM files`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: error selecting files: %w", common.ErrTransactionFailure, err)
	}
	defer rows.Close()

	var result []*models.FileRecord

	for rows.Next() {
		item := &models.FileRecord{}
		var typ string
		err := rows.Scan(&item.ID, &item.Name, &typ, &item.MimeType, &item.Size, &item.Duration, &item.Created)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrTransactionFailure, err)
		}
		item.Type = models.MediaType(typ)

		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrTransactionFailure, err)
	}

	return result, nil
}

// materialize writes a transient copy of the record content into the cache
// directory. A new file is produced on every call; the caller owns cleanup.
func (s *SQLiteStore) materialize(r *models.FileRecord) (string, error) {
	pattern := r.ID + "-*" + filepath.Ext(r.Name)
	path, err := filex.WriteTemp(s.cacheDir, pattern, r.Content)
	if err != nil {
		return "", fmt.Errorf("materialize %s: %w", r.ID, err)
	}
	return path, nil
}

func (s *SQLiteStore) GetFile(ctx context.Context, id string) (*models.FileRecord, error) {

	query := `SELECT id, name, type, mime_type, size, duration, created, content FROM files WHERE id = ?`
	row := s.db.QueryRowContext(ctx, query, id)

	item := &models.FileRecord{}
	var typ string
	err := row.Scan(&item.ID, &item.Name, &typ, &item.MimeType, &item.Size, &item.Duration, &item.Created, &item.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("file %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrTransactionFailure, err)
	}
	item.Type = models.MediaType(typ)

	return item, nil
}

func (s *SQLiteStore) DeleteFile(ctx context.Context, id string) error {

	// No rows-affected check: deleting an already-absent record is a
	// success, which keeps cascading deletes safe under races.
	_, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: failed to delete file: %w", common.ErrTransactionFailure, err)
	}

	s.log.Debug(ctx, "file deleted", "id", id)
	return nil
}

func (s *SQLiteStore) UpdateFile(ctx context.Context, id string, patch MetadataPatch) error {

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		row := tx.QueryRowContext(ctx,
			`SELECT name, type, mime_type, size, duration, created FROM files WHERE id = ?`, id)

		var cur models.FileMetadata
		var typ string
		err := row.Scan(&cur.Name, &typ, &cur.MimeType, &cur.Size, &cur.Duration, &cur.Created)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("file %s: %w", id, common.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("%w: %w", common.ErrTransactionFailure, err)
		}
		cur.Type = models.MediaType(typ)

		if patch.Name != nil {
			cur.Name = *patch.Name
		}
		if patch.Type != nil {
			cur.Type = *patch.Type
		}
		if patch.MimeType != nil {
			cur.MimeType = *patch.MimeType
		}
		if patch.Size != nil {
			cur.Size = *patch.Size
		}
		if patch.Duration != nil {
			cur.Duration = *patch.Duration
		}
		if patch.Created != nil {
			cur.Created = *patch.Created
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE files SET name = ?, type = ?, mime_type = ?, size = ?, duration = ?, created = ? WHERE id = ?`,
			cur.Name, string(cur.Type), cur.MimeType, cur.Size, cur.Duration, cur.Created, id)
		if err != nil {
			return fmt.Errorf("%w: failed to update file: %w", common.ErrTransactionFailure, err)
		}

		return nil
	})
}
