package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite upload store instance.
// If logger is nil, logging is discarded.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// NewSQLiteStoreWithDB wraps an already opened database. The caller is
// responsible for running migrations.
func NewSQLiteStoreWithDB(db *sql.DB, logger *slog.Logger) *SQLiteStore {
	s := NewSQLiteStore(logger)
	s.db = db
	return s
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	if path == "" {
		path = MemoryPath
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if path == MemoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("upload store opened", "path", path)
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveUpload stores an upload, filling in ID and CreatedAt when empty.
func (s *SQLiteStore) SaveUpload(ctx context.Context, upload *Upload) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if upload.ID == "" {
		upload.ID = uuid.New().String()
	}
	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO uploads (id, session_id, filename, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		upload.ID, upload.SessionID, upload.Filename, upload.Content, upload.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save upload: %w", err)
	}

	s.logger.Debug("upload saved", "session", upload.SessionID, "file", upload.Filename, "bytes", len(upload.Content))
	return nil
}

// LatestUpload returns the newest upload of a session, or ErrNotFound.
func (s *SQLiteStore) LatestUpload(ctx context.Context, sessionID string) (*Upload, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	u := &Upload{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, filename, content, created_at FROM uploads
		 WHERE session_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		sessionID,
	).Scan(&u.ID, &u.SessionID, &u.Filename, &u.Content, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}
	return u, nil
}

// DeleteSession removes every upload of a session.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM uploads WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session uploads: %w", err)
	}
	return nil
}

// Prune deletes uploads created before olderThan and returns how many were removed.
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM uploads WHERE created_at < ?`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune uploads: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Debug("pruned uploads", "count", n)
	}
	return n, nil
}
