package core

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("not found")

// Upload is a schedule file uploaded from a browser session.
type Upload struct {
	ID        string
	SessionID string
	Filename  string
	Content   []byte
	CreatedAt time.Time
}

// UploadStore keeps the most recent schedule of each browser session.
type UploadStore interface {
	Open(path string) error
	Close() error
	Migrate() error

	SaveUpload(ctx context.Context, upload *Upload) error
	LatestUpload(ctx context.Context, sessionID string) (*Upload, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Prune(ctx context.Context, olderThan time.Time) (int64, error)
}
