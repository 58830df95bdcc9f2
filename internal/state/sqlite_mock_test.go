package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapgantt/internal/testutil"
)

func newMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStoreWithDB(db, testutil.NewTestLogger(t)), mock
}

func TestSQLiteStore_ErrorsAreWrapped(t *testing.T) {
	boom := errors.New("disk I/O error")
	ctx := context.Background()

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		call    func(s *SQLiteStore) error
		wantMsg string
	}{
		{
			name: "save",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO uploads").WillReturnError(boom)
			},
			call: func(s *SQLiteStore) error {
				return s.SaveUpload(ctx, &Upload{SessionID: "s1", Filename: "plan.csv"})
			},
			wantMsg: "failed to save upload",
		},
		{
			name: "latest",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT id, session_id").WithArgs("s1").WillReturnError(boom)
			},
			call: func(s *SQLiteStore) error {
				_, err := s.LatestUpload(ctx, "s1")
				return err
			},
			wantMsg: "failed to get upload",
		},
		{
			name: "delete",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM uploads WHERE session_id").WithArgs("s1").WillReturnError(boom)
			},
			call: func(s *SQLiteStore) error {
				return s.DeleteSession(ctx, "s1")
			},
			wantMsg: "failed to delete session uploads",
		},
		{
			name: "prune",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DELETE FROM uploads WHERE created_at").WillReturnError(boom)
			},
			call: func(s *SQLiteStore) error {
				_, err := s.Prune(ctx, time.Now())
				return err
			},
			wantMsg: "failed to prune uploads",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			tt.setup(mock)

			err := tt.call(s)
			require.Error(t, err)
			assert.ErrorIs(t, err, boom)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLiteStore_PruneReportsRowsAffected(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("DELETE FROM uploads WHERE created_at").WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := s.Prune(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_LatestUploadNotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT id, session_id").
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "filename", "content", "created_at"}))

	_, err := s.LatestUpload(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
