package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSessionRepo(t *testing.T) (*PostgresSessionRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresSessionRepository(db), mock
}

func TestSessionCreate(t *testing.T) {
	repo, mock := newMockSessionRepo(t)
	userID := uuid.New()
	sessionID := uuid.New()
	now := time.Now()
	expires := now.Add(time.Hour)

	mock.ExpectQuery(`INSERT INTO sessions`).
		WithArgs(sqlmock.AnyArg(), userID, expires).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at", "expires_at"}).
			AddRow(sessionID, userID, now, expires))

	session, err := repo.Create(context.Background(), userID, expires)
	require.NoError(t, err)
	assert.Equal(t, sessionID, session.ID)
	assert.Equal(t, userID, session.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionGetNotFound(t *testing.T) {
	repo, mock := newMockSessionRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT id, user_id, created_at, expires_at\s+FROM sessions`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at", "expires_at"}))

	_, err := repo.Get(context.Background(), id)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionDeleteExpired(t *testing.T) {
	repo, mock := newMockSessionRepo(t)

	mock.ExpectExec(`DELETE FROM sessions WHERE expires_at < CURRENT_TIMESTAMP`).
		WillReturnResult(sqlmock.NewResult(0, 4))

	deleted, err := repo.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}
