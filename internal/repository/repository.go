package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/georgiana-ojoc/UserManagementAPI/internal/models"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a save violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository provides persistence for user records. Email and username
// lookups are case-insensitive.
type UserRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Save inserts the user when its ID is unset and updates it otherwise,
	// returning the persisted state.
	Save(ctx context.Context, user *models.User) (*models.User, error)
}

// SessionRepository provides persistence for login sessions.
type SessionRepository interface {
	Create(ctx context.Context, userID uuid.UUID, expiresAt time.Time) (*models.Session, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Session, error)
	DeleteExpired(ctx context.Context) (int64, error)
}
