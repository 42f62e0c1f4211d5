package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/georgiana-ojoc/UserManagementAPI/internal/models"
)

const uniqueViolation = "23505"

// PostgresUserRepository provides user persistence over PostgreSQL.
type PostgresUserRepository struct {
	db *sql.DB
}

// NewPostgresUserRepository initializes a new user repository.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// ExistsByEmail reports whether a user with the given email exists,
// compared case-insensitively.
func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// ExistsByUsername reports whether a user with the given username exists,
// compared case-insensitively.
func (r *PostgresUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE lower(username) = lower($1))`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, username, first_name, last_name, password, created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1)`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByUsername retrieves a user by username, case-insensitively.
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, email, username, first_name, last_name, password, created_at, updated_at
		FROM users
		WHERE lower(username) = lower($1)`
	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

// Save inserts the user when its ID is unset and updates it otherwise. A
// unique-constraint violation is reported as ErrDuplicate so a concurrent
// duplicate write still fails after the service-level pre-check passed.
func (r *PostgresUserRepository) Save(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == uuid.Nil {
		return r.insert(ctx, user)
	}
	return r.update(ctx, user)
}

func (r *PostgresUserRepository) insert(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, email, username, first_name, last_name, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	saved := *user
	err := r.db.QueryRowContext(ctx, query, uuid.New(), user.Email, user.Username,
		user.FirstName, user.LastName, user.Password).
		Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return nil, wrapSaveError(err, "failed to create user")
	}
	return &saved, nil
}

func (r *PostgresUserRepository) update(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		UPDATE users
		SET email = $2, username = $3, first_name = $4, last_name = $5, password = $6,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING created_at, updated_at`
	saved := *user
	err := r.db.QueryRowContext(ctx, query, user.ID, user.Email, user.Username,
		user.FirstName, user.LastName, user.Password).
		Scan(&saved.CreatedAt, &saved.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapSaveError(err, "failed to update user")
	}
	return &saved, nil
}

func (r *PostgresUserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.FirstName,
		&user.LastName, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func wrapSaveError(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return fmt.Errorf("%s: %w", msg, err)
}
