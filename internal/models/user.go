package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user account. Password always holds a bcrypt hash, never
// plaintext, and is excluded from serialization.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Password  string    `json:"-"` // Not serialized
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
