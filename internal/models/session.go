package models

import (
	"time"

	"github.com/google/uuid"
)

// Session represents a server-side login session. A row is created on login
// and consulted by the auth middleware; expired rows are purged by a cron job.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
