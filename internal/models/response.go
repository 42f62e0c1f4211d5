package models

import "github.com/google/uuid"

// RegisterOrUpdateResponse is returned after a successful registration or
// profile update. It never carries the password.
type RegisterOrUpdateResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// GetCurrentUserResponse identifies the authenticated user. The email is
// deliberately excluded from this view.
type GetCurrentUserResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// GetShortProfileResponse is the public view of another user's profile.
type GetShortProfileResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// GetLongProfileResponse is the private view a user gets of their own
// profile: the public subset plus the email.
type GetLongProfileResponse struct {
	GetShortProfileResponse
	Email string `json:"email"`
}

// LoginResponse carries the bearer token issued on successful login.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}
