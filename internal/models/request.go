package models

// RegisterOrUpdateRequest carries the full set of mutable user fields. The
// same shape is used for registration and profile update.
type RegisterOrUpdateRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
