package service

import (
	"errors"
	"fmt"
)

// ErrIncorrectCredentials is returned on any login failure. The message is
// deliberately identical for an unknown email and a wrong password so the
// response cannot be used to enumerate accounts.
var ErrIncorrectCredentials = errors.New("Incorrect credentials.")

// FieldAlreadyUsedError reports that a unique field (email or username) is
// already taken by another account.
type FieldAlreadyUsedError struct {
	Field string
	Value string
}

func (e *FieldAlreadyUsedError) Error() string {
	return fmt.Sprintf("The %s: '%s' was already used.", e.Field, e.Value)
}

// UserNotFoundError reports that no account matches the requested email or
// username.
type UserNotFoundError struct {
	ID string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("The user: '%s' was not found.", e.ID)
}
