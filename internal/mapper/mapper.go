// Package mapper converts the user entity into its outward representations.
// Every projection enumerates its fields explicitly; none of them ever copies
// the password.
package mapper

import "github.com/georgiana-ojoc/UserManagementAPI/internal/models"

// ToRegisterOrUpdateResponse projects a user into the shape returned after
// registration or update.
func ToRegisterOrUpdateResponse(user *models.User) *models.RegisterOrUpdateResponse {
	return &models.RegisterOrUpdateResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// ToCurrentUserResponse projects a user into the current-user view. The email
// is intentionally left out.
func ToCurrentUserResponse(user *models.User) *models.GetCurrentUserResponse {
	return &models.GetCurrentUserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// ToShortProfileResponse projects a user into the public profile view.
func ToShortProfileResponse(user *models.User) *models.GetShortProfileResponse {
	return &models.GetShortProfileResponse{
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// ToLongProfileResponse projects a user into the private profile view shown
// to the profile's owner.
func ToLongProfileResponse(user *models.User) *models.GetLongProfileResponse {
	return &models.GetLongProfileResponse{
		GetShortProfileResponse: *ToShortProfileResponse(user),
		Email:                   user.Email,
	}
}
