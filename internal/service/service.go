package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/georgiana-ojoc/UserManagementAPI/internal/mapper"
	"github.com/georgiana-ojoc/UserManagementAPI/internal/models"
	"github.com/georgiana-ojoc/UserManagementAPI/internal/notify"
	"github.com/georgiana-ojoc/UserManagementAPI/internal/repository"
	"github.com/georgiana-ojoc/UserManagementAPI/internal/security"
)

// Service handles user business logic: registration, login, current-user
// retrieval, profile visibility and profile update. Collaborators are
// injected so tests can substitute fakes.
type Service struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	hasher   security.PasswordHasher
	notifier notify.Notifier
	log      *logrus.Logger

	jwtSecret  []byte
	sessionTTL time.Duration
}

// NewService initializes a new service.
func NewService(users repository.UserRepository, sessions repository.SessionRepository,
	hasher security.PasswordHasher, notifier notify.Notifier, log *logrus.Logger,
	jwtSecret string, sessionTTL time.Duration) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		hasher:     hasher,
		notifier:   notifier,
		log:        log,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
	}
}

func (s *Service) checkEmail(ctx context.Context, email string) error {
	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return &FieldAlreadyUsedError{Field: "email", Value: email}
	}
	return nil
}

func (s *Service) checkUsername(ctx context.Context, username string) error {
	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return &FieldAlreadyUsedError{Field: "username", Value: username}
	}
	return nil
}

// attributeDuplicate turns a unique-violation raised by the store into a
// FieldAlreadyUsedError for whichever field actually collided. The store is
// the final authority on uniqueness; the pre-checks are only a fast path.
func (s *Service) attributeDuplicate(ctx context.Context, email, username string) error {
	if taken, err := s.users.ExistsByEmail(ctx, email); err == nil && taken {
		return &FieldAlreadyUsedError{Field: "email", Value: email}
	}
	return &FieldAlreadyUsedError{Field: "username", Value: username}
}

// Register creates a new user. The email is checked first, then the
// username; the password is stored only as a hash.
func (s *Service) Register(ctx context.Context, request *models.RegisterOrUpdateRequest) (*models.RegisterOrUpdateResponse, error) {
	s.log.Infof("Registering user: %s", request.Username)

	if err := s.checkEmail(ctx, request.Email); err != nil {
		return nil, err
	}
	if err := s.checkUsername(ctx, request.Username); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(request.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     request.Email,
		Username:  request.Username,
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Password:  hashed,
	}
	saved, err := s.users.Save(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, s.attributeDuplicate(ctx, request.Email, request.Username)
		}
		return nil, err
	}

	// Best effort: a failed welcome email never fails the registration.
	if err := s.notifier.SendWelcome(saved.Email, saved.FirstName); err != nil {
		s.log.Errorf("Failed to send welcome email to %s: %v", saved.Email, err)
	}

	s.log.Infof("Registered user: %s", saved.Username)
	return mapper.ToRegisterOrUpdateResponse(saved), nil
}

// Login verifies the credentials, records a session and returns a signed
// bearer token. An unknown email and a wrong password fail identically.
func (s *Service) Login(ctx context.Context, request *models.LoginRequest) (*models.LoginResponse, error) {
	s.log.Infof("Logging in user: %s", request.Email)

	user, err := s.users.GetByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIncorrectCredentials
		}
		return nil, err
	}
	if !s.hasher.Check(user.Password, request.Password) {
		return nil, ErrIncorrectCredentials
	}

	session, err := s.sessions.Create(ctx, user.ID, time.Now().Add(s.sessionTTL))
	if err != nil {
		return nil, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.Email,
		ID:        session.ID.String(),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("Logged in user: %s", user.Username)
	return &models.LoginResponse{Token: signed, ExpiresIn: int64(s.sessionTTL.Seconds())}, nil
}

// GetCurrentUser returns the current-user view of the account behind the
// authenticated principal's email.
func (s *Service) GetCurrentUser(ctx context.Context, principalEmail string) (*models.GetCurrentUserResponse, error) {
	s.log.Infof("Getting current user: %s", principalEmail)

	user, err := s.users.GetByEmail(ctx, principalEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &UserNotFoundError{ID: principalEmail}
		}
		return nil, err
	}
	return mapper.ToCurrentUserResponse(user), nil
}

// GetProfile returns the profile of the named user: the long view when the
// principal owns the account, the short view otherwise. Ownership is decided
// by case-insensitive email equality against the record found by username.
func (s *Service) GetProfile(ctx context.Context, principalEmail, username string) (any, error) {
	s.log.Infof("Getting profile: %s", username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &UserNotFoundError{ID: username}
		}
		return nil, err
	}
	if strings.EqualFold(principalEmail, user.Email) {
		return mapper.ToLongProfileResponse(user), nil
	}
	return mapper.ToShortProfileResponse(user), nil
}

// Update overwrites the named user's mutable fields from the request.
// Uniqueness is re-checked only for a changed email or username. The
// password is re-hashed before storage, matching registration.
func (s *Service) Update(ctx context.Context, username string, request *models.RegisterOrUpdateRequest) (*models.RegisterOrUpdateResponse, error) {
	s.log.Infof("Updating user: %s", username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &UserNotFoundError{ID: username}
		}
		return nil, err
	}

	if request.Email != user.Email {
		if err := s.checkEmail(ctx, request.Email); err != nil {
			return nil, err
		}
	}
	if request.Username != user.Username {
		if err := s.checkUsername(ctx, request.Username); err != nil {
			return nil, err
		}
	}

	hashed, err := s.hasher.Hash(request.Password)
	if err != nil {
		return nil, err
	}

	user.Email = request.Email
	user.Username = request.Username
	user.FirstName = request.FirstName
	user.LastName = request.LastName
	user.Password = hashed

	saved, err := s.users.Save(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, s.attributeDuplicate(ctx, request.Email, request.Username)
		}
		return nil, err
	}

	s.log.Infof("Updated user: %s", saved.Username)
	return mapper.ToRegisterOrUpdateResponse(saved), nil
}

// PurgeExpiredSessions removes sessions past their expiry. It is run on a
// schedule from main.
func (s *Service) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	deleted, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.log.Infof("Purged %d expired sessions", deleted)
	}
	return deleted, nil
}
