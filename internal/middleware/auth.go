// Package middleware provides HTTP middleware for the API. The auth
// middleware resolves the authenticated principal and hands its email to the
// handlers through the request context; nothing below the transport layer
// ever reads global state.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/georgiana-ojoc/UserManagementAPI/internal/config"
	"github.com/georgiana-ojoc/UserManagementAPI/internal/repository"
)

type contextKey string

const principalKey contextKey = "principalEmail"

// PrincipalEmail returns the authenticated principal's email placed into the
// context by the auth middleware, or an empty string when absent.
func PrincipalEmail(ctx context.Context) string {
	email, _ := ctx.Value(principalKey).(string)
	return email
}

// WithPrincipal returns a copy of ctx carrying the principal's email.
func WithPrincipal(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, principalKey, email)
}

// Auth validates the bearer token and the session behind it. The token must
// be a valid HS256 JWT and its session row must still exist and be unexpired,
// so a purged session invalidates the token server-side.
func Auth(cfg *config.Config, sessions repository.SessionRepository, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "Authorization required", http.StatusUnauthorized)
				return
			}

			claims := &jwt.RegisteredClaims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || !parsed.Valid || claims.Subject == "" {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			sessionID, err := uuid.Parse(claims.ID)
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
			session, err := sessions.Get(r.Context(), sessionID)
			if err != nil {
				if !errors.Is(err, repository.ErrNotFound) {
					log.Errorf("Failed to load session %s: %v", sessionID, err)
				}
				http.Error(w, "Session expired", http.StatusUnauthorized)
				return
			}
			if session.ExpiresAt.Before(time.Now()) {
				http.Error(w, "Session expired", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), claims.Subject)))
		})
	}
}
