package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/gorilla/mux"

	"github.com/georgiana-ojoc/UserManagementAPI/internal/middleware"
	"github.com/georgiana-ojoc/UserManagementAPI/internal/models"
	"github.com/georgiana-ojoc/UserManagementAPI/internal/service"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var request models.RegisterOrUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if msg := validateRegisterOrUpdate(&request); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	response, err := h.svc.Register(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, response)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var request models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if request.Email == "" || request.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	response, err := h.svc.Login(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// GetCurrentUser returns the view of the authenticated user's own account
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalEmail(r.Context())

	response, err := h.svc.GetCurrentUser(r.Context(), principal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// GetProfile returns the long or short profile of the named user depending
// on whether the caller owns it
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalEmail(r.Context())
	username := mux.Vars(r)["username"]

	response, err := h.svc.GetProfile(r.Context(), principal, username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// Update overwrites the named user's profile
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	var request models.RegisterOrUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if msg := validateRegisterOrUpdate(&request); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	response, err := h.svc.Update(r.Context(), username, &request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func validateRegisterOrUpdate(request *models.RegisterOrUpdateRequest) string {
	switch {
	case request.Email == "":
		return "Email is required"
	case request.Username == "":
		return "Username is required"
	case request.Password == "":
		return "Password is required"
	case request.FirstName == "":
		return "First name is required"
	case request.LastName == "":
		return "Last name is required"
	}
	if _, err := mail.ParseAddress(request.Email); err != nil {
		return "Invalid email address"
	}
	if len(request.Password) < 6 {
		return "Password must be at least 6 characters"
	}
	return ""
}

// writeError maps service errors to HTTP status codes. Everything not typed
// by the service is an internal error.
func writeError(w http.ResponseWriter, err error) {
	var fieldUsed *service.FieldAlreadyUsedError
	var notFound *service.UserNotFoundError
	switch {
	case errors.As(err, &fieldUsed):
		http.Error(w, fieldUsed.Error(), http.StatusConflict)
	case errors.As(err, &notFound):
		http.Error(w, notFound.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrIncorrectCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
