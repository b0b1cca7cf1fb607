package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"webcarros-backend/internal/middleware"
	"webcarros-backend/internal/models"
	"webcarros-backend/internal/services"
	"webcarros-backend/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles account and session HTTP requests
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validate,
	}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse carries the account and its token
type SessionResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondFieldErrors(w, validation.Messages(err))
		return
	}

	user, token, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailInUse) {
			respondError(w, err.Error(), http.StatusConflict)
			return
		}
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to register user")
		respondError(w, "Failed to register", http.StatusInternalServerError)
		return
	}

	log.Info().Str("user_id", user.ID.String()).Msg("User registered")

	respondJSON(w, http.StatusCreated, SessionResponse{User: user, Token: token})
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondFieldErrors(w, validation.Messages(err))
		return
	}

	user, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(w, err.Error(), http.StatusUnauthorized)
			return
		}
		log.Error().Err(err).Msg("Failed to log in")
		respondError(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	log.Info().Str("user_id", user.ID.String()).Msg("User logged in")

	respondJSON(w, http.StatusOK, SessionResponse{User: user, Token: token})
}

// Logout handles POST /v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	if err := h.authService.Logout(middleware.GetToken(ctx)); err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to log out")
		respondError(w, "Failed to log out", http.StatusInternalServerError)
		return
	}

	log.Info().Str("user_id", user.ID.String()).Msg("User logged out")

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, middleware.GetUser(r.Context()))
}
