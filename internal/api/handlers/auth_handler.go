package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/madatlas/madatlas-be/internal/auth"
	"github.com/madatlas/madatlas-be/internal/models"
	"github.com/madatlas/madatlas-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration, login and token lifecycle requests.
type AuthHandler struct {
	users  services.UserServiceProvider
	tokens *auth.TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(payload); err != nil {
		respondDetail(w, http.StatusBadRequest, validationDetail(err))
		return
	}

	user, err := h.users.Create(payload.Username, payload.Password, payload.Role)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			respondDetail(w, http.StatusBadRequest, "Username already registered")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register user")
		respondDetail(w, http.StatusInternalServerError, "Failed to create user account")
		return
	}

	log.Info().Str("username", user.Username).Msg("New user registered")
	respondJSON(w, http.StatusCreated, map[string]string{
		"message":  "User registered successfully",
		"username": user.Username,
	})
}

// Token handles form-encoded credential login and returns a bearer token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		respondDetail(w, http.StatusBadRequest, "Fields 'username' and 'password' are required")
		return
	}

	user, err := h.users.Authenticate(username, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			// The response body never says whether the username exists.
			log.Warn().Str("username", username).Msg("Failed login attempt")
			w.Header().Set("WWW-Authenticate", "Bearer")
			respondDetail(w, http.StatusUnauthorized, "Incorrect username or password")
			return
		}
		log.Error().Err(err).Str("username", username).Msg("Authentication lookup failed")
		respondDetail(w, http.StatusInternalServerError, "Authentication failed")
		return
	}

	log.Info().Str("username", user.Username).Msg("User logged in")
	h.issueToken(w, user)
}

// Me returns the authenticated user's account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user from request context")
		respondDetail(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Refresh issues a fresh token for the authenticated user. The previous token
// stays valid until it expires; there is no revocation list.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respondDetail(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	h.issueToken(w, user)
}

// Logout acknowledges a logout. Tokens are stateless, so the client simply
// discards its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if user, ok := auth.CurrentUser(r.Context()); ok {
		log.Info().Str("username", user.Username).Msg("User logged out")
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

// AdminOnly greets an admin; it exists to exercise the role gate.
func (h *AuthHandler) AdminOnly(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		respondDetail(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Hello admin %s!", user.Username),
	})
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, user models.User) {
	token, err := h.tokens.Issue(user.Username, user.Role)
	if err != nil {
		log.Error().Err(err).Str("username", user.Username).Msg("Failed to generate token")
		respondDetail(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}
