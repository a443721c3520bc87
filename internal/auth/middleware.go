package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/madatlas/madatlas-be/internal/models"
	"github.com/madatlas/madatlas-be/internal/services"
	"github.com/rs/zerolog/log"
)

type contextKey string

const userContextKey = contextKey("currentUser")

// Middleware authenticates requests and enforces role requirements. A token
// is accepted only when its subject still resolves to a user row.
type Middleware struct {
	users  services.UserServiceProvider
	tokens *TokenService
}

// NewMiddleware creates an auth Middleware.
func NewMiddleware(users services.UserServiceProvider, tokens *TokenService) *Middleware {
	return &Middleware{users: users, tokens: tokens}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved user in the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := bearerToken(r)
		if tokenStr == "" {
			unauthorized(w, "Not authenticated")
			return
		}

		claims, err := m.tokens.Verify(tokenStr)
		if err != nil {
			log.Warn().Err(err).Msg("Rejected invalid bearer token")
			unauthorized(w, "Invalid authentication credentials")
			return
		}

		user, err := m.users.FindByUsername(claims.Subject)
		if err != nil {
			log.Warn().Str("username", claims.Subject).Msg("Token subject has no user row")
			unauthorized(w, "Invalid authentication credentials")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireRole rejects authenticated requests whose user does not carry the
// given role. It must be mounted after RequireAuth.
func (m *Middleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r.Context())
			if !ok {
				unauthorized(w, "Not authenticated")
				return
			}
			if user.Role != role {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Insufficient permissions"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// CurrentUser returns the authenticated user stored by RequireAuth.
func CurrentUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(authHeader) > len(prefix) && strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return strings.TrimSpace(authHeader[len(prefix):])
	}
	return ""
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
