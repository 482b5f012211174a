package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Dan9191/task-service/internal/models"
	"github.com/Dan9191/task-service/internal/token"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type contextKey struct{}

var userKey contextKey

// UserResolver maps a token subject to a stored user.
type UserResolver interface {
	FindUserByUsername(username string) (*models.User, error)
}

// UserFromContext returns the authenticated user bound by the Auth middleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// Auth gates protected routes. The token is taken from the access_token
// cookie or the Authorization bearer header; it is verified and its subject
// resolved to a user on every request.
func Auth(tokens *token.Manager, users UserResolver, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				unauthorized(w, "not authenticated")
				return
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				log.Debugf("Token verification failed: %v", err)
				unauthorized(w, "invalid credentials")
				return
			}

			user, err := users.FindUserByUsername(claims.Subject)
			if err != nil {
				log.Debugf("Token subject %q does not resolve to a user", claims.Subject)
				unauthorized(w, "user not found")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
