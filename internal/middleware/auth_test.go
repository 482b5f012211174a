package middleware_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dan9191/task-service/internal/middleware"
	"github.com/Dan9191/task-service/internal/models"
	"github.com/Dan9191/task-service/internal/repository"
	"github.com/Dan9191/task-service/internal/token"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	users map[string]*models.User
}

func (s *stubResolver) FindUserByUsername(username string) (*models.User, error) {
	if user, ok := s.users[username]; ok {
		return user, nil
	}
	return nil, fmt.Errorf("user %w", repository.ErrNotFound)
}

func newGatedHandler(t *testing.T) (http.Handler, *token.Manager, *stubResolver) {
	t.Helper()

	tokens, err := token.NewManager("0123456789abcdef0123456789abcdef", 0)
	require.NoError(t, err)
	resolver := &stubResolver{users: map[string]*models.User{
		"alice": {ID: 1, Username: "alice", Email: "a@x.com"},
	}}

	log := logrus.New()
	log.SetOutput(io.Discard)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFromContext(r.Context())
		require.True(t, ok)
		fmt.Fprint(w, user.Username)
	})
	return middleware.Auth(tokens, resolver, log)(next), tokens, resolver
}

func TestAuthMissingToken(t *testing.T) {
	gated, _, _ := newGatedHandler(t)

	rec := httptest.NewRecorder()
	gated.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "not authenticated")
}

func TestAuthInvalidToken(t *testing.T) {
	gated, _, _ := newGatedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	gated.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestAuthUnknownSubject(t *testing.T) {
	gated, tokens, _ := newGatedHandler(t)

	signed, err := tokens.Issue("ghost", nil, 0)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	gated.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "user not found")
}

func TestAuthBearerHeader(t *testing.T) {
	gated, tokens, _ := newGatedHandler(t)

	signed, err := tokens.Issue("alice", nil, 0)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	gated.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestAuthCookie(t *testing.T) {
	gated, tokens, _ := newGatedHandler(t)

	signed, err := tokens.Issue("alice", nil, 0)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: signed})
	rec := httptest.NewRecorder()
	gated.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}
