package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skillmap/internal/config"
)

// newTestServer builds a server without a database; only auth and login
// paths are exercised here.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	passwords := &config.PasswordConfig{BcryptCost: 10}
	hash, err := passwords.HashPassword("hunter22")
	require.NoError(t, err)

	return &Server{
		jwtService:   newJWTService(1),
		passwords:    passwords,
		passwordHash: hash,
	}
}

func TestHandleLogin(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"password":"hunter22"}`))
	rec := httptest.NewRecorder()
	s.handleLogin(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "token")
}

func TestHandleLoginRejects(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"wrong password", `{"password":"wrong"}`, http.StatusUnauthorized},
		{"missing password", `{}`, http.StatusBadRequest},
		{"bad JSON", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			s.handleLogin(rec, req)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	s := newTestServer(t)

	called := false
	handler := s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)

	req = httptest.NewRequest(http.MethodGet, "/runs", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)

	token, err := s.jwtService.GenerateToken("api")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/runs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(&ErrInvalidCredentials{}))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(&ErrRunNotFound{}))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&ErrValidation{}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(assert.AnError))
}
