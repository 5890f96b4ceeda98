package middleware

import (
	"enyskin-api/utils"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	utils.JwtKey = []byte("test-secret")
}

func claimsEcho(t *testing.T) (http.Handler, *utils.Claims) {
	captured := &utils.Claims{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(UserContextKey).(*utils.Claims)
		require.True(t, ok)
		*captured = *claims
		w.WriteHeader(http.StatusOK)
	})
	return handler, captured
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	token, err := utils.GenerateJWT("jane@example.com", "user")
	require.NoError(t, err)

	next, captured := claimsEcho(t)
	req := httptest.NewRequest("GET", "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	AuthMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jane@example.com", captured.Email)
	assert.Equal(t, "user", captured.Role)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	next, _ := claimsEcho(t)
	req := httptest.NewRequest("GET", "/profile", nil)
	rec := httptest.NewRecorder()

	AuthMiddleware(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	next, _ := claimsEcho(t)
	req := httptest.NewRequest("GET", "/profile", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()

	AuthMiddleware(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	next, _ := claimsEcho(t)
	req := httptest.NewRequest("GET", "/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	AuthMiddleware(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminMiddlewareRejectsNonAdmin(t *testing.T) {
	token, err := utils.GenerateJWT("jane@example.com", "user")
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest("GET", "/admin/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	AuthMiddleware(AdminMiddleware(ok)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminMiddlewareAllowsAdmin(t *testing.T) {
	token, err := utils.GenerateJWT("admin@example.com", "admin")
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest("GET", "/admin/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	AuthMiddleware(AdminMiddleware(ok)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
