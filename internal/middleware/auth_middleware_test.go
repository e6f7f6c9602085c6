package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkim/aquamarket-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func issueToken(t *testing.T, role string, expiry time.Duration) string {
	t.Helper()
	tokens, err := util.GenerateTokenPair(1, "user@example.com", role, testSecret, expiry, expiry)
	require.NoError(t, err)
	return tokens.AccessToken
}

func setupAuthTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	chain := append(handlers, func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	router.GET("/protected", chain...)
	return router
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	authMiddleware := NewAuthMiddleware(testSecret)
	router := setupAuthTestRouter(authMiddleware.Authenticate())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "user", time.Hour))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":1`)
}

func TestAuthMiddleware_TokenFromQueryParameter(t *testing.T) {
	authMiddleware := NewAuthMiddleware(testSecret)
	router := setupAuthTestRouter(authMiddleware.Authenticate())

	// WebSocket clients cannot set headers and pass the token in the query
	req := httptest.NewRequest(http.MethodGet, "/protected?token="+issueToken(t, "user", time.Hour), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	authMiddleware := NewAuthMiddleware(testSecret)
	router := setupAuthTestRouter(authMiddleware.Authenticate())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	authMiddleware := NewAuthMiddleware(testSecret)
	router := setupAuthTestRouter(authMiddleware.Authenticate())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	authMiddleware := NewAuthMiddleware(testSecret)
	router := setupAuthTestRouter(authMiddleware.Authenticate())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "user", -time.Minute))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	authMiddleware := NewAuthMiddleware("different-secret")
	router := setupAuthTestRouter(authMiddleware.Authenticate())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "user", time.Hour))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	authMiddleware := NewAuthMiddleware(testSecret)
	router := setupAuthTestRouter(authMiddleware.Authenticate(), authMiddleware.RequireRole("admin"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "admin", time.Hour))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "user", time.Hour))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
