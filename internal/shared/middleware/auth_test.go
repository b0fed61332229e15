package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview-backend/pkg/jwt"
)

func setupRouter(manager *jwt.Manager, adminOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handlers := []gin.HandlerFunc{AuthMiddleware(manager)}
	if adminOnly {
		handlers = append(handlers, AdminMiddleware())
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID": c.GetString(ContextUserID),
			"role":   c.GetString(ContextRole),
		})
	})

	r.GET("/protected", handlers...)
	return r
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	manager := jwt.NewManager("test-secret", 60)
	r := setupRouter(manager, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	manager := jwt.NewManager("test-secret", 60)
	r := setupRouter(manager, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	manager := jwt.NewManager("test-secret", 60)
	r := setupRouter(manager, false)

	token, err := manager.GenerateAccessToken("user-1", "a@example.com", "user")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userID":"user-1"`)
}

func TestAuthMiddlewareRejectsRefreshToken(t *testing.T) {
	manager := jwt.NewManager("test-secret", 60)
	r := setupRouter(manager, false)

	refresh, err := manager.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminMiddlewareBlocksUsers(t *testing.T) {
	manager := jwt.NewManager("test-secret", 60)
	r := setupRouter(manager, true)

	token, err := manager.GenerateAccessToken("user-1", "a@example.com", "user")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminMiddlewareAllowsAdmins(t *testing.T) {
	manager := jwt.NewManager("test-secret", 60)
	r := setupRouter(manager, true)

	token, err := manager.GenerateAccessToken("admin-1", "a@example.com", "admin")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
