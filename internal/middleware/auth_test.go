package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtsvc "investhub/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *jwtsvc.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwt := jwtsvc.New("test-secret", time.Hour)

	r := gin.New()
	authed := r.Group("/", JWTAuth(jwt))
	authed.GET("/me", func(c *gin.Context) {
		id, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	admin := authed.Group("/admin", AdminOnly())
	admin.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, jwt
}

func do(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r, jwt := setupRouter(t)

	w := do(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "/me", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := jwt.GenerateToken(42, "investor")
	require.NoError(t, err)
	w = do(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	expired := jwtsvc.New("test-secret", -time.Minute)

	token, err := expired.GenerateToken(1, "investor")
	require.NoError(t, err)

	r, _ := setupRouter(t)
	w := do(r, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnly(t *testing.T) {
	r, jwt := setupRouter(t)

	investor, err := jwt.GenerateToken(1, "investor")
	require.NoError(t, err)
	w := do(r, "/admin/ping", investor)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin, err := jwt.GenerateToken(2, "admin")
	require.NoError(t, err)
	w = do(r, "/admin/ping", admin)
	assert.Equal(t, http.StatusOK, w.Code)
}
