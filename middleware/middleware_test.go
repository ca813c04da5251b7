package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pijatku/database/repository"
	"pijatku/models"
	"pijatku/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	users := repository.NewMemoryStore().Users
	require.NoError(t, users.Create(context.Background(), &models.Client{User: models.User{ID: "c1", Email: "andi@pijatku.id", Name: "Andi"}}))
	require.NoError(t, users.Create(context.Background(), &models.Admin{User: models.User{ID: "a1", Email: "ops@pijatku.id", Name: "Ops"}}))

	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(secret, users), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(utils.ContextUserID))
	})
	r.GET("/admin", JWTAuthMiddleware(secret, users), RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
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
	r := newRouter(t)

	token, err := utils.GenerateToken(secret, "c1", time.Hour)
	require.NoError(t, err)
	w := do(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "c1", w.Body.String())

	w = do(r, "/me?token="+token, "")
	assert.Equal(t, http.StatusOK, w.Code, "query token for event streams")

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)

	forged, err := utils.GenerateToken([]byte("other"), "c1", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", forged).Code)

	expired, err := utils.GenerateToken(secret, "c1", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", expired).Code)

	ghost, err := utils.GenerateToken(secret, "ghost", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", ghost).Code)
}

func TestRequireRole(t *testing.T) {
	r := newRouter(t)
	client, _ := utils.GenerateToken(secret, "c1", time.Hour)
	admin, _ := utils.GenerateToken(secret, "a1", time.Hour)

	assert.Equal(t, http.StatusForbidden, do(r, "/admin", client).Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/admin", admin).Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, hit("203.0.113.7"))
	assert.Equal(t, http.StatusOK, hit("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, hit("203.0.113.7"))
	assert.Equal(t, http.StatusOK, hit("203.0.113.8"), "limits are per client IP")
}
