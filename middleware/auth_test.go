package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	config "github.com/loveland/klyntfund-go/config"
	utils "github.com/loveland/klyntfund-go/utils"
)

func adminRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin-only", AdminMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminMiddlewareAllowsAdminToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	r := adminRouter(t, cfg)

	token, err := utils.SignAdminToken(cfg.JWTSecret)
	require.NoError(t, err)

	w := doGet(r, "/admin-only", token)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminMiddlewareRejectsMissingToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	r := adminRouter(t, cfg)

	w := doGet(r, "/admin-only", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminMiddlewareRejectsUserToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	r := adminRouter(t, cfg)

	// A regular user token must never open the console.
	token, err := utils.SignUserToken(cfg.JWTSecret, "64f000000000000000000001", "investor")
	require.NoError(t, err)

	w := doGet(r, "/admin-only", token)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminMiddlewareRejectsForgedToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	r := adminRouter(t, cfg)

	forged, err := utils.SignAdminToken("attacker-secret")
	require.NoError(t, err)

	w := doGet(r, "/admin-only", forged)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthMiddlewareRejectsBeforeLookup(t *testing.T) {
	// These paths fail before any database access, so a nil Mongo client
	// is safe here.
	cfg := &config.Config{JWTSecret: "test-secret"}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := doGet(r, "/me", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doGet(r, "/me", "garbage-token")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	expiredOrForged, err := utils.SignUserToken("other-secret", "64f000000000000000000001", "creator")
	require.NoError(t, err)
	w = doGet(r, "/me", expiredOrForged)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
