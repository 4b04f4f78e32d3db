package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scavenger-hunt-api/internal/auth"
	"scavenger-hunt-api/internal/config"
	"scavenger-hunt-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func testTokens() *auth.Manager {
	return auth.NewManager(config.JWTConfig{Secret: "test-secret", Issuer: "hunt", Audience: "players"})
}

func protectedRouter(tokens *auth.Manager, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware(tokens))
	r.Use(extra...)
	r.GET("/protected", func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, sess.TeamID)
	})
	return r
}

func TestJWTAuthMiddleware_Success(t *testing.T) {
	tokens := testTokens()
	r := protectedRouter(tokens)

	token, err := tokens.GenerateToken(models.Account{ID: "user-1", TeamID: "team-1", Role: models.RoleTeam})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "team-1", w.Body.String())
}

func TestJWTAuthMiddleware_StoresOnlySession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := testTokens()
	r := gin.New()
	r.Use(JWTAuthMiddleware(tokens))
	var stored int
	var hasSession bool
	r.GET("/protected", func(c *gin.Context) {
		stored = len(c.Keys)
		_, hasSession = c.Get(sessionKey)
		c.Status(http.StatusOK)
	})

	token, err := tokens.GenerateToken(models.Account{ID: "user-1", TeamID: "team-1", Role: models.RoleTeam})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, hasSession)
	require.Equal(t, 1, stored)
}

func TestJWTAuthMiddleware_QueryToken(t *testing.T) {
	tokens := testTokens()
	r := protectedRouter(tokens)

	token, err := tokens.GenerateToken(models.Account{ID: "user-1", TeamID: "team-1", Role: models.RoleTeam})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	r := protectedRouter(testTokens())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	tokens := testTokens()
	r := protectedRouter(tokens, RequireAdmin())

	teamToken, err := tokens.GenerateToken(models.Account{ID: "user-1", TeamID: "team-1", Role: models.RoleTeam})
	require.NoError(t, err)
	adminToken, err := tokens.GenerateToken(models.Account{ID: "admin-1", Role: models.RoleAdmin})
	require.NoError(t, err)

	for token, want := range map[string]int{teamToken: http.StatusForbidden, adminToken: http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, want, w.Code)
	}
}

func TestMaxBodySize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MaxBodySize(4))
	r.POST("/upload", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("too large"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
