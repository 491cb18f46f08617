package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gallery-backend/internal/config"
	"gallery-backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{SupabaseJWTSecret: testJWTSecret}

	router := gin.New()
	protected := router.Group("/", middleware.AuthMiddleware(cfg))
	protected.GET("/me", func(c *gin.Context) {
		userID, _ := c.Get(middleware.UserIDKey)
		role, _ := c.Get(middleware.UserRoleKey)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	protected.GET("/admin", middleware.AdminRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func adminToken(t *testing.T) string {
	return signToken(t, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
		"app_metadata": map[string]interface{}{
			"role": "admin",
		},
	})
}

func doRequest(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	router := testRouter(t)
	recorder := doRequest(router, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "missing authorization header")
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	router := testRouter(t)
	recorder := doRequest(router, "/me", "NotBearer abc")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "invalid authorization header format")
}

func TestAuthMiddleware_InvalidSignature(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-123"})
	signed, err := token.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	router := testRouter(t)
	recorder := doRequest(router, "/me", "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "invalid token")
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	expired := signToken(t, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	router := testRouter(t)
	recorder := doRequest(router, "/me", "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthMiddleware_MissingSubject(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	router := testRouter(t)
	recorder := doRequest(router, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "token has no subject")
}

func TestAuthMiddleware_ValidTokenSetsUserAndRole(t *testing.T) {
	router := testRouter(t)
	recorder := doRequest(router, "/me", "Bearer "+adminToken(t))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "user-123")
	assert.Contains(t, recorder.Body.String(), "admin")
}

func TestAdminRequired_RejectsNonAdmin(t *testing.T) {
	member := signToken(t, jwt.MapClaims{
		"sub": "user-456",
		"exp": time.Now().Add(time.Hour).Unix(),
		"app_metadata": map[string]interface{}{
			"role": "member",
		},
	})

	router := testRouter(t)
	recorder := doRequest(router, "/admin", "Bearer "+member)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "admin access required")
}

func TestAdminRequired_RejectsMissingRole(t *testing.T) {
	noRole := signToken(t, jwt.MapClaims{
		"sub": "user-789",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	router := testRouter(t)
	recorder := doRequest(router, "/admin", "Bearer "+noRole)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestAdminRequired_AllowsAdmin(t *testing.T) {
	router := testRouter(t)
	recorder := doRequest(router, "/admin", "Bearer "+adminToken(t))
	assert.Equal(t, http.StatusOK, recorder.Code)
}
