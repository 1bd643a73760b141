package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trainhub/training-app/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, role domain.Role, expiresIn time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"uid":  primitive.NewObjectID().Hex(),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(expiresIn).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	protected := router.Group("", AuthMiddleware(testSecret))
	protected.GET("/open", func(c *gin.Context) { c.Status(http.StatusOK) })
	protected.GET("/trainer-only", RoleMiddleware(domain.RoleTrainer), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func get(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	router := newAuthRouter()

	assert.Equal(t, http.StatusUnauthorized, get(router, "/open", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "/open", "not-a-jwt").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "/open", signedToken(t, domain.RoleClient, -time.Minute)).Code)
	assert.Equal(t, http.StatusOK, get(router, "/open", signedToken(t, domain.RoleClient, time.Hour)).Code)
}

func TestRoleMiddleware(t *testing.T) {
	router := newAuthRouter()

	assert.Equal(t, http.StatusForbidden, get(router, "/trainer-only", signedToken(t, domain.RoleClient, time.Hour)).Code)
	assert.Equal(t, http.StatusOK, get(router, "/trainer-only", signedToken(t, domain.RoleTrainer, time.Hour)).Code)
}
