package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shipguide/backend/internal/domain/identity"
	"github.com/shipguide/backend/internal/infrastructure/auth"
	"github.com/shipguide/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret-0123456789ab"

func newVerifier(t *testing.T) *auth.TokenVerifier {
	t.Helper()
	return auth.NewTokenVerifier(config.JWTConfig{Secret: testSecret, Issuer: "shipguide"})
}

func mintToken(t *testing.T, role string, expiresIn time.Duration, jti string) string {
	t.Helper()
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			Issuer:    "shipguide",
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
		Username: "operador1",
		Role:     role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func authRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/guides", func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": string(actor.Role)})
	})
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestJWTAuthMiddleware(t *testing.T) {
	cfg := DefaultJWTConfig(newVerifier(t))

	t.Run("valid token resolves actor", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/guides", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+mintToken(t, "ADMIN", time.Hour, ""))
		authRouter(cfg).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ADMIN")
	})

	t.Run("missing header rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/guides", nil)
		authRouter(cfg).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_UNAUTHORIZED")
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/guides", nil)
		req.Header.Set(AuthHeaderKey, "Token abcdef")
		authRouter(cfg).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token rejected with expiry code", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/guides", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+mintToken(t, "ADMIN", -time.Hour, ""))
		authRouter(cfg).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_EXPIRED")
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/guides", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+mintToken(t, "SUPERADMIN", time.Hour, ""))
		authRouter(cfg).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_INVALID")
	})

	t.Run("skip path bypasses auth", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/health", nil)
		authRouter(cfg).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestJWTAuthMiddlewareBlacklist(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	cfg := DefaultJWTConfig(newVerifier(t))
	cfg.TokenBlacklist = blacklist

	token := mintToken(t, "SECRETARY", time.Hour, "jti-revoked-1")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/guides", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	authRouter(cfg).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, blacklist.AddToBlacklist(req.Context(), "jti-revoked-1", time.Hour))

	w = httptest.NewRecorder()
	authRouter(cfg).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_TOKEN_REVOKED")
}

func TestRequireRole(t *testing.T) {
	verifier := newVerifier(t)
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(DefaultJWTConfig(verifier)))
	admin := router.Group("/admin", RequireRole(identity.RoleAdmin))
	admin.GET("/stats", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("admin passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+mintToken(t, "ADMIN", time.Hour, ""))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("client rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/admin/stats", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+mintToken(t, "CLIENT", time.Hour, ""))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_FORBIDDEN")
	})
}
