package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/accounts/services/jwt"
	"github.com/tech-arch1tect/accounts/testutils"
)

func setupTestJWTService() *jwt.Service {
	cfg := testutils.GetTestConfig()
	return jwt.NewService(&cfg.JWT, nil)
}

func TestRequireJWT(t *testing.T) {
	e := echo.New()
	jwtService := setupTestJWTService()
	middleware := RequireJWT(jwtService)

	successHandler := func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "success"})
	}

	run := func(header string) (*httptest.ResponseRecorder, echo.Context, error) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		return rec, c, middleware(successHandler)(c)
	}

	assertUnauthorized := func(t *testing.T, err error, message string) {
		require.Error(t, err)
		httpError, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpError.Code)
		assert.Contains(t, httpError.Message, message)
	}

	t.Run("missing authorization header", func(t *testing.T) {
		_, _, err := run("")
		assertUnauthorized(t, err, "Authorization header required")
	})

	t.Run("invalid authorization header format", func(t *testing.T) {
		_, _, err := run("Invalid token")
		assertUnauthorized(t, err, "Invalid authorization header format")
	})

	t.Run("empty bearer token", func(t *testing.T) {
		_, _, err := run("Bearer ")
		assertUnauthorized(t, err, "JWT token required")
	})

	t.Run("malformed token", func(t *testing.T) {
		_, _, err := run("Bearer invalid.token")
		assertUnauthorized(t, err, "Malformed JWT token")
	})

	t.Run("valid access token", func(t *testing.T) {
		userID := uuid.New()
		tokenString, err := jwtService.GenerateAccessToken(userID)
		require.NoError(t, err)

		rec, c, err := run("Bearer " + tokenString)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, GetUserID(c))
		require.NotNil(t, GetClaims(c))
		assert.Equal(t, jwt.TokenTypeAccess, GetClaims(c).TokenType)
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		tokenString, err := jwtService.GenerateRefreshToken(uuid.New())
		require.NoError(t, err)

		_, _, err = run("Bearer " + tokenString)
		assertUnauthorized(t, err, "Access token required")
	})

	t.Run("expired token", func(t *testing.T) {
		cfg := testutils.GetTestConfig()
		claims := jwt.Claims{
			UserID:    uuid.NewString(),
			TokenType: jwt.TokenTypeAccess,
			RegisteredClaims: gojwt.RegisteredClaims{
				Issuer:    cfg.JWT.Issuer,
				ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		tokenString, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWT.SecretKey))
		require.NoError(t, err)

		_, _, err = run("Bearer " + tokenString)
		assertUnauthorized(t, err, "JWT token has expired")
	})

	t.Run("bearer token with extra spaces", func(t *testing.T) {
		tokenString, err := jwtService.GenerateAccessToken(uuid.New())
		require.NoError(t, err)

		_, _, err = run("Bearer  " + tokenString + "  ")
		require.Error(t, err)
	})
}

func TestGetUserID(t *testing.T) {
	e := echo.New()

	t.Run("user ID exists in context", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/test", nil), httptest.NewRecorder())
		expected := uuid.New()
		c.Set(UserIDKey, expected)

		assert.Equal(t, expected, GetUserID(c))
	})

	t.Run("user ID does not exist in context", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/test", nil), httptest.NewRecorder())

		assert.Equal(t, uuid.Nil, GetUserID(c))
	})

	t.Run("user ID is wrong type in context", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/test", nil), httptest.NewRecorder())
		c.Set(UserIDKey, "not-a-uuid")

		assert.Equal(t, uuid.Nil, GetUserID(c))
	})
}

func TestGetClaims(t *testing.T) {
	e := echo.New()

	t.Run("claims exist in context", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/test", nil), httptest.NewRecorder())
		expected := &jwt.Claims{UserID: uuid.NewString(), TokenType: jwt.TokenTypeAccess}
		c.Set(ClaimsKey, expected)

		assert.Equal(t, expected, GetClaims(c))
	})

	t.Run("claims are wrong type in context", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/test", nil), httptest.NewRecorder())
		c.Set(ClaimsKey, "not-claims")

		assert.Nil(t, GetClaims(c))
	})
}

func TestRequireJWT_Integration(t *testing.T) {
	e := echo.New()
	jwtService := setupTestJWTService()

	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"user_id": GetUserID(c).String(),
			"jti":     GetClaims(c).ID,
		})
	}, RequireJWT(jwtService))

	t.Run("complete flow with valid token", func(t *testing.T) {
		userID := uuid.New()
		tokenString, err := jwtService.GenerateAccessToken(userID)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), userID.String())
		assert.Contains(t, rec.Body.String(), `"jti"`)
	})

	t.Run("complete flow with missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Authorization header required")
	})
}
