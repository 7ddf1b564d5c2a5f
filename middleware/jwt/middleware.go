package jwt

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/accounts/services/jwt"
)

const (
	UserIDKey = "_jwt_user_id"
	ClaimsKey = "_jwt_claims"
)

// RequireJWT accepts only access tokens presented as "Authorization: Bearer <token>".
func RequireJWT(jwtService *jwt.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header required")
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "JWT token required")
			}

			claims, err := jwtService.ValidateToken(tokenString, jwt.TokenTypeAccess)
			if err != nil {
				switch {
				case errors.Is(err, jwt.ErrExpiredToken):
					return echo.NewHTTPError(http.StatusUnauthorized, "JWT token has expired")
				case errors.Is(err, jwt.ErrMalformedToken):
					return echo.NewHTTPError(http.StatusUnauthorized, "Malformed JWT token")
				case errors.Is(err, jwt.ErrInvalidSignature):
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid JWT token signature")
				case errors.Is(err, jwt.ErrWrongTokenType):
					return echo.NewHTTPError(http.StatusUnauthorized, "Access token required")
				default:
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid JWT token")
				}
			}

			userID, err := claims.UserUUID()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid JWT token")
			}

			c.Set(UserIDKey, userID)
			c.Set(ClaimsKey, claims)

			return next(c)
		}
	}
}

func GetUserID(c echo.Context) uuid.UUID {
	if userID, ok := c.Get(UserIDKey).(uuid.UUID); ok {
		return userID
	}
	return uuid.Nil
}

func GetClaims(c echo.Context) *jwt.Claims {
	if claims, ok := c.Get(ClaimsKey).(*jwt.Claims); ok {
		return claims
	}
	return nil
}
