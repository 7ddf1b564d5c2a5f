package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tech-arch1tect/accounts/config"
	"github.com/tech-arch1tect/accounts/services/logging"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken     = errors.New("invalid JWT token")
	ErrExpiredToken     = errors.New("JWT token has expired")
	ErrMalformedToken   = errors.New("malformed JWT token")
	ErrInvalidSignature = errors.New("invalid JWT token signature")
	ErrWrongTokenType   = errors.New("JWT token has the wrong type")
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

type Claims struct {
	UserID    string    `json:"user_id"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type Service struct {
	config *config.JWTConfig
	logger *logging.Service
	now    func() time.Time
}

func NewService(cfg *config.JWTConfig, logger *logging.Service) *Service {
	return &Service{
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) GetAccessExpirySeconds() int {
	return int(s.config.AccessExpiry.Seconds())
}

func (s *Service) GetRefreshExpirySeconds() int {
	return int(s.config.RefreshExpiry.Seconds())
}

func (s *Service) GenerateAccessToken(userID uuid.UUID) (string, error) {
	return s.generate(userID, TokenTypeAccess, s.config.AccessExpiry)
}

func (s *Service) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return s.generate(userID, TokenTypeRefresh, s.config.RefreshExpiry)
}

func (s *Service) GenerateTokenPair(userID uuid.UUID) (*TokenPair, error) {
	access, err := s.GenerateAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.GenerateRefreshToken(userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *Service) generate(userID uuid.UUID, tokenType TokenType, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:    userID.String(),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.config.Issuer,
			Subject:   userID.String(),
			Audience:  []string{s.config.Issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		s.logger.Error("failed to sign JWT token", zap.Error(err), zap.String("token_type", string(tokenType)))
		return "", fmt.Errorf("failed to generate JWT %s token: %w", tokenType, err)
	}
	return tokenString, nil
}

// ValidateToken parses tokenString and checks that it carries expectedType.
func (s *Service) ValidateToken(tokenString string, expectedType TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() == "none" {
			return nil, errors.New("'none' algorithm is not allowed")
		}

		if token.Method.Alg() != "HS256" {
			return nil, fmt.Errorf("unexpected algorithm: expected HS256, got %s", token.Method.Alg())
		}

		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid algorithm family: %v", token.Header["alg"])
		}

		return []byte(s.config.SecretKey), nil
	},
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithTimeFunc(s.now),
	)

	if err != nil {
		s.logger.Debug("JWT token validation failed", zap.Error(err))

		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != expectedType {
		s.logger.Debug("JWT token type mismatch",
			zap.String("expected", string(expectedType)),
			zap.String("actual", string(claims.TokenType)))
		return nil, ErrWrongTokenType
	}

	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *Service) Refresh(refreshToken string) (string, error) {
	claims, err := s.ValidateToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", ErrInvalidToken
	}

	return s.GenerateAccessToken(userID)
}

func (c *Claims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}
