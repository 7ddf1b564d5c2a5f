package config

import (
	"errors"
	"fmt"
	"strings"
)

// MaxPasswordBytes is the longest input bcrypt will hash.
const MaxPasswordBytes = 72

var weakSecretPatterns = []string{"password", "secret", "test", "example", "default", "change"}

// Validate checks the settings required to run the HTTP service.
func (c *Config) Validate() error {
	if err := validateJWTConfig(&c.JWT); err != nil {
		return err
	}
	return validateAuthConfig(&c.Auth)
}

func validateJWTConfig(cfg *JWTConfig) error {
	if len(cfg.SecretKey) < 32 {
		return errors.New("JWT secret key must be at least 32 characters long")
	}

	lower := strings.ToLower(cfg.SecretKey)
	for _, pattern := range weakSecretPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("JWT secret key contains weak patterns: %q", pattern)
		}
	}

	if cfg.AccessExpiry <= 0 || cfg.RefreshExpiry <= 0 {
		return errors.New("JWT token expiry durations must be positive")
	}

	return nil
}

func validateAuthConfig(cfg *AuthConfig) error {
	if cfg.MinLength < 1 {
		return errors.New("password minimum length must be at least 1")
	}
	if cfg.MaxLength < cfg.MinLength {
		return fmt.Errorf("password maximum length %d is below minimum length %d", cfg.MaxLength, cfg.MinLength)
	}
	if cfg.MaxLength > MaxPasswordBytes {
		return fmt.Errorf("password maximum length %d exceeds the bcrypt limit of %d bytes", cfg.MaxLength, MaxPasswordBytes)
	}
	if cfg.EmailVerificationTokenLength < 16 {
		return errors.New("email verification token length must be at least 16 bytes")
	}
	if cfg.EmailVerificationExpiry < 0 {
		return errors.New("email verification expiry cannot be negative")
	}
	return nil
}
