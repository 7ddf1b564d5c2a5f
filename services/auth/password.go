package auth

import (
	"errors"

	"github.com/tech-arch1tect/accounts/config"
	"github.com/tech-arch1tect/accounts/services/logging"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordHashingFailed = errors.New("failed to hash password")
	ErrPasswordMismatch      = errors.New("password does not match")
)

// PasswordService hashes and verifies passwords with bcrypt.
type PasswordService struct {
	cost   int
	logger *logging.Service
}

func NewPasswordService(cfg *config.AuthConfig, logger *logging.Service) *PasswordService {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordService{
		cost:   cost,
		logger: logger,
	}
}

func (s *PasswordService) Cost() int {
	return s.cost
}

func (s *PasswordService) HashPassword(password string) (string, error) {
	s.logger.Debug("generating password hash", zap.Int("bcrypt_cost", s.cost))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return "", ErrPasswordHashingFailed
	}
	return string(hash), nil
}

func (s *PasswordService) VerifyPassword(hashedPassword, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		s.logger.Debug("password verification failed")
		return ErrPasswordMismatch
	}
	return nil
}

// CheckPassword reports whether password matches hashedPassword.
func (s *PasswordService) CheckPassword(hashedPassword, password string) bool {
	return s.VerifyPassword(hashedPassword, password) == nil
}
