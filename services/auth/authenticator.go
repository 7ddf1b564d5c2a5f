package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tech-arch1tect/accounts/services/account"
	"github.com/tech-arch1tect/accounts/services/logging"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user account is inactive")
)

type PasswordVerifier interface {
	VerifyPassword(hashedPassword, password string) error
}

// Authenticator resolves credentials submitted as an email address and a
// password to the owning user. Only verified addresses can log in.
type Authenticator struct {
	repo      account.Repository
	passwords PasswordVerifier
	logger    *logging.Service
}

func NewAuthenticator(repo account.Repository, passwords PasswordVerifier, logger *logging.Service) *Authenticator {
	return &Authenticator{
		repo:      repo,
		passwords: passwords,
		logger:    logger,
	}
}

func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*account.User, error) {
	record, err := a.repo.FindVerifiedEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			a.logger.Info("authentication failed: no verified email", zap.String("email", email))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	user := record.User
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := a.passwords.VerifyPassword(user.PasswordHash, password); err != nil {
		a.logger.Info("authentication failed: password mismatch", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		a.logger.Info("authentication failed: user inactive", zap.String("user_id", user.ID.String()))
		return nil, ErrUserInactive
	}

	a.logger.Info("user authenticated", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (a *Authenticator) GetUserByID(ctx context.Context, id uuid.UUID) (*account.User, error) {
	return a.repo.FindUserByID(ctx, id)
}
