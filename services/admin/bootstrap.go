package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/tech-arch1tect/accounts/config"
	"github.com/tech-arch1tect/accounts/services/account"
	"github.com/tech-arch1tect/accounts/services/logging"
	"go.uber.org/zap"
)

var (
	ErrAdminEmailRequired    = errors.New("the ADMIN_EMAIL environment variable must be set")
	ErrAdminPasswordRequired = errors.New("the ADMIN_PASSWORD environment variable must be set")
	ErrAdminEmailUnverified  = errors.New("the admin email address is already registered but has not been verified yet")
)

const adminName = "Admin"

type Outcome string

const (
	OutcomeCreated  Outcome = "created"
	OutcomePromoted Outcome = "promoted"
)

type Result struct {
	Outcome Outcome
	User    *account.User
	Email   *account.Email
}

type Bootstrapper struct {
	repo   account.Repository
	logger *logging.Service
}

func NewBootstrapper(repo account.Repository, logger *logging.Service) *Bootstrapper {
	return &Bootstrapper{repo: repo, logger: logger}
}

// Bootstrap ensures the configured address belongs to a superuser. An existing
// verified owner is promoted; otherwise a new superuser is created with the
// address already verified.
func (b *Bootstrapper) Bootstrap(ctx context.Context, cfg config.AdminConfig) (*Result, error) {
	if cfg.Email == "" {
		return nil, ErrAdminEmailRequired
	}
	if cfg.Password == "" {
		return nil, ErrAdminPasswordRequired
	}

	address := account.NormalizeAddress(cfg.Email)

	var result *Result
	err := b.repo.Transaction(ctx, func(repo account.Repository) error {
		email, err := repo.FindEmailByAddress(ctx, address)
		switch {
		case err == nil:
			result, err = b.promote(ctx, repo, email)
			return err
		case errors.Is(err, account.ErrNotFound):
			result, err = b.create(ctx, repo, address, cfg.Password)
			return err
		default:
			return err
		}
	})
	if err != nil {
		if !errors.Is(err, ErrAdminEmailUnverified) {
			b.logger.Error("admin bootstrap failed", zap.Error(err), zap.String("email", address))
		}
		return nil, err
	}

	b.logger.Info("admin bootstrap complete",
		zap.String("email", address),
		zap.String("outcome", string(result.Outcome)),
		zap.String("user_id", result.User.ID.String()))
	return result, nil
}

func (b *Bootstrapper) promote(ctx context.Context, repo account.Repository, email *account.Email) (*Result, error) {
	if !email.IsVerified {
		return nil, fmt.Errorf("%w: %s", ErrAdminEmailUnverified, email.Address)
	}

	user := email.User
	user.IsStaff = true
	user.IsSuperuser = true
	user.Name = adminName

	if err := repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return &Result{Outcome: OutcomePromoted, User: user, Email: email}, nil
}

func (b *Bootstrapper) create(ctx context.Context, repo account.Repository, address, password string) (*Result, error) {
	user, err := repo.CreateSuperuser(ctx, adminName, password)
	if err != nil {
		return nil, err
	}
	email, err := repo.CreateEmail(ctx, user, address, true)
	if err != nil {
		return nil, err
	}
	if err := repo.SetPrimaryEmail(ctx, user, email); err != nil {
		return nil, err
	}
	return &Result{Outcome: OutcomeCreated, User: user, Email: email}, nil
}
