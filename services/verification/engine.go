package verification

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tech-arch1tect/accounts/services/account"
	"github.com/tech-arch1tect/accounts/services/logging"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken    = errors.New("the provided token does not exist or has expired")
	ErrInvalidPassword = errors.New("the provided password does not match the owner of the email")
)

const (
	TemplateEmailVerification     = "email_verification"
	TemplateDuplicateRegistration = "duplicate_registration"

	SubjectEmailVerification     = "Verify your email address"
	SubjectDuplicateRegistration = "Registration attempt for your email address"

	maxRegisterAttempts = 3
)

type Notifier interface {
	Send(templateName string, to []string, data map[string]any, subject string) error
}

type Passwords interface {
	HashPassword(password string) (string, error)
	VerifyPassword(hashedPassword, password string) error
}

type Options struct {
	AppName          string
	AppURL           string
	VerificationPath string
	LoginPath        string

	// Expiry is the lifetime of a verification token. Zero keeps tokens valid forever.
	Expiry          time.Duration
	PurgeOnVerify   bool
	CleanupInterval time.Duration
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

type Registration struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type notification struct {
	template string
	to       string
	subject  string
	data     map[string]any
}

type Engine struct {
	repo      account.Repository
	passwords Passwords
	notifier  Notifier
	opts      Options
	logger    *logging.Service
	now       func() time.Time
}

func NewEngine(repo account.Repository, passwords Passwords, notifier Notifier, opts Options, logger *logging.Service) *Engine {
	return &Engine{
		repo:      repo,
		passwords: passwords,
		notifier:  notifier,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Register starts the registration flow for an address. The result is the
// same whatever state the address was in.
func (e *Engine) Register(ctx context.Context, in RegisterInput) (*Registration, error) {
	address := account.NormalizeAddress(in.Email)
	result := &Registration{Email: address, Name: in.Name}

	for attempt := 1; attempt <= maxRegisterAttempts; attempt++ {
		var pending []notification
		err := e.repo.Transaction(ctx, func(repo account.Repository) error {
			var err error
			pending, err = e.register(ctx, repo, address, in)
			return err
		})

		if errors.Is(err, account.ErrEmailTaken) {
			e.logger.Info("concurrent registration detected, retrying",
				zap.String("email", address),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			e.logger.Error("registration failed", zap.Error(err), zap.String("email", address))
			return nil, fmt.Errorf("failed to register: %w", err)
		}

		e.dispatch(pending)
		return result, nil
	}

	e.logger.Warn("registration retries exhausted",
		zap.String("email", address),
		zap.Int("attempts", maxRegisterAttempts))
	return result, nil
}

func (e *Engine) register(ctx context.Context, repo account.Repository, address string, in RegisterInput) ([]notification, error) {
	email, err := repo.FindEmailByAddress(ctx, address)
	if err != nil && !errors.Is(err, account.ErrNotFound) {
		return nil, err
	}
	if errors.Is(err, account.ErrNotFound) {
		email = nil
	}

	switch StateOf(email) {
	case StateVerified:
		e.matchHashCost(in.Password)
		e.logger.Info("registration attempted for verified email", zap.String("email", address))
		return []notification{e.duplicateNotification(email)}, nil

	case StateUnverified:
		e.matchHashCost(in.Password)
		verification, err := repo.CreateVerification(ctx, email)
		if err != nil {
			return nil, err
		}
		e.logger.Info("resending verification for unverified email", zap.String("email", address))
		return []notification{e.verificationNotification(email, verification)}, nil
	}

	user, err := repo.CreateUser(ctx, in.Name, in.Password, account.DefaultUserFlags())
	if err != nil {
		return nil, err
	}
	email, err = repo.CreateEmail(ctx, user, address, false)
	if err != nil {
		return nil, err
	}
	if err := repo.SetPrimaryEmail(ctx, user, email); err != nil {
		return nil, err
	}
	verification, err := repo.CreateVerification(ctx, email)
	if err != nil {
		return nil, err
	}

	e.logger.Info("user registered", zap.String("email", address), zap.String("user_id", user.ID.String()))
	return []notification{e.verificationNotification(email, verification)}, nil
}

// matchHashCost spends the same bcrypt work as creating a user so that
// registration takes as long for existing addresses as for new ones.
func (e *Engine) matchHashCost(password string) {
	_, _ = e.passwords.HashPassword(password)
}

// Verify consumes token and marks its email verified once the owner's
// password has been confirmed. A wrong password leaves the token in place.
func (e *Engine) Verify(ctx context.Context, token, password string) error {
	verification, err := e.findUsableVerification(ctx, e.repo, token)
	if err != nil {
		return err
	}

	owner := verification.Email.User
	if err := e.passwords.VerifyPassword(owner.PasswordHash, password); err != nil {
		e.logger.Info("email verification rejected: password mismatch",
			zap.String("email", verification.Email.Address))
		return ErrInvalidPassword
	}

	err = e.repo.Transaction(ctx, func(repo account.Repository) error {
		current, err := e.findUsableVerification(ctx, repo, token)
		if err != nil {
			return err
		}
		if err := repo.MarkEmailVerified(ctx, current.Email); err != nil {
			return err
		}
		if e.opts.PurgeOnVerify {
			_, err = repo.DeleteVerificationsForEmail(ctx, current.EmailID)
			return err
		}
		return repo.DeleteVerification(ctx, current)
	})
	if errors.Is(err, ErrInvalidToken) {
		return err
	}
	if err != nil {
		e.logger.Error("failed to complete email verification", zap.Error(err))
		return fmt.Errorf("failed to verify email: %w", err)
	}

	e.logger.Info("email verified",
		zap.String("email", verification.Email.Address),
		zap.String("user_id", owner.ID.String()))
	return nil
}

func (e *Engine) findUsableVerification(ctx context.Context, repo account.Repository, token string) (*account.EmailVerification, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	verification, err := repo.FindVerificationByToken(ctx, token)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up verification token: %w", err)
	}

	if e.isExpired(verification) {
		return nil, ErrInvalidToken
	}
	return verification, nil
}

func (e *Engine) isExpired(v *account.EmailVerification) bool {
	return e.opts.Expiry > 0 && e.now().After(v.CreatedAt.Add(e.opts.Expiry))
}

// Resend issues a fresh token for an unverified address. Absent and verified
// addresses are ignored so the caller cannot learn which state applies.
func (e *Engine) Resend(ctx context.Context, address string) error {
	address = account.NormalizeAddress(address)

	var pending []notification
	err := e.repo.Transaction(ctx, func(repo account.Repository) error {
		email, err := repo.FindEmailByAddress(ctx, address)
		if errors.Is(err, account.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if StateOf(email) != StateUnverified {
			return nil
		}

		verification, err := repo.CreateVerification(ctx, email)
		if err != nil {
			return err
		}
		pending = append(pending, e.verificationNotification(email, verification))
		return nil
	})
	if err != nil {
		e.logger.Error("failed to resend verification", zap.Error(err), zap.String("email", address))
		return fmt.Errorf("failed to resend verification: %w", err)
	}

	e.dispatch(pending)
	return nil
}

func (e *Engine) verificationNotification(email *account.Email, v *account.EmailVerification) notification {
	return notification{
		template: TemplateEmailVerification,
		to:       email.Address,
		subject:  SubjectEmailVerification,
		data: map[string]any{
			"Name":            ownerName(email),
			"Email":           email.Address,
			"Token":           v.Token,
			"VerificationURL": e.verificationURL(v.Token),
			"AppName":         e.opts.AppName,
		},
	}
}

func (e *Engine) duplicateNotification(email *account.Email) notification {
	return notification{
		template: TemplateDuplicateRegistration,
		to:       email.Address,
		subject:  SubjectDuplicateRegistration,
		data: map[string]any{
			"Name":     ownerName(email),
			"Email":    email.Address,
			"AppName":  e.opts.AppName,
			"LoginURL": joinURL(e.opts.AppURL, e.opts.LoginPath),
		},
	}
}

func (e *Engine) verificationURL(token string) string {
	return joinURL(e.opts.AppURL, e.opts.VerificationPath) + "?token=" + url.QueryEscape(token)
}

func (e *Engine) dispatch(pending []notification) {
	if e.notifier == nil {
		return
	}
	for _, n := range pending {
		if err := e.notifier.Send(n.template, []string{n.to}, n.data, n.subject); err != nil {
			e.logger.Warn("failed to queue notification",
				zap.Error(err),
				zap.String("template", n.template),
				zap.String("email", n.to))
		}
	}
}

func ownerName(email *account.Email) string {
	if email.User == nil {
		return ""
	}
	return email.User.Name
}

func joinURL(base, path string) string {
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
