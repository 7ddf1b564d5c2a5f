package account

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tech-arch1tect/accounts/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound             = errors.New("record not found")
	ErrEmailTaken           = errors.New("email address is already registered")
	ErrPrimaryEmailNotOwned = errors.New("primary email must be owned by the user")
)

const minTokenBytes = 16

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type UserFlags struct {
	IsActive    bool
	IsStaff     bool
	IsSuperuser bool
}

func DefaultUserFlags() UserFlags {
	return UserFlags{IsActive: true}
}

// Repository is the storage contract for users, their emails and pending verifications.
type Repository interface {
	Transaction(ctx context.Context, fn func(repo Repository) error) error

	CreateUser(ctx context.Context, name, password string, flags UserFlags) (*User, error)
	CreateSuperuser(ctx context.Context, name, password string) (*User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	SaveUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, user *User) error

	CreateEmail(ctx context.Context, owner *User, address string, verified bool) (*Email, error)
	SetPrimaryEmail(ctx context.Context, user *User, email *Email) error
	FindEmailByID(ctx context.Context, id uuid.UUID) (*Email, error)
	FindEmailByAddress(ctx context.Context, address string) (*Email, error)
	FindVerifiedEmail(ctx context.Context, address string) (*Email, error)
	MarkEmailVerified(ctx context.Context, email *Email) error
	DeleteEmail(ctx context.Context, email *Email) error

	CreateVerification(ctx context.Context, email *Email) (*EmailVerification, error)
	FindVerificationByToken(ctx context.Context, token string) (*EmailVerification, error)
	DeleteVerification(ctx context.Context, verification *EmailVerification) error
	DeleteVerificationsForEmail(ctx context.Context, emailID uuid.UUID) (int64, error)
	DeleteVerificationsCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	CountUsers(ctx context.Context) (int64, error)
	CountEmails(ctx context.Context) (int64, error)
	CountVerifications(ctx context.Context) (int64, error)
}

type Store struct {
	db          *gorm.DB
	hasher      PasswordHasher
	tokenLength int
	logger      *logging.Service
}

func NewStore(db *gorm.DB, hasher PasswordHasher, tokenLength int, logger *logging.Service) *Store {
	if tokenLength < minTokenBytes {
		tokenLength = 32
	}
	return &Store{
		db:          db,
		hasher:      hasher,
		tokenLength: tokenLength,
		logger:      logger,
	}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Transaction(ctx context.Context, fn func(repo Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{
			db:          tx,
			hasher:      s.hasher,
			tokenLength: s.tokenLength,
			logger:      s.logger,
		})
	})
}

func (s *Store) CreateUser(ctx context.Context, name, password string, flags UserFlags) (*User, error) {
	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Name:         name,
		PasswordHash: hash,
		IsActive:     flags.IsActive,
		IsStaff:      flags.IsStaff,
		IsSuperuser:  flags.IsSuperuser,
	}

	// Select("*") persists false flags instead of falling back to column defaults.
	if err := s.db.WithContext(ctx).Select("*").Create(user).Error; err != nil {
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Debug("user created", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *Store) CreateSuperuser(ctx context.Context, name, password string) (*User, error) {
	return s.CreateUser(ctx, name, password, UserFlags{
		IsActive:    true,
		IsStaff:     true,
		IsSuperuser: true,
	})
}

func (s *Store) FindUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *Store) SaveUser(ctx context.Context, user *User) error {
	if user.PrimaryEmailID != nil {
		if err := s.checkOwnership(ctx, user, *user.PrimaryEmailID); err != nil {
			return err
		}
	}
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, user *User) error {
	return s.Transaction(ctx, func(repo Repository) error {
		tx := repo.(*Store).db

		emailIDs := tx.Model(&Email{}).Select("id").Where("user_id = ?", user.ID)
		if err := tx.Where("email_id IN (?)", emailIDs).Delete(&EmailVerification{}).Error; err != nil {
			return fmt.Errorf("failed to delete user verifications: %w", err)
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&Email{}).Error; err != nil {
			return fmt.Errorf("failed to delete user emails: %w", err)
		}
		if err := tx.Delete(&User{}, "id = ?", user.ID).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

func (s *Store) CreateEmail(ctx context.Context, owner *User, address string, verified bool) (*Email, error) {
	email := &Email{
		Address:    NormalizeAddress(address),
		UserID:     owner.ID,
		IsVerified: verified,
	}

	if err := s.db.WithContext(ctx).Select("*").Omit("User").Create(email).Error; err != nil {
		if isUniqueViolation(err) {
			s.logger.Info("email address already registered", zap.String("email", email.Address))
			return nil, ErrEmailTaken
		}
		s.logger.Error("failed to create email", zap.Error(err), zap.String("email", email.Address))
		return nil, fmt.Errorf("failed to create email: %w", err)
	}

	email.User = owner
	return email, nil
}

func (s *Store) SetPrimaryEmail(ctx context.Context, user *User, email *Email) error {
	if email.UserID != user.ID {
		return ErrPrimaryEmailNotOwned
	}

	if err := s.db.WithContext(ctx).Model(user).Update("primary_email_id", email.ID).Error; err != nil {
		return fmt.Errorf("failed to set primary email: %w", err)
	}

	user.PrimaryEmailID = &email.ID
	return nil
}

func (s *Store) FindEmailByID(ctx context.Context, id uuid.UUID) (*Email, error) {
	return s.findEmail(ctx, s.db.Where("id = ?", id))
}

func (s *Store) FindEmailByAddress(ctx context.Context, address string) (*Email, error) {
	return s.findEmail(ctx, s.db.Where("address = ?", address))
}

func (s *Store) FindVerifiedEmail(ctx context.Context, address string) (*Email, error) {
	return s.findEmail(ctx, s.db.Where("address = ? AND is_verified = ?", address, true))
}

func (s *Store) findEmail(ctx context.Context, query *gorm.DB) (*Email, error) {
	var email Email
	if err := query.WithContext(ctx).Preload("User").First(&email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find email: %w", err)
	}
	return &email, nil
}

func (s *Store) MarkEmailVerified(ctx context.Context, email *Email) error {
	result := s.db.WithContext(ctx).Model(&Email{}).Where("id = ?", email.ID).Update("is_verified", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark email as verified: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	email.IsVerified = true
	return nil
}

func (s *Store) DeleteEmail(ctx context.Context, email *Email) error {
	return s.Transaction(ctx, func(repo Repository) error {
		tx := repo.(*Store).db

		if err := tx.Model(&User{}).Where("primary_email_id = ?", email.ID).Update("primary_email_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear primary email: %w", err)
		}
		if err := tx.Where("email_id = ?", email.ID).Delete(&EmailVerification{}).Error; err != nil {
			return fmt.Errorf("failed to delete email verifications: %w", err)
		}
		if err := tx.Delete(&Email{}, "id = ?", email.ID).Error; err != nil {
			return fmt.Errorf("failed to delete email: %w", err)
		}
		return nil
	})
}

func (s *Store) CreateVerification(ctx context.Context, email *Email) (*EmailVerification, error) {
	token, err := s.generateToken()
	if err != nil {
		return nil, err
	}

	verification := &EmailVerification{
		EmailID: email.ID,
		Token:   token,
	}

	if err := s.db.WithContext(ctx).Omit("Email").Create(verification).Error; err != nil {
		s.logger.Error("failed to create email verification", zap.Error(err), zap.String("email", email.Address))
		return nil, fmt.Errorf("failed to create email verification: %w", err)
	}

	verification.Email = email
	return verification, nil
}

func (s *Store) FindVerificationByToken(ctx context.Context, token string) (*EmailVerification, error) {
	var verification EmailVerification
	err := s.db.WithContext(ctx).
		Preload("Email").
		Preload("Email.User").
		Where("token = ?", token).
		First(&verification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find email verification: %w", err)
	}
	if verification.Email == nil || verification.Email.User == nil {
		return nil, ErrNotFound
	}
	return &verification, nil
}

func (s *Store) DeleteVerification(ctx context.Context, verification *EmailVerification) error {
	if err := s.db.WithContext(ctx).Delete(&EmailVerification{}, "id = ?", verification.ID).Error; err != nil {
		return fmt.Errorf("failed to delete email verification: %w", err)
	}
	return nil
}

func (s *Store) DeleteVerificationsForEmail(ctx context.Context, emailID uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).Where("email_id = ?", emailID).Delete(&EmailVerification{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete email verifications: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *Store) DeleteVerificationsCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&EmailVerification{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired email verifications: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	return s.count(ctx, &User{})
}

func (s *Store) CountEmails(ctx context.Context) (int64, error) {
	return s.count(ctx, &Email{})
}

func (s *Store) CountVerifications(ctx context.Context) (int64, error) {
	return s.count(ctx, &EmailVerification{})
}

func (s *Store) count(ctx context.Context, model any) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return n, nil
}

func (s *Store) checkOwnership(ctx context.Context, user *User, emailID uuid.UUID) error {
	var n int64
	err := s.db.WithContext(ctx).Model(&Email{}).Where("id = ? AND user_id = ?", emailID, user.ID).Count(&n).Error
	if err != nil {
		return fmt.Errorf("failed to check email ownership: %w", err)
	}
	if n == 0 {
		return ErrPrimaryEmailNotOwned
	}
	return nil
}

func (s *Store) generateToken() (string, error) {
	bytes := make([]byte, s.tokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry")
}
