package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/accounts/services/account"
	"github.com/tech-arch1tect/accounts/testutils"
)

func setupAuthenticator(t *testing.T) (*Authenticator, *account.Store) {
	cfg := testutils.GetTestConfig()
	db := testutils.SetupTestDB(t, account.Models()...)
	passwords := NewPasswordService(&cfg.Auth, nil)
	store := account.NewStore(db, passwords, cfg.Auth.EmailVerificationTokenLength, nil)
	return NewAuthenticator(store, passwords, nil), store
}

func createAccount(t *testing.T, store *account.Store, address, password string, verified, active bool) *account.User {
	ctx := context.Background()
	user, err := store.CreateUser(ctx, "Alice", password, account.UserFlags{IsActive: active})
	require.NoError(t, err)
	email, err := store.CreateEmail(ctx, user, address, verified)
	require.NoError(t, err)
	require.NoError(t, store.SetPrimaryEmail(ctx, user, email))
	return user
}

func TestAuthenticator_Authenticate(t *testing.T) {
	ctx := context.Background()
	authenticator, store := setupAuthenticator(t)
	password := testutils.TestPasswords.Valid

	alice := createAccount(t, store, "alice@example.com", password, true, true)
	createAccount(t, store, "pending@example.com", password, false, true)
	createAccount(t, store, "dormant@example.com", password, true, false)

	t.Run("verified email and correct password", func(t *testing.T) {
		user, err := authenticator.Authenticate(ctx, "alice@example.com", password)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, "alice@example.com", testutils.TestPasswords.Other)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, "nobody@example.com", password)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unverified email", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, "pending@example.com", password)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, "dormant@example.com", password)
		assert.ErrorIs(t, err, ErrUserInactive)
	})

	t.Run("inactive user with wrong password", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, "dormant@example.com", testutils.TestPasswords.Other)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("address is matched exactly", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, "alice@EXAMPLE.com", password)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthenticator_GetUserByID(t *testing.T) {
	ctx := context.Background()
	authenticator, store := setupAuthenticator(t)
	alice := createAccount(t, store, "alice@example.com", testutils.TestPasswords.Valid, true, true)

	t.Run("existing user", func(t *testing.T) {
		user, err := authenticator.GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, user.ID)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := authenticator.GetUserByID(ctx, uuid.New())
		assert.ErrorIs(t, err, account.ErrNotFound)
	})
}
