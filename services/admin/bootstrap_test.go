package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/accounts/config"
	"github.com/tech-arch1tect/accounts/services/account"
	"github.com/tech-arch1tect/accounts/services/auth"
	"github.com/tech-arch1tect/accounts/testutils"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "Adm1n-Passphrase"
)

func setupBootstrapper(t *testing.T) (*Bootstrapper, *account.Store, *auth.PasswordService) {
	cfg := testutils.GetTestConfig()
	db := testutils.SetupTestDB(t, account.Models()...)
	passwords := auth.NewPasswordService(&cfg.Auth, nil)
	store := account.NewStore(db, passwords, 32, nil)
	return NewBootstrapper(store, nil), store, passwords
}

func counts(t *testing.T, store *account.Store) (int64, int64) {
	users, err := store.CountUsers(context.Background())
	require.NoError(t, err)
	emails, err := store.CountEmails(context.Background())
	require.NoError(t, err)
	return users, emails
}

func TestBootstrapper_MissingConfig(t *testing.T) {
	b, store, _ := setupBootstrapper(t)
	ctx := context.Background()

	_, err := b.Bootstrap(ctx, config.AdminConfig{Password: adminPassword})
	assert.ErrorIs(t, err, ErrAdminEmailRequired)

	_, err = b.Bootstrap(ctx, config.AdminConfig{Email: adminEmail})
	assert.ErrorIs(t, err, ErrAdminPasswordRequired)

	users, emails := counts(t, store)
	assert.Zero(t, users)
	assert.Zero(t, emails)
}

func TestBootstrapper_CreatesSuperuser(t *testing.T) {
	b, store, passwords := setupBootstrapper(t)
	ctx := context.Background()

	result, err := b.Bootstrap(ctx, config.AdminConfig{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, result.Outcome)

	email, err := store.FindVerifiedEmail(ctx, adminEmail)
	require.NoError(t, err)
	user := email.User
	assert.Equal(t, "Admin", user.Name)
	assert.True(t, user.IsActive)
	assert.True(t, user.IsStaff)
	assert.True(t, user.IsSuperuser)
	assert.True(t, passwords.CheckPassword(user.PasswordHash, adminPassword))
	require.NotNil(t, user.PrimaryEmailID)
	assert.Equal(t, email.ID, *user.PrimaryEmailID)

	users, emails := counts(t, store)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(1), emails)
}

func TestBootstrapper_Idempotent(t *testing.T) {
	b, store, _ := setupBootstrapper(t)
	ctx := context.Background()
	cfg := config.AdminConfig{Email: adminEmail, Password: adminPassword}

	first, err := b.Bootstrap(ctx, cfg)
	require.NoError(t, err)
	second, err := b.Bootstrap(ctx, cfg)
	require.NoError(t, err)

	assert.Equal(t, OutcomePromoted, second.Outcome)
	assert.Equal(t, first.User.ID, second.User.ID)

	users, emails := counts(t, store)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(1), emails)
}

func TestBootstrapper_PromotesVerifiedOwner(t *testing.T) {
	b, store, passwords := setupBootstrapper(t)
	ctx := context.Background()

	owner, err := store.CreateUser(ctx, "Not Admin", testutils.TestPasswords.Valid, account.DefaultUserFlags())
	require.NoError(t, err)
	_, err = store.CreateEmail(ctx, owner, adminEmail, true)
	require.NoError(t, err)

	result, err := b.Bootstrap(ctx, config.AdminConfig{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)
	assert.Equal(t, OutcomePromoted, result.Outcome)

	user, err := store.FindUserByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Admin", user.Name)
	assert.True(t, user.IsStaff)
	assert.True(t, user.IsSuperuser)
	assert.True(t, passwords.CheckPassword(user.PasswordHash, testutils.TestPasswords.Valid))
}

func TestBootstrapper_RejectsUnverifiedEmail(t *testing.T) {
	b, store, _ := setupBootstrapper(t)
	ctx := context.Background()

	owner, err := store.CreateUser(ctx, "Pending", testutils.TestPasswords.Valid, account.DefaultUserFlags())
	require.NoError(t, err)
	_, err = store.CreateEmail(ctx, owner, adminEmail, false)
	require.NoError(t, err)

	_, err = b.Bootstrap(ctx, config.AdminConfig{Email: adminEmail, Password: adminPassword})
	assert.ErrorIs(t, err, ErrAdminEmailUnverified)

	user, err := store.FindUserByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pending", user.Name)
	assert.False(t, user.IsStaff)

	users, emails := counts(t, store)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(1), emails)
}
