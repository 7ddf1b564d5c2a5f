package account

import (
	"github.com/tech-arch1tect/accounts/config"
	"github.com/tech-arch1tect/accounts/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideStore(cfg *config.Config, db *gorm.DB, hasher PasswordHasher, logger *logging.Service) *Store {
	return NewStore(db, hasher, cfg.Auth.EmailVerificationTokenLength, logger.Named("account"))
}

func ProvideRepository(store *Store) Repository {
	return store
}

var Module = fx.Options(
	fx.Provide(ProvideStore),
	fx.Provide(ProvideRepository),
)
