package auth

import (
	"github.com/tech-arch1tect/accounts/config"
	"github.com/tech-arch1tect/accounts/services/account"
	"github.com/tech-arch1tect/accounts/services/logging"
	"go.uber.org/fx"
)

func ProvidePasswordService(cfg *config.Config, logger *logging.Service) *PasswordService {
	return NewPasswordService(&cfg.Auth, logger.Named("password"))
}

func ProvidePolicy(cfg *config.Config) *Policy {
	return NewPolicy(cfg.Auth)
}

func ProvideHasher(s *PasswordService) account.PasswordHasher {
	return s
}

func ProvideVerifier(s *PasswordService) PasswordVerifier {
	return s
}

func ProvideAuthenticator(repo account.Repository, passwords PasswordVerifier, logger *logging.Service) *Authenticator {
	return NewAuthenticator(repo, passwords, logger.Named("auth"))
}

var Module = fx.Options(
	fx.Provide(
		ProvidePasswordService,
		ProvidePolicy,
		ProvideHasher,
		ProvideVerifier,
		ProvideAuthenticator,
	),
)
