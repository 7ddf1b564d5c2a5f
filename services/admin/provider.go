package admin

import (
	"github.com/tech-arch1tect/accounts/services/account"
	"github.com/tech-arch1tect/accounts/services/logging"
	"go.uber.org/fx"
)

func ProvideBootstrapper(repo account.Repository, logger *logging.Service) *Bootstrapper {
	return NewBootstrapper(repo, logger.Named("admin"))
}

var Module = fx.Options(
	fx.Provide(ProvideBootstrapper),
)
