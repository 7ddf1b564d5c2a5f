package verification

import (
	"context"

	"github.com/tech-arch1tect/accounts/config"
	"github.com/tech-arch1tect/accounts/services/account"
	"github.com/tech-arch1tect/accounts/services/auth"
	"github.com/tech-arch1tect/accounts/services/logging"
	"go.uber.org/fx"
)

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		AppName:          cfg.App.Name,
		AppURL:           cfg.App.URL,
		VerificationPath: cfg.App.VerificationPath,
		LoginPath:        cfg.App.LoginPath,
		Expiry:           cfg.Auth.EmailVerificationExpiry,
		PurgeOnVerify:    cfg.Auth.EmailVerificationPurgeOnVerify,
		CleanupInterval:  cfg.Auth.EmailVerificationCleanupInterval,
	}
}

func ProvideEngine(cfg *config.Config, repo account.Repository, passwords *auth.PasswordService, notifier Notifier, logger *logging.Service) *Engine {
	return NewEngine(repo, passwords, notifier, OptionsFromConfig(cfg), logger.Named("verification"))
}

func registerCleanupWorker(lc fx.Lifecycle, engine *Engine) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			engine.StartCleanupWorker(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

var Module = fx.Options(
	fx.Provide(ProvideEngine),
	fx.Invoke(registerCleanupWorker),
)
