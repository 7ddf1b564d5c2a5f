package accounts

import (
	"github.com/tech-arch1tect/accounts/app"
	"github.com/tech-arch1tect/accounts/config"
	"github.com/tech-arch1tect/accounts/internal/options"
	"go.uber.org/fx"
)

type App = app.App

func New(opts ...options.Option) (*App, error) {
	return app.New(opts...)
}

func WithConfig(cfg *config.Config) options.Option {
	return options.WithConfig(cfg)
}

func WithHTTP() options.Option {
	return options.WithHTTP()
}

func WithFxOptions(fxOpts ...fx.Option) options.Option {
	return options.WithFxOptions(fxOpts...)
}
