package app

import (
	"fmt"

	"github.com/tech-arch1tect/accounts/api"
	"github.com/tech-arch1tect/accounts/config"
	"github.com/tech-arch1tect/accounts/database"
	"github.com/tech-arch1tect/accounts/internal/options"
	"github.com/tech-arch1tect/accounts/server"
	"github.com/tech-arch1tect/accounts/services/account"
	"github.com/tech-arch1tect/accounts/services/admin"
	"github.com/tech-arch1tect/accounts/services/auth"
	"github.com/tech-arch1tect/accounts/services/jwt"
	"github.com/tech-arch1tect/accounts/services/logging"
	"github.com/tech-arch1tect/accounts/services/mail"
	"github.com/tech-arch1tect/accounts/services/verification"
	"go.uber.org/fx"
)

type AppBuilder struct {
	config    *config.Config
	http      bool
	fxOptions []fx.Option
	errors    []error
}

func NewApp() *AppBuilder {
	return &AppBuilder{
		fxOptions: make([]fx.Option, 0),
		errors:    make([]error, 0),
	}
}

// New builds an app from functional options.
func New(opts ...options.Option) (*App, error) {
	o := options.Apply(opts...)

	b := NewApp()
	if o.Config != nil {
		b.WithConfig(o.Config)
	}
	if o.EnableHTTP {
		b.WithHTTP()
	}
	return b.WithFxOptions(o.ExtraFxOptions...).Build()
}

func (b *AppBuilder) WithConfig(cfg *config.Config) *AppBuilder {
	if cfg == nil {
		b.addError("config cannot be nil")
		return b
	}
	b.config = cfg
	return b
}

func (b *AppBuilder) WithAutoConfig() *AppBuilder {
	cfg := &config.Config{}
	if err := config.LoadConfig(cfg); err != nil {
		b.addError(fmt.Sprintf("failed to load config: %v", err))
		return b
	}
	b.config = cfg
	return b
}

func (b *AppBuilder) WithHTTP() *AppBuilder {
	b.http = true
	return b
}

func (b *AppBuilder) WithFxOptions(opts ...fx.Option) *AppBuilder {
	b.fxOptions = append(b.fxOptions, opts...)
	return b
}

func (b *AppBuilder) Build() (*App, error) {
	if b.config == nil && len(b.errors) == 0 {
		b.WithAutoConfig()
	}
	if err := b.validate(); err != nil {
		return nil, err
	}

	app := &App{config: b.config}

	fxOptions := b.buildFxOptions()
	fxOptions = append(fxOptions, fx.Populate(&app.logger, &app.db, &app.admin))
	if b.http {
		fxOptions = append(fxOptions, fx.Populate(&app.server))
	}

	app.fx = fx.New(fxOptions...)
	if err := app.fx.Err(); err != nil {
		return nil, fmt.Errorf("failed to build application: %w", err)
	}

	return app, nil
}

func (b *AppBuilder) addError(msg string) {
	b.errors = append(b.errors, fmt.Errorf("%s", msg))
}

func (b *AppBuilder) validate() error {
	if len(b.errors) > 0 {
		return fmt.Errorf("configuration errors: %v", b.errors)
	}

	if b.http {
		if err := b.config.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}

	return nil
}

func provideNotifier(d *mail.Dispatcher) verification.Notifier {
	return d
}

func (b *AppBuilder) buildFxOptions() []fx.Option {
	opts := []fx.Option{
		config.NewProvider(b.config),
		fx.Supply(database.WithModels(account.Models()...)),
		logging.Module,
		database.Module,
		auth.Module,
		account.Module,
		mail.Module,
		fx.Provide(provideNotifier),
		verification.Module,
		jwt.Options,
		admin.Module,
	}

	if b.http {
		opts = append(opts, server.NewProvider(), api.Module)
	}

	return append(opts, b.fxOptions...)
}
