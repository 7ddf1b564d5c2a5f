package options

import (
	"github.com/tech-arch1tect/accounts/config"
	"go.uber.org/fx"
)

type Options struct {
	Config         *config.Config
	EnableHTTP     bool
	ExtraFxOptions []fx.Option
}

type Option func(*Options)

func WithConfig(cfg *config.Config) Option {
	return func(opts *Options) {
		opts.Config = cfg
	}
}

// WithHTTP mounts the JSON API on an HTTP server started with the app.
func WithHTTP() Option {
	return func(opts *Options) {
		opts.EnableHTTP = true
	}
}

func WithFxOptions(fxOpts ...fx.Option) Option {
	return func(opts *Options) {
		opts.ExtraFxOptions = append(opts.ExtraFxOptions, fxOpts...)
	}
}

func Apply(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
