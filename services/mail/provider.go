package mail

import (
	"context"

	"github.com/tech-arch1tect/accounts/config"
	"github.com/tech-arch1tect/accounts/services/logging"
	"go.uber.org/fx"
)

func ProvideSender(cfg *config.Config, logger *logging.Service) (Sender, error) {
	log := logger.Named("mail")
	if !cfg.Mail.Enabled {
		log.Info("mail delivery disabled, using log sender")
		return NewLogSender(cfg.Mail.TemplatesDir, log)
	}
	return NewService(&cfg.Mail, log)
}

func ProvideDispatcher(lc fx.Lifecycle, cfg *config.Config, sender Sender, logger *logging.Service) *Dispatcher {
	d := NewDispatcher(sender, cfg.Mail.QueueSize, cfg.Mail.Workers, logger.Named("mail"))
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			d.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return d.Stop(ctx)
		},
	})
	return d
}

var Module = fx.Options(
	fx.Provide(ProvideSender),
	fx.Provide(ProvideDispatcher),
)
