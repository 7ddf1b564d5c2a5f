package mail

import (
	"fmt"
	"time"

	"github.com/tech-arch1tect/accounts/config"
	"github.com/tech-arch1tect/accounts/services/logging"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Sender delivers a rendered template to a list of recipients.
type Sender interface {
	SendTemplate(templateName string, to []string, subject string, data map[string]any) error
}

type MailClient interface {
	DialAndSend(messages ...*mail.Msg) error
}

type Service struct {
	config   *config.MailConfig
	client   MailClient
	renderer *Renderer
	logger   *logging.Service
}

func NewService(cfg *config.MailConfig, logger *logging.Service) (*Service, error) {
	client, err := newClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewServiceWithClient(cfg, logger, client)
}

func NewServiceWithClient(cfg *config.MailConfig, logger *logging.Service, client MailClient) (*Service, error) {
	if cfg.FromAddress == "" {
		logger.Error("mail service initialization failed: FROM_ADDRESS is required")
		return nil, fmt.Errorf("MAIL_FROM_ADDRESS is required")
	}

	renderer, err := NewRenderer(cfg.TemplatesDir, logger)
	if err != nil {
		logger.Error("failed to load mail templates", zap.Error(err))
		return nil, fmt.Errorf("failed to load mail templates: %w", err)
	}

	logger.Info("mail service initialized",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("encryption", cfg.Encryption),
		zap.String("from_address", cfg.FromAddress))

	return &Service{
		config:   cfg,
		client:   client,
		renderer: renderer,
		logger:   logger,
	}, nil
}

func newClient(cfg *config.MailConfig, logger *logging.Service) (*mail.Client, error) {
	clientOpts := []mail.Option{
		mail.WithPort(cfg.Port),
	}

	switch cfg.Encryption {
	case "ssl":
		clientOpts = append(clientOpts, mail.WithSSL())
	case "none":
		clientOpts = append(clientOpts, mail.WithTLSPortPolicy(mail.NoTLS))
	default:
		clientOpts = append(clientOpts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}

	if cfg.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password))
	}

	client, err := mail.NewClient(cfg.Host, clientOpts...)
	if err != nil {
		logger.Error("failed to create mail client",
			zap.Error(err),
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port))
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	return client, nil
}

func (s *Service) NewMessage() (*mail.Msg, error) {
	message := mail.NewMsg()

	var err error
	if s.config.FromName != "" {
		err = message.FromFormat(s.config.FromName, s.config.FromAddress)
	} else {
		err = message.From(s.config.FromAddress)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set FROM address: %w", err)
	}
	return message, nil
}

func (s *Service) Send(message *mail.Msg) error {
	startTime := time.Now()
	err := s.client.DialAndSend(message)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("failed to send email",
			zap.Error(err),
			zap.Duration("attempt_duration", duration))
		return err
	}

	s.logger.Info("email sent", zap.Duration("send_duration", duration))
	return nil
}

func (s *Service) SendTemplate(templateName string, to []string, subject string, data map[string]any) error {
	s.logger.Info("sending template email",
		zap.String("template", templateName),
		zap.Strings("recipients", to),
		zap.String("subject", subject))

	message, err := s.NewMessage()
	if err != nil {
		return err
	}

	if err := message.To(to...); err != nil {
		s.logger.Error("failed to set TO addresses", zap.Error(err), zap.Strings("recipients", to))
		return fmt.Errorf("failed to set TO addresses: %w", err)
	}

	message.Subject(subject)

	rendered, err := s.renderer.Render(templateName, data)
	if err != nil {
		s.logger.Error("failed to render template", zap.Error(err), zap.String("template", templateName))
		return fmt.Errorf("failed to render template: %w", err)
	}

	switch {
	case rendered.HTML != "" && rendered.Text != "":
		message.SetBodyString(mail.TypeTextHTML, rendered.HTML)
		message.AddAlternativeString(mail.TypeTextPlain, rendered.Text)
	case rendered.HTML != "":
		message.SetBodyString(mail.TypeTextHTML, rendered.HTML)
	default:
		message.SetBodyString(mail.TypeTextPlain, rendered.Text)
	}

	return s.Send(message)
}
