package mail

import (
	"fmt"

	"github.com/tech-arch1tect/accounts/services/logging"
	"go.uber.org/zap"
)

// LogSender renders templates and logs the delivery instead of sending it.
// Message bodies are not logged since they carry verification tokens.
type LogSender struct {
	renderer *Renderer
	logger   *logging.Service
}

func NewLogSender(templatesDir string, logger *logging.Service) (*LogSender, error) {
	renderer, err := NewRenderer(templatesDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load mail templates: %w", err)
	}
	return &LogSender{renderer: renderer, logger: logger}, nil
}

func (s *LogSender) SendTemplate(templateName string, to []string, subject string, data map[string]any) error {
	rendered, err := s.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	s.logger.Info("mail delivery disabled, message not sent",
		zap.String("template", templateName),
		zap.Strings("recipients", to),
		zap.String("subject", subject),
		zap.Int("html_length", len(rendered.HTML)),
		zap.Int("text_length", len(rendered.Text)))
	return nil
}
