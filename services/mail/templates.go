package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmlTemplate "html/template"
	"path/filepath"
	textTemplate "text/template"

	"github.com/tech-arch1tect/accounts/services/logging"
	"go.uber.org/zap"
)

//go:embed templates/*.html templates/*.txt
var defaultTemplates embed.FS

// Rendered holds the bodies produced for one template. Either may be empty.
type Rendered struct {
	HTML string
	Text string
}

type Renderer struct {
	html   *htmlTemplate.Template
	text   *textTemplate.Template
	logger *logging.Service
}

// NewRenderer loads the embedded templates, then any *.html and *.txt files in
// dir. Files in dir replace embedded templates of the same name.
func NewRenderer(dir string, logger *logging.Service) (*Renderer, error) {
	html, err := htmlTemplate.New("").ParseFS(defaultTemplates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded HTML templates: %w", err)
	}
	text, err := textTemplate.New("").ParseFS(defaultTemplates, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded text templates: %w", err)
	}

	r := &Renderer{html: html, text: text, logger: logger}
	if dir == "" {
		return r, nil
	}

	logger.Info("loading mail templates", zap.String("templates_dir", dir))

	htmlPattern := filepath.Join(dir, "*.html")
	if matches, _ := filepath.Glob(htmlPattern); len(matches) > 0 {
		if _, err := r.html.ParseGlob(htmlPattern); err != nil {
			logger.Error("failed to parse HTML templates", zap.Error(err), zap.String("pattern", htmlPattern))
			return nil, fmt.Errorf("failed to parse HTML templates: %w", err)
		}
	}

	textPattern := filepath.Join(dir, "*.txt")
	if matches, _ := filepath.Glob(textPattern); len(matches) > 0 {
		if _, err := r.text.ParseGlob(textPattern); err != nil {
			logger.Error("failed to parse text templates", zap.Error(err), zap.String("pattern", textPattern))
			return nil, fmt.Errorf("failed to parse text templates: %w", err)
		}
	}

	logger.Info("mail templates loaded",
		zap.Int("html_templates", len(r.html.Templates())),
		zap.Int("text_templates", len(r.text.Templates())))
	return r, nil
}

func (r *Renderer) Has(templateName string) bool {
	return r.html.Lookup(templateName+".html") != nil || r.text.Lookup(templateName+".txt") != nil
}

func (r *Renderer) Render(templateName string, data map[string]any) (Rendered, error) {
	var out Rendered
	var found bool

	if tmpl := r.html.Lookup(templateName + ".html"); tmpl != nil {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return Rendered{}, fmt.Errorf("failed to execute HTML template: %w", err)
		}
		out.HTML = buf.String()
		found = true
	}

	if tmpl := r.text.Lookup(templateName + ".txt"); tmpl != nil {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return Rendered{}, fmt.Errorf("failed to execute text template: %w", err)
		}
		out.Text = buf.String()
		found = true
	}

	if !found {
		r.logger.Warn("template not found", zap.String("template", templateName))
		return Rendered{}, fmt.Errorf("template '%s' not found", templateName)
	}
	return out, nil
}
