package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fleetdesk/notify/pkg/logging"
	"github.com/fleetdesk/notify/pkg/template"
)

// TemplateStore fetches stored templates. Implementations must return
// (nil, nil) for names that do not resolve to an active template.
type TemplateStore interface {
	FetchTemplate(ctx context.Context, name string) (*Template, error)
}

// SettingsStore fetches the flat app settings map (brand colors, company
// name, support email, logo URL).
type SettingsStore interface {
	FetchSettings(ctx context.Context) (map[string]any, error)
}

// Branding defaults applied when the settings store does not carry the
// key. Values match the production app settings seed.
const (
	defaultPrimaryColor = "#E03E2D"
	defaultSupportEmail = "booking@japandriver.com"
	defaultLogoURL      = "https://japandriver.com/img/driver-invoice-logo.png"
)

// Service is the public rendering entry point. It is safe for concurrent
// use: rendering is pure and the stores provide their own
// synchronization.
type Service struct {
	templates TemplateStore
	settings  SettingsStore
	engine    *template.Engine
	logger    *slog.Logger
}

// NewService creates a rendering service. A nil logger disables logging.
func NewService(templates TemplateStore, settings SettingsStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{
		templates: templates,
		settings:  settings,
		engine:    template.New(),
		logger:    logger,
	}
}

// RenderTemplate fetches the named template and the app settings, builds
// the render context, and renders subject, HTML and text. The two
// fetches are independent reads and run concurrently.
//
// ErrTemplateNotFound is the only rendering-path failure; a settings
// fetch error degrades to default branding, and everything inside the
// engine degrades per directive instead of erroring.
func (s *Service) RenderTemplate(ctx context.Context, name string, variables map[string]any, team Team, lang Language) (*RenderResult, error) {
	type templateResult struct {
		tmpl *Template
		err  error
	}
	type settingsResult struct {
		settings map[string]any
		err      error
	}

	templateCh := make(chan templateResult, 1)
	settingsCh := make(chan settingsResult, 1)
	go func() {
		tmpl, err := s.templates.FetchTemplate(ctx, name)
		templateCh <- templateResult{tmpl: tmpl, err: err}
	}()
	go func() {
		settings, err := s.settings.FetchSettings(ctx)
		settingsCh <- settingsResult{settings: settings, err: err}
	}()

	tr := <-templateCh
	sr := <-settingsCh

	if tr.err != nil {
		return nil, fmt.Errorf("fetch template %q: %w", name, tr.err)
	}
	if tr.tmpl == nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	if sr.err != nil {
		s.logger.Warn("settings fetch failed, rendering with default branding",
			"template", name, "error", sr.err)
		sr.settings = nil
	}

	rctx := s.buildContext(sr.settings, variables, team, lang)
	subject, body, text := s.engine.RenderDocument(
		tr.tmpl.Subject, tr.tmpl.HTMLContent, tr.tmpl.TextContent, rctx)

	html := s.composeHTML(subject, body, rctx, team, lang)

	s.logger.Debug("rendered template", "template", name, "team", team, "language", lang)
	return &RenderResult{Subject: subject, HTML: html, Text: text}, nil
}

// buildContext merges settings, caller variables, and the engine-injected
// fields into one context. Caller variables win over settings; language
// and team always win.
func (s *Service) buildContext(settings, variables map[string]any, team Team, lang Language) *template.Context {
	merged := make(map[string]any, len(settings)+8)
	for k, v := range settings {
		merged[k] = v
	}
	company := TeamCompanyName(team)
	merged["company_name"] = company
	if _, ok := merged["primary_color"]; !ok {
		merged["primary_color"] = defaultPrimaryColor
	}
	if _, ok := merged["support_email"]; !ok {
		merged["support_email"] = defaultSupportEmail
	}
	if _, ok := merged["logo_url"]; !ok {
		merged["logo_url"] = defaultLogoURL
	}
	if _, ok := merged["from_name"]; !ok {
		merged["from_name"] = company
	}

	return template.NewBuilder().
		Settings(merged).
		Variables(variables).
		Language(string(lang)).
		Team(string(team)).
		Build()
}
