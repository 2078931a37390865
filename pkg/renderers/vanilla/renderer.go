package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formwalk/pkg/question"
	"github.com/goliatone/go-formwalk/pkg/render"
	rendertemplate "github.com/goliatone/go-formwalk/pkg/render/template"
	"github.com/goliatone/go-formwalk/pkg/render/template/gotemplate"
)

const pageTemplate = "page.tmpl"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	stylesheet       *string
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// page.tmpl at its root.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.templateFS = os.DirFS(path)
		}
	}
}

// WithTemplateRenderer injects a preconfigured engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithStylesheet replaces the inlined default stylesheet. An empty string
// disables it.
func WithStylesheet(css string) Option {
	return func(cfg *config) {
		cfg.stylesheet = &css
	}
}

// Renderer renders a Step as a standalone HTML page.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	stylesheet string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	engine := cfg.templateRenderer
	if engine == nil {
		e, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure templates: %w", err)
		}
		engine = e
	}

	stylesheet := defaultStylesheet()
	if cfg.stylesheet != nil {
		stylesheet = *cfg.stylesheet
	}
	return &Renderer{templates: engine, stylesheet: stylesheet}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render implements render.Renderer.
func (r *Renderer) Render(ctx context.Context, step render.Step, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	action := strings.TrimRight(options.Action, "/")
	hidden := options.HiddenFields
	if step.Question != nil {
		hidden = render.MergeHiddenFields(hidden, render.QuestionField(step.Question.ID))
	}

	data := map[string]any{
		"step":       step,
		"prompt":     sanitizePrompt(step.Prompt),
		"position":   step.Position(),
		"stylesheet": r.stylesheet,
		"errors":     render.MergeFormErrors(options.Errors),
		"hidden":     hiddenView(render.SortedHiddenFields(hidden)),
		"theme":      themeView(options.Theme),
		"actions": map[string]any{
			"start":  action + "/start",
			"answer": action + "/answer",
		},
	}
	if q := step.Question; q != nil {
		data["extra"] = sanitizeEcho(q.Extra)
		if q.Type == question.TypeText {
			data["echo"] = sanitizeEcho(q.Answer)
		}
	}

	out, err := r.templates.RenderTemplate(pageTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render %s: %w", step.Stage, err)
	}
	return []byte(out), nil
}

func hiddenView(fields []render.HiddenField) []map[string]any {
	out := make([]map[string]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, map[string]any{"name": f.Name, "value": f.Value})
	}
	return out
}

func themeView(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	view := map[string]any{
		"name":    cfg.Theme,
		"variant": cfg.Variant,
		"cssvars": cfg.CSSVars,
	}
	if cfg.AssetURL != nil {
		view["stylesheet"] = cfg.AssetURL("stylesheet")
	}
	return view
}
