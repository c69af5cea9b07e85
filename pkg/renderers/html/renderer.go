// Package html renders a form engine as an HTML form.
package html

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	rendertemplate "github.com/goliatone/go-formkit/pkg/render/template"
	"github.com/goliatone/go-formkit/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// Name is the registry key of the HTML renderer.
const Name = "html"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	policy           *bluemonday.Policy
	logger           *slog.Logger
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// templates/form.tpl.
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

// WithTemplateRenderer injects a custom template renderer.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithSanitizer replaces the bluemonday policy applied to the form
// description. The default is bluemonday.UGCPolicy.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithLogger sets the logger used for render diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer draws forms through a template renderer.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	policy    *bluemonday.Policy
	logger    *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer, defaulting to the embedded templates and the
// pongo2 engine.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{templates: templates, policy: cfg.policy, logger: cfg.logger}, nil
}

// MustNew panics when New fails.
func MustNew(options ...Option) *Renderer {
	r, err := New(options...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws the engine's current values and errors.
func (r *Renderer) Render(ctx context.Context, engine *form.Engine, options render.RenderOptions) ([]byte, error) {
	if engine == nil {
		return nil, fmt.Errorf("html renderer: engine is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := r.viewData(engine, options.Normalized())
	out, err := r.templates.RenderTemplate(FormTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}

	r.logger.DebugContext(ctx, "form rendered", "title", engine.Title(), "bytes", len(out))
	return []byte(out), nil
}

func (r *Renderer) viewData(engine *form.Engine, options render.RenderOptions) map[string]any {
	views := engine.Fields()
	fields := make([]map[string]any, 0, len(views))
	for _, view := range views {
		fields = append(fields, fieldData(view))
	}

	hidden := make([]map[string]any, 0, len(options.Hidden))
	for _, h := range options.Hidden {
		hidden = append(hidden, map[string]any{"name": h.Name, "value": h.Value})
	}

	return map[string]any{
		"title":         engine.Title(),
		"description":   r.sanitize(engine.Description()),
		"action":        options.Action,
		"method":        options.Method,
		"submit_label":  options.SubmitLabel,
		"reset_label":   options.ResetLabel,
		"show_reset":    !options.HideReset,
		"hidden_fields": hidden,
		"fields":        fields,
	}
}

func (r *Renderer) sanitize(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}
	return r.policy.Sanitize(description)
}

func fieldData(view form.FieldView) map[string]any {
	data := map[string]any{
		"id":          view.ID,
		"control_id":  controlID(view.ID),
		"error_id":    controlID(view.ID) + "-error",
		"label":       view.Label,
		"required":    view.Required,
		"placeholder": view.Placeholder,
		"kind":        string(view.Kind()),
		"input_type":  view.InputType(),
		"value":       view.Value.Text(),
		"echo":        echoValue(view.InputType()),
		"error":       view.Error,
	}
	if len(view.Options) > 0 {
		data["options"] = optionData(view)
	}
	return data
}

func optionData(view form.FieldView) []map[string]any {
	out := make([]map[string]any, 0, len(view.Options))
	for _, opt := range view.Options {
		out = append(out, map[string]any{
			"value":    opt.Value,
			"label":    opt.Label,
			"selected": view.Selected(opt.Value),
		})
	}
	return out
}

// echoValue reports whether an input re-renders its stored value. Browsers
// ignore file values and passwords are not written back into markup.
func echoValue(inputType string) bool {
	switch inputType {
	case schema.TypeFile, schema.TypePassword:
		return false
	}
	return true
}

func controlID(id string) string {
	return "fk-" + strings.TrimSpace(id)
}
