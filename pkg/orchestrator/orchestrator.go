package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/goliatone/go-formkit/internal/loader"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/openapi"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/html"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
)

const defaultRendererName = html.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom schema loader.
func WithLoader(l schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = l
	}
}

// WithLoaderOptions configures the built-in loader.
func WithLoaderOptions(options schema.LoaderOptions) Option {
	return func(o *Orchestrator) {
		o.loader = loader.New(options)
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits one.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithSchemaTransformer registers transformers that run, in order, after
// decoding and before the schema check.
func WithSchemaTransformer(transformers ...Transformer) Option {
	return func(o *Orchestrator) {
		o.transformers = append(o.transformers, transformers...)
	}
}

// WithLogger sets the logger handed to engines and used for pipeline events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator turns a schema source into engines and rendered output.
type Orchestrator struct {
	loader          schema.Loader
	registry        *render.Registry
	defaultRenderer string
	transformers    []Transformer
	logger          *slog.Logger
	patterns        *validation.Cache
	initialiseErr   error
}

// New constructs an Orchestrator. Missing dependencies get the built-in
// implementations: file/fs loader and a registry holding the HTML renderer.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		patterns:        validation.NewCache(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}

	if o.loader == nil {
		o.loader = loader.New(schema.LoaderOptions{})
	}
	if o.registry == nil {
		renderer, err := html.New(html.WithLogger(o.logger))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else if o.registry, err = render.NewRegistry(renderer); err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: registry: %w", err)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	return o
}

// Request describes where a schema comes from and how to render it.
type Request struct {
	// Source is loaded when Document is nil.
	Source schema.Source
	// Document bypasses the loader.
	Document *schema.Document
	// OperationID, when set, treats the document as OpenAPI and imports the
	// request body of that operation.
	OperationID string
	// Renderer names the renderer; empty uses the default.
	Renderer      string
	RenderOptions render.RenderOptions
}

// Schema loads, decodes, transforms and checks the requested schema.
func (o *Orchestrator) Schema(ctx context.Context, req Request) (schema.Schema, error) {
	if ctx == nil {
		return schema.Schema{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return schema.Schema{}, err
	}
	if o.initialiseErr != nil {
		return schema.Schema{}, o.initialiseErr
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return schema.Schema{}, err
	}

	var s schema.Schema
	if req.OperationID != "" {
		s, err = openapi.Import(ctx, doc.Raw(), req.OperationID)
	} else {
		s, err = doc.Schema()
	}
	if err != nil {
		return schema.Schema{}, fmt.Errorf("orchestrator: decode %s: %w", doc.Location(), err)
	}

	for _, t := range o.transformers {
		if t == nil {
			continue
		}
		if err := t.Transform(ctx, &s); err != nil {
			return schema.Schema{}, fmt.Errorf("orchestrator: transform schema: %w", err)
		}
	}

	if err := schema.Check(s); err != nil {
		return schema.Schema{}, err
	}

	o.logger.DebugContext(ctx, "schema resolved", "location", doc.Location(), "fields", len(s.Fields))
	return s, nil
}

// Engine resolves the schema and binds it to a new engine. Engines share the
// orchestrator's pattern cache and logger.
func (o *Orchestrator) Engine(ctx context.Context, req Request, onSubmit form.SubmitFunc, options ...form.Option) (*form.Engine, error) {
	s, err := o.Schema(ctx, req)
	if err != nil {
		return nil, err
	}
	base := []form.Option{form.WithLogger(o.logger), form.WithValidator(o.patterns)}
	return form.New(s, onSubmit, append(base, options...)...)
}

// Generate renders a fresh form for the request.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	engine, err := o.Engine(ctx, req, func(form.Values) {})
	if err != nil {
		return nil, err
	}
	return o.Render(ctx, engine, req.Renderer, req.RenderOptions)
}

// Render draws an existing engine with the named renderer.
func (o *Orchestrator) Render(ctx context.Context, engine *form.Engine, name string, options render.RenderOptions) ([]byte, error) {
	renderer, err := o.rendererFor(name)
	if err != nil {
		return nil, err
	}
	output, err := renderer.Render(ctx, engine, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Registry exposes the renderer registry for additional registrations.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (schema.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return schema.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: load %s: %w", req.Source, err)
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.initialiseErr != nil {
		return nil, o.initialiseErr
	}
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	renderer, err := o.registry.Get(target)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}
