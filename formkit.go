// Package formkit binds declarative form schemas to a validating engine and
// renders them as HTML, terminal sessions or HTTP handlers.
//
// The quickest path from a schema file to a form:
//
//	engine, err := formkit.NewEngine(ctx, schema.SourceFromFile("signup.json"), func(v form.Values) {
//		// persist v
//	})
package formkit

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-formkit/internal/loader"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/orchestrator"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/html"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// Values aliases form.Values.
type Values = form.Values

// LoaderOption mutates schema.LoaderOptions before construction.
type LoaderOption func(*schema.LoaderOptions)

// WithFileSystem resolves fs sources against files.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *schema.LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient enables URL sources through client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *schema.LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables URL sources with a default client and timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *schema.LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// NewLoaderOptions applies options to a zero configuration.
func NewLoaderOptions(options ...LoaderOption) schema.LoaderOptions {
	cfg := schema.LoaderOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// NewLoader constructs the built-in file/fs/HTTP loader.
func NewLoader(options ...LoaderOption) schema.Loader {
	return loader.New(NewLoaderOptions(options...))
}

// NewOrchestrator exposes the orchestrator constructor.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewEngine loads and checks the schema at source and binds it to an engine.
func NewEngine(ctx context.Context, source schema.Source, onSubmit form.SubmitFunc, options ...orchestrator.Option) (*form.Engine, error) {
	return orchestrator.New(options...).Engine(ctx, orchestrator.Request{Source: source}, onSubmit)
}

// GenerateHTML renders an empty HTML form for the schema at source.
func GenerateHTML(ctx context.Context, source schema.Source, renderOptions RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:        source,
		Renderer:      html.Name,
		RenderOptions: renderOptions,
	})
}

// EmbeddedTemplates exposes the HTML renderer's templates so callers can copy
// and customise them.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
