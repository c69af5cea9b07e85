// Package httpform serves a schema-driven form over HTTP. GET renders an
// empty form; POST binds the request to a fresh engine and submits it.
package httpform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/html"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// ResetField is the button name that clears the form instead of submitting.
const ResetField = "_reset"

const defaultMaxMemory = 8 << 20

// SubmitFunc receives the request context and the validated values.
type SubmitFunc func(ctx context.Context, values form.Values)

// Option configures a Handler.
type Option func(*Handler)

// WithRenderer replaces the HTML renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(h *Handler) {
		if renderer != nil {
			h.renderer = renderer
		}
	}
}

// WithRenderOptions sets the options passed to every render.
func WithRenderOptions(options render.RenderOptions) Option {
	return func(h *Handler) {
		h.renderOptions = options
	}
}

// WithRedirect answers successful submits with 303 See Other to target.
// Without it the values are written back as JSON.
func WithRedirect(target string) Option {
	return func(h *Handler) {
		h.redirect = strings.TrimSpace(target)
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMaxMemory bounds the in-memory part of multipart parsing.
func WithMaxMemory(bytes int64) Option {
	return func(h *Handler) {
		if bytes > 0 {
			h.maxMemory = bytes
		}
	}
}

// Handler serves one form schema.
type Handler struct {
	schema        schema.Schema
	onSubmit      SubmitFunc
	renderer      render.Renderer
	renderOptions render.RenderOptions
	redirect      string
	logger        *slog.Logger
	maxMemory     int64
	patterns      *validation.Cache
}

var _ http.Handler = (*Handler)(nil)

// New checks the schema and builds a handler. onSubmit may be nil when the
// caller only needs validation.
func New(s schema.Schema, onSubmit SubmitFunc, options ...Option) (*Handler, error) {
	if err := schema.Check(s); err != nil {
		return nil, err
	}

	h := &Handler{
		schema:    s,
		onSubmit:  onSubmit,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxMemory: defaultMaxMemory,
		patterns:  validation.NewCache(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(h)
		}
	}
	if h.renderer == nil {
		renderer, err := html.New(html.WithLogger(h.logger))
		if err != nil {
			return nil, fmt.Errorf("httpform: %w", err)
		}
		h.renderer = renderer
	}
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var submitted form.Values
	engine, err := form.New(h.schema, func(values form.Values) {
		submitted = values
	}, form.WithLogger(h.logger), form.WithValidator(h.patterns))
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.write(w, r, http.StatusOK, engine)
	case http.MethodPost:
		h.post(w, r, engine, &submitted)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request, engine *form.Engine, submitted *form.Values) {
	if err := h.parse(r); err != nil {
		h.fail(w, r, http.StatusBadRequest, err)
		return
	}

	if r.PostForm.Has(ResetField) {
		h.write(w, r, http.StatusOK, engine)
		return
	}

	if err := Bind(engine, r); err != nil {
		h.fail(w, r, http.StatusBadRequest, err)
		return
	}

	if !engine.Submit() {
		h.logger.InfoContext(r.Context(), "form rejected", "path", r.URL.Path, "errors", len(engine.Errors()))
		h.write(w, r, http.StatusUnprocessableEntity, engine)
		return
	}

	if h.onSubmit != nil {
		h.onSubmit(r.Context(), *submitted)
	}
	h.logger.InfoContext(r.Context(), "form submitted", "path", r.URL.Path, "fields", len(*submitted))

	if h.redirect != "" {
		http.Redirect(w, r, h.redirect, http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(*submitted); err != nil {
		h.logger.ErrorContext(r.Context(), "encode values", "error", err)
	}
}

func (h *Handler) parse(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(h.maxMemory)
	}
	return r.ParseForm()
}

// Bind copies a parsed request into engine. Checkbox fields take every
// submitted value in order; other fields take the first value. File inputs
// bind the uploaded file name. Fields missing from the request stay absent.
func Bind(engine *form.Engine, r *http.Request) error {
	for _, view := range engine.Fields() {
		id := view.ID

		if view.InputType() == schema.TypeFile {
			if name, ok := uploadedName(r, id); ok {
				if err := engine.SetText(id, name); err != nil {
					return err
				}
			}
			continue
		}

		values, ok := r.PostForm[id]
		if !ok {
			continue
		}

		if view.Control.Multi() {
			if err := engine.Set(id, model.List(nil)); err != nil {
				return err
			}
			for _, v := range values {
				if err := engine.Toggle(id, v, true); err != nil {
					return err
				}
			}
			continue
		}

		first := ""
		if len(values) > 0 {
			first = values[0]
		}
		if err := engine.SetText(id, first); err != nil {
			return err
		}
	}
	return nil
}

func uploadedName(r *http.Request, id string) (string, bool) {
	if r.MultipartForm != nil {
		if files := r.MultipartForm.File[id]; len(files) > 0 {
			return files[0].Filename, true
		}
	}
	if values, ok := r.PostForm[id]; ok && len(values) > 0 {
		return values[0], true
	}
	return "", false
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, engine *form.Engine) {
	body, err := h.renderer.Render(r.Context(), engine, h.renderOptions)
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(body); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		h.logger.DebugContext(r.Context(), "write response", "error", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	h.logger.ErrorContext(r.Context(), "form request failed", "path", r.URL.Path, "status", status, "error", err)
	http.Error(w, http.StatusText(status), status)
}
