// Package tui runs a form engine as an interactive terminal session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// Name is the registry key of the terminal renderer.
const Name = "tui"

// Renderer prompts for every field, submits, and re-prompts the fields that
// failed until the submit succeeds or the user aborts.
type Renderer struct {
	driver      PromptDriver
	out         io.Writer
	logger      *slog.Logger
	errorPrefix string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a renderer with the survey driver unless one is supplied.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		out:         os.Stdout,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		errorPrefix: "✗ ",
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}

	if r.driver == nil {
		driver, err := DriverByName(DriverSurvey, r.out)
		if err != nil {
			return nil, err
		}
		r.driver = driver
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the format of Render's output: the submitted values.
func (r *Renderer) ContentType() string {
	return "application/json"
}

// Render runs the session and returns the submitted values as JSON.
func (r *Renderer) Render(ctx context.Context, engine *form.Engine, _ render.RenderOptions) ([]byte, error) {
	if err := r.Run(ctx, engine); err != nil {
		return nil, err
	}
	return json.Marshal(engine.Values())
}

// Run drives the engine to a successful submit. The engine's callback fires
// exactly once, from the final Submit.
func (r *Renderer) Run(ctx context.Context, engine *form.Engine) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if engine == nil {
		return errors.New("tui: engine is nil")
	}
	if r.driver == nil {
		return errors.New("tui: prompt driver is nil")
	}

	if title := engine.Title(); title != "" {
		if err := r.driver.Info(ctx, title); err != nil {
			return err
		}
	}
	if desc := engine.Description(); desc != "" {
		if err := r.driver.Info(ctx, desc); err != nil {
			return err
		}
	}

	pending := engine.Schema().IDs()
	for round := 1; ; round++ {
		for _, id := range pending {
			view, _ := engine.Field(id)
			if err := r.promptField(ctx, engine, view); err != nil {
				return err
			}
		}

		if engine.Submit() {
			r.logger.DebugContext(ctx, "terminal session submitted", "rounds", round)
			return nil
		}

		pending = pending[:0]
		for _, view := range engine.Fields() {
			if view.Error == "" {
				continue
			}
			pending = append(pending, view.ID)
			if err := r.driver.Info(ctx, r.errorPrefix+view.Error); err != nil {
				return err
			}
		}
		r.logger.DebugContext(ctx, "terminal session re-prompting", "round", round, "fields", len(pending))
	}
}

func (r *Renderer) promptField(ctx context.Context, engine *form.Engine, view form.FieldView) error {
	message := view.Label
	if view.Required {
		message += " *"
	}

	var (
		value model.Value
		err   error
	)
	switch control := view.Control.(type) {
	case model.Textarea:
		var text string
		text, err = r.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: view.Value.Text(),
			Help:    view.Placeholder,
		})
		value = model.Text(text)
	case model.Select, model.Radio:
		value, err = r.promptChoice(ctx, message, view)
	case model.Checkbox:
		value, err = r.promptChecks(ctx, message, view)
	case model.TextLike:
		value, err = r.promptText(ctx, message, control.InputType, view)
	default:
		err = fmt.Errorf("tui: unsupported control %T", control)
	}
	if err != nil {
		return err
	}

	// Fields never touched stay absent when left blank.
	if _, present := engine.Value(view.ID); !present && value.IsEmpty() {
		return nil
	}
	return engine.Set(view.ID, value)
}

func (r *Renderer) promptText(ctx context.Context, message, inputType string, view form.FieldView) (model.Value, error) {
	cfg := InputConfig{
		Message:     message,
		Default:     view.Value.Text(),
		Placeholder: view.Placeholder,
	}
	switch inputType {
	case schema.TypePassword:
		cfg.Default = ""
		text, err := r.driver.Password(ctx, cfg)
		return model.Text(text), err
	case schema.TypeFile:
		cfg.Help = "Path to a file"
	}
	text, err := r.driver.Input(ctx, cfg)
	return model.Text(text), err
}

func (r *Renderer) promptChoice(ctx context.Context, message string, view form.FieldView) (model.Value, error) {
	labels := make([]string, len(view.Options))
	selected := 0
	for i, opt := range view.Options {
		labels[i] = opt.Label
		if view.Selected(opt.Value) {
			selected = i
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: labels, DefaultIndex: selected})
	if err != nil {
		return model.Value{}, err
	}
	if idx < 0 || idx >= len(view.Options) {
		return model.Value{}, fmt.Errorf("tui: selection %d out of range for %s", idx, view.ID)
	}
	return model.Text(view.Options[idx].Value), nil
}

func (r *Renderer) promptChecks(ctx context.Context, message string, view form.FieldView) (model.Value, error) {
	labels := make([]string, len(view.Options))
	var defaults []int
	for i, opt := range view.Options {
		labels[i] = opt.Label
		if view.Selected(opt.Value) {
			defaults = append(defaults, i)
		}
	}

	picked, err := r.driver.MultiSelect(ctx, SelectConfig{Message: message, Options: labels, Defaults: defaults})
	if err != nil {
		return model.Value{}, err
	}

	values := make([]string, 0, len(picked))
	for _, idx := range picked {
		if idx < 0 || idx >= len(view.Options) {
			return model.Value{}, fmt.Errorf("tui: selection %d out of range for %s", idx, view.ID)
		}
		values = append(values, view.Options[idx].Value)
	}
	return model.List(values), nil
}
