package form

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// SubmitFunc receives the collected values of a fully valid submission.
type SubmitFunc func(Values)

// Engine owns the state of one form instance.
type Engine struct {
	schema    schema.Schema
	controls  map[string]model.Control
	onSubmit  SubmitFunc
	state     *state
	validator *validation.Cache
	logger    *slog.Logger

	observers map[int]Observer
	nextObs   int
}

// New binds s to a fresh, empty form state. The schema is checked first;
// a schema with duplicate IDs or choice fields lacking options is rejected
// with a *schema.CheckError.
func New(s schema.Schema, onSubmit SubmitFunc, options ...Option) (*Engine, error) {
	if onSubmit == nil {
		return nil, ErrNilCallback
	}
	if err := schema.Check(s); err != nil {
		return nil, err
	}

	e := &Engine{
		schema:    cloneSchema(s),
		controls:  make(map[string]model.Control, len(s.Fields)),
		onSubmit:  onSubmit,
		state:     newState(),
		validator: validation.NewCache(),
		logger:    discardLogger(),
		observers: make(map[int]Observer),
	}
	for _, field := range e.schema.Fields {
		e.controls[field.ID] = model.ControlFor(field)
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e, nil
}

// Schema returns the bound schema.
func (e *Engine) Schema() schema.Schema {
	return cloneSchema(e.schema)
}

// Title returns the form title.
func (e *Engine) Title() string {
	return e.schema.FormTitle
}

// Description returns the form description.
func (e *Engine) Description() string {
	return e.schema.FormDescription
}

// Control returns the control a field renders as.
func (e *Engine) Control(id string) (model.Control, bool) {
	c, ok := e.controls[id]
	return c, ok
}

// SetText replaces the value of a single-valued field: text-like inputs,
// textareas, selects and radio groups.
func (e *Engine) SetText(id, value string) error {
	control, err := e.lookup(id)
	if err != nil {
		return err
	}
	if control.Multi() {
		return fmt.Errorf("%w: %q is a %s group", ErrKindMismatch, id, control.Kind())
	}
	e.state.withValue(id, model.Text(value))
	e.notify()
	return nil
}

// Toggle checks or unchecks one option of a checkbox group. Checking appends
// the option to the current list (an absent field starts empty); unchecking
// removes exactly that option. The list keeps the order options were checked
// in. Checking an option twice leaves the list unchanged.
func (e *Engine) Toggle(id, option string, checked bool) error {
	control, err := e.lookup(id)
	if err != nil {
		return err
	}
	if control.Kind() != model.KindCheckbox {
		return fmt.Errorf("%w: %q is not a checkbox group", ErrKindMismatch, id)
	}

	current, _ := e.state.value(id)
	items := current.Strings()

	if checked {
		if slices.Contains(items, option) {
			return nil
		}
		items = append(items, option)
	} else {
		items = slices.DeleteFunc(items, func(item string) bool { return item == option })
	}

	e.state.withValue(id, model.List(items))
	e.notify()
	return nil
}

// Set replaces a field's value with value, which must match the field's
// shape: a list for checkbox groups, text for everything else.
func (e *Engine) Set(id string, value model.Value) error {
	control, err := e.lookup(id)
	if err != nil {
		return err
	}
	if control.Multi() != value.IsList() {
		return fmt.Errorf("%w: %q expects %s", ErrKindMismatch, id, shapeName(control))
	}
	e.state.withValue(id, value)
	e.notify()
	return nil
}

// Submit validates every field in schema order. When any field fails, the
// error map is replaced with the new failures, values are kept and false is
// returned. Otherwise errors are cleared, the submit callback runs once with
// a snapshot of the values and Submit returns true.
func (e *Engine) Submit() bool {
	errs := e.validator.ValidateAll(e.schema, e.state.values)
	if len(errs) > 0 {
		e.state.replaceErrors(errs)
		e.logger.Debug("form submit rejected", "title", e.schema.FormTitle, "failing", sortedIDs(errs))
		e.notify()
		return false
	}

	e.state.replaceErrors(nil)
	snapshot := cloneValues(e.state.values)
	e.logger.Debug("form submitted", "title", e.schema.FormTitle, "fields", sortedIDs(snapshot))
	e.notify()
	e.onSubmit(snapshot)
	return true
}

// Reset clears every value and error. The submit callback is not invoked.
func (e *Engine) Reset() {
	e.state.clear()
	e.logger.Debug("form reset", "title", e.schema.FormTitle)
	e.notify()
}

// Value returns the stored value of a field and whether the field has one.
func (e *Engine) Value(id string) (model.Value, bool) {
	v, ok := e.state.value(id)
	if ok && v.IsList() {
		return model.List(v.Strings()), true
	}
	return v, ok
}

// Values returns a copy of the value map.
func (e *Engine) Values() Values {
	return cloneValues(e.state.values)
}

// Errors returns a copy of the error map from the last submit attempt.
func (e *Engine) Errors() map[string]string {
	return maps.Clone(e.state.errors)
}

// Error returns the message recorded for a field, or "".
func (e *Engine) Error(id string) string {
	return e.state.errors[id]
}

// Snapshot returns the current values and errors.
func (e *Engine) Snapshot() Snapshot {
	return e.state.snapshot()
}

// Subscribe registers fn to receive a snapshot after each edit, submit
// attempt and reset. Observers run synchronously, in registration order,
// before Submit invokes the submit callback. The returned function removes
// the observer.
func (e *Engine) Subscribe(fn Observer) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	id := e.subscribe(fn)
	return func() { delete(e.observers, id) }
}

func (e *Engine) subscribe(fn Observer) int {
	id := e.nextObs
	e.nextObs++
	e.observers[id] = fn
	return id
}

func (e *Engine) notify() {
	if len(e.observers) == 0 {
		return
	}
	snap := e.state.snapshot()
	for _, id := range slices.Sorted(maps.Keys(e.observers)) {
		if fn, ok := e.observers[id]; ok {
			fn(snap)
		}
	}
}

func (e *Engine) lookup(id string) (model.Control, error) {
	control, ok := e.controls[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	return control, nil
}

func shapeName(c model.Control) string {
	if c.Multi() {
		return "a list"
	}
	return "text"
}

func cloneSchema(s schema.Schema) schema.Schema {
	out := s
	out.Fields = slices.Clone(s.Fields)
	for i := range out.Fields {
		out.Fields[i].Options = slices.Clone(out.Fields[i].Options)
	}
	return out
}
