package form

import (
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// FieldView is everything a presentation layer needs to draw one field.
type FieldView struct {
	ID          string
	Label       string
	Required    bool
	Placeholder string
	Control     model.Control
	// Options lists the choices of select, radio and checkbox controls.
	// Select views include the leading empty option.
	Options []schema.Option
	// Value is the stored value or the control's zero value.
	Value model.Value
	// Error is the message from the last failed submit, or "".
	Error string
}

// Kind is shorthand for Control.Kind().
func (v FieldView) Kind() model.ControlKind {
	return v.Control.Kind()
}

// InputType is the native input kind for text-like controls, "" otherwise.
func (v FieldView) InputType() string {
	if t, ok := v.Control.(model.TextLike); ok {
		return t.InputType
	}
	return ""
}

// Selected reports whether option is the current value of a radio group or
// select, or one of the checked values of a checkbox group.
func (v FieldView) Selected(option string) bool {
	return v.Value.Contains(option)
}

// Fields returns one view per field in render order.
func (e *Engine) Fields() []FieldView {
	views := make([]FieldView, 0, len(e.schema.Fields))
	for _, field := range e.schema.Fields {
		views = append(views, e.view(field))
	}
	return views
}

// Field returns the view of a single field.
func (e *Engine) Field(id string) (FieldView, bool) {
	field, ok := e.schema.Field(id)
	if !ok {
		return FieldView{}, false
	}
	return e.view(field), true
}

func (e *Engine) view(field schema.Field) FieldView {
	control := e.controls[field.ID]

	value, ok := e.Value(field.ID)
	if !ok {
		value = model.ZeroValue(control)
	}

	var options []schema.Option
	switch c := control.(type) {
	case model.Select:
		options = c.Choices()
	default:
		options = append(options, model.OptionsOf(control)...)
	}

	view := FieldView{
		ID:       field.ID,
		Label:    field.Label,
		Required: field.Required,
		Control:  control,
		Options:  options,
		Value:    value,
		Error:    e.state.errors[field.ID],
	}
	switch control.Kind() {
	case model.KindTextLike, model.KindTextarea:
		view.Placeholder = field.Placeholder
	}
	return view
}
