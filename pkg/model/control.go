package model

import (
	"github.com/goliatone/go-formkit/pkg/schema"
)

// ControlKind enumerates the control variants.
type ControlKind string

const (
	KindTextLike ControlKind = "input"
	KindTextarea ControlKind = "textarea"
	KindSelect   ControlKind = "select"
	KindRadio    ControlKind = "radio"
	KindCheckbox ControlKind = "checkbox"
)

// EmptyOptionLabel is the label of the "no selection" entry every select
// control starts with.
const EmptyOptionLabel = "Select an option"

// Control is the interactive control a field renders as. The set of
// implementations is closed: TextLike, Textarea, Select, Radio and Checkbox.
type Control interface {
	Kind() ControlKind
	// Multi reports whether the control holds a list of values.
	Multi() bool
	control()
}

// TextLike is a single-line input. InputType is passed to the presentation
// layer unchanged ("text", "email", "password", "date", "file", ...).
type TextLike struct {
	InputType string
}

func (TextLike) Kind() ControlKind { return KindTextLike }
func (TextLike) Multi() bool       { return false }
func (TextLike) control()          {}

// Textarea is a multi-line text control.
type Textarea struct{}

func (Textarea) Kind() ControlKind { return KindTextarea }
func (Textarea) Multi() bool       { return false }
func (Textarea) control()          {}

// Select is a single-choice dropdown.
type Select struct {
	Options []schema.Option
}

func (Select) Kind() ControlKind { return KindSelect }
func (Select) Multi() bool       { return false }
func (Select) control()          {}

// Choices returns the dropdown entries, starting with the empty "no
// selection" option.
func (s Select) Choices() []schema.Option {
	out := make([]schema.Option, 0, len(s.Options)+1)
	out = append(out, schema.Option{Value: "", Label: EmptyOptionLabel})
	return append(out, s.Options...)
}

// Radio is a mutually exclusive button group.
type Radio struct {
	Options []schema.Option
}

func (Radio) Kind() ControlKind { return KindRadio }
func (Radio) Multi() bool       { return false }
func (Radio) control()          {}

// Checkbox is an independent multi-select group; its value is the list of
// checked option values in the order they were checked.
type Checkbox struct {
	Options []schema.Option
}

func (Checkbox) Kind() ControlKind { return KindCheckbox }
func (Checkbox) Multi() bool       { return true }
func (Checkbox) control()          {}

// ControlFor maps a field onto its control. Types match exactly, so
// " textarea" is a TextLike input of type " textarea". Anything unrecognised
// is a TextLike input of that type.
func ControlFor(field schema.Field) Control {
	switch field.Type {
	case schema.TypeTextarea:
		return Textarea{}
	case schema.TypeSelect:
		return Select{Options: field.Options}
	case schema.TypeRadio:
		return Radio{Options: field.Options}
	case schema.TypeCheckbox:
		return Checkbox{Options: field.Options}
	default:
		return TextLike{InputType: field.Type}
	}
}

// OptionsOf returns the options carried by choice controls, nil otherwise.
func OptionsOf(c Control) []schema.Option {
	switch typed := c.(type) {
	case Select:
		return typed.Options
	case Radio:
		return typed.Options
	case Checkbox:
		return typed.Options
	default:
		return nil
	}
}

// ZeroValue is the value a control displays when its field has no entry:
// an empty list for checkbox groups, the empty string otherwise.
func ZeroValue(c Control) Value {
	if c != nil && c.Multi() {
		return List(nil)
	}
	return Text("")
}
