package schema

// Field types with dedicated controls. Any other type string is treated as a
// single-line input whose native kind equals the type verbatim.
const (
	TypeText     = "text"
	TypeEmail    = "email"
	TypePassword = "password"
	TypeDate     = "date"
	TypeFile     = "file"
	TypeTextarea = "textarea"
	TypeSelect   = "select"
	TypeRadio    = "radio"
	TypeCheckbox = "checkbox"
)

// Option is a single choice offered by select, radio and checkbox fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Rules is the declarative validation rule set attached to a field. Each rule
// is optional; a nil pointer means the rule is inactive, and so does a zero
// MaxLength. Message, when set,
// replaces the default text of the length and pattern rules.
type Rules struct {
	MinLength *int    `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int    `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   *string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Message   *string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Empty reports whether no rule is active.
func (r *Rules) Empty() bool {
	return r == nil || (r.MinLength == nil && r.MaxLength == nil && r.Pattern == nil)
}

// Field describes one input of the form.
type Field struct {
	ID          string   `json:"id" yaml:"id"`
	Type        string   `json:"type" yaml:"type"`
	Label       string   `json:"label" yaml:"label"`
	Required    bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []Option `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  *Rules   `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// IsChoice reports whether the field type draws its values from Options.
func (f Field) IsChoice() bool {
	switch f.Type {
	case TypeSelect, TypeRadio, TypeCheckbox:
		return true
	default:
		return false
	}
}

// HasOption reports whether value is one of the field's option values.
func (f Field) HasOption(value string) bool {
	for _, opt := range f.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// Schema is the top-level form description.
type Schema struct {
	FormTitle       string  `json:"formTitle" yaml:"formTitle"`
	FormDescription string  `json:"formDescription,omitempty" yaml:"formDescription,omitempty"`
	Fields          []Field `json:"fields" yaml:"fields"`
}

// Field looks up a field by ID.
func (s Schema) Field(id string) (Field, bool) {
	for _, field := range s.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// IDs returns the field IDs in render order.
func (s Schema) IDs() []string {
	ids := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		ids = append(ids, field.ID)
	}
	return ids
}

// Int returns a pointer to v. Handy when building Rules literals.
func Int(v int) *int {
	return &v
}

// String returns a pointer to v. Handy when building Rules literals.
func String(v string) *string {
	return &v
}
