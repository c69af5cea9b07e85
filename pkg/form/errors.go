package form

import "errors"

var (
	// ErrUnknownField is returned when an edit names an ID the schema does
	// not declare.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrKindMismatch is returned when an edit's shape does not fit the
	// field's control (a list for a text input, a toggle on a radio group).
	ErrKindMismatch = errors.New("form: value does not match field control")
	// ErrNilCallback is returned by New when no submit callback is supplied.
	ErrNilCallback = errors.New("form: submit callback is required")
)
