package model

import (
	"fmt"
	"slices"
	"unicode/utf8"

	json "github.com/goccy/go-json"
)

// Value is a field value: a single string or a list of strings.
type Value struct {
	text  string
	list  []string
	multi bool
}

// Text wraps a scalar value.
func Text(s string) Value {
	return Value{text: s}
}

// List wraps a multi-value. The slice is copied.
func List(items []string) Value {
	return Value{list: slices.Clone(items), multi: true}
}

// IsList reports whether the value holds a list.
func (v Value) IsList() bool {
	return v.multi
}

// Text returns the scalar value, or "" for lists.
func (v Value) Text() string {
	return v.text
}

// Strings returns a copy of the items of a list value, or a one-element slice
// for a non-empty scalar.
func (v Value) Strings() []string {
	if v.multi {
		return slices.Clone(v.list)
	}
	if v.text == "" {
		return nil
	}
	return []string{v.text}
}

// Len measures the value: characters for text, items for lists.
func (v Value) Len() int {
	if v.multi {
		return len(v.list)
	}
	return utf8.RuneCountInString(v.text)
}

// IsEmpty reports whether the value is the empty string or an empty list.
func (v Value) IsEmpty() bool {
	return v.Len() == 0
}

// Contains reports whether item is part of a list value, or equals a scalar.
func (v Value) Contains(item string) bool {
	if v.multi {
		return slices.Contains(v.list, item)
	}
	return v.text == item
}

// Equal compares shape and content.
func (v Value) Equal(other Value) bool {
	if v.multi != other.multi {
		return false
	}
	if v.multi {
		return slices.Equal(v.list, other.list)
	}
	return v.text == other.text
}

func (v Value) String() string {
	if v.multi {
		return fmt.Sprint(v.list)
	}
	return v.text
}

// Interface returns the plain Go form of the value: string or []string.
func (v Value) Interface() any {
	if v.multi {
		if v.list == nil {
			return []string{}
		}
		return slices.Clone(v.list)
	}
	return v.text
}

// MarshalJSON encodes text as a JSON string and lists as a string array.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON accepts a string, an array of strings or null (empty text).
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ValueFrom(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ValueFrom converts decoded JSON (string, []any of strings, []string, nil)
// into a Value.
func ValueFrom(raw any) (Value, error) {
	switch typed := raw.(type) {
	case nil:
		return Text(""), nil
	case string:
		return Text(typed), nil
	case []string:
		return List(typed), nil
	case []any:
		items := make([]string, 0, len(typed))
		for i, item := range typed {
			s, ok := item.(string)
			if !ok {
				return Value{}, fmt.Errorf("model: list item %d is %T, want string", i, item)
			}
			items = append(items, s)
		}
		return List(items), nil
	default:
		return Value{}, fmt.Errorf("model: unsupported value type %T", raw)
	}
}
