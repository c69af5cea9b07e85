// Package validation applies a field's declarative rule set to its current
// value. Rules run in a fixed priority order and the first failing rule wins:
// required, minLength, maxLength, pattern.
package validation

import (
	"regexp"
	"strings"
	"sync"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// ErrorKind classifies a validation failure.
type ErrorKind int

const (
	MissingRequired ErrorKind = iota + 1
	TooShort
	TooLong
	PatternMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case MissingRequired:
		return "missing_required"
	case TooShort:
		return "too_short"
	case TooLong:
		return "too_long"
	case PatternMismatch:
		return "pattern_mismatch"
	default:
		return "unknown"
	}
}

// FieldError is the single failure reported for a field.
type FieldError struct {
	FieldID string
	Kind    ErrorKind
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Cache compiles patterns once. The zero value is ready to use and safe for
// concurrent use.
type Cache struct {
	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
}

// NewCache returns an empty pattern cache.
func NewCache() *Cache {
	return &Cache{}
}

var defaultCache = NewCache()

// Validate checks value against field using a shared pattern cache.
// present is false when the field has no entry in the value map; absent
// values are measured as the empty string.
func Validate(field schema.Field, value model.Value, present bool) *FieldError {
	return defaultCache.Validate(field, value, present)
}

// Validate checks value against field and returns nil when every rule passes.
func (c *Cache) Validate(field schema.Field, value model.Value, present bool) *FieldError {
	if !present {
		value = model.Text("")
	}

	if field.Required && value.IsEmpty() {
		return &FieldError{FieldID: field.ID, Kind: MissingRequired, Message: field.Label + " is required."}
	}

	rules := field.Validation
	if rules == nil {
		return nil
	}

	if rules.MinLength != nil && value.Len() < *rules.MinLength {
		return &FieldError{FieldID: field.ID, Kind: TooShort, Message: messageOr(rules, field.Label+" is too short.")}
	}
	if rules.MaxLength != nil && *rules.MaxLength > 0 && value.Len() > *rules.MaxLength {
		return &FieldError{FieldID: field.ID, Kind: TooLong, Message: messageOr(rules, field.Label+" is too long.")}
	}
	if rules.Pattern != nil {
		re, err := c.compile(*rules.Pattern)
		if err != nil || !re.MatchString(subject(value)) {
			return &FieldError{FieldID: field.ID, Kind: PatternMismatch, Message: messageOr(rules, "Invalid "+field.Label)}
		}
	}
	return nil
}

// ValidateAll runs Validate over every field in schema order and returns the
// messages of failing fields keyed by ID. Passing fields are omitted; the map
// is empty (never nil) when the form is valid.
func ValidateAll(s schema.Schema, values map[string]model.Value) map[string]string {
	return defaultCache.ValidateAll(s, values)
}

// ValidateAll is the cache-bound form of the package-level ValidateAll.
func (c *Cache) ValidateAll(s schema.Schema, values map[string]model.Value) map[string]string {
	errs := make(map[string]string)
	for _, field := range s.Fields {
		value, ok := values[field.ID]
		if fe := c.Validate(field, value, ok); fe != nil {
			errs[field.ID] = fe.Message
		}
	}
	return errs
}

func (c *Cache) compile(expr string) (*regexp.Regexp, error) {
	c.mu.RLock()
	re, ok := c.patterns[expr]
	c.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.patterns == nil {
		c.patterns = make(map[string]*regexp.Regexp)
	}
	c.patterns[expr] = re
	c.mu.Unlock()
	return re, nil
}

func messageOr(rules *schema.Rules, fallback string) string {
	if rules.Message != nil && *rules.Message != "" {
		return *rules.Message
	}
	return fallback
}

// subject is the string a pattern is tested against. Lists join their items
// with commas, the way a browser stringifies an array.
func subject(value model.Value) string {
	if !value.IsList() {
		return value.Text()
	}
	return strings.Join(value.Strings(), ",")
}
