package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// Transformer mutates a decoded schema before it is checked.
type Transformer interface {
	Transform(ctx context.Context, s *schema.Schema) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, s *schema.Schema) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, s *schema.Schema) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, s)
}

// JSONPresetTransformer applies declarative overrides loaded from JSON:
//
//	{
//	  "formTitle": "Join us",
//	  "fields": {
//	    "username": {"label": "Handle", "required": true, "validation": {"minLength": 4}},
//	    "bio": {"placeholder": "A sentence or two"}
//	  },
//	  "order": ["email", "username"]
//	}
//
// Fields named in order move to the front in that order; the rest keep their
// relative order.
type JSONPresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	FormTitle       *string                `json:"formTitle"`
	FormDescription *string                `json:"formDescription"`
	Fields          map[string]fieldPreset `json:"fields"`
	Order           []string               `json:"order"`
}

type fieldPreset struct {
	Label       *string         `json:"label"`
	Placeholder *string         `json:"placeholder"`
	Required    *bool           `json:"required"`
	Options     []schema.Option `json:"options"`
	Validation  *schema.Rules   `json:"validation"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a preset document from fsys.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the preset. Unknown field ids are an error.
func (t *JSONPresetTransformer) Transform(ctx context.Context, s *schema.Schema) error {
	if s == nil {
		return errors.New("json preset transformer: schema is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := t.document
	if doc.FormTitle != nil {
		s.FormTitle = *doc.FormTitle
	}
	if doc.FormDescription != nil {
		s.FormDescription = *doc.FormDescription
	}

	index := make(map[string]int, len(s.Fields))
	for i, f := range s.Fields {
		index[f.ID] = i
	}

	for id, patch := range doc.Fields {
		i, ok := index[id]
		if !ok {
			return fmt.Errorf("json preset transformer: field %q not found", id)
		}
		applyFieldPreset(&s.Fields[i], patch)
	}

	if len(doc.Order) > 0 {
		for _, id := range doc.Order {
			if _, ok := index[id]; !ok {
				return fmt.Errorf("json preset transformer: order names unknown field %q", id)
			}
		}
		s.Fields = reorder(s.Fields, doc.Order)
	}
	return nil
}

func applyFieldPreset(field *schema.Field, patch fieldPreset) {
	if patch.Label != nil {
		field.Label = *patch.Label
	}
	if patch.Placeholder != nil {
		field.Placeholder = *patch.Placeholder
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if patch.Options != nil {
		field.Options = append([]schema.Option(nil), patch.Options...)
	}
	if patch.Validation != nil {
		rules := schema.Rules{}
		if field.Validation != nil {
			rules = *field.Validation
		}
		if patch.Validation.MinLength != nil {
			rules.MinLength = patch.Validation.MinLength
		}
		if patch.Validation.MaxLength != nil {
			rules.MaxLength = patch.Validation.MaxLength
		}
		if patch.Validation.Pattern != nil {
			rules.Pattern = patch.Validation.Pattern
		}
		if patch.Validation.Message != nil {
			rules.Message = patch.Validation.Message
		}
		field.Validation = &rules
	}
}

func reorder(fields []schema.Field, order []string) []schema.Field {
	out := make([]schema.Field, 0, len(fields))
	moved := make(map[string]struct{}, len(order))
	for _, id := range order {
		if _, dup := moved[id]; dup {
			continue
		}
		for _, f := range fields {
			if f.ID == id {
				out = append(out, f)
				moved[id] = struct{}{}
				break
			}
		}
	}
	for _, f := range fields {
		if _, ok := moved[f.ID]; !ok {
			out = append(out, f)
		}
	}
	return out
}
