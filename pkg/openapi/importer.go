package openapi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/schema"
)

const (
	extensionOrder   = "x-formkit-order"
	extensionWidget  = "x-formkit-widget"
	extensionMessage = "x-formkit-message"
)

var (
	// ErrOperationNotFound is returned when no operation carries the id.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestBody is returned when the operation has no usable body.
	ErrNoRequestBody = errors.New("openapi: operation has no request body schema")
)

var preferredMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// Operations lists the operation ids in raw, sorted.
func Operations(ctx context.Context, raw []byte) ([]string, error) {
	doc, err := load(ctx, raw)
	if err != nil {
		return nil, err
	}

	var ids []string
	for path, method, op := range eachOperation(doc) {
		ids = append(ids, operationID(path, method, op))
	}
	sort.Strings(ids)
	return ids, nil
}

// Import converts the request body of operationID into a form schema. The
// result has not been through schema.Check.
func Import(ctx context.Context, raw []byte, operationID string) (schema.Schema, error) {
	doc, err := load(ctx, raw)
	if err != nil {
		return schema.Schema{}, err
	}

	op := findOperation(doc, operationID)
	if op == nil {
		return schema.Schema{}, fmt.Errorf("%w: %s", ErrOperationNotFound, operationID)
	}

	body := requestSchema(op)
	if body == nil {
		return schema.Schema{}, fmt.Errorf("%w: %s", ErrNoRequestBody, operationID)
	}

	properties, required := flatten(body)
	names := orderedNames(properties)

	requiredSet := make(map[string]struct{}, len(required))
	for _, name := range required {
		requiredSet[name] = struct{}{}
	}

	out := schema.Schema{
		FormTitle:       op.Summary,
		FormDescription: op.Description,
		Fields:          make([]schema.Field, 0, len(names)),
	}
	for _, name := range names {
		prop := properties[name]
		if prop == nil {
			continue
		}
		_, req := requiredSet[name]
		out.Fields = append(out.Fields, convertProperty(name, prop, req))
	}
	return out, nil
}

func load(ctx context.Context, raw []byte) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("openapi: document does not contain any paths")
	}
	return doc, nil
}

func eachOperation(doc *openapi3.T) func(yield func(string, string, *openapi3.Operation) bool) {
	return func(yield func(string, string, *openapi3.Operation) bool) {
		for path, item := range doc.Paths.Map() {
			if item == nil {
				continue
			}
			for method, op := range item.Operations() {
				if op == nil {
					continue
				}
				if !yield(path, method, op) {
					return
				}
			}
		}
	}
}

func operationID(path, method string, op *openapi3.Operation) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	return strings.ToLower(method) + ":" + path
}

func findOperation(doc *openapi3.T, id string) *openapi3.Operation {
	for path, method, op := range eachOperation(doc) {
		if operationID(path, method, op) == id {
			return op
		}
	}
	return nil
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range preferredMediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// flatten merges allOf members into a single property set.
func flatten(s *openapi3.Schema) (openapi3.Schemas, []string) {
	properties := make(openapi3.Schemas, len(s.Properties))
	required := append([]string(nil), s.Required...)
	for name, prop := range s.Properties {
		properties[name] = prop
	}
	for _, member := range s.AllOf {
		if member == nil || member.Value == nil {
			continue
		}
		props, req := flatten(member.Value)
		for name, prop := range props {
			if _, exists := properties[name]; !exists {
				properties[name] = prop
			}
		}
		required = append(required, req...)
	}
	return properties, required
}

func orderedNames(properties openapi3.Schemas) []string {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, iok := orderOf(properties[names[i]])
		oj, jok := orderOf(properties[names[j]])
		switch {
		case iok && jok && oi != oj:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return names[i] < names[j]
		}
	})
	return names
}

func orderOf(ref *openapi3.SchemaRef) (int, bool) {
	if ref == nil || ref.Value == nil {
		return 0, false
	}
	switch v := ref.Value.Extensions[extensionOrder].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

func convertProperty(name string, ref *openapi3.SchemaRef, required bool) schema.Field {
	prop := ref.Value
	field := schema.Field{
		ID:          name,
		Type:        schema.TypeText,
		Label:       labelFor(name, prop.Title),
		Required:    required,
		Placeholder: prop.Description,
	}

	widget := stringExtension(prop.Extensions, extensionWidget)
	rules := schema.Rules{}

	switch {
	case isType(prop, openapi3.TypeArray) && prop.Items != nil && prop.Items.Value != nil && len(prop.Items.Value.Enum) > 0:
		field.Type = schema.TypeCheckbox
		field.Options = enumOptions(prop.Items.Value.Enum)
		if prop.MinItems > 0 {
			rules.MinLength = schema.Int(clampInt(prop.MinItems))
		}
		if prop.MaxItems != nil {
			rules.MaxLength = schema.Int(clampInt(*prop.MaxItems))
		}
	case len(prop.Enum) > 0:
		field.Type = schema.TypeSelect
		if widget == schema.TypeRadio {
			field.Type = schema.TypeRadio
		}
		field.Options = enumOptions(prop.Enum)
	default:
		field.Type = textType(prop, widget)
		if prop.MinLength > 0 {
			rules.MinLength = schema.Int(clampInt(prop.MinLength))
		}
		if prop.MaxLength != nil {
			rules.MaxLength = schema.Int(clampInt(*prop.MaxLength))
		}
		if prop.Pattern != "" {
			rules.Pattern = schema.String(prop.Pattern)
		}
	}

	if msg := stringExtension(prop.Extensions, extensionMessage); msg != "" {
		rules.Message = schema.String(msg)
	}
	if !rules.Empty() {
		field.Validation = &rules
	}
	return field
}

func textType(prop *openapi3.Schema, widget string) string {
	if widget == schema.TypeTextarea {
		return schema.TypeTextarea
	}
	switch prop.Format {
	case "email":
		return schema.TypeEmail
	case "password":
		return schema.TypePassword
	case "date":
		return schema.TypeDate
	case "binary":
		return schema.TypeFile
	}
	if isType(prop, openapi3.TypeInteger) || isType(prop, openapi3.TypeNumber) {
		return "number"
	}
	return schema.TypeText
}

func isType(s *openapi3.Schema, typ string) bool {
	return s.Type != nil && s.Type.Is(typ)
}

func enumOptions(values []any) []schema.Option {
	out := make([]schema.Option, 0, len(values))
	for _, raw := range values {
		value := fmt.Sprint(raw)
		out = append(out, schema.Option{Value: value, Label: labelFor(value, "")})
	}
	return out
}

func stringExtension(ext map[string]any, key string) string {
	if s, ok := ext[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func clampInt(v uint64) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// labelFor prefers title, falling back to a humanised property name:
// "first_name" and "firstName" both become "First Name".
func labelFor(name, title string) string {
	if strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}

	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
		case i > 0 && unicode.IsUpper(r):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()

	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
