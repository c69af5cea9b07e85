package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// Issue describes one structural problem found by Check.
type Issue struct {
	FieldID string `json:"fieldId,omitempty"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// CheckError aggregates every issue reported for a schema.
type CheckError struct {
	Issues []Issue
}

func (e *CheckError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "schema: invalid"
	}
	if len(e.Issues) == 1 {
		return "schema: " + e.Issues[0].String()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("schema: %d issues: %s", len(e.Issues), strings.Join(parts, "; "))
}

// Check reports structural problems that would make the form ambiguous at
// runtime: missing or duplicate IDs, choice fields without options, duplicate
// option values, inconsistent length bounds and patterns that do not compile.
// It returns nil when the schema is usable, otherwise a *CheckError.
func Check(s Schema) error {
	var issues []Issue
	seen := make(map[string]int, len(s.Fields))

	for idx, field := range s.Fields {
		path := fmt.Sprintf("fields[%d]", idx)
		id := strings.TrimSpace(field.ID)

		if id == "" {
			issues = append(issues, Issue{Path: path + ".id", Message: "id is required"})
		} else if first, dup := seen[id]; dup {
			issues = append(issues, Issue{
				FieldID: id,
				Path:    path + ".id",
				Message: fmt.Sprintf("duplicate id %q (first declared at fields[%d])", id, first),
			})
		} else {
			seen[id] = idx
		}

		if strings.TrimSpace(field.Type) == "" {
			issues = append(issues, Issue{FieldID: id, Path: path + ".type", Message: "type is required"})
		}

		if field.IsChoice() {
			issues = append(issues, checkOptions(field, id, path)...)
		}

		issues = append(issues, checkRules(field.Validation, id, path+".validation")...)
	}

	if len(issues) == 0 {
		return nil
	}
	return &CheckError{Issues: issues}
}

func checkOptions(field Field, id, path string) []Issue {
	if len(field.Options) == 0 {
		return []Issue{{
			FieldID: id,
			Path:    path + ".options",
			Message: fmt.Sprintf("%s field requires options", field.Type),
		}}
	}

	var issues []Issue
	values := make(map[string]struct{}, len(field.Options))
	for i, opt := range field.Options {
		if _, dup := values[opt.Value]; dup {
			issues = append(issues, Issue{
				FieldID: id,
				Path:    fmt.Sprintf("%s.options[%d].value", path, i),
				Message: fmt.Sprintf("duplicate option value %q", opt.Value),
			})
			continue
		}
		values[opt.Value] = struct{}{}
	}
	return issues
}

func checkRules(rules *Rules, id, path string) []Issue {
	if rules == nil {
		return nil
	}

	var issues []Issue
	if rules.MinLength != nil && *rules.MinLength < 0 {
		issues = append(issues, Issue{FieldID: id, Path: path + ".minLength", Message: "must not be negative"})
	}
	if rules.MaxLength != nil && *rules.MaxLength < 0 {
		issues = append(issues, Issue{FieldID: id, Path: path + ".maxLength", Message: "must not be negative"})
	}
	if rules.MinLength != nil && rules.MaxLength != nil && *rules.MaxLength > 0 && *rules.MinLength > *rules.MaxLength {
		issues = append(issues, Issue{
			FieldID: id,
			Path:    path,
			Message: fmt.Sprintf("minLength %d exceeds maxLength %d", *rules.MinLength, *rules.MaxLength),
		})
	}
	if rules.Pattern != nil {
		if _, err := regexp.Compile(*rules.Pattern); err != nil {
			issues = append(issues, Issue{FieldID: id, Path: path + ".pattern", Message: err.Error()})
		}
	}
	return issues
}
