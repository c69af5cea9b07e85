package render

import (
	"fmt"
	"sort"
	"strings"
)

// Default labels for the form buttons.
const (
	DefaultSubmitLabel = "Submit"
	DefaultResetLabel  = "Reset"
)

// RenderOptions carry per-request presentation settings. Zero values fall
// back to the defaults.
type RenderOptions struct {
	// Action is the form target URL. Empty posts back to the current page.
	Action string
	// Method defaults to POST.
	Method string
	SubmitLabel string
	ResetLabel  string
	// HideReset omits the reset button.
	HideReset bool
	// Hidden inputs emitted before the visible fields (CSRF tokens and the like).
	Hidden []HiddenField
}

// Normalized returns a copy with defaults applied and hidden fields sorted.
func (o RenderOptions) Normalized() RenderOptions {
	out := o
	out.Method = strings.ToUpper(strings.TrimSpace(o.Method))
	if out.Method == "" {
		out.Method = "POST"
	}
	if strings.TrimSpace(out.SubmitLabel) == "" {
		out.SubmitLabel = DefaultSubmitLabel
	}
	if strings.TrimSpace(out.ResetLabel) == "" {
		out.ResetLabel = DefaultResetLabel
	}
	out.Hidden = SortHidden(o.Hidden)
	return out
}

// HiddenField is a hidden form input.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// CSRFToken is Hidden under a name matching the backend's expectation, for
// example "_csrf".
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// SortHidden drops unnamed fields, keeps the last value per name and sorts by
// name for deterministic output.
func SortHidden(fields []HiddenField) []HiddenField {
	if len(fields) == 0 {
		return nil
	}

	byName := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		byName[name] = field.Value
	}
	if len(byName) == 0 {
		return nil
	}

	out := make([]HiddenField, 0, len(byName))
	for name, value := range byName {
		out = append(out, HiddenField{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
