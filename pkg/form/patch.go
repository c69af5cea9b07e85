package form

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formkit/pkg/model"
)

// ApplyPatch applies an RFC 6902 JSON Patch to the value document, the JSON
// object mapping field IDs to strings or string arrays. It lets callers
// prefill or bulk-edit a form with one operation ("add /bio", "remove
// /hobbies/0"). The patch is applied atomically: when it fails, or when the
// result names an unknown field or has the wrong shape for a field, the state
// is left untouched. Errors are not recomputed.
func (e *Engine) ApplyPatch(patchJSON []byte) error {
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return fmt.Errorf("form: decode patch: %w", err)
	}

	current, err := json.Marshal(e.state.values)
	if err != nil {
		return fmt.Errorf("form: encode values: %w", err)
	}

	patched, err := patch.Apply(current)
	if err != nil {
		return fmt.Errorf("form: apply patch: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(patched, &raw); err != nil {
		return fmt.Errorf("form: decode patched values: %w", err)
	}

	next := make(Values, len(raw))
	for id, item := range raw {
		control, err := e.lookup(id)
		if err != nil {
			return err
		}
		value, err := model.ValueFrom(item)
		if err != nil {
			return fmt.Errorf("form: field %q: %w", id, err)
		}
		if item == nil && control.Multi() {
			value = model.List(nil)
		}
		if control.Multi() != value.IsList() {
			return fmt.Errorf("%w: %q expects %s", ErrKindMismatch, id, shapeName(control))
		}
		next[id] = value
	}

	e.state.replaceValues(next)
	e.notify()
	return nil
}
