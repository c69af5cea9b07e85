package form

import (
	"maps"
	"slices"

	"github.com/goliatone/go-formkit/pkg/model"
)

// Values maps field IDs to their current value. A missing key means the
// field was never edited (or was reset).
type Values map[string]model.Value

// Interface converts the map into plain Go values: string or []string.
func (v Values) Interface() map[string]any {
	out := make(map[string]any, len(v))
	for id, value := range v {
		out[id] = value.Interface()
	}
	return out
}

// Snapshot is an immutable view of the form state at one point in time.
type Snapshot struct {
	Values Values
	Errors map[string]string
}

// state holds the live maps. Writers never mutate a map in place: they build
// a copy, apply the change and swap the reference, so any map previously
// handed out stays frozen.
type state struct {
	values Values
	errors map[string]string
}

func newState() *state {
	return &state{
		values: Values{},
		errors: map[string]string{},
	}
}

func (s *state) value(id string) (model.Value, bool) {
	v, ok := s.values[id]
	return v, ok
}

func (s *state) withValue(id string, value model.Value) {
	next := make(Values, len(s.values)+1)
	maps.Copy(next, s.values)
	next[id] = value
	s.values = next
}

func (s *state) replaceValues(values Values) {
	next := make(Values, len(values))
	maps.Copy(next, values)
	s.values = next
}

func (s *state) replaceErrors(errs map[string]string) {
	next := make(map[string]string, len(errs))
	maps.Copy(next, errs)
	s.errors = next
}

func (s *state) clear() {
	s.values = Values{}
	s.errors = map[string]string{}
}

func (s *state) snapshot() Snapshot {
	return Snapshot{
		Values: cloneValues(s.values),
		Errors: maps.Clone(s.errors),
	}
}

func cloneValues(src Values) Values {
	out := make(Values, len(src))
	for id, value := range src {
		if value.IsList() {
			out[id] = model.List(value.Strings())
			continue
		}
		out[id] = value
	}
	return out
}

// sortedIDs returns map keys in lexical order, for deterministic logging.
func sortedIDs[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
