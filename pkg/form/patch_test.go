package form

import (
	"errors"
	"testing"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/testsupport"
)

func TestApplyPatch_PrefillsValues(t *testing.T) {
	engine, _ := newRegistration(t)
	mustSetText(t, engine, "username", "bob")

	err := engine.ApplyPatch([]byte(`[
		{"op": "replace", "path": "/username", "value": "bob123"},
		{"op": "add", "path": "/hobbies", "value": ["reading", "sports"]},
		{"op": "remove", "path": "/hobbies/0"}
	]`))
	if err != nil {
		t.Fatalf("apply patch: %v", err)
	}

	testsupport.Diff(t, "values", Values{
		"username": model.Text("bob123"),
		"hobbies":  model.List([]string{"sports"}),
	}, engine.Values())
}

func TestApplyPatch_IsAtomic(t *testing.T) {
	engine, _ := newRegistration(t)
	mustSetText(t, engine, "username", "bob")

	cases := map[string]string{
		"unknown field":  `[{"op": "add", "path": "/nope", "value": "x"}]`,
		"wrong shape":    `[{"op": "add", "path": "/hobbies", "value": "reading"}]`,
		"failing test":   `[{"op": "test", "path": "/username", "value": "alice"}]`,
		"malformed":      `{"op": "add"}`,
		"non-string arr": `[{"op": "add", "path": "/hobbies", "value": [1, 2]}]`,
	}
	for name, patch := range cases {
		t.Run(name, func(t *testing.T) {
			if err := engine.ApplyPatch([]byte(patch)); err == nil {
				t.Fatalf("expected error")
			}
			testsupport.Diff(t, "values", Values{"username": model.Text("bob")}, engine.Values())
		})
	}

	err := engine.ApplyPatch([]byte(`[{"op": "add", "path": "/nope", "value": "x"}]`))
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}
