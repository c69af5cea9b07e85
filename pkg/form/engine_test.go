package form

import (
	"errors"
	"testing"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/testsupport"
)

func newRegistration(t *testing.T) (*Engine, *testsupport.Recorder[Values]) {
	t.Helper()
	rec := &testsupport.Recorder[Values]{}
	engine, err := New(testsupport.RegistrationSchema(), rec.Record)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine, rec
}

func mustSetText(t *testing.T, e *Engine, id, value string) {
	t.Helper()
	if err := e.SetText(id, value); err != nil {
		t.Fatalf("set %s: %v", id, err)
	}
}

func TestNew_RejectsInvalidSchema(t *testing.T) {
	s := schema.Schema{Fields: []schema.Field{
		{ID: "dup", Type: "text"},
		{ID: "dup", Type: "text"},
	}}
	_, err := New(s, func(Values) {})
	var checkErr *schema.CheckError
	if !errors.As(err, &checkErr) {
		t.Fatalf("expected *schema.CheckError, got %v", err)
	}

	if _, err := New(testsupport.RegistrationSchema(), nil); !errors.Is(err, ErrNilCallback) {
		t.Fatalf("expected ErrNilCallback, got %v", err)
	}
}

func TestEngine_StartsEmpty(t *testing.T) {
	engine, _ := newRegistration(t)
	if len(engine.Values()) != 0 || len(engine.Errors()) != 0 {
		t.Fatalf("expected empty state, got values=%v errors=%v", engine.Values(), engine.Errors())
	}
	if engine.Title() != "User Registration Form" {
		t.Fatalf("unexpected title %q", engine.Title())
	}
}

func TestSubmit_RequiredEmptyBlocksCallback(t *testing.T) {
	engine, rec := newRegistration(t)

	if engine.Submit() {
		t.Fatalf("expected submit to fail")
	}
	if len(rec.Calls) != 0 {
		t.Fatalf("callback must not run on failure")
	}

	testsupport.Diff(t, "errors", map[string]string{
		"username": "Username is required.",
		"email":    "Email Address is required.",
		"password": "Password is required.",
		"gender":   "Gender is required.",
	}, engine.Errors())
}

func TestSubmit_FailureKeepsValues(t *testing.T) {
	engine, rec := newRegistration(t)
	mustSetText(t, engine, "username", "ab")
	mustSetText(t, engine, "email", "nope")

	if engine.Submit() {
		t.Fatalf("expected submit to fail")
	}
	if len(rec.Calls) != 0 {
		t.Fatalf("callback must not run on failure")
	}
	if got := engine.Error("username"); got != "Username is too short." {
		t.Fatalf("unexpected username error %q", got)
	}
	if got := engine.Error("email"); got != "Please enter a valid email address" {
		t.Fatalf("unexpected email error %q", got)
	}
	if v, _ := engine.Value("username"); v.Text() != "ab" {
		t.Fatalf("values must survive a failed submit, got %q", v.Text())
	}
}

func TestSubmit_AllValidEndToEnd(t *testing.T) {
	engine, rec := newRegistration(t)
	mustSetText(t, engine, "username", "bob123")
	mustSetText(t, engine, "email", "bob@x.com")
	mustSetText(t, engine, "password", "longenough1")
	mustSetText(t, engine, "gender", "male")

	if !engine.Submit() {
		t.Fatalf("expected submit to succeed, errors: %v", engine.Errors())
	}
	if len(engine.Errors()) != 0 {
		t.Fatalf("expected no errors, got %v", engine.Errors())
	}
	if len(rec.Calls) != 1 {
		t.Fatalf("expected exactly one callback, got %d", len(rec.Calls))
	}

	testsupport.Diff(t, "submitted values", Values{
		"username": model.Text("bob123"),
		"email":    model.Text("bob@x.com"),
		"password": model.Text("longenough1"),
		"gender":   model.Text("male"),
	}, rec.Calls[0])
}

func TestSubmit_SuccessClearsPreviousErrors(t *testing.T) {
	engine, rec := newRegistration(t)
	engine.Submit()
	if len(engine.Errors()) == 0 {
		t.Fatalf("expected errors after empty submit")
	}

	mustSetText(t, engine, "username", "bob123")
	mustSetText(t, engine, "email", "bob@x.com")
	mustSetText(t, engine, "password", "longenough1")
	mustSetText(t, engine, "gender", "other")

	if !engine.Submit() {
		t.Fatalf("expected second submit to pass: %v", engine.Errors())
	}
	if len(engine.Errors()) != 0 || len(rec.Calls) != 1 {
		t.Fatalf("expected cleared errors and one callback, got %v / %d", engine.Errors(), len(rec.Calls))
	}
}

func TestSubmit_ResubmitRevalidatesEverything(t *testing.T) {
	engine, _ := newRegistration(t)
	mustSetText(t, engine, "username", "ab")
	engine.Submit()
	mustSetText(t, engine, "username", "abc")
	engine.Submit()

	if _, ok := engine.Errors()["username"]; ok {
		t.Fatalf("fixed field must not keep its old error")
	}
	if _, ok := engine.Errors()["email"]; !ok {
		t.Fatalf("untouched required field must still fail")
	}
}

func TestToggle_AppendOrderAndRemoval(t *testing.T) {
	engine, _ := newRegistration(t)

	for _, step := range []struct {
		option  string
		checked bool
		want    []string
	}{
		{"reading", true, []string{"reading"}},
		{"sports", true, []string{"reading", "sports"}},
		{"reading", false, []string{"sports"}},
		{"reading", true, []string{"sports", "reading"}},
		{"reading", true, []string{"sports", "reading"}},
		{"traveling", false, []string{"sports", "reading"}},
	} {
		if err := engine.Toggle("hobbies", step.option, step.checked); err != nil {
			t.Fatalf("toggle %s=%v: %v", step.option, step.checked, err)
		}
		got, _ := engine.Value("hobbies")
		testsupport.Diff(t, "hobbies", step.want, got.Strings())
	}
}

func TestEdits_RejectUnknownAndMismatchedFields(t *testing.T) {
	engine, _ := newRegistration(t)

	if err := engine.SetText("nope", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := engine.SetText("hobbies", "reading"); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch for text on checkbox, got %v", err)
	}
	if err := engine.Toggle("gender", "male", true); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch for toggle on radio, got %v", err)
	}
	if err := engine.Set("username", model.List([]string{"a"})); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch for list on text, got %v", err)
	}
	if err := engine.Set("hobbies", model.List([]string{"sports"})); err != nil {
		t.Fatalf("set list: %v", err)
	}
}

func TestEdit_LeavesOtherFieldsAndOldMapsUntouched(t *testing.T) {
	engine, _ := newRegistration(t)
	mustSetText(t, engine, "username", "bob")
	before := engine.state.values

	mustSetText(t, engine, "email", "bob@x.com")

	if _, ok := before["email"]; ok {
		t.Fatalf("edit mutated the previous value map in place")
	}
	if v, _ := engine.Value("username"); v.Text() != "bob" {
		t.Fatalf("edit changed another field: %q", v.Text())
	}
}

func TestReset_ClearsEverythingWithoutCallback(t *testing.T) {
	engine, rec := newRegistration(t)
	mustSetText(t, engine, "username", "ab")
	_ = engine.Toggle("hobbies", "sports", true)
	engine.Submit()

	engine.Reset()
	engine.Reset()

	if len(engine.Values()) != 0 || len(engine.Errors()) != 0 {
		t.Fatalf("reset must clear state, got values=%v errors=%v", engine.Values(), engine.Errors())
	}
	if len(rec.Calls) != 0 {
		t.Fatalf("reset must not call the submit callback")
	}
}

func TestSubmit_PriorityShortCircuit(t *testing.T) {
	s := schema.Schema{Fields: []schema.Field{{
		ID: "title", Type: "text", Label: "Title", Required: true,
		Validation: &schema.Rules{MaxLength: schema.Int(5)},
	}}}
	engine, err := New(s, func(Values) {})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	engine.Submit()
	if got := engine.Error("title"); got != "Title is required." {
		t.Fatalf("expected only the required message, got %q", got)
	}
}

func TestSubscribe_ReceivesSnapshots(t *testing.T) {
	engine, rec := newRegistration(t)

	var seen []Snapshot
	cancel := engine.Subscribe(func(s Snapshot) { seen = append(seen, s) })

	mustSetText(t, engine, "username", "bob")
	engine.Submit()
	engine.Reset()
	cancel()
	mustSetText(t, engine, "username", "ignored")

	if len(seen) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(seen))
	}
	if seen[0].Values["username"].Text() != "bob" {
		t.Fatalf("first snapshot missing edit: %v", seen[0].Values)
	}
	if len(seen[1].Errors) == 0 {
		t.Fatalf("second snapshot should carry submit errors")
	}
	if len(seen[2].Values) != 0 || len(seen[2].Errors) != 0 {
		t.Fatalf("third snapshot should be empty after reset")
	}
	if len(rec.Calls) != 0 {
		t.Fatalf("no successful submit expected")
	}
}

func TestWithObserver_RunsBeforeCallback(t *testing.T) {
	var order []string
	s := schema.Schema{Fields: []schema.Field{{ID: "a", Type: "text", Label: "A"}}}
	engine, err := New(s,
		func(Values) { order = append(order, "submit") },
		WithObserver(func(Snapshot) { order = append(order, "observer") }),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	engine.Submit()
	testsupport.Diff(t, "order", []string{"observer", "submit"}, order)
}
