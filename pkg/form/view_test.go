package form

import (
	"testing"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/testsupport"
)

func TestFields_RenderingSurface(t *testing.T) {
	engine, _ := newRegistration(t)
	mustSetText(t, engine, "gender", "female")
	_ = engine.Toggle("hobbies", "sports", true)
	engine.Submit()

	views := engine.Fields()
	ids := make([]string, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	testsupport.Diff(t, "order", []string{"username", "email", "password", "dob", "gender", "hobbies", "bio", "profilePicture"}, ids)

	username := views[0]
	if username.Kind() != model.KindTextLike || username.InputType() != "text" {
		t.Fatalf("unexpected username control: %#v", username.Control)
	}
	if username.Placeholder != "Enter your username" || username.Error != "Username is required." {
		t.Fatalf("unexpected username view: %+v", username)
	}
	if username.Value.IsList() || username.Value.Text() != "" {
		t.Fatalf("absent text field should show empty text")
	}

	gender := views[4]
	if gender.Kind() != model.KindRadio || !gender.Selected("female") || gender.Selected("male") {
		t.Fatalf("unexpected gender view: %+v", gender)
	}
	if gender.Placeholder != "" {
		t.Fatalf("choice fields carry no placeholder")
	}

	hobbies := views[5]
	if !hobbies.Value.IsList() || !hobbies.Selected("sports") || hobbies.Error != "" {
		t.Fatalf("unexpected hobbies view: %+v", hobbies)
	}

	if views[6].Kind() != model.KindTextarea || views[7].InputType() != "file" {
		t.Fatalf("unexpected bio/profile controls")
	}
}

func TestFields_SelectIncludesEmptyOption(t *testing.T) {
	s := schema.Schema{Fields: []schema.Field{{
		ID: "country", Type: "select", Label: "Country",
		Options: []schema.Option{{Value: "pt", Label: "Portugal"}},
	}}}
	engine, err := New(s, func(Values) {})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	view, ok := engine.Field("country")
	if !ok {
		t.Fatalf("expected field view")
	}
	testsupport.Diff(t, "options", []schema.Option{
		{Value: "", Label: model.EmptyOptionLabel},
		{Value: "pt", Label: "Portugal"},
	}, view.Options)
	if !view.Selected("") {
		t.Fatalf("empty option should be selected when nothing is chosen")
	}
}
