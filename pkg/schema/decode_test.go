package schema

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const jsonDoc = `{
  "formTitle": "Contact",
  "formDescription": "Reach out",
  "fields": [
    {"id": "email", "type": "email", "label": "Email", "required": true,
     "validation": {"pattern": "^\\S+@\\S+$", "message": "Bad email"}},
    {"id": "topic", "type": "select", "label": "Topic",
     "options": [{"value": "sales", "label": "Sales"}]}
  ]
}`

const yamlDoc = `
formTitle: Contact
formDescription: Reach out
fields:
  - id: email
    type: email
    label: Email
    required: true
    validation:
      pattern: '^\S+@\S+$'
      message: Bad email
  - id: topic
    type: select
    label: Topic
    options:
      - value: sales
        label: Sales
`

func TestDecode_JSONAndYAMLAgree(t *testing.T) {
	fromJSON, err := Decode([]byte(jsonDoc), "contact.json")
	if err != nil {
		t.Fatalf("decode json: %v", err)
	}
	fromYAML, err := Decode([]byte(yamlDoc), "contact.yaml")
	if err != nil {
		t.Fatalf("decode yaml: %v", err)
	}

	if diff := cmp.Diff(fromJSON, fromYAML); diff != "" {
		t.Fatalf("json/yaml mismatch (-json +yaml):\n%s", diff)
	}

	want := Schema{
		FormTitle:       "Contact",
		FormDescription: "Reach out",
		Fields: []Field{
			{
				ID: "email", Type: TypeEmail, Label: "Email", Required: true,
				Validation: &Rules{Pattern: String(`^\S+@\S+$`), Message: String("Bad email")},
			},
			{
				ID: "topic", Type: TypeSelect, Label: "Topic",
				Options: []Option{{Value: "sales", Label: "Sales"}},
			},
		},
	}
	if diff := cmp.Diff(want, fromJSON); diff != "" {
		t.Fatalf("decoded schema mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_RejectsEmptyAndGarbage(t *testing.T) {
	if _, err := Decode([]byte("   \n"), "empty.json"); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	if _, err := Decode([]byte("{not: [valid"), "broken.json"); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestDocument_Schema(t *testing.T) {
	doc, err := NewDocument(SourceFromFS("contact.json"), []byte(jsonDoc))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	s, err := doc.Schema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if got := s.IDs(); !cmp.Equal(got, []string{"email", "topic"}) {
		t.Fatalf("unexpected ids: %v", got)
	}
	if _, err := NewDocument(nil, []byte("{}")); err == nil {
		t.Fatalf("expected nil source to be rejected")
	}
}

func TestParseSource(t *testing.T) {
	src, err := ParseSource("https://example.com/form.json")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if src.Kind() != SourceKindURL {
		t.Fatalf("expected url source, got %s", src.Kind())
	}

	src, err = ParseSource("./schemas/../form.yaml")
	if err != nil {
		t.Fatalf("parse file: %v", err)
	}
	if src.Kind() != SourceKindFile || src.Location() != "form.yaml" {
		t.Fatalf("unexpected file source: %s %s", src.Kind(), src.Location())
	}

	if _, err := ParseSource("  "); err == nil {
		t.Fatalf("expected error for blank source")
	}
}

func TestSourceFromFS_String(t *testing.T) {
	src := SourceFromFS("forms/contact.yaml")
	if got := fmt.Sprint(src); got != "fs:forms/contact.yaml" {
		t.Fatalf("unexpected source string %q", got)
	}
}
