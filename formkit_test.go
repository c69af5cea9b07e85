package formkit_test

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formkit"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/orchestrator"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/testsupport"
)

func fixtureLoader() orchestrator.Option {
	files := fstest.MapFS{"registration.json": {Data: testsupport.RegistrationJSON()}}
	return orchestrator.WithLoader(formkit.NewLoader(formkit.WithFileSystem(files)))
}

func TestNewEngine(t *testing.T) {
	rec := &testsupport.Recorder[form.Values]{}
	engine, err := formkit.NewEngine(testsupport.Context(), schema.SourceFromFS("registration.json"), rec.Record, fixtureLoader())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if engine.Submit() {
		t.Fatalf("empty registration must not submit")
	}
	if len(rec.Calls) != 0 {
		t.Fatalf("callback must not run")
	}
}

func TestGenerateHTML(t *testing.T) {
	out, err := formkit.GenerateHTML(testsupport.Context(), schema.SourceFromFS("registration.json"),
		formkit.RenderOptions{SubmitLabel: "Register"}, fixtureLoader())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), ">Register</button>") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	if _, err := fs.Stat(formkit.EmbeddedTemplates(), "templates/form.tpl"); err != nil {
		t.Fatalf("form template missing: %v", err)
	}
}

func TestNewLoaderOptions(t *testing.T) {
	cfg := formkit.NewLoaderOptions(formkit.WithHTTPFallback(0))
	if !cfg.AllowHTTPFallback {
		t.Fatalf("expected HTTP fallback enabled")
	}
}
