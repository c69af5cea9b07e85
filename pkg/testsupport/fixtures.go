// Package testsupport holds fixtures shared by package tests and examples.
package testsupport

import (
	"context"
	_ "embed"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/schema"
)

//go:embed registration.json
var registrationJSON []byte

// RegistrationJSON returns the raw registration schema document.
func RegistrationJSON() []byte {
	return append([]byte(nil), registrationJSON...)
}

// RegistrationSchema returns the sample user registration form: username,
// email, password, date of birth, gender (radio), hobbies (checkbox), bio
// (textarea) and profile picture (file).
func RegistrationSchema() schema.Schema {
	s, err := schema.Decode(registrationJSON, "registration.json")
	if err != nil {
		panic(err)
	}
	return s
}

// Recorder captures submit callback invocations.
type Recorder[T any] struct {
	Calls []T
}

// Record appends one invocation.
func (r *Recorder[T]) Record(v T) {
	r.Calls = append(r.Calls, v)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// Diff fails the test with a -want +got diff when the values differ.
func Diff(t *testing.T, label string, want, got any, opts ...cmp.Option) {
	t.Helper()
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", label, diff)
	}
}
