package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/testsupport"
)

const petstore = `
openapi: 3.0.3
info: {title: Pets, version: 1.0.0}
paths:
  /pets:
    post:
      operationId: createPet
      summary: New pet
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [name]
              properties:
                name: {type: string, minLength: 2}
      responses:
        "201": {description: created}
`

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append(args, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func registrationPath(t *testing.T) string {
	return writeFile(t, "registration.json", testsupport.RegistrationJSON())
}

func TestCheck(t *testing.T) {
	res := runCLI(t, "", "check", "--schema", registrationPath(t))
	assert.Equal(t, exitOK, res.code)
	assert.Contains(t, res.stdout, "ok: 8 field(s)")

	broken := writeFile(t, "broken.yaml", []byte("fields:\n  - id: a\n    type: radio\n    label: A\n  - id: a\n    type: text\n    label: B\n"))
	res = runCLI(t, "", "check", broken)
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, "issue(s) found")
}

func TestRender(t *testing.T) {
	res := runCLI(t, "", "render", "-s", registrationPath(t))
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, `<form class="formkit"`)

	out := filepath.Join(t.TempDir(), "form.html")
	res = runCLI(t, "", "render", "-s", registrationPath(t), "-o", out)
	require.Equal(t, exitOK, res.code, res.stderr)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "User Registration Form")
}

func TestFill_NonInteractiveSuccess(t *testing.T) {
	stdin := `{"username":"bob123","email":"bob@x.com","password":"longenough1","gender":"male","hobbies":["reading"]}`
	res := runCLI(t, stdin, "fill", "-s", registrationPath(t))
	require.Equal(t, exitOK, res.code, res.stderr)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, "bob123", got["username"])
	assert.Equal(t, []any{"reading"}, got["hobbies"])
}

func TestFill_NonInteractivePatch(t *testing.T) {
	stdin := `[
		{"op":"add","path":"/username","value":"bob123"},
		{"op":"add","path":"/email","value":"bob@x.com"},
		{"op":"add","path":"/password","value":"longenough1"},
		{"op":"add","path":"/gender","value":"other"}
	]`
	res := runCLI(t, stdin, "fill", "-s", registrationPath(t))
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, `"gender": "other"`)
}

func TestFill_NonInteractiveFailure(t *testing.T) {
	res := runCLI(t, `{"username":"ab"}`, "fill", "-s", registrationPath(t))
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, "username: Username is too short.")
	assert.Contains(t, res.stderr, "email: Email Address is required.")
	assert.Empty(t, res.stdout)

	res = runCLI(t, `{"nickname":"x"}`, "fill", "-s", registrationPath(t))
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, "unknown field")
}

func TestImport(t *testing.T) {
	path := writeFile(t, "petstore.yaml", []byte(petstore))

	res := runCLI(t, "", "import", "-s", path)
	assert.Equal(t, exitUsage, res.code)

	res = runCLI(t, "", "import", "-s", path, "--operation", "createPet")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, `"formTitle": "New pet"`)
	assert.Contains(t, res.stdout, `"minLength": 2`)
}

func TestUsageErrors(t *testing.T) {
	assert.Equal(t, exitUsage, runCLI(t, "", "check").code)
	assert.Equal(t, exitUsage, runCLI(t, "", "explode", "-s", "x.json").code)

	var stderr bytes.Buffer
	assert.Equal(t, exitUsage, run(context.Background(), nil, strings.NewReader(""), &bytes.Buffer{}, &stderr))
	assert.Contains(t, stderr.String(), "Usage: formkit")
}

func TestReadConfig(t *testing.T) {
	path := writeFile(t, "config.yaml", []byte("driver: huh\naddr: 127.0.0.1:9000\nhttp_timeout: 3s\n"))

	cfg, err := readConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "huh", cfg.Driver)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, 3*time.Second, cfg.timeout())

	missing, err := readConfig(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, missing)

	bad := writeFile(t, "bad.yaml", []byte("http_timeout: soon\n"))
	_, err = readConfig(bad)
	assert.Error(t, err)
}

func TestLogSubmission_OmitsValues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logSubmission(logger)(context.Background(), form.Values{
		"username": model.Text("bob123"),
		"password": model.Text("hunter2-secret"),
	})

	out := buf.String()
	assert.Contains(t, out, "submission accepted")
	assert.Contains(t, out, "password")
	assert.Contains(t, out, "username")
	assert.NotContains(t, out, "hunter2-secret")
	assert.NotContains(t, out, "bob123")
}
