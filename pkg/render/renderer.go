// Package render defines the presentation seam over a form engine and a
// registry to look renderers up by name.
package render

import (
	"context"

	"github.com/goliatone/go-formkit/pkg/form"
)

// Renderer turns the current state of an engine into bytes (HTML, text).
// Renderers only read the engine; edits flow back through the engine API.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, engine *form.Engine, options RenderOptions) ([]byte, error)
}
