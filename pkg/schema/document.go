package schema

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"
)

// Document wraps a raw schema payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument validates the inputs and copies the payload.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Schema decodes the payload. The result is not checked; call Check before
// binding it to an engine.
func (d Document) Schema() (Schema, error) {
	return Decode(d.raw, d.Location())
}

// Loader fetches documents from a Source.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions configures the default Loader returned by formkit.NewLoader.
type LoaderOptions struct {
	// FileSystem resolves SourceKindFS sources.
	FileSystem fs.FS
	// HTTPClient enables URL sources using the supplied client.
	HTTPClient *http.Client
	// AllowHTTPFallback enables URL sources with a default client when
	// HTTPClient is nil.
	AllowHTTPFallback bool
	// RequestTimeout bounds each HTTP request when positive.
	RequestTimeout time.Duration
}
