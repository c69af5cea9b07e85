// Package loader reads schema documents from disk, an fs.FS or HTTP.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formkit/pkg/schema"
)

var (
	// ErrNoFileSystem is returned for fs sources when no fs.FS was configured.
	ErrNoFileSystem = errors.New("loader: fs is nil")
	// ErrHTTPDisabled is returned for URL sources when neither a client nor the
	// fallback client was configured.
	ErrHTTPDisabled = errors.New("loader: http support disabled")
)

type fetchFunc func(ctx context.Context, location string) ([]byte, error)

// Loader implements schema.Loader with one fetch strategy per source kind.
type Loader struct {
	fetchers map[schema.SourceKind]fetchFunc
}

var _ schema.Loader = (*Loader)(nil)

// New constructs a Loader from resolved options.
func New(options schema.LoaderOptions) *Loader {
	l := &Loader{fetchers: map[schema.SourceKind]fetchFunc{
		schema.SourceKindFile: readPath,
		schema.SourceKindFS:   fsReader(options.FileSystem),
	}}
	if client := remoteClient(options.HTTPClient, options.AllowHTTPFallback, options.RequestTimeout); client != nil {
		l.fetchers[schema.SourceKindURL] = remote{client: client, timeout: options.RequestTimeout}.fetch
	}
	return l
}

// Load fetches the raw payload for src and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("loader: source is nil")
	}
	if strings.TrimSpace(src.Location()) == "" {
		return schema.Document{}, fmt.Errorf("loader: %s location is required", src.Kind())
	}
	if err := ctx.Err(); err != nil {
		return schema.Document{}, err
	}

	fetch, ok := l.fetchers[src.Kind()]
	if !ok {
		if src.Kind() == schema.SourceKindURL {
			return schema.Document{}, ErrHTTPDisabled
		}
		return schema.Document{}, fmt.Errorf("loader: unsupported source kind %q", src.Kind())
	}

	data, err := fetch(ctx, src.Location())
	if err != nil {
		return schema.Document{}, err
	}
	return schema.NewDocument(src, data)
}
