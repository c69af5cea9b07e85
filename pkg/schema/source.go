package schema

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Source names the form schema document a loader should read: a path on
// disk, an entry of the loader's fs.FS, or an HTTP(S) URL.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind selects the loader strategy for a Source.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// schemaLocation is the single Source implementation; kind picks the
// strategy and ref is the path, fs entry name or URL.
type schemaLocation struct {
	kind SourceKind
	ref  string
}

func (l schemaLocation) Kind() SourceKind { return l.kind }
func (l schemaLocation) Location() string { return l.ref }

// String renders the location as kind:ref.
func (l schemaLocation) String() string { return string(l.kind) + ":" + l.ref }

// SourceFromFile points at a form schema file. The path is cleaned.
func SourceFromFile(path string) Source {
	return schemaLocation{kind: SourceKindFile, ref: filepath.Clean(path)}
}

// SourceFromFS names a form schema inside the loader's fs.FS, typically an
// embed.FS bundling schemas with the binary.
func SourceFromFS(name string) Source {
	return schemaLocation{kind: SourceKindFS, ref: name}
}

// SourceFromURL points at a remotely served form schema. It panics on an
// invalid URL and is meant for literals; use ParseSource for user input.
func SourceFromURL(raw string) Source {
	src, err := urlLocation(raw)
	if err != nil {
		panic(err.Error())
	}
	return src
}

// ParseSource turns a --schema argument into a Source: http:// and https://
// prefixes select a URL, anything else is a file path.
func ParseSource(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return nil, fmt.Errorf("schema: empty source")
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return urlLocation(raw)
	default:
		return SourceFromFile(raw), nil
	}
}

func urlLocation(raw string) (Source, error) {
	if raw == "" {
		return nil, fmt.Errorf("schema: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("schema: invalid URL %q: %w", raw, err)
	}
	return schemaLocation{kind: SourceKindURL, ref: raw}, nil
}
