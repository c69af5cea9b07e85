// Package template defines the template engine seam used by renderers. The
// gotemplate subpackage provides the default pongo2-backed implementation.
package template
