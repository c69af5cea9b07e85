// Package openapi imports form schemas from OpenAPI 3 request bodies.
//
// The request body of a single operation becomes one form: each top-level
// property maps to a field, ordered by the x-formkit-order extension and then
// by name. kin-openapi stays behind this package.
package openapi
