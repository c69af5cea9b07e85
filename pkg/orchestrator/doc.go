// Package orchestrator wires the loader, decoder, transformers, schema check
// and renderer registry behind a single entry point.
package orchestrator
