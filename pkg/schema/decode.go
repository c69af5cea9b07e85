package schema

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Decode parses a JSON or YAML schema document. JSON is tried first; YAML is
// used as the fallback so hand-written schema files can use either syntax.
// name identifies the payload in error messages.
func Decode(data []byte, name string) (Schema, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Schema{}, fmt.Errorf("schema: document %s is empty", name)
	}

	var out Schema
	jsonErr := json.Unmarshal(data, &out)
	if jsonErr == nil {
		return out, nil
	}

	out = Schema{}
	if err := yaml.Unmarshal(data, &out); err == nil {
		return out, nil
	}

	return Schema{}, fmt.Errorf("schema: parse %s: invalid JSON or YAML: %w", name, jsonErr)
}

// Encode renders the schema as indented JSON.
func Encode(s Schema) ([]byte, error) {
	payload, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("schema: encode: %w", err)
	}
	return payload, nil
}
