package schemamodel

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Schema is a JSON Schema document held as a plain object.
// It is intentionally untyped; the module only interprets the keywords it needs.
type Schema map[string]any

// ParseSchema decodes a schema document written in JSON or YAML.
func ParseSchema(b []byte) (Schema, error) {
	doc, err := decodeObject(b)
	if err != nil {
		return nil, fmt.Errorf("schemamodel: parse schema: %w", err)
	}
	return Schema(doc), nil
}

// decodeObject decodes a JSON or YAML document whose root must be an object.
// JSON numbers are kept as json.Number.
func decodeObject(b []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return nil, errors.New("empty document")
	}

	var v any
	if trimmed[0] == '{' || trimmed[0] == '[' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		var extra any
		if err := dec.Decode(&extra); err != io.EOF {
			return nil, errors.New("invalid JSON: trailing data")
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &v); err != nil {
			return nil, err
		}
		v = fromYAML(v)
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document root must be an object, got %T", v)
	}
	return m, nil
}

// fromYAML rewrites mappings with non-string keys, which yaml.v3 produces for
// keys such as `1:` or `true:`, into JSON-shaped objects.
func fromYAML(v any) any {
	switch x := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = fromYAML(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = fromYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = fromYAML(val)
		}
		return out
	default:
		return v
	}
}
