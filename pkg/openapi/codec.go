package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Format names an on-disk encoding of a Spec.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat is returned when an unknown output format is requested.
var ErrUnsupportedFormat = errors.Base("unsupported format")

// ParseFormat maps user input such as "yml" to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

// Decode reads a document in either JSON or YAML form.
func Decode(data []byte) (*Spec, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] != '{' {
		// YAML is a superset of JSON; go through a generic tree so the JSON
		// tags on the model stay the single source of field names.
		var tree any
		if err := yaml.Unmarshal(trimmed, &tree); err != nil {
			return nil, errors.Errorf("parse yaml: %w", err)
		}
		converted, err := json.Marshal(stringifyKeys(tree))
		if err != nil {
			return nil, errors.Errorf("convert yaml: %w", err)
		}
		trimmed = converted
	}

	var spec Spec
	if err := json.Unmarshal(trimmed, &spec); err != nil {
		return nil, errors.Errorf("parse json: %w", err)
	}
	return &spec, nil
}

// Encode writes spec to w in the given format.
func Encode(w io.Writer, format Format, spec *Spec) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(spec)
	case FormatYAML:
		data, err := json.Marshal(spec)
		if err != nil {
			return errors.Errorf("marshal spec: %w", err)
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var tree any
		if err := dec.Decode(&tree); err != nil {
			return errors.Errorf("convert spec: %w", err)
		}
		out, err := yaml.Marshal(yamlNumbers(tree))
		if err != nil {
			return errors.Errorf("marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		return errors.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// stringifyKeys rewrites YAML maps with non-string keys (such as unquoted
// response codes) into JSON-compatible maps.
func stringifyKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = stringifyKeys(child)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[fmt.Sprint(k)] = stringifyKeys(child)
		}
		return out
	case []any:
		for i, child := range t {
			t[i] = stringifyKeys(child)
		}
		return t
	default:
		return v
	}
}

// yamlNumbers replaces json.Number leaves with plain scalar nodes so YAML
// output keeps numbers unquoted and spelled as decoded.
func yamlNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = yamlNumbers(child)
		}
		return t
	case []any:
		for i, child := range t {
			t[i] = yamlNumbers(child)
		}
		return t
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(t.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: t.String()}
	default:
		return v
	}
}
