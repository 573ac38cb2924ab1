// Package validator checks that an enriched OpenAPI document is still
// well formed.
package validator

import (
	"context"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidDocument wraps every structural problem found.
	ErrInvalidDocument = errors.Base("invalid OpenAPI document")
	// ErrUnsupportedVersion is returned for documents that are not 3.0 or 3.1.
	ErrUnsupportedVersion = errors.Base("unsupported OpenAPI version")
)

var httpMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// Validate checks a JSON or YAML document. OpenAPI 3.0 documents are loaded
// and validated with kin-openapi, which also resolves references; 3.1
// documents get the structural checks only.
func Validate(ctx context.Context, data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Errorf("%w: %s", ErrInvalidDocument, err.Error())
	}

	version, err := checkBasicStructure(doc)
	if err != nil {
		return err
	}

	switch {
	case strings.HasPrefix(version, "3.0."):
		slogctx.Debug(ctx, "validating with kin-openapi", "version", version)
		return validateWithLoader(ctx, data)
	case strings.HasPrefix(version, "3.1."):
		slogctx.Debug(ctx, "validating structure", "version", version)
		return checkPaths(doc)
	default:
		return errors.Errorf("%w: %s", ErrUnsupportedVersion, version)
	}
}

func validateWithLoader(ctx context.Context, data []byte) error {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return errors.Errorf("%w: %s", ErrInvalidDocument, err.Error())
	}
	if err := doc.Validate(ctx); err != nil {
		return errors.Errorf("%w: %s", ErrInvalidDocument, err.Error())
	}
	return nil
}

func checkBasicStructure(doc map[string]any) (string, error) {
	version, ok := doc["openapi"].(string)
	if !ok {
		return "", errors.Errorf("%w: missing or invalid 'openapi' field", ErrInvalidDocument)
	}
	info, ok := doc["info"].(map[string]any)
	if !ok {
		return "", errors.Errorf("%w: missing or invalid 'info' field", ErrInvalidDocument)
	}
	for _, field := range []string{"title", "version"} {
		if _, ok := info[field].(string); !ok {
			return "", errors.Errorf("%w: missing or invalid 'info.%s' field", ErrInvalidDocument, field)
		}
	}
	return version, nil
}

func checkPaths(doc map[string]any) error {
	paths, _ := doc["paths"].(map[string]any)
	for path, raw := range paths {
		item, ok := raw.(map[string]any)
		if !ok {
			return errors.Errorf("%w: path %s: invalid path item", ErrInvalidDocument, path)
		}
		for _, method := range httpMethods {
			op, ok := item[method]
			if !ok {
				continue
			}
			if err := checkOperation(op); err != nil {
				return errors.Errorf("%w: path %s operation %s: %s", ErrInvalidDocument, path, method, err.Error())
			}
		}
	}
	return nil
}

func checkOperation(raw any) error {
	op, ok := raw.(map[string]any)
	if !ok {
		return errors.New("invalid operation")
	}
	params, _ := op["parameters"].([]any)
	for i, p := range params {
		if err := checkParameter(p); err != nil {
			return errors.Errorf("parameter %d: %w", i, err)
		}
	}

	// 3.1 makes responses optional, but an empty object is still an error.
	responses, present := op["responses"]
	if !present {
		return nil
	}
	return checkResponses(responses)
}

func checkResponses(raw any) error {
	codes, ok := raw.(map[string]any)
	if !ok || len(codes) == 0 {
		return errors.New("empty 'responses' field")
	}
	for code, r := range codes {
		resp, ok := r.(map[string]any)
		if !ok {
			return errors.Errorf("response %s: invalid response", code)
		}
		if _, isRef := resp["$ref"]; isRef {
			continue
		}
		if _, ok := resp["description"].(string); !ok {
			return errors.Errorf("response %s: missing 'description' field", code)
		}
	}
	return nil
}

func checkParameter(raw any) error {
	param, ok := raw.(map[string]any)
	if !ok {
		return errors.New("invalid parameter")
	}
	if _, isRef := param["$ref"]; isRef {
		return nil
	}
	if _, ok := param["name"].(string); !ok {
		return errors.New("missing 'name' field")
	}
	in, _ := param["in"].(string)
	switch in {
	case "query", "header", "cookie":
	case "path":
		if required, _ := param["required"].(bool); !required {
			return errors.New("path parameter must have 'required: true'")
		}
	default:
		return errors.Errorf("invalid 'in' value: %q", in)
	}
	return nil
}
