package annotate

import (
	"encoding/json"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
)

const nullLiteral = "null"

// CoerceExample converts documented example text into a JSON value. When the
// target schema is a string the text is quoted first, so that a bare word
// becomes a JSON string; the literal null is never quoted. Numbers decode as
// json.Number to keep their original spelling.
func CoerceExample(raw string, targetIsString bool) (any, error) {
	text := raw
	if targetIsString && raw != nullLiteral {
		text = `"` + raw + `"`
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &MalformedExampleError{Example: text, Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &MalformedExampleError{Example: text, Err: errors.New("unexpected data after JSON value")}
	}
	return v, nil
}

// exampleFor coerces element text, ignoring the whitespace that surrounds
// multi-line example elements.
func exampleFor(text string, isString bool) (any, error) {
	return CoerceExample(strings.TrimSpace(text), isString)
}
