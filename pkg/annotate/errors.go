package annotate

import "fmt"

// MalformedExampleError reports example text that is not valid JSON once
// coerced for its target schema. It points at a documentation authoring
// mistake and is always returned to the caller.
type MalformedExampleError struct {
	Example string // JSON text that failed to parse
	Err     error
}

func (e *MalformedExampleError) Error() string {
	return fmt.Sprintf("malformed example %q: %v", e.Example, e.Err)
}

func (e *MalformedExampleError) Unwrap() error { return e.Err }
