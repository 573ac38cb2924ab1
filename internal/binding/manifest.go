// Package binding loads the manifest that ties elements of an OpenAPI
// document to the source symbols that produced them.
//
// A manifest looks like:
//
//	types:
//	  - name: Acme.Api.WidgetsController
//	    methods:
//	      - name: Create
//	        params:
//	          - {name: widget, type: Acme.Api.Widget}
//	  - name: Acme.Api.Repository`1
//	    methods:
//	      - name: Store
//	        params:
//	          - {name: item, type: "!0"}
//	operations:
//	  createWidget:
//	    type: Acme.Api.WidgetsController
//	    method: Create
//	    body: {parameter: widget}
//	  storeGadget:
//	    type: Acme.Api.Repository<Acme.Api.Gadget>
//	    method: Store
//	schemas:
//	  Widget:
//	    type: Acme.Api.Widget
//	    properties:
//	      name: {member: Name}
//	      code: {member: Code, kind: field}
package binding

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Manifest is the on-disk form of the bindings.
type Manifest struct {
	Types      []TypeDecl                  `yaml:"types" validate:"dive"`
	Operations map[string]OperationBinding `yaml:"operations" validate:"dive"`
	Schemas    map[string]SchemaBinding    `yaml:"schemas" validate:"dive"`
}

// TypeDecl declares a type and the methods documentation can be attached to.
type TypeDecl struct {
	Name    string       `yaml:"name" validate:"required"`
	Methods []MethodDecl `yaml:"methods" validate:"dive"`
}

// MethodDecl declares one method of a type.
type MethodDecl struct {
	Name   string      `yaml:"name" validate:"required"`
	Arity  int         `yaml:"arity" validate:"gte=0"`
	Params []ParamDecl `yaml:"params" validate:"dive"`
}

// ParamDecl declares a method parameter.
type ParamDecl struct {
	Name string `yaml:"name" validate:"required"`
	Type string `yaml:"type" validate:"required"`
}

// OperationBinding binds an operation (by operationId) to its handler
// method. Params selects an overload; for methods of undeclared types it
// also supplies the signature.
type OperationBinding struct {
	Type   string       `yaml:"type" validate:"required"`
	Method string       `yaml:"method" validate:"required"`
	Params []ParamDecl  `yaml:"params" validate:"omitempty,dive"`
	Body   *BodyBinding `yaml:"body" validate:"omitempty"`
}

// BodyBinding names the source of a request body: a parameter of the
// operation's method, or a property of some type.
type BodyBinding struct {
	Parameter string         `yaml:"parameter" validate:"required_without=Property,excluded_with=Property"`
	Property  *MemberBinding `yaml:"property" validate:"omitempty"`
}

// MemberBinding names a field or property of a type.
type MemberBinding struct {
	Type   string `yaml:"type" validate:"required"`
	Member string `yaml:"member" validate:"required"`
	Kind   string `yaml:"kind" validate:"omitempty,oneof=field property"`
}

// SchemaBinding binds a component schema to a type and its properties to
// members of that type.
type SchemaBinding struct {
	Type       string               `yaml:"type" validate:"required"`
	Properties map[string]MemberRef `yaml:"properties" validate:"dive"`
}

// MemberRef names a member of the enclosing schema's type. Kind defaults to
// property.
type MemberRef struct {
	Member string `yaml:"member" validate:"required"`
	Kind   string `yaml:"kind" validate:"omitempty,oneof=field property"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes and validates a manifest. Unknown keys are rejected.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, errors.Errorf("parse bindings: %w", err)
	}
	if err := validate.Struct(&m); err != nil {
		return nil, errors.Errorf("invalid bindings: %w", err)
	}
	return &m, nil
}

// LoadFile reads and parses the manifest at path.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.Errorf("read bindings: %w", err)
	}
	return Parse(data)
}
