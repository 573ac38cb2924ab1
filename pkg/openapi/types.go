// Package openapi holds the subset of the OpenAPI 3.x document model that the
// XML documentation enricher reads and mutates.
package openapi

import (
	"encoding/json"
	"strings"
)

// NOTE: These definitions type only the fields the enricher reads or writes.
// Every other member of an object is kept in its Raw map and written back
// as decoded.

// Spec represents the root of an OpenAPI document.
type Spec struct {
	OpenAPI    string               `json:"openapi"`
	Info       Info                 `json:"info"`
	Paths      map[string]*PathItem `json:"paths,omitempty"`
	Components *Components          `json:"components,omitempty"`

	Raw Raw `json:"-"`
}

// MarshalJSON writes the typed fields over the decoded members.
func (s Spec) MarshalJSON() ([]byte, error) {
	type alias Spec
	return marshalObject(alias(s), s.Raw)
}

// UnmarshalJSON decodes the typed fields and keeps every member in Raw.
func (s *Spec) UnmarshalJSON(data []byte) error {
	type alias Spec
	raw, err := decodeObject(data, (*alias)(s))
	s.Raw = raw
	return err
}

// Info represents the OpenAPI info section containing metadata about the API.
type Info struct {
	Title   string `json:"title,omitempty"`
	Version string `json:"version,omitempty"`

	Raw Raw `json:"-"`
}

func (i Info) MarshalJSON() ([]byte, error) {
	type alias Info
	return marshalObject(alias(i), i.Raw)
}

func (i *Info) UnmarshalJSON(data []byte) error {
	type alias Info
	raw, err := decodeObject(data, (*alias)(i))
	i.Raw = raw
	return err
}

// Components represents the OpenAPI components section containing reusable objects.
type Components struct {
	Schemas       map[string]*Schema      `json:"schemas,omitempty"`
	RequestBodies map[string]*RequestBody `json:"requestBodies,omitempty"`

	Raw Raw `json:"-"`
}

func (c Components) MarshalJSON() ([]byte, error) {
	type alias Components
	return marshalObject(alias(c), c.Raw)
}

func (c *Components) UnmarshalJSON(data []byte) error {
	type alias Components
	raw, err := decodeObject(data, (*alias)(c))
	c.Raw = raw
	return err
}

// PathItem represents a path item object containing HTTP operations for a path.
type PathItem struct {
	Get     *Operation `json:"get,omitempty"`
	Put     *Operation `json:"put,omitempty"`
	Post    *Operation `json:"post,omitempty"`
	Delete  *Operation `json:"delete,omitempty"`
	Options *Operation `json:"options,omitempty"`
	Head    *Operation `json:"head,omitempty"`
	Patch   *Operation `json:"patch,omitempty"`
	Trace   *Operation `json:"trace,omitempty"`

	Raw Raw `json:"-"`
}

func (p PathItem) MarshalJSON() ([]byte, error) {
	type alias PathItem
	return marshalObject(alias(p), p.Raw)
}

func (p *PathItem) UnmarshalJSON(data []byte) error {
	type alias PathItem
	raw, err := decodeObject(data, (*alias)(p))
	p.Raw = raw
	return err
}

// Operations returns the non-nil operations of the path item keyed by
// upper-case HTTP method.
func (p *PathItem) Operations() map[string]*Operation {
	ops := make(map[string]*Operation, 8)
	for method, op := range map[string]*Operation{
		"GET":     p.Get,
		"PUT":     p.Put,
		"POST":    p.Post,
		"DELETE":  p.Delete,
		"OPTIONS": p.Options,
		"HEAD":    p.Head,
		"PATCH":   p.Patch,
		"TRACE":   p.Trace,
	} {
		if op != nil {
			ops[method] = op
		}
	}
	return ops
}

// Operation represents an OpenAPI operation object describing a single API operation.
type Operation struct {
	OperationID string               `json:"operationId,omitempty"`
	Summary     string               `json:"summary,omitempty"`
	Description string               `json:"description,omitempty"`
	RequestBody *RequestBody         `json:"requestBody,omitempty"`
	Responses   map[string]*Response `json:"responses,omitempty"`

	Raw Raw `json:"-"`
}

func (o Operation) MarshalJSON() ([]byte, error) {
	type alias Operation
	return marshalObject(alias(o), o.Raw)
}

func (o *Operation) UnmarshalJSON(data []byte) error {
	type alias Operation
	raw, err := decodeObject(data, (*alias)(o))
	o.Raw = raw
	return err
}

// RequestBody represents an OpenAPI request body object.
type RequestBody struct {
	Ref         string                `json:"$ref,omitempty"`
	Description string                `json:"description,omitempty"`
	Content     map[string]*MediaType `json:"content,omitempty"`

	Raw Raw `json:"-"`
}

func (b RequestBody) MarshalJSON() ([]byte, error) {
	type alias RequestBody
	return marshalObject(alias(b), b.Raw)
}

func (b *RequestBody) UnmarshalJSON(data []byte) error {
	type alias RequestBody
	raw, err := decodeObject(data, (*alias)(b))
	b.Raw = raw
	return err
}

// MediaType represents an OpenAPI media type object containing schema information.
type MediaType struct {
	Schema  *Schema `json:"schema,omitempty"`
	Example any     `json:"example,omitempty"`

	Raw Raw `json:"-"`
}

func (m MediaType) MarshalJSON() ([]byte, error) {
	type alias MediaType
	return marshalObject(alias(m), m.Raw)
}

func (m *MediaType) UnmarshalJSON(data []byte) error {
	type alias MediaType
	raw, err := decodeObject(data, (*alias)(m))
	m.Raw = raw
	return err
}

// Response represents an OpenAPI response object describing a single response
// from an API operation.
type Response struct {
	Description string `json:"description"`

	Raw Raw `json:"-"`
}

// MarshalJSON always writes description, which the format requires, unless
// the response is a reference.
func (r Response) MarshalJSON() ([]byte, error) {
	type alias Response
	out, err := encodeObject(alias(r), r.Raw)
	if err != nil {
		return nil, err
	}
	if _, ref := r.Raw["$ref"]; !ref {
		if out["description"], err = json.Marshal(r.Description); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

func (r *Response) UnmarshalJSON(data []byte) error {
	type alias Response
	raw, err := decodeObject(data, (*alias)(r))
	r.Raw = raw
	return err
}

// Schema represents an OpenAPI schema object defining the structure of request/response data.
type Schema struct {
	Ref         string             `json:"$ref,omitempty"`
	Type        string             `json:"-"`
	Types       []string           `json:"-"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Description string             `json:"description,omitempty"`
	Example     any                `json:"example,omitempty"`

	Raw Raw `json:"-"`
}

// MarshalJSON implements custom JSON marshaling for Schema to handle the type field correctly.
// If Types is set, it marshals as an array. If Type is set, it marshals as a string.
func (s Schema) MarshalJSON() ([]byte, error) {
	type alias Schema
	out, err := encodeObject(alias(s), s.Raw)
	if err != nil {
		return nil, err
	}

	var typ any
	if len(s.Types) > 0 {
		typ = s.Types
	} else if s.Type != "" {
		typ = s.Type
	}
	if typ != nil {
		if out["type"], err = json.Marshal(typ); err != nil {
			return nil, err
		}
	}

	return json.Marshal(out)
}

// UnmarshalJSON implements custom JSON unmarshaling for Schema to handle the type field correctly.
func (s *Schema) UnmarshalJSON(data []byte) error {
	type alias Schema
	raw, err := decodeObject(data, (*alias)(s))
	s.Raw = raw
	if err != nil {
		return err
	}

	var typ any
	if member, ok := raw["type"]; ok {
		if err := json.Unmarshal(member, &typ); err != nil {
			return err
		}
	}
	switch v := typ.(type) {
	case string:
		s.Type = v
	case []any:
		s.Types = make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				s.Types = append(s.Types, str)
			}
		}
	}

	return nil
}

const schemaRefPrefix = "#/components/schemas/"

// ResolveType returns the effective primitive type name of the schema,
// following component references. For 3.1 type arrays the first non-null
// entry wins. An empty string means the type could not be determined.
func (s *Schema) ResolveType(components *Components) string {
	seen := map[*Schema]bool{}
	for cur := s; cur != nil && !seen[cur]; {
		seen[cur] = true
		if cur.Ref == "" {
			return cur.primitiveType()
		}
		if components == nil || !strings.HasPrefix(cur.Ref, schemaRefPrefix) {
			return ""
		}
		cur = components.Schemas[strings.TrimPrefix(cur.Ref, schemaRefPrefix)]
	}
	return ""
}

func (s *Schema) primitiveType() string {
	if s.Type != "" {
		return s.Type
	}
	for _, t := range s.Types {
		if t != "null" {
			return t
		}
	}
	return ""
}
