package annotate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/example/openapi-xmldoc/pkg/openapi"
	"github.com/example/openapi-xmldoc/pkg/symbol"
)

func TestSchemaAnnotatorType(t *testing.T) {
	a := NewSchemaAnnotator(loadIndex(t))

	schema := &openapi.Schema{Type: "object"}
	assert.Equal(t, Annotated, a.AnnotateType(schema, symbol.MustParseType("Acme.Api.Widget")))
	assert.Equal(t, "A widget.", schema.Description)

	noSummary := &openapi.Schema{Description: "generated"}
	assert.Equal(t, Annotated, a.AnnotateType(noSummary, symbol.MustParseType("Acme.Api.Gadget")))
	assert.Equal(t, "generated", noSummary.Description)

	missing := &openapi.Schema{}
	assert.Equal(t, Unannotated, a.AnnotateType(missing, symbol.MustParseType("Acme.Api.Missing")))
	assert.Equal(t, &openapi.Schema{}, missing)

	assert.Equal(t, NoSymbol, a.AnnotateType(schema, nil))
}

func TestSchemaAnnotatorMember(t *testing.T) {
	a := NewSchemaAnnotator(loadIndex(t))
	components := &openapi.Components{Schemas: map[string]*openapi.Schema{
		"Label":  {Type: "string"},
		"Widget": {Type: "object"},
	}}

	tests := []struct {
		name        string
		schema      *openapi.Schema
		member      *symbol.Member
		wantDesc    string
		wantExample any
	}{
		{"string property", &openapi.Schema{Type: "string"}, widgetMember("Name", symbol.Property), "Display name.", "Sprocket"},
		{"string through reference", &openapi.Schema{Ref: "#/components/schemas/Label"}, widgetMember("Name", symbol.Property), "Display name.", "Sprocket"},
		{"nullable string", &openapi.Schema{Types: []string{"null", "string"}}, widgetMember("Name", symbol.Property), "Display name.", "Sprocket"},
		{"multi-line integer example", &openapi.Schema{Type: "integer"}, widgetMember("Size", symbol.Property), "Size in millimetres.", json.Number("12")},
		{"null example", &openapi.Schema{Ref: "#/components/schemas/Widget", Example: "old"}, widgetMember("Parent", symbol.Property), "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := a.AnnotateMember(tt.schema, tt.member, components)
			require.NoError(t, err)
			assert.Equal(t, Annotated, outcome)
			assert.Equal(t, tt.wantDesc, tt.schema.Description)
			assert.Equal(t, tt.wantExample, tt.schema.Example)
		})
	}
}

func TestSchemaAnnotatorMemberMalformedExample(t *testing.T) {
	a := NewSchemaAnnotator(loadIndex(t))

	schema := &openapi.Schema{Type: "object", Description: "keep"}
	outcome, err := a.AnnotateMember(schema, widgetMember("Code", symbol.Field), nil)
	require.Error(t, err)
	assert.Equal(t, Unannotated, outcome)

	var malformed *MalformedExampleError
	assert.True(t, errors.As(err, &malformed))
	assert.Equal(t, &openapi.Schema{Type: "object", Description: "keep"}, schema)
}

func TestSchemaAnnotatorMemberMissing(t *testing.T) {
	a := NewSchemaAnnotator(loadIndex(t))

	schema := &openapi.Schema{Type: "string", Example: "keep"}
	// Documented as a property, so the field identifier misses.
	outcome, err := a.AnnotateMember(schema, widgetMember("Name", symbol.Field), nil)
	require.NoError(t, err)
	assert.Equal(t, Unannotated, outcome)
	assert.Equal(t, &openapi.Schema{Type: "string", Example: "keep"}, schema)
}

func TestSchemaAnnotatorDispatch(t *testing.T) {
	var f SchemaFilter = NewSchemaAnnotator(loadIndex(t))

	schema := &openapi.Schema{}
	outcome, err := f.AnnotateSchema(schema, symbol.MustParseType("Acme.Api.Widget"), nil)
	require.NoError(t, err)
	assert.Equal(t, Annotated, outcome)
	assert.Equal(t, "A widget.", schema.Description)

	prop := &openapi.Schema{Type: "string"}
	outcome, err = f.AnnotateSchema(prop, widgetMember("Name", symbol.Property), nil)
	require.NoError(t, err)
	assert.Equal(t, Annotated, outcome)
	assert.Equal(t, "Sprocket", prop.Example)

	outcome, err = f.AnnotateSchema(schema, &symbol.Parameter{Name: "id"}, nil)
	require.NoError(t, err)
	assert.Equal(t, NoSymbol, outcome)
}
