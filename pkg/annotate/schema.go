package annotate

import (
	"github.com/example/openapi-xmldoc/pkg/openapi"
	"github.com/example/openapi-xmldoc/pkg/symbol"
	"github.com/example/openapi-xmldoc/pkg/xmldoc"
)

// SchemaAnnotator copies type and member documentation onto schemas.
type SchemaAnnotator struct {
	base
}

var _ SchemaFilter = (*SchemaAnnotator)(nil)

// NewSchemaAnnotator returns an annotator reading from index.
func NewSchemaAnnotator(index *xmldoc.Index, opts ...Option) *SchemaAnnotator {
	return &SchemaAnnotator{base: newBase(index, opts)}
}

// AnnotateSchema implements SchemaFilter for *symbol.Type and
// *symbol.Member; other symbols are ignored.
func (a *SchemaAnnotator) AnnotateSchema(schema *openapi.Schema, sym symbol.Symbol, components *openapi.Components) (Outcome, error) {
	switch s := sym.(type) {
	case *symbol.Type:
		return a.AnnotateType(schema, s), nil
	case *symbol.Member:
		return a.AnnotateMember(schema, s, components)
	default:
		return NoSymbol, nil
	}
}

// AnnotateType sets the schema description from the type's summary.
func (a *SchemaAnnotator) AnnotateType(schema *openapi.Schema, t *symbol.Type) Outcome {
	if schema == nil || t == nil {
		return NoSymbol
	}
	node, ok := a.lookup(t)
	if !ok {
		return Unannotated
	}
	if n := node.Child(summaryTag); n != nil {
		schema.Description = a.humanize(n)
	}
	return Annotated
}

// AnnotateMember sets the description and example of a property schema
// from the documentation of the field or property behind it. The example
// is coerced against the schema's own resolved type.
func (a *SchemaAnnotator) AnnotateMember(schema *openapi.Schema, m *symbol.Member, components *openapi.Components) (Outcome, error) {
	if schema == nil || m == nil {
		return NoSymbol, nil
	}
	node, ok := a.lookup(m)
	if !ok {
		return Unannotated, nil
	}
	exampleNode := node.Child(exampleTag)
	var example any
	if exampleNode != nil {
		var err error
		if example, err = exampleFor(exampleNode.Text(), schema.ResolveType(components) == "string"); err != nil {
			return Unannotated, err
		}
	}
	if n := node.Child(summaryTag); n != nil {
		schema.Description = a.humanize(n)
	}
	if exampleNode != nil {
		schema.Example = example
	}
	return Annotated, nil
}
