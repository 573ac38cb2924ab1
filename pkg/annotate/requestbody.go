package annotate

import (
	"maps"
	"slices"
	"strings"

	"github.com/example/openapi-xmldoc/pkg/openapi"
	"github.com/example/openapi-xmldoc/pkg/symbol"
	"github.com/example/openapi-xmldoc/pkg/xmldoc"
)

// RequestBodyAnnotator copies documentation onto request bodies bound to a
// property or to a method parameter.
type RequestBodyAnnotator struct {
	base
}

var _ RequestBodyFilter = (*RequestBodyAnnotator)(nil)

// NewRequestBodyAnnotator returns an annotator reading from index.
func NewRequestBodyAnnotator(index *xmldoc.Index, opts ...Option) *RequestBodyAnnotator {
	return &RequestBodyAnnotator{base: newBase(index, opts)}
}

// AnnotateRequestBody implements RequestBodyFilter. source is either a
// *symbol.Member (body bound to a property) or a *symbol.Parameter.
func (a *RequestBodyAnnotator) AnnotateRequestBody(body *openapi.RequestBody, source symbol.Symbol, components *openapi.Components) (Outcome, error) {
	if body == nil {
		return NoSymbol, nil
	}
	switch s := source.(type) {
	case *symbol.Member:
		if s == nil {
			return NoSymbol, nil
		}
		return a.annotateFromMember(body, s, components)
	case *symbol.Parameter:
		if s == nil {
			return NoSymbol, nil
		}
		return a.annotateFromParameter(body, s, components)
	default:
		return NoSymbol, nil
	}
}

func (a *RequestBodyAnnotator) annotateFromMember(body *openapi.RequestBody, m *symbol.Member, components *openapi.Components) (Outcome, error) {
	node, ok := a.lookup(m)
	if !ok {
		return Unannotated, nil
	}
	var examples map[string]any
	if n := node.Child(exampleTag); n != nil {
		var err error
		if examples, err = coerceExamples(body, strings.TrimSpace(n.Text()), components); err != nil {
			return Unannotated, err
		}
	}
	if n := node.Child(summaryTag); n != nil {
		body.Description = a.humanize(n)
	}
	setExamples(body, examples)
	return Annotated, nil
}

func (a *RequestBodyAnnotator) annotateFromParameter(body *openapi.RequestBody, p *symbol.Parameter, components *openapi.Components) (Outcome, error) {
	// MemberName maps parameters to their owning method, including the
	// closed-to-open generic fallback.
	node, ok := a.lookup(p)
	if !ok {
		return Unannotated, nil
	}
	var param xmldoc.Node
	for _, n := range node.Children(paramTag) {
		if n.Attr(nameAttr) == p.Name {
			param = n
			break
		}
	}
	if param == nil {
		return Unannotated, nil
	}

	var examples map[string]any
	// Attribute values are used verbatim.
	if example := param.Attr(exampleAttr); example != "" {
		var err error
		if examples, err = coerceExamples(body, example, components); err != nil {
			return Unannotated, err
		}
	}
	body.Description = a.humanize(param)
	setExamples(body, examples)
	return Annotated, nil
}

// coerceExamples coerces text once per media type, each against the type of
// its own schema. Nothing is returned unless every media type succeeds.
func coerceExamples(body *openapi.RequestBody, text string, components *openapi.Components) (map[string]any, error) {
	examples := make(map[string]any, len(body.Content))
	for _, name := range slices.Sorted(maps.Keys(body.Content)) {
		mt := body.Content[name]
		if mt == nil {
			continue
		}
		isString := mt.Schema != nil && mt.Schema.ResolveType(components) == "string"
		example, err := CoerceExample(text, isString)
		if err != nil {
			return nil, err
		}
		examples[name] = example
	}
	return examples, nil
}

func setExamples(body *openapi.RequestBody, examples map[string]any) {
	for name, example := range examples {
		body.Content[name].Example = example
	}
}
