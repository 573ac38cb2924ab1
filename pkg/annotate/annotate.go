// Package annotate copies XML documentation onto OpenAPI document objects.
//
// Each annotator resolves the documentation identifier of the symbol that
// produced an element, looks the identifier up in an xmldoc.Index and, when
// a member is found, writes summary, remarks, response and example text into
// the element. Missing documentation is never an error.
package annotate

import (
	"github.com/example/openapi-xmldoc/pkg/openapi"
	"github.com/example/openapi-xmldoc/pkg/symbol"
	"github.com/example/openapi-xmldoc/pkg/xmldoc"
)

// Element names read from documentation members.
const (
	summaryTag  = "summary"
	remarksTag  = "remarks"
	exampleTag  = "example"
	responseTag = "response"
	paramTag    = "param"

	codeAttr    = "code"
	nameAttr    = "name"
	exampleAttr = "example"
)

// Outcome reports what an annotator did with one element.
type Outcome int

const (
	NoSymbol    Outcome = iota // no symbol was attached; nothing to do
	Unannotated                // symbol did not resolve or had no documentation
	Annotated                  // documentation was copied onto the element
)

func (o Outcome) String() string {
	switch o {
	case NoSymbol:
		return "no-symbol"
	case Unannotated:
		return "unannotated"
	case Annotated:
		return "annotated"
	default:
		return "unknown"
	}
}

// OperationFilter annotates an operation from the method that handles it.
type OperationFilter interface {
	AnnotateOperation(op *openapi.Operation, method *symbol.Method) Outcome
}

// SchemaFilter annotates a schema from the type, field or property whose
// shape it describes.
type SchemaFilter interface {
	AnnotateSchema(schema *openapi.Schema, sym symbol.Symbol, components *openapi.Components) (Outcome, error)
}

// RequestBodyFilter annotates a request body from the property or method
// parameter it is bound to.
type RequestBodyFilter interface {
	AnnotateRequestBody(body *openapi.RequestBody, source symbol.Symbol, components *openapi.Components) (Outcome, error)
}

// Option configures an annotator.
type Option func(*base)

// WithHumanizer replaces xmldoc.DefaultHumanizer.
func WithHumanizer(h xmldoc.Humanizer) Option {
	return func(b *base) { b.humanizer = h }
}

// base carries what every annotator needs: the shared read-only index and
// the text humanizer.
type base struct {
	index     *xmldoc.Index
	humanizer xmldoc.Humanizer
}

func newBase(index *xmldoc.Index, opts []Option) base {
	b := base{index: index, humanizer: xmldoc.DefaultHumanizer}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// lookup resolves sym and fetches its documentation member.
func (b *base) lookup(sym symbol.Symbol) (xmldoc.Node, bool) {
	id, ok := xmldoc.MemberName(sym)
	if !ok {
		return nil, false
	}
	return b.index.Lookup(id)
}

func (b *base) humanize(n xmldoc.Node) string {
	return b.humanizer.Humanize(n.InnerXML())
}
