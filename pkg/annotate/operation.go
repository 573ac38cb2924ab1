package annotate

import (
	"github.com/example/openapi-xmldoc/pkg/openapi"
	"github.com/example/openapi-xmldoc/pkg/symbol"
	"github.com/example/openapi-xmldoc/pkg/xmldoc"
)

// OperationAnnotator copies controller and method documentation onto
// operations.
type OperationAnnotator struct {
	base
}

var _ OperationFilter = (*OperationAnnotator)(nil)

// NewOperationAnnotator returns an annotator reading from index.
func NewOperationAnnotator(index *xmldoc.Index, opts ...Option) *OperationAnnotator {
	return &OperationAnnotator{base: newBase(index, opts)}
}

// AnnotateOperation implements OperationFilter.
//
// Response descriptions documented on the declaring type apply first; the
// method's summary, remarks and responses follow, so method-level responses
// win for codes documented on both. Methods of closed generic types are
// documented against the open definition and are mapped back to it.
func (a *OperationAnnotator) AnnotateOperation(op *openapi.Operation, method *symbol.Method) Outcome {
	if op == nil || method == nil {
		return NoSymbol
	}

	target, ok := symbol.GenericDefinition(method)
	if !ok {
		return Unannotated
	}

	outcome := Unannotated
	if typeNode, ok := a.lookup(target.DeclaringType); ok {
		MergeResponses(op, typeNode.Children(responseTag), a.humanizer)
		outcome = Annotated
	}

	methodNode, ok := a.lookup(target)
	if !ok {
		return outcome
	}
	if n := methodNode.Child(summaryTag); n != nil {
		op.Summary = a.humanize(n)
	}
	if n := methodNode.Child(remarksTag); n != nil {
		op.Description = a.humanize(n)
	}
	MergeResponses(op, methodNode.Children(responseTag), a.humanizer)
	return Annotated
}
