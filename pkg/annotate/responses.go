package annotate

import (
	"github.com/example/openapi-xmldoc/pkg/openapi"
	"github.com/example/openapi-xmldoc/pkg/xmldoc"
)

// MergeResponses writes the description of every response node onto the
// operation response with the same status code, creating missing entries.
// Nodes are applied in order, so a later node for a code overwrites an
// earlier one.
func MergeResponses(op *openapi.Operation, nodes []xmldoc.Node, h xmldoc.Humanizer) {
	if len(nodes) == 0 {
		return
	}
	if op.Responses == nil {
		op.Responses = make(map[string]*openapi.Response, len(nodes))
	}
	for _, n := range nodes {
		code := n.Attr(codeAttr)
		resp, ok := op.Responses[code]
		if !ok || resp == nil {
			resp = &openapi.Response{}
			op.Responses[code] = resp
		}
		resp.Description = h.Humanize(n.InnerXML())
	}
}
