package xmldoc

// nameAttr is the member attribute holding the documentation identifier.
const nameAttr = "name"

// Index maps documentation identifiers to member nodes. It is built once and
// never mutated, so it can be shared by concurrent readers.
type Index struct {
	members map[string]Node
}

// NewIndex indexes members by their name attribute. When two members share
// an identifier the later one wins.
func NewIndex(members []Node) *Index {
	ix := &Index{members: make(map[string]Node, len(members))}
	for _, m := range members {
		if m == nil {
			continue
		}
		ix.members[m.Attr(nameAttr)] = m
	}
	return ix
}

// Lookup returns the member documented under id.
func (ix *Index) Lookup(id string) (Node, bool) {
	if ix == nil {
		return nil, false
	}
	n, ok := ix.members[id]
	return n, ok
}

// Len returns the number of indexed identifiers.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.members)
}
