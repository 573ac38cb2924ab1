package xmldoc

import (
	"encoding/xml"
	"io"
	"strings"
)

// Node is a read-only view of one element of a documentation tree.
type Node interface {
	// Name is the element's local name, e.g. "member" or "summary".
	Name() string
	// Attr returns the value of the named attribute, or "".
	Attr(name string) string
	// Child returns the first child element with the given name, or nil.
	Child(name string) Node
	// Children returns every child element with the given name, in
	// document order.
	Children(name string) []Node
	// InnerXML returns the raw markup between the element's tags.
	InnerXML() string
	// Text returns the concatenated character data of the element and its
	// descendants.
	Text() string
}

// element is the encoding/xml backed Node implementation.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Inner    string     `xml:",innerxml"`
	Elements []*element `xml:",any"`
}

var _ Node = (*element)(nil)

func (e *element) Name() string { return e.XMLName.Local }

func (e *element) Attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (e *element) Child(name string) Node {
	for _, c := range e.Elements {
		if c.XMLName.Local == name {
			return c
		}
	}
	return nil
}

func (e *element) Children(name string) []Node {
	var out []Node
	for _, c := range e.Elements {
		if c.XMLName.Local == name {
			out = append(out, c)
		}
	}
	return out
}

func (e *element) InnerXML() string { return e.Inner }

func (e *element) Text() string {
	dec := xml.NewDecoder(strings.NewReader(e.Inner))
	dec.Strict = false
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Inner was produced by a successful decode, so this only
			// happens for fragments the lenient decoder still rejects.
			return b.String()
		}
		if cd, ok := tok.(xml.CharData); ok {
			b.Write(cd)
		}
	}
	return b.String()
}
