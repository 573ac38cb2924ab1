// Package symbol describes the source symbols that produced elements of an
// OpenAPI document: types, methods, fields or properties, and method
// parameters.
//
// Descriptors are plain values built by the host pipeline. The documentation
// lookup code switches on the concrete descriptor type instead of relying on
// runtime reflection.
package symbol

import (
	"strconv"
	"strings"
)

// Symbol is implemented by *Type, *Method, *Member and *Parameter.
type Symbol interface {
	symbol()
}

// TypeKind distinguishes the shapes a Type can take.
type TypeKind int

const (
	Named        TypeKind = iota // Ordinary (possibly generic or nested) type
	Array                        // Single-dimension array of Elem
	ByRef                        // Reference (out/ref) to Elem
	GenericParam                 // Unbound generic parameter
)

// Type describes a type. Only the fields relevant to its Kind are set.
type Type struct {
	Kind TypeKind

	// Named types.
	Namespace     string
	Name          string // simple name, without the arity suffix
	DeclaringType *Type  // enclosing type of a nested type
	Arity         int    // number of generic parameters declared on this type
	Args          []*Type
	Definition    *Type // open definition of a closed instantiation
	Methods       []*Method

	// Array and ByRef.
	Elem *Type

	// GenericParam.
	Position    int
	MethodParam bool // declared by a generic method rather than a type
}

func (*Type) symbol() {}

// IsGeneric reports whether the type declares generic parameters.
func (t *Type) IsGeneric() bool {
	return t.Kind == Named && t.Arity > 0
}

// IsConstructedGeneric reports whether the type is a generic type with its
// type arguments supplied.
func (t *Type) IsConstructedGeneric() bool {
	return t.Kind == Named && len(t.Args) > 0
}

// String renders the type in the same expression syntax ParseType accepts.
func (t *Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Type) write(b *strings.Builder) {
	switch t.Kind {
	case Array:
		t.Elem.write(b)
		b.WriteString("[]")
	case ByRef:
		t.Elem.write(b)
		b.WriteString("&")
	case GenericParam:
		b.WriteString("!")
		if t.MethodParam {
			b.WriteString("!")
		}
		b.WriteString(strconv.Itoa(t.Position))
	default:
		if t.DeclaringType != nil {
			t.DeclaringType.write(b)
			b.WriteString("+")
		} else if t.Namespace != "" {
			b.WriteString(t.Namespace)
			b.WriteString(".")
		}
		b.WriteString(t.Name)
		if len(t.Args) > 0 {
			b.WriteString("<")
			for i, arg := range t.Args {
				if i > 0 {
					b.WriteString(",")
				}
				arg.write(b)
			}
			b.WriteString(">")
		} else if t.Arity > 0 {
			b.WriteString("`")
			b.WriteString(strconv.Itoa(t.Arity))
		}
	}
}

// Method describes a method declared on a type.
type Method struct {
	DeclaringType *Type
	Name          string
	Arity         int // number of generic parameters declared on the method
	Params        []*Parameter
}

func (*Method) symbol() {}

// AddParam appends a parameter owned by m and returns it.
func (m *Method) AddParam(name string, typ *Type) *Parameter {
	p := &Parameter{Method: m, Name: name, Type: typ}
	m.Params = append(m.Params, p)
	return p
}

// Param returns the parameter with the given name, or nil.
func (m *Method) Param(name string) *Parameter {
	for _, p := range m.Params {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// MemberKind tells fields from properties.
type MemberKind int

const (
	Field MemberKind = iota
	Property
)

// Member is a field or property declared on a type.
type Member struct {
	DeclaringType *Type
	Name          string
	Kind          MemberKind
}

func (*Member) symbol() {}

// Parameter is a named parameter of a method.
type Parameter struct {
	Method *Method
	Name   string
	Type   *Type
}

func (*Parameter) symbol() {}
