package xmldoc

import (
	"strconv"
	"strings"

	"github.com/example/openapi-xmldoc/pkg/symbol"
)

// Identifier prefixes used by documentation member names.
const (
	typePrefix     = "T:"
	methodPrefix   = "M:"
	fieldPrefix    = "F:"
	propertyPrefix = "P:"
)

// MemberName computes the documentation identifier of sym, e.g.
// "M:Acme.Api.WidgetsController.Get(System.Int32)".
//
// Methods declared on a closed generic instantiation are first mapped back
// to the open definition; when that fails MemberName reports false and the
// symbol has no documentation. Parameters resolve to their owning method.
func MemberName(sym symbol.Symbol) (string, bool) {
	switch s := sym.(type) {
	case *symbol.Type:
		if s == nil {
			return "", false
		}
		return typePrefix + qualifiedName(s, false), true
	case *symbol.Method:
		m, ok := symbol.GenericDefinition(s)
		if !ok {
			return "", false
		}
		return methodName(m), true
	case *symbol.Member:
		if s == nil || s.DeclaringType == nil {
			return "", false
		}
		prefix := fieldPrefix
		if s.Kind == symbol.Property {
			prefix = propertyPrefix
		}
		return prefix + qualifiedName(s.DeclaringType, false) + "." + s.Name, true
	case *symbol.Parameter:
		if s == nil || s.Method == nil {
			return "", false
		}
		return MemberName(s.Method)
	default:
		return "", false
	}
}

func methodName(m *symbol.Method) string {
	var b strings.Builder
	b.WriteString(methodPrefix)
	b.WriteString(qualifiedName(m.DeclaringType, false))
	b.WriteString(".")
	b.WriteString(strings.ReplaceAll(m.Name, ".", "#"))
	if m.Arity > 0 {
		b.WriteString("``")
		b.WriteString(strconv.Itoa(m.Arity))
	}
	if len(m.Params) > 0 {
		b.WriteString("(")
		for i, p := range m.Params {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(qualifiedName(p.Type, true))
		}
		b.WriteString(")")
	}
	return b.String()
}

// qualifiedName renders t as it appears inside documentation identifiers.
// With expand set, type arguments of closed generics are spelled out in
// braces, as required for method parameter lists; otherwise generic types
// carry their arity suffix. Expansion applies to declaring types as well, so
// a parameter of type Outer<int>.Inner reads Outer{System.Int32}.Inner.
func qualifiedName(t *symbol.Type, expand bool) string {
	switch t.Kind {
	case symbol.Array:
		return qualifiedName(t.Elem, expand) + "[]"
	case symbol.ByRef:
		return qualifiedName(t.Elem, expand) + "@"
	case symbol.GenericParam:
		if t.MethodParam {
			return "``" + strconv.Itoa(t.Position)
		}
		return "`" + strconv.Itoa(t.Position)
	}

	var b strings.Builder
	if t.DeclaringType != nil {
		b.WriteString(qualifiedName(t.DeclaringType, expand))
		b.WriteString(".")
	} else if t.Namespace != "" {
		b.WriteString(t.Namespace)
		b.WriteString(".")
	}
	b.WriteString(t.Name)

	switch {
	case expand && t.IsConstructedGeneric():
		b.WriteString("{")
		for i, arg := range t.Args {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(qualifiedName(arg, true))
		}
		b.WriteString("}")
	case t.Arity > 0:
		b.WriteString("`")
		b.WriteString(strconv.Itoa(t.Arity))
	}
	return b.String()
}
