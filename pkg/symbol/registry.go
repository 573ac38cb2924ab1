package symbol

import (
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrDuplicateType is returned when a definition is registered twice.
var ErrDuplicateType = errors.Base("duplicate type definition")

// Registry holds declared type definitions so that type references parsed
// elsewhere can be linked to their methods and, for closed generic
// instantiations, to their open definition.
type Registry struct {
	defs map[string]*Type
}

// NewRegistry allocates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: map[string]*Type{}}
}

// DefinitionKey identifies the definition a named type belongs to,
// independent of any type arguments: "Ns.Outer`1+Inner".
func DefinitionKey(t *Type) string {
	var b strings.Builder
	writeDefinitionKey(&b, t)
	return b.String()
}

func writeDefinitionKey(b *strings.Builder, t *Type) {
	if t.DeclaringType != nil {
		writeDefinitionKey(b, t.DeclaringType)
		b.WriteString("+")
	} else if t.Namespace != "" {
		b.WriteString(t.Namespace)
		b.WriteString(".")
	}
	b.WriteString(t.Name)
	if t.Arity > 0 {
		b.WriteString("`")
		b.WriteString(strconv.Itoa(t.Arity))
	}
}

// Define registers t as a type definition. Closed instantiations cannot be
// defined; declare the open form instead.
func (r *Registry) Define(t *Type) error {
	if t.Kind != Named {
		return errors.Errorf("define %s: only named types can be defined", t)
	}
	if t.IsConstructedGeneric() {
		return errors.Errorf("define %s: closed generic types cannot be defined", t)
	}
	key := DefinitionKey(t)
	if _, ok := r.defs[key]; ok {
		return errors.Errorf("%w: %s", ErrDuplicateType, key)
	}
	for _, m := range t.Methods {
		m.DeclaringType = t
	}
	r.defs[key] = t
	return nil
}

// Lookup returns the definition registered under key.
func (r *Registry) Lookup(key string) (*Type, bool) {
	t, ok := r.defs[key]
	return t, ok
}

// Resolve parses expr and links the result against the registry.
func (r *Registry) Resolve(expr string) (*Type, error) {
	t, err := ParseType(expr)
	if err != nil {
		return nil, err
	}
	return r.Link(t), nil
}

// Link replaces references to declared, non-generic types with their
// definitions and points closed generic instantiations at their open
// definition. Unknown types are returned unchanged.
func (r *Registry) Link(t *Type) *Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case Array, ByRef:
		t.Elem = r.Link(t.Elem)
		return t
	case GenericParam:
		return t
	}

	t.DeclaringType = r.Link(t.DeclaringType)
	def, ok := r.defs[DefinitionKey(t)]
	if !t.IsConstructedGeneric() {
		if ok {
			return def
		}
		return t
	}
	for i, arg := range t.Args {
		t.Args[i] = r.Link(arg)
	}
	if ok {
		t.Definition = def
	}
	return t
}
