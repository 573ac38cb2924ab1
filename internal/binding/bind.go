package binding

import (
	"gitlab.com/tozd/go/errors"

	"github.com/example/openapi-xmldoc/pkg/symbol"
)

// Operation holds the symbols bound to one operation.
type Operation struct {
	Method *symbol.Method
	// Body is a *symbol.Parameter or *symbol.Member, or nil.
	Body symbol.Symbol
}

// Schema holds the symbols bound to one component schema.
type Schema struct {
	Type       *symbol.Type
	Properties map[string]*symbol.Member
}

// Bindings is a compiled manifest, keyed by operationId and component
// schema name.
type Bindings struct {
	Operations map[string]Operation
	Schemas    map[string]Schema
}

// Operation returns the symbols bound to operationID.
func (b *Bindings) Operation(operationID string) (Operation, bool) {
	if b == nil {
		return Operation{}, false
	}
	op, ok := b.Operations[operationID]
	return op, ok
}

// Schema returns the symbols bound to the named component schema.
func (b *Bindings) Schema(name string) (Schema, bool) {
	if b == nil {
		return Schema{}, false
	}
	s, ok := b.Schemas[name]
	return s, ok
}

// Bind resolves every type expression in m and builds the symbols the
// annotators consume.
func Bind(m *Manifest) (*Bindings, error) {
	reg := symbol.NewRegistry()
	for _, decl := range m.Types {
		t, err := declareType(decl)
		if err != nil {
			return nil, err
		}
		if err := reg.Define(t); err != nil {
			return nil, err
		}
	}

	b := &Bindings{
		Operations: make(map[string]Operation, len(m.Operations)),
		Schemas:    make(map[string]Schema, len(m.Schemas)),
	}
	for id, ob := range m.Operations {
		op, err := bindOperation(reg, ob)
		if err != nil {
			return nil, errors.Errorf("operation %s: %w", id, err)
		}
		b.Operations[id] = op
	}
	for name, sb := range m.Schemas {
		s, err := bindSchema(reg, sb)
		if err != nil {
			return nil, errors.Errorf("schema %s: %w", name, err)
		}
		b.Schemas[name] = s
	}
	return b, nil
}

func declareType(decl TypeDecl) (*symbol.Type, error) {
	t, err := symbol.ParseType(decl.Name)
	if err != nil {
		return nil, err
	}
	for _, md := range decl.Methods {
		m := &symbol.Method{Name: md.Name, Arity: md.Arity}
		for _, pd := range md.Params {
			pt, err := symbol.ParseType(pd.Type)
			if err != nil {
				return nil, errors.Errorf("method %s.%s: %w", decl.Name, md.Name, err)
			}
			m.AddParam(pd.Name, pt)
		}
		t.Methods = append(t.Methods, m)
	}
	return t, nil
}

func bindOperation(reg *symbol.Registry, ob OperationBinding) (Operation, error) {
	t, err := reg.Resolve(ob.Type)
	if err != nil {
		return Operation{}, err
	}
	m, err := findMethod(reg, t, ob.Method, ob.Params)
	if err != nil {
		return Operation{}, err
	}

	op := Operation{Method: m}
	switch {
	case ob.Body == nil:
	case ob.Body.Property != nil:
		member, err := bindMember(reg, ob.Body.Property.Type, ob.Body.Property.Member, ob.Body.Property.Kind)
		if err != nil {
			return Operation{}, err
		}
		op.Body = member
	default:
		p := m.Param(ob.Body.Parameter)
		if p == nil {
			return Operation{}, errors.Errorf("method %s has no parameter %q", ob.Method, ob.Body.Parameter)
		}
		op.Body = p
	}
	return op, nil
}

// findMethod picks the method named name on t. Declared methods are
// preferred; methods of closed generic types are instantiated from the open
// definition. When nothing is declared the method is synthesised from
// params so that its identifier can still be computed.
func findMethod(reg *symbol.Registry, t *symbol.Type, name string, params []ParamDecl) (*symbol.Method, error) {
	want := make([]*symbol.Type, len(params))
	for i, pd := range params {
		pt, err := reg.Resolve(pd.Type)
		if err != nil {
			return nil, err
		}
		want[i] = pt
	}

	var candidates []*symbol.Method
	for _, m := range declaredMethods(t) {
		if m.Name == name && (params == nil || signatureMatches(m, want)) {
			candidates = append(candidates, m)
		}
	}

	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		m := &symbol.Method{DeclaringType: t, Name: name}
		for i, pd := range params {
			m.AddParam(pd.Name, want[i])
		}
		return m, nil
	default:
		return nil, errors.Errorf("method %s on %s is overloaded; list params to choose one", name, t)
	}
}

func declaredMethods(t *symbol.Type) []*symbol.Method {
	if !t.IsConstructedGeneric() {
		return t.Methods
	}
	if t.Definition == nil {
		return nil
	}
	methods := make([]*symbol.Method, len(t.Definition.Methods))
	for i, dm := range t.Definition.Methods {
		methods[i] = symbol.Instantiate(dm, t)
	}
	return methods
}

func signatureMatches(m *symbol.Method, want []*symbol.Type) bool {
	if len(m.Params) != len(want) {
		return false
	}
	for i, p := range m.Params {
		if !symbol.Equal(p.Type, want[i]) {
			return false
		}
	}
	return true
}

func bindSchema(reg *symbol.Registry, sb SchemaBinding) (Schema, error) {
	t, err := reg.Resolve(sb.Type)
	if err != nil {
		return Schema{}, err
	}
	s := Schema{Type: t, Properties: make(map[string]*symbol.Member, len(sb.Properties))}
	for prop, ref := range sb.Properties {
		s.Properties[prop] = newMember(t, ref.Member, ref.Kind)
	}
	return s, nil
}

func bindMember(reg *symbol.Registry, typeExpr, member, kind string) (*symbol.Member, error) {
	t, err := reg.Resolve(typeExpr)
	if err != nil {
		return nil, err
	}
	return newMember(t, member, kind), nil
}

func newMember(t *symbol.Type, name, kind string) *symbol.Member {
	m := &symbol.Member{DeclaringType: t, Name: name, Kind: symbol.Property}
	if kind == "field" {
		m.Kind = symbol.Field
	}
	return m
}
