package symbol

// GenericDefinition maps a method declared on a closed generic
// instantiation back to the corresponding method of the open definition.
// Methods on other types are returned unchanged.
//
// Candidates must match by name and parameter count. When more than one
// overload qualifies, the parameter types of the definition are substituted
// with the closed type arguments and compared. An ambiguous or missing match
// reports false.
func GenericDefinition(m *Method) (*Method, bool) {
	if m == nil || m.DeclaringType == nil {
		return nil, false
	}
	closed := m.DeclaringType
	if !closed.IsConstructedGeneric() {
		return m, true
	}
	def := closed.Definition
	if def == nil {
		return nil, false
	}

	var candidates []*Method
	for _, dm := range def.Methods {
		if dm.Name == m.Name && len(dm.Params) == len(m.Params) {
			candidates = append(candidates, dm)
		}
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}

	var match *Method
	for _, dm := range candidates {
		if !paramsMatch(dm, m, closed.Args) {
			continue
		}
		if match != nil {
			return nil, false
		}
		match = dm
	}
	return match, match != nil
}

func paramsMatch(def, closed *Method, args []*Type) bool {
	for i, p := range def.Params {
		if !Equal(Substitute(p.Type, args), closed.Params[i].Type) {
			return false
		}
	}
	return true
}

// Instantiate builds the method a closed instantiation exposes for def:
// same name, parameters with the type's generic parameters replaced by the
// closed type arguments.
func Instantiate(def *Method, closed *Type) *Method {
	m := &Method{DeclaringType: closed, Name: def.Name, Arity: def.Arity}
	for _, p := range def.Params {
		m.AddParam(p.Name, Substitute(p.Type, closed.Args))
	}
	return m
}

// Substitute replaces type-level generic parameters in t with args.
// Method-level generic parameters are left alone.
func Substitute(t *Type, args []*Type) *Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case GenericParam:
		if !t.MethodParam && t.Position < len(args) {
			return args[t.Position]
		}
		return t
	case Array, ByRef:
		elem := Substitute(t.Elem, args)
		if elem == t.Elem {
			return t
		}
		return &Type{Kind: t.Kind, Elem: elem}
	}
	if len(t.Args) == 0 {
		return t
	}
	cp := *t
	cp.Args = make([]*Type, len(t.Args))
	for i, arg := range t.Args {
		cp.Args[i] = Substitute(arg, args)
	}
	return &cp
}

// Equal reports whether a and b describe the same type.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}
