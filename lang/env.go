package lang

// Binding is a name bound in an [Environment].
type Binding struct {
	Value Value
	// Type is the declared type name, if any.
	Type string
	// Width is the fixed-width integer type Value is wrapped to, if any.
	Width *IntType
	Const bool
	Mut   bool
}

// Environment is one lexical scope. Scopes form a chain through their
// parents and are shared by reference, so closures observe later updates.
type Environment struct {
	parent  *Environment
	vars    map[string]*Binding
	order   []string
	structs map[string]*StructDef
	unions  map[string]*UnionDef
	enums   map[string]*EnumDef
	aliases map[string]string
}

// NewEnvironment returns an empty scope nested in parent, which may be nil.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{parent: parent, vars: map[string]*Binding{}}
}

// Parent returns the enclosing scope.
func (e *Environment) Parent() *Environment { return e.parent }

// Names returns the names bound directly in e in declaration order.
func (e *Environment) Names() []string { return e.order }

// Local returns the binding of name in e itself.
func (e *Environment) Local(name string) (*Binding, bool) {
	b, ok := e.vars[name]

	return b, ok
}

// Lookup returns the nearest binding of name.
func (e *Environment) Lookup(name string) (*Binding, bool) {
	for s := e; s != nil; s = s.parent {
		if b, ok := s.vars[name]; ok {
			return b, true
		}
	}

	return nil, false
}

// Get returns the value of the nearest binding of name.
func (e *Environment) Get(name string) (Value, bool) {
	b, ok := e.Lookup(name)
	if !ok {
		return nil, false
	}

	return b.Value, true
}

// Declare binds name in e, replacing any binding of the same name in e and
// shadowing those of enclosing scopes. The value is wrapped to b.Width.
func (e *Environment) Declare(name string, b Binding) error {
	v, err := wrapValue(b.Width, b.Value)
	if err != nil {
		return err
	}

	b.Value = v

	if _, ok := e.vars[name]; !ok {
		e.order = append(e.order, name)
	}

	e.vars[name] = &b

	return nil
}

// Set declares a mutable, untyped binding.
func (e *Environment) Set(name string, v Value) {
	_ = e.Declare(name, Binding{Value: v, Mut: true})
}

// Assign updates the nearest binding of name. Assigning a name bound
// nowhere in the chain creates a mutable binding in e.
func (e *Environment) Assign(name string, v Value) error {
	b, ok := e.Lookup(name)
	if !ok {
		e.Set(name, v)

		return nil
	}

	switch {
	case b.Const:
		return ErrConst.Detailf("%s", name)
	case !b.Mut:
		return ErrImmutable.Detailf("%s", name)
	}

	w, err := wrapValue(b.Width, v)
	if err != nil {
		return err
	}

	b.Value = w

	return nil
}

// DefineStruct registers a struct type in e.
func (e *Environment) DefineStruct(d *StructDef) {
	if e.structs == nil {
		e.structs = map[string]*StructDef{}
	}

	e.structs[d.Name] = d
}

// DefineUnion registers a union type in e.
func (e *Environment) DefineUnion(d *UnionDef) {
	if e.unions == nil {
		e.unions = map[string]*UnionDef{}
	}

	e.unions[d.Name] = d
}

// DefineEnum registers an enum type in e.
func (e *Environment) DefineEnum(d *EnumDef) {
	if e.enums == nil {
		e.enums = map[string]*EnumDef{}
	}

	e.enums[d.Name] = d
}

// DefineAlias registers name as another name for target.
func (e *Environment) DefineAlias(name, target string) {
	if e.aliases == nil {
		e.aliases = map[string]string{}
	}

	e.aliases[name] = target
}

// LookupStruct returns the nearest struct type called name.
func (e *Environment) LookupStruct(name string) (*StructDef, bool) {
	for s := e; s != nil; s = s.parent {
		if d, ok := s.structs[name]; ok {
			return d, true
		}
	}

	return nil, false
}

// LookupUnion returns the nearest union type called name.
func (e *Environment) LookupUnion(name string) (*UnionDef, bool) {
	for s := e; s != nil; s = s.parent {
		if d, ok := s.unions[name]; ok {
			return d, true
		}
	}

	return nil, false
}

// LookupEnum returns the nearest enum type called name.
func (e *Environment) LookupEnum(name string) (*EnumDef, bool) {
	for s := e; s != nil; s = s.parent {
		if d, ok := s.enums[name]; ok {
			return d, true
		}
	}

	return nil, false
}

func (e *Environment) lookupAlias(name string) (string, bool) {
	for s := e; s != nil; s = s.parent {
		if t, ok := s.aliases[name]; ok {
			return t, true
		}
	}

	return "", false
}

// ResolveType follows type aliases from name to the underlying type name.
func (e *Environment) ResolveType(name string) string {
	seen := map[string]bool{}

	for !seen[name] {
		seen[name] = true

		t, ok := e.lookupAlias(name)
		if !ok {
			break
		}

		name = t
	}

	return name
}

// IntType returns the fixed-width integer type named by the declared type
// name, following aliases, or nil if name does not denote one.
func (e *Environment) IntType(name string) *IntType {
	if name == "" {
		return nil
	}

	t, ok := LookupIntType(e.ResolveType(name))
	if !ok {
		return nil
	}

	return &t
}

// export copies the named bindings and types of e into dst, or all of them
// if names is empty. It reports the first name e does not define.
func (e *Environment) export(dst *Environment, names ...string) (string, bool) {
	if len(names) == 0 {
		for _, n := range e.order {
			b := *e.vars[n]
			b.Const = false
			b.Mut = true

			if _, ok := dst.vars[n]; !ok {
				dst.order = append(dst.order, n)
			}

			dst.vars[n] = &b
		}

		for _, d := range e.structs {
			dst.DefineStruct(d)
		}

		for _, d := range e.unions {
			dst.DefineUnion(d)
		}

		for _, d := range e.enums {
			dst.DefineEnum(d)
		}

		for n, t := range e.aliases {
			dst.DefineAlias(n, t)
		}

		return "", true
	}

	for _, n := range names {
		found := false

		if b, ok := e.vars[n]; ok {
			_ = dst.Declare(n, Binding{Value: b.Value, Mut: true})
			found = true
		}

		if d, ok := e.structs[n]; ok {
			dst.DefineStruct(d)
			found = true
		}

		if d, ok := e.unions[n]; ok {
			dst.DefineUnion(d)
			found = true
		}

		if d, ok := e.enums[n]; ok {
			dst.DefineEnum(d)
			found = true
		}

		if t, ok := e.aliases[n]; ok {
			dst.DefineAlias(n, t)
			found = true
		}

		if !found {
			return n, false
		}
	}

	return "", true
}
