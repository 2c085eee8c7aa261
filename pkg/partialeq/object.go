package partialeq

// Symbol is a unique property key. Two symbols are equal only if they are
// the same pointer, whatever their descriptions.
type Symbol struct {
	description string
}

// NewSymbol returns a new symbol with the given description.
func NewSymbol(description string) *Symbol {
	return &Symbol{description: description}
}

// Description returns the description the symbol was created with.
func (s *Symbol) Description() string { return s.description }

func (s *Symbol) String() string { return "Symbol(" + s.description + ")" }

// Key names a property: either a string name or a symbol.
type Key struct {
	Name   string
	Symbol *Symbol
}

// NameKey returns a string-named key.
func NameKey(name string) Key { return Key{Name: name} }

// SymbolKey returns a symbol key.
func SymbolKey(sym *Symbol) Key { return Key{Symbol: sym} }

// IsSymbol reports whether k is a symbol key.
func (k Key) IsSymbol() bool { return k.Symbol != nil }

func (k Key) String() string {
	if k.Symbol != nil {
		return k.Symbol.String()
	}
	return k.Name
}

// Property is one entry of an Object.
type Property struct {
	Key Key

	// Value is the property's value. It is ignored when Get is set.
	Value any

	// Get makes the property an accessor. A comparison calls it at most
	// once, however often the object is compared.
	Get func() any

	// Hidden marks the property as non-enumerable. Hidden properties of
	// expected are compared only when Options.IncludeHidden is set.
	Hidden bool
}

// Read returns the property's value, calling the accessor if there is one.
func (p Property) Read() any {
	if p.Get != nil {
		return p.Get()
	}
	return p.Value
}

// Object is a record with dynamic keys. It is the form for values that need
// symbol keys, hidden keys or accessors, which Go structs cannot express.
// Properties keep their insertion order.
type Object struct {
	props []Property
	index map[Key]int
}

// NewObject returns an object holding props. Later properties replace
// earlier ones with the same key.
func NewObject(props ...Property) *Object {
	o := &Object{}
	for _, p := range props {
		o.Define(p)
	}
	return o
}

// Define adds p, replacing any property with the same key.
func (o *Object) Define(p Property) *Object {
	if o.index == nil {
		o.index = make(map[Key]int)
	}
	if i, ok := o.index[p.Key]; ok {
		o.props[i] = p
		return o
	}
	o.index[p.Key] = len(o.props)
	o.props = append(o.props, p)
	return o
}

// Set defines an enumerable data property named name.
func (o *Object) Set(name string, v any) *Object {
	return o.Define(Property{Key: NameKey(name), Value: v})
}

// SetSymbol defines an enumerable data property keyed by sym.
func (o *Object) SetSymbol(sym *Symbol, v any) *Object {
	return o.Define(Property{Key: SymbolKey(sym), Value: v})
}

// Lookup returns the property stored under k.
func (o *Object) Lookup(k Key) (Property, bool) {
	i, ok := o.index[k]
	if !ok {
		return Property{}, false
	}
	return o.props[i], true
}

// Get returns the value of the property named name, or nil.
func (o *Object) Get(name string) any {
	p, ok := o.Lookup(NameKey(name))
	if !ok {
		return nil
	}
	return p.Read()
}

// Properties returns a copy of the object's properties in insertion order.
func (o *Object) Properties() []Property {
	out := make([]Property, len(o.props))
	copy(out, o.props)
	return out
}

// Len returns the number of properties.
func (o *Object) Len() int { return len(o.props) }
