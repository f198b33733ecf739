package mapping

// DuplicatePolicy decides what AddField and AddMethod do with a member whose
// identity is already mapped in the class.
type DuplicatePolicy int

const (
	// RejectDuplicates returns a DuplicateMemberError and leaves the class unchanged.
	RejectDuplicates DuplicatePolicy = iota
	// AllowDuplicates appends anyway; lookups return the first inserted match.
	AllowDuplicates
)

// Option configures a ClassMap.
type Option func(*ClassMap)

// WithObserver sets the observer notified after each successful insert.
func WithObserver(o Observer) Option {
	return func(c *ClassMap) {
		c.observer = o
	}
}

// WithDuplicatePolicy sets the duplicate member policy.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(c *ClassMap) {
		c.policy = p
	}
}

// ClassMap is the mapping record of one class.
// It is not safe for concurrent mutation, see the package documentation.
type ClassMap struct {
	name string

	obfName string
	hasObf  bool

	parent    string
	hasParent bool

	interfaces []string
	library    bool

	fields  []*FieldMapping
	methods []*MethodMapping

	policy   DuplicatePolicy
	observer Observer
}

// NewClassMap creates an empty mapping for the internal-form class name.
// name is not validated.
func NewClassMap(name string, opts ...Option) *ClassMap {
	c := &ClassMap{
		name:       name,
		interfaces: []string{},
		fields:     []*FieldMapping{},
		methods:    []*MethodMapping{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the class's internal-form name.
func (c *ClassMap) Name() string { return c.name }

// ObfName returns the obfuscated name, if one is known.
func (c *ClassMap) ObfName() (string, bool) {
	return c.obfName, c.hasObf
}

// SetObfName records the obfuscated name. An empty name, or one equal to
// the class name, clears it.
func (c *ClassMap) SetObfName(name string) {
	if name == c.name {
		name = ""
	}
	c.obfName = name
	c.hasObf = name != ""
}

// ClearObfName forgets the obfuscated name.
func (c *ClassMap) ClearObfName() {
	c.obfName = ""
	c.hasObf = false
}

// IsObfuscated reports whether an obfuscated name is recorded.
func (c *ClassMap) IsObfuscated() bool { return c.hasObf }

// Parent returns the superclass's internal-form name, if resolved.
func (c *ClassMap) Parent() (string, bool) {
	return c.parent, c.hasParent
}

// SetParent records the superclass. An empty name clears it.
func (c *ClassMap) SetParent(name string) {
	c.parent = name
	c.hasParent = name != ""
}

// ClearParent forgets the superclass.
func (c *ClassMap) ClearParent() {
	c.parent = ""
	c.hasParent = false
}

// HasParent reports whether a superclass is recorded.
func (c *ClassMap) HasParent() bool { return c.hasParent }

// Interfaces returns a copy of the implemented interfaces in insertion order.
func (c *ClassMap) Interfaces() []string {
	out := make([]string, len(c.interfaces))
	copy(out, c.interfaces)
	return out
}

// AddInterface appends an implemented interface.
func (c *ClassMap) AddInterface(name string) {
	c.interfaces = append(c.interfaces, name)
}

// SetInterfaces replaces the interface list with a copy of names.
func (c *ClassMap) SetInterfaces(names []string) {
	c.interfaces = append(make([]string, 0, len(names)), names...)
}

// HasInterfaces reports whether any interface is recorded.
func (c *ClassMap) HasInterfaces() bool { return len(c.interfaces) > 0 }

// IsLibrary reports whether the class belongs to a library rather than the
// analysed application.
func (c *ClassMap) IsLibrary() bool { return c.library }

// SetLibrary marks the class as a library class.
func (c *ClassMap) SetLibrary(library bool) { c.library = library }

// Fields returns the mapped fields in insertion order.
func (c *ClassMap) Fields() []*FieldMapping {
	out := make([]*FieldMapping, len(c.fields))
	copy(out, c.fields)
	return out
}

// Methods returns the mapped methods in insertion order.
func (c *ClassMap) Methods() []*MethodMapping {
	out := make([]*MethodMapping, len(c.methods))
	copy(out, c.methods)
	return out
}

// AddField appends a field and returns it.
func (c *ClassMap) AddField(f *FieldMapping) (*FieldMapping, error) {
	if c.policy == RejectDuplicates {
		if _, ok := c.GetField(f.Name()); ok {
			return nil, &DuplicateMemberError{Class: c.name, Kind: KindField, ID: f.Name()}
		}
	}
	c.fields = append(c.fields, f)
	if c.observer != nil {
		c.observer.MemberAdded(c.name, KindField, f.Name())
	}
	return f, nil
}

// AddMethod appends a method and returns it. Under RejectDuplicates both the
// full and the short identity must be new to the class.
func (c *ClassMap) AddMethod(m *MethodMapping) (*MethodMapping, error) {
	if c.policy == RejectDuplicates {
		if _, ok := c.LookupMethod(m.FullID()); ok {
			return nil, &DuplicateMemberError{Class: c.name, Kind: KindMethod, ID: m.FullID()}
		}
		if _, ok := c.LookupMethodByShort(m.ShortID()); ok {
			return nil, &DuplicateMemberError{Class: c.name, Kind: KindMethod, ID: m.ShortID()}
		}
	}
	c.methods = append(c.methods, m)
	if c.observer != nil {
		c.observer.MemberAdded(c.name, KindMethod, m.FullID())
	}
	return m, nil
}

// LookupMethod finds a method by full identity, e.g. "com/example/Foo/bar()V".
func (c *ClassMap) LookupMethod(fullID string) (*MethodMapping, bool) {
	for _, m := range c.methods {
		if m.FullID() == fullID {
			return m, true
		}
	}
	return nil, false
}

// LookupMethodByShort finds a method by short identity, e.g. "bar()V".
func (c *ClassMap) LookupMethodByShort(shortID string) (*MethodMapping, bool) {
	for _, m := range c.methods {
		if m.ShortID() == shortID {
			return m, true
		}
	}
	return nil, false
}

// GetMethod is LookupMethod returning a *MethodNotFoundError on a miss.
func (c *ClassMap) GetMethod(fullID string) (*MethodMapping, error) {
	if m, ok := c.LookupMethod(fullID); ok {
		return m, nil
	}
	return nil, &MethodNotFoundError{ID: fullID}
}

// GetMethodByShort is LookupMethodByShort returning a *MethodNotFoundError on a miss.
func (c *ClassMap) GetMethodByShort(shortID string) (*MethodMapping, error) {
	if m, ok := c.LookupMethodByShort(shortID); ok {
		return m, nil
	}
	return nil, &MethodNotFoundError{ID: shortID}
}

// GetField finds a field by name. A miss is not an error.
func (c *ClassMap) GetField(name string) (*FieldMapping, bool) {
	for _, f := range c.fields {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// RequireField is GetField returning a *FieldNotFoundError on a miss.
func (c *ClassMap) RequireField(name string) (*FieldMapping, error) {
	if f, ok := c.GetField(name); ok {
		return f, nil
	}
	return nil, &FieldNotFoundError{Name: name}
}

// HasAnnotation reports whether list contains an annotation of type t.
func (c *ClassMap) HasAnnotation(t AnnotationType, list []Annotation) bool {
	return HasAnnotation(t, list)
}

// RemoveAnnotation removes the first annotation of type t from *list.
func (c *ClassMap) RemoveAnnotation(t AnnotationType, list *[]Annotation) bool {
	return RemoveAnnotation(t, list)
}
