package mapping

import "fmt"

// MemberKind distinguishes fields from methods.
type MemberKind int

const (
	// KindField marks a field member.
	KindField MemberKind = iota
	// KindMethod marks a method member.
	KindMethod
)

// String returns the string representation of the kind.
func (k MemberKind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindMethod:
		return "method"
	default:
		return "unknown"
	}
}

// memberName is the rename metadata shared by fields and methods.
// The identity (owner, name, desc) never changes; renames go to obfName.
type memberName struct {
	owner     string
	name      string
	desc      string
	obfName   string
	hasObf    bool
	preserved bool
}

// Owner returns the internal-form name of the declaring class.
func (m *memberName) Owner() string { return m.owner }

// Name returns the member name used for lookups.
func (m *memberName) Name() string { return m.name }

// Desc returns the member's type descriptor.
func (m *memberName) Desc() string { return m.desc }

// ObfName returns the obfuscated name recorded for the member, if any.
func (m *memberName) ObfName() (string, bool) {
	return m.obfName, m.hasObf
}

// SetObfName records the obfuscated name. An empty name, or one equal to
// the member name, clears it.
func (m *memberName) SetObfName(name string) {
	if name == m.name {
		name = ""
	}
	m.obfName = name
	m.hasObf = name != ""
}

// ClearObfName removes the obfuscated name.
func (m *memberName) ClearObfName() {
	m.obfName = ""
	m.hasObf = false
}

// IsObfuscated reports whether an obfuscated name is recorded.
func (m *memberName) IsObfuscated() bool { return m.hasObf }

// Preserved reports whether the member is exempt from renaming.
func (m *memberName) Preserved() bool { return m.preserved }

// SetPreserved marks the member as exempt (or not) from renaming.
func (m *memberName) SetPreserved(preserved bool) { m.preserved = preserved }

func (m *memberName) validate(kind MemberKind) error {
	if m.owner == "" {
		return fmt.Errorf("%s %q has no owner", kind, m.name)
	}
	if m.name == "" {
		return fmt.Errorf("%s in %s has no name", kind, m.owner)
	}
	return nil
}

// FieldMapping is the mapping record for one field of a class.
type FieldMapping struct {
	memberName
}

// NewFieldMapping creates a field record. desc may be empty when unknown.
func NewFieldMapping(owner, name, desc string) *FieldMapping {
	return &FieldMapping{memberName{owner: owner, name: name, desc: desc}}
}

// FullID returns "<owner>/<name>".
func (f *FieldMapping) FullID() string {
	return f.owner + "/" + f.name
}

// Validate reports a missing owner or name.
func (f *FieldMapping) Validate() error {
	return f.validate(KindField)
}

// String implements fmt.Stringer.
func (f *FieldMapping) String() string {
	if f.hasObf {
		return f.FullID() + " -> " + f.obfName
	}
	return f.FullID()
}

// MethodMapping is the mapping record for one method of a class.
type MethodMapping struct {
	memberName
}

// NewMethodMapping creates a method record, e.g. ("com/example/Foo", "bar", "()V").
func NewMethodMapping(owner, name, desc string) *MethodMapping {
	return &MethodMapping{memberName{owner: owner, name: name, desc: desc}}
}

// FullID returns "<owner>/<name><desc>", unique across the analysed program.
func (m *MethodMapping) FullID() string {
	return m.owner + "/" + m.name + m.desc
}

// ShortID returns "<name><desc>", unique within the owning class.
func (m *MethodMapping) ShortID() string {
	return m.name + m.desc
}

// Validate reports a missing owner, name or descriptor.
func (m *MethodMapping) Validate() error {
	if err := m.validate(KindMethod); err != nil {
		return err
	}
	if m.desc == "" {
		return fmt.Errorf("method %s has no descriptor", m.FullID())
	}
	return nil
}

// String implements fmt.Stringer.
func (m *MethodMapping) String() string {
	if m.hasObf {
		return m.FullID() + " -> " + m.obfName
	}
	return m.FullID()
}
