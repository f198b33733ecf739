package mapping

// Observer is notified after a member has been added to a ClassMap.
// id is the field name for fields and the full identity for methods.
type Observer interface {
	MemberAdded(class string, kind MemberKind, id string)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(class string, kind MemberKind, id string)

// MemberAdded calls f.
func (f ObserverFunc) MemberAdded(class string, kind MemberKind, id string) {
	f(class, kind, id)
}
