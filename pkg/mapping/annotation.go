package mapping

import "strings"

// Annotation is one entry of an annotation list attached to a class member,
// as handed over by the bytecode parser.
type Annotation struct {
	Desc   string                 `json:"desc" yaml:"desc"`
	Values map[string]interface{} `json:"values,omitempty" yaml:"values,omitempty"`
}

// AnnotationType is the internal-form descriptor of an annotation type,
// e.g. "Lcom/example/Keep;".
type AnnotationType string

// AnnotationTypeOf converts a binary class name ("com.example.Keep") or an
// internal name ("com/example/Keep") to an AnnotationType. A value that is
// already a descriptor is returned unchanged.
func AnnotationTypeOf(className string) AnnotationType {
	if strings.HasPrefix(className, "L") && strings.HasSuffix(className, ";") {
		return AnnotationType(className)
	}
	return AnnotationType("L" + strings.ReplaceAll(className, ".", "/") + ";")
}

// Matches reports whether the annotation entry is of this type.
func (t AnnotationType) Matches(a Annotation) bool {
	return a.Desc == string(t)
}

// HasAnnotation reports whether list contains an entry of type t.
// A nil or empty list never contains anything.
func HasAnnotation(t AnnotationType, list []Annotation) bool {
	return indexOf(t, list) >= 0
}

// RemoveAnnotation removes the first entry of type t from *list, keeping the
// order of the remaining entries. It reports whether an entry was removed.
// A nil pointer or nil list is a no-op.
func RemoveAnnotation(t AnnotationType, list *[]Annotation) bool {
	if list == nil {
		return false
	}
	i := indexOf(t, *list)
	if i < 0 {
		return false
	}
	*list = append((*list)[:i], (*list)[i+1:]...)
	return true
}

func indexOf(t AnnotationType, list []Annotation) int {
	for i, a := range list {
		if t.Matches(a) {
			return i
		}
	}
	return -1
}
