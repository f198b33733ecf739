package session

import (
	"fmt"

	"github.com/stamp/internal/source"
	apperrors "github.com/stamp/pkg/errors"
	"github.com/stamp/pkg/mapping"
)

// PreservationReport counts what ApplyPreservation changed.
type PreservationReport struct {
	Fields   int
	Methods  int
	Stripped int
}

// Total returns the number of preserved members.
func (r PreservationReport) Total() int {
	return r.Fields + r.Methods
}

// ApplyPreservation exempts every member annotated with t from renaming:
// the member is marked preserved, its obfuscated name is dropped and, when
// strip is set, the annotation is removed from the descriptor's list so the
// rewritten binary no longer carries it.
func (s *Session) ApplyPreservation(doc *source.Document, t mapping.AnnotationType, strip bool) (PreservationReport, error) {
	var report PreservationReport

	for ci := range doc.Classes {
		cd := &doc.Classes[ci]
		c, ok := s.Get(cd.Name)
		if !ok {
			return report, apperrors.Newf(apperrors.CodeNotFound, "class %s is not mapped", cd.Name)
		}

		for fi := range cd.Fields {
			fd := &cd.Fields[fi]
			if !c.HasAnnotation(t, fd.Annotations) {
				continue
			}
			f, err := c.RequireField(fd.Name)
			if err != nil {
				return report, fmt.Errorf("preserve %s: %w", cd.Name, err)
			}
			preserve(f)
			report.Fields++
			if strip && c.RemoveAnnotation(t, &fd.Annotations) {
				report.Stripped++
			}
		}

		for mi := range cd.Methods {
			md := &cd.Methods[mi]
			if !c.HasAnnotation(t, md.Annotations) {
				continue
			}
			m, err := c.GetMethodByShort(md.ShortID())
			if err != nil {
				return report, fmt.Errorf("preserve %s: %w", cd.Name, err)
			}
			preserve(m)
			report.Methods++
			if strip && c.RemoveAnnotation(t, &md.Annotations) {
				report.Stripped++
			}
		}
	}

	return report, nil
}

type preservable interface {
	SetPreserved(bool)
	ClearObfName()
}

func preserve(m preservable) {
	m.SetPreserved(true)
	m.ClearObfName()
}
