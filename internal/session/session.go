// Package session keeps every class mapping of one remapping run and
// implements the passes that work across classes: population from parsed
// descriptors, preservation handling and inherited method resolution.
package session

import (
	apperrors "github.com/stamp/pkg/errors"
	"github.com/stamp/pkg/mapping"
)

// Session is the set of class mappings of one run.
// Like mapping.ClassMap it assumes a single writer.
type Session struct {
	byName map[string]*mapping.ClassMap
	byObf  map[string]*mapping.ClassMap
	order  []*mapping.ClassMap
}

// New creates an empty session.
func New() *Session {
	return &Session{
		byName: make(map[string]*mapping.ClassMap),
		byObf:  make(map[string]*mapping.ClassMap),
	}
}

// Add registers a class mapping. Class names must be unique in a session.
func (s *Session) Add(c *mapping.ClassMap) error {
	if _, exists := s.byName[c.Name()]; exists {
		return apperrors.Newf(apperrors.CodeDuplicateMember, "class %s already mapped", c.Name())
	}
	s.byName[c.Name()] = c
	s.order = append(s.order, c)
	s.indexObf(c)
	return nil
}

// Get returns the mapping of the named class.
func (s *Session) Get(name string) (*mapping.ClassMap, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// GetByObfName returns the class currently known by the obfuscated name.
// The index is refreshed with Reindex after obfuscated names change.
func (s *Session) GetByObfName(obf string) (*mapping.ClassMap, bool) {
	c, ok := s.byObf[obf]
	if ok {
		// the class may have been renamed since it was indexed
		if name, has := c.ObfName(); !has || name != obf {
			return nil, false
		}
	}
	return c, ok
}

// Reindex rebuilds the obfuscated-name index.
func (s *Session) Reindex() {
	s.byObf = make(map[string]*mapping.ClassMap, len(s.order))
	for _, c := range s.order {
		s.indexObf(c)
	}
}

func (s *Session) indexObf(c *mapping.ClassMap) {
	if obf, ok := c.ObfName(); ok {
		s.byObf[obf] = c
	}
}

// Classes returns all mappings in registration order.
func (s *Session) Classes() []*mapping.ClassMap {
	out := make([]*mapping.ClassMap, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of mapped classes.
func (s *Session) Len() int {
	return len(s.order)
}
