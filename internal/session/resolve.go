package session

import (
	"github.com/stamp/pkg/mapping"
)

// ResolveMethod finds the method with the given short identity on the class
// or, failing that, on its supertypes. The whole superclass chain is searched
// before any interface, so a superclass method wins over an interface default.
// Interfaces collected along the chain are then searched breadth first,
// including their superinterfaces. Supertypes missing from the session are
// skipped. A miss returns a *mapping.MethodNotFoundError carrying
// "<class>/<shortID>".
func (s *Session) ResolveMethod(className, shortID string) (*mapping.MethodMapping, error) {
	var interfaces []string
	visited := make(map[string]bool)

	name := className
	for !visited[name] {
		visited[name] = true
		c, ok := s.Get(name)
		if !ok {
			break
		}
		if m, ok := c.LookupMethodByShort(shortID); ok {
			return m, nil
		}
		interfaces = append(interfaces, c.Interfaces()...)
		parent, ok := c.Parent()
		if !ok {
			break
		}
		name = parent
	}

	queue := interfaces
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if visited[name] {
			continue
		}
		visited[name] = true

		c, ok := s.Get(name)
		if !ok {
			continue
		}
		if m, ok := c.LookupMethodByShort(shortID); ok {
			return m, nil
		}
		queue = append(queue, c.Interfaces()...)
	}

	return nil, &mapping.MethodNotFoundError{ID: className + "/" + shortID}
}

// Supertypes returns the mapped ancestors of a class (superclasses and
// interfaces, transitively) in breadth-first order.
func (s *Session) Supertypes(className string) []*mapping.ClassMap {
	var out []*mapping.ClassMap
	visited := map[string]bool{className: true}
	queue := s.directSupertypes(className)

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if visited[name] {
			continue
		}
		visited[name] = true

		c, ok := s.Get(name)
		if !ok {
			continue
		}
		out = append(out, c)
		queue = append(queue, s.directSupertypes(name)...)
	}
	return out
}

func (s *Session) directSupertypes(name string) []string {
	c, ok := s.Get(name)
	if !ok {
		return nil
	}
	var names []string
	if parent, ok := c.Parent(); ok {
		names = append(names, parent)
	}
	return append(names, c.Interfaces()...)
}
