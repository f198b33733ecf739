// Package model defines the exported form of a mapping run.
package model

import (
	"time"
)

// MappingSnapshot is an immutable copy of every class mapping of one run.
type MappingSnapshot struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Classes   []ClassEntry `json:"classes"`
	Stats     Stats        `json:"stats"`
}

// ClassEntry is the exported form of one class mapping.
type ClassEntry struct {
	Name       string        `json:"name"`
	ObfName    string        `json:"obf_name,omitempty"`
	Parent     string        `json:"parent,omitempty"`
	Interfaces []string      `json:"interfaces,omitempty"`
	Library    bool          `json:"library"`
	Fields     []MemberEntry `json:"fields,omitempty"`
	Methods    []MemberEntry `json:"methods,omitempty"`
}

// IsObfuscated reports whether the class is renamed.
func (c ClassEntry) IsObfuscated() bool {
	return c.ObfName != ""
}

// MemberEntry is the exported form of a field or method mapping.
// Desc is empty for fields whose descriptor is unknown.
type MemberEntry struct {
	Name      string `json:"name"`
	Desc      string `json:"desc,omitempty"`
	ObfName   string `json:"obf_name,omitempty"`
	Preserved bool   `json:"preserved,omitempty"`
}

// IsObfuscated reports whether the member is renamed.
func (m MemberEntry) IsObfuscated() bool {
	return m.ObfName != ""
}

// Stats summarizes a snapshot.
type Stats struct {
	Classes    int `json:"classes"`
	Obfuscated int `json:"obfuscated"`
	Library    int `json:"library"`
	Fields     int `json:"fields"`
	Methods    int `json:"methods"`
	Preserved  int `json:"preserved"`
}

// FindClass returns the entry with the given name.
func (s *MappingSnapshot) FindClass(name string) (*ClassEntry, bool) {
	for i := range s.Classes {
		if s.Classes[i].Name == name {
			return &s.Classes[i], true
		}
	}
	return nil, false
}

// ComputeStats recounts Stats from Classes.
func (s *MappingSnapshot) ComputeStats() Stats {
	var st Stats
	for _, c := range s.Classes {
		st.Classes++
		if c.IsObfuscated() {
			st.Obfuscated++
		}
		if c.Library {
			st.Library++
		}
		st.Fields += len(c.Fields)
		st.Methods += len(c.Methods)
		for _, f := range c.Fields {
			if f.Preserved {
				st.Preserved++
			}
		}
		for _, m := range c.Methods {
			if m.Preserved {
				st.Preserved++
			}
		}
	}
	return st
}
