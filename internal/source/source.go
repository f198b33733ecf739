// Package source reads class descriptor documents: the parsed class
// structures handed over by the bytecode parser, one entry per class with its
// members and their annotation lists.
package source

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stamp/pkg/compression"
	apperrors "github.com/stamp/pkg/errors"
	"github.com/stamp/pkg/mapping"
)

// Format is the encoding of a descriptor document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is a set of parsed classes from one binary.
type Document struct {
	Classes []ClassDescriptor `json:"classes" yaml:"classes"`
}

// ClassDescriptor describes one parsed class.
type ClassDescriptor struct {
	Name       string             `json:"name" yaml:"name"`
	ObfName    string             `json:"obf_name,omitempty" yaml:"obf_name,omitempty"`
	Super      string             `json:"super,omitempty" yaml:"super,omitempty"`
	Interfaces []string           `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Library    *bool              `json:"library,omitempty" yaml:"library,omitempty"`
	Fields     []MemberDescriptor `json:"fields,omitempty" yaml:"fields,omitempty"`
	Methods    []MemberDescriptor `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// MemberDescriptor describes one field or method. Annotations is the
// member's annotation list; passes may strip entries from it.
type MemberDescriptor struct {
	Name        string               `json:"name" yaml:"name"`
	Desc        string               `json:"desc" yaml:"desc"`
	ObfName     string               `json:"obf_name,omitempty" yaml:"obf_name,omitempty"`
	Annotations []mapping.Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// ShortID returns "<name><desc>".
func (m MemberDescriptor) ShortID() string {
	return m.Name + m.Desc
}

// FormatFromPath picks the format from a file extension. A trailing
// compression suffix (.gz, .zst) is ignored.
func FormatFromPath(path string) (Format, error) {
	_, path = compression.TypeFromPath(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", apperrors.Newf(apperrors.CodeInvalidInput, "unsupported descriptor file extension: %q", filepath.Ext(path))
	}
}

// ReadFile reads and validates a descriptor document from disk. Gzip and
// zstd compressed files are decompressed transparently.
func ReadFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open descriptor file: %w", err)
	}
	defer f.Close()

	r, _, err := compression.NewReader(f)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeParseError, "failed to decompress descriptor file", err)
	}
	defer r.Close()

	return Read(r, format)
}

// Read decodes and validates a descriptor document.
func Read(r io.Reader, format Format) (*Document, error) {
	var doc Document

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeParseError, "failed to decode JSON descriptors", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return nil, apperrors.Wrap(apperrors.CodeParseError, "failed to decode YAML descriptors", err)
		}
	default:
		return nil, apperrors.Newf(apperrors.CodeInvalidInput, "unsupported descriptor format: %q", format)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks class names are present and unique and members are complete.
func (d *Document) Validate() error {
	seen := make(map[string]bool, len(d.Classes))
	for i, c := range d.Classes {
		if strings.TrimSpace(c.Name) == "" {
			return apperrors.Newf(apperrors.CodeParseError, "class #%d has no name", i)
		}
		if strings.Contains(c.Name, ".") {
			return apperrors.Newf(apperrors.CodeParseError, "class %s is not in internal form", c.Name)
		}
		if seen[c.Name] {
			return apperrors.Newf(apperrors.CodeParseError, "class %s is declared twice", c.Name)
		}
		seen[c.Name] = true

		for _, f := range c.Fields {
			if f.Name == "" {
				return apperrors.Newf(apperrors.CodeParseError, "class %s has a field without a name", c.Name)
			}
		}
		for _, m := range c.Methods {
			if m.Name == "" || m.Desc == "" {
				return apperrors.Newf(apperrors.CodeParseError, "class %s has a method without name or descriptor", c.Name)
			}
		}
	}
	return nil
}

// Find returns the descriptor of the named class.
func (d *Document) Find(name string) (*ClassDescriptor, bool) {
	for i := range d.Classes {
		if d.Classes[i].Name == name {
			return &d.Classes[i], true
		}
	}
	return nil, false
}
