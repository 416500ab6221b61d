// Package registry holds the typed model of an API registry: commands, enumerants,
// parameter groups, features layered by version and optional extensions.
//
// The model is the generator's input. It is read-only once loaded; every later stage
// derives its own structures from it.
package registry

import (
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/glbind/errors"
)

// Param is a single command parameter.
type Param struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Group string `yaml:"group,omitempty"`
	Len   string `yaml:"len,omitempty"`
}

// Command is a native entry point.
type Command struct {
	Name   string  `yaml:"name"`
	Params []Param `yaml:"params,omitempty"`
	Return string  `yaml:"return,omitempty"`
	Alias  string  `yaml:"alias,omitempty"`
	Vector string  `yaml:"vecequiv,omitempty"`
}

// Enum is a named literal constant.
type Enum struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Group associates a parameter group name with its member enumerants.
type Group struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

// Interface is a single require or remove entry. An empty Profile means the
// entry applies regardless of profile.
type Interface struct {
	Profile  string   `yaml:"profile,omitempty"`
	Comment  string   `yaml:"comment,omitempty"`
	Commands []string `yaml:"commands,omitempty"`
	Enums    []string `yaml:"enums,omitempty"`
}

// Feature is one version of the API surface.
type Feature struct {
	Name     string      `yaml:"name"`
	API      string      `yaml:"api"`
	Number   string      `yaml:"number"`
	Requires []Interface `yaml:"requires,omitempty"`
	Removes  []Interface `yaml:"removes,omitempty"`
}

// Extension is an optional add-on. Extensions only add symbols.
type Extension struct {
	Name      string      `yaml:"name"`
	Supported string      `yaml:"supported,omitempty"`
	Requires  []Interface `yaml:"requires,omitempty"`
}

// Registry is the complete typed registry.
type Registry struct {
	Commands   []Command   `yaml:"commands"`
	Enums      []Enum      `yaml:"enums"`
	Groups     []Group     `yaml:"groups,omitempty"`
	Features   []Feature   `yaml:"features"`
	Extensions []Extension `yaml:"extensions,omitempty"`

	// ManualPages lists commands with an upstream reference page.
	ManualPages []string `yaml:"manual_pages,omitempty"`
	// SpecLinks maps extension names to their canonical specification document.
	SpecLinks map[string]string `yaml:"spec_links,omitempty"`
}

// Load reads a registry snapshot from a YAML file.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Load(errors.PhaseRegistry, "open "+path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a registry snapshot from r and validates it.
func Decode(r io.Reader) (*Registry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var reg Registry
	if err := dec.Decode(&reg); err != nil {
		if err == io.EOF {
			return nil, errors.InvalidData(errors.PhaseRegistry, nil, "empty registry snapshot")
		}
		return nil, errors.ParseFailed(errors.PhaseRegistry, "registry snapshot", err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Validate checks identity uniqueness and required names.
func (r *Registry) Validate() error {
	seen := make(map[string]bool, len(r.Commands))
	for i, c := range r.Commands {
		if c.Name == "" {
			return errors.InvalidData(errors.PhaseRegistry, []string{"commands", strconv.Itoa(i)}, "command without name")
		}
		if seen[c.Name] {
			return errors.DuplicateSymbol(errors.PhaseRegistry, "command", c.Name)
		}
		seen[c.Name] = true
	}

	seen = make(map[string]bool, len(r.Enums))
	for i, e := range r.Enums {
		if e.Name == "" {
			return errors.InvalidData(errors.PhaseRegistry, []string{"enums", strconv.Itoa(i)}, "enum without name")
		}
		if seen[e.Name] {
			return errors.DuplicateSymbol(errors.PhaseRegistry, "enum", e.Name)
		}
		seen[e.Name] = true
	}

	seen = make(map[string]bool, len(r.Features))
	for i, f := range r.Features {
		if f.Name == "" {
			return errors.InvalidData(errors.PhaseRegistry, []string{"features", strconv.Itoa(i)}, "feature without name")
		}
		if seen[f.Name] {
			return errors.New(errors.PhaseRegistry, errors.KindDuplicateSymbol).
				Detail("feature %q declared more than once", f.Name).
				Value(f.Name).
				Build()
		}
		seen[f.Name] = true
	}

	seen = make(map[string]bool, len(r.Extensions))
	for i, x := range r.Extensions {
		if x.Name == "" {
			return errors.InvalidData(errors.PhaseRegistry, []string{"extensions", strconv.Itoa(i)}, "extension without name")
		}
		if seen[x.Name] {
			return errors.New(errors.PhaseRegistry, errors.KindDuplicateSymbol).
				Detail("extension %q declared more than once", x.Name).
				Value(x.Name).
				Build()
		}
		seen[x.Name] = true
	}
	return nil
}
