// Package partition inverts the frozen symbol table into per-artifact membership
// lists.
//
// Every profile artifact of the layout and every extension artifact is registered
// up front, so an artifact with no members still exists and is generated as an
// importable unit. Each membership record carries the symbol's shared flag, fixed
// at partition time from the global owner count.
package partition

import (
	"sort"

	"github.com/wippyai/glbind/errors"
	"github.com/wippyai/glbind/layout"
	"github.com/wippyai/glbind/registry"
	"github.com/wippyai/glbind/symtab"
)

// Member is one (shared, symbol, doc key) membership record.
type Member struct {
	Shared bool
	Symbol symtab.Symbol
	DocKey string
}

// Artifact is a named membership list.
type Artifact struct {
	Name    string
	Members []Member
	// Prelude lists the artifacts this one re-exports.
	Prelude []string
	// Extension is set for extension artifacts.
	Extension *layout.Extension
}

// Functions returns the function members in order.
func (a *Artifact) Functions() []Member {
	var out []Member
	for _, m := range a.Members {
		if _, ok := m.Symbol.(*symtab.Function); ok {
			out = append(out, m)
		}
	}
	return out
}

// Names is the set of artifact names a registry produces before any membership is
// known: the profile layout and the parsed extension names.
type Names struct {
	Layout     *layout.Layout
	Extensions []layout.Extension
}

// NamesFor derives the artifact names of reg.
func NamesFor(reg *registry.Registry) (Names, error) {
	features := make([]string, 0, len(reg.Features))
	for _, f := range reg.Features {
		features = append(features, f.Name)
	}
	l, err := layout.New(features)
	if err != nil {
		return Names{}, err
	}

	exts := make([]layout.Extension, 0, len(reg.Extensions))
	for _, x := range reg.Extensions {
		ext, err := layout.ParseExtension(x.Name)
		if err != nil {
			return Names{}, err
		}
		exts = append(exts, ext)
	}
	return Names{Layout: l, Extensions: exts}, nil
}

// Partition is the artifact→members mapping.
type Partition struct {
	artifacts map[string]*Artifact
	names     []string
	layout    *layout.Layout
}

// Build partitions a frozen table. Owner names not in names are rejected, as are
// two extensions that map to the same artifact.
func Build(t *symtab.Table, names Names) (*Partition, error) {
	if !t.Frozen() {
		return nil, errors.InvalidInput(errors.PhasePartition, "symbol table must be frozen before partitioning")
	}

	p := &Partition{
		artifacts: make(map[string]*Artifact),
		layout:    names.Layout,
	}
	for _, name := range names.Layout.Artifacts() {
		p.register(&Artifact{Name: name, Prelude: names.Layout.Prelude(name)})
	}
	for i := range names.Extensions {
		ext := names.Extensions[i]
		if prev, dup := p.artifacts[ext.Artifact]; dup {
			return nil, errors.New(errors.PhasePartition, errors.KindDuplicateSymbol).
				Path("artifacts", ext.Artifact).
				Detail("artifact %s claimed by %s and %s", ext.Artifact, extensionName(prev), ext.Name).
				Value(ext.Name).
				Build()
		}
		p.register(&Artifact{Name: ext.Artifact, Extension: &ext})
	}
	sort.Strings(p.names)

	for _, e := range t.Entries() {
		shared := e.Category.Shared()
		for _, owner := range e.Category.Owners() {
			a, ok := p.artifacts[owner]
			if !ok {
				return nil, errors.NotFound(errors.PhasePartition, "artifact", owner)
			}
			a.Members = append(a.Members, Member{
				Shared: shared,
				Symbol: e.Symbol,
				DocKey: e.Category.DocKey,
			})
		}
	}
	return p, nil
}

func (p *Partition) register(a *Artifact) {
	p.artifacts[a.Name] = a
	p.names = append(p.names, a.Name)
}

func extensionName(a *Artifact) string {
	if a.Extension == nil {
		return a.Name
	}
	return a.Extension.Name
}

// Names returns every artifact name, sorted.
func (p *Partition) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Artifact returns the named artifact.
func (p *Partition) Artifact(name string) (*Artifact, bool) {
	a, ok := p.artifacts[name]
	return a, ok
}

// Artifacts returns every artifact sorted by name.
func (p *Partition) Artifacts() []*Artifact {
	out := make([]*Artifact, len(p.names))
	for i, n := range p.names {
		out[i] = p.artifacts[n]
	}
	return out
}

// Layout returns the profile layout the partition was built with.
func (p *Partition) Layout() *layout.Layout { return p.layout }
