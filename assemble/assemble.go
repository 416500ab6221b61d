// Package assemble turns partitioned artifacts and the binding set into modules:
// an export section, a sorted import list and an ordered declaration body each.
//
// Imports are derived by necessity. A module imports the shared artifact iff it
// re-exports a shared binding, the type vocabulary iff a function member's doc key
// mentions a vocabulary type, the native lookup runtime iff it defines a binding or
// an extension check, and the call helpers iff it defines a binding. Prelude
// modules are always imported.
package assemble

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wippyai/glbind/assemble/internal/graph"
	"github.com/wippyai/glbind/errors"
	"github.com/wippyai/glbind/layout"
	"github.com/wippyai/glbind/partition"
	"github.com/wippyai/glbind/symtab"
	"github.com/wippyai/glbind/synth"
)

// Kind classifies modules.
type Kind uint8

const (
	KindProfile Kind = iota + 1
	KindExtension
	KindShared
	KindTypes
	KindFFI
	KindGroup
	KindMeta
)

func (k Kind) String() string {
	switch k {
	case KindProfile:
		return "profile"
	case KindExtension:
		return "extension"
	case KindShared:
		return "shared"
	case KindTypes:
		return "types"
	case KindFFI:
		return "ffi"
	case KindGroup:
		return "group"
	case KindMeta:
		return "meta"
	}
	return "unknown"
}

// Export is one entry of the export section: a whole module or an own member.
type Export struct {
	Module string
	Name   string
}

// Module is an assembled artifact.
type Module struct {
	Name      string
	Kind      Kind
	Exports   []Export
	Imports   []string
	Body      []Decl
	Extension *layout.Extension
}

// Options feeds the auxiliary inputs of the assembler.
type Options struct {
	// SpecLinks maps extension names to their specification document.
	SpecLinks map[string]string
}

// Assemble builds one module per partition artifact plus the shared, type
// vocabulary and call helper modules. The result is sorted by name.
func Assemble(p *partition.Partition, set *synth.Set, opts Options) ([]*Module, error) {
	mods := make([]*Module, 0, len(p.Names())+3)
	for _, a := range p.Artifacts() {
		m, err := artifactModule(a, set, opts)
		if err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}
	mods = append(mods, sharedModule(set), typesModule(), ffiModule(set))
	SortModules(mods)
	return mods, nil
}

func artifactModule(a *partition.Artifact, set *synth.Set, opts Options) (*Module, error) {
	m := &Module{Name: a.Name, Kind: KindProfile}
	imports := make(importSet)

	for _, pre := range a.Prelude {
		m.Body = append(m.Body, &ModuleReexportDecl{Module: pre})
		m.Exports = append(m.Exports, Export{Module: pre})
		imports.add(pre)
	}

	for _, mem := range a.Members {
		switch s := mem.Symbol.(type) {
		case *symtab.Function:
			b, ok := set.Lookup(s.Name)
			if !ok {
				return nil, errors.NotFound(errors.PhaseAssemble, "binding", s.Name)
			}
			if b.Shared != mem.Shared {
				return nil, errors.InvalidData(errors.PhaseAssemble, []string{a.Name, s.Name},
					"membership and binding disagree on sharing")
			}
			if layout.ReferencesType(mem.DocKey) {
				imports.add(layout.Types)
			}
			if mem.Shared {
				m.Body = append(m.Body, &ReexportDecl{From: b.Home, Binding: b})
				imports.add(b.Home)
			} else {
				m.Body = append(m.Body, &BindingDecl{Binding: b})
				imports.add(layout.Proc, layout.FFI)
			}
			m.Exports = append(m.Exports, Export{Name: b.GoName})
		case *symtab.Enumerant:
			name := synth.ConstName(s.Name)
			m.Body = append(m.Body, &ConstDecl{Name: name, Symbol: s.Name, Value: s.Value})
			m.Exports = append(m.Exports, Export{Name: name})
		default:
			return nil, errors.InvalidInput(errors.PhaseAssemble, fmt.Sprintf("unexpected symbol %T", s))
		}
	}

	if a.Extension != nil {
		x, err := layout.ParseExtension(a.Extension.Name)
		if err != nil {
			return nil, err
		}
		m.Kind = KindExtension
		m.Extension = &x
		m.Body = append(m.Body, &ExtensionCheckDecl{
			Extension: x.Name,
			Name:      x.Check,
			SpecLink:  opts.SpecLinks[x.Name],
		})
		m.Exports = append(m.Exports, Export{Name: x.Check})
		imports.add(layout.Proc)
	}

	m.Imports = imports.sorted()
	return m, nil
}

func sharedModule(set *synth.Set) *Module {
	m := &Module{Name: layout.Shared, Kind: KindShared}
	imports := make(importSet)
	for _, b := range set.Shared() {
		m.Body = append(m.Body, &BindingDecl{Binding: b})
		m.Exports = append(m.Exports, Export{Name: b.GoName})
		imports.add(layout.Proc, layout.FFI)
		if layout.ReferencesType(b.Function.DocKey()) {
			imports.add(layout.Types)
		}
	}
	m.Imports = imports.sorted()
	return m
}

func typesModule() *Module {
	m := &Module{Name: layout.Types, Kind: KindTypes}
	for _, td := range layout.Vocabulary() {
		m.Body = append(m.Body, &TypeDecl{Def: td})
		m.Exports = append(m.Exports, Export{Name: td.Name})
	}
	return m
}

func ffiModule(set *synth.Set) *Module {
	m := &Module{Name: layout.FFI, Kind: KindFFI}
	imports := make(importSet)
	for _, sig := range set.Signatures() {
		m.Body = append(m.Body, &HelperDecl{Signature: sig})
		m.Exports = append(m.Exports, Export{Name: sig.Short})
		if sig.UsesTypes() {
			imports.add(layout.Types)
		}
	}
	m.Imports = imports.sorted()
	return m
}

type importSet map[string]struct{}

func (s importSet) add(names ...string) {
	for _, n := range names {
		s[n] = struct{}{}
	}
}

func (s importSet) sorted() []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// SortModules orders modules by name.
func SortModules(mods []*Module) {
	sort.Slice(mods, func(i, j int) bool { return mods[i].Name < mods[j].Name })
}

// CheckGraph verifies the module set is closed and acyclic: names are unique,
// every import names a module of the set (or the native lookup runtime) and no
// import chain returns to its start.
func CheckGraph(mods []*Module) error {
	g := graph.New(layout.Proc)
	seen := make(map[string]bool, len(mods))
	for _, m := range mods {
		if seen[m.Name] {
			return errors.DuplicateSymbol(errors.PhaseAssemble, "module", m.Name)
		}
		seen[m.Name] = true
		g.Add(m.Name, m.Imports)
	}

	if missing := g.Missing(); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		sort.Strings(names)
		first := names[0]
		return errors.New(errors.PhaseAssemble, errors.KindNotFound).
			Path(first).
			Detail("imports unknown module(s) %s", strings.Join(missing[first], ", ")).
			Value(len(names)).
			Build()
	}

	if cycle := g.Cycle(); cycle != nil {
		return errors.Cycle(errors.PhaseAssemble, cycle)
	}
	return nil
}

// DependencyOrder returns module names so that every module follows its imports.
func DependencyOrder(mods []*Module) ([]string, error) {
	g := graph.New(layout.Proc)
	for _, m := range mods {
		g.Add(m.Name, m.Imports)
	}
	order := g.Order()
	if order == nil && len(mods) > 0 {
		return nil, errors.Cycle(errors.PhaseAssemble, g.Cycle())
	}
	return order, nil
}
