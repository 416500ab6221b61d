package render

import (
	"github.com/wippyai/glbind/assemble"
)

type symbolKind uint8

const (
	symConst symbolKind = iota + 1
	symFunc
	symType
)

type flatSymbol struct {
	Name string
	Kind symbolKind
}

// exportIndex resolves a module's export section to the symbols it makes
// visible, module re-exports expanded. The module graph is acyclic, so the
// recursion terminates.
type exportIndex struct {
	mods map[string]*assemble.Module
	memo map[string][]flatSymbol
}

func newExportIndex(mods []*assemble.Module) *exportIndex {
	x := &exportIndex{
		mods: make(map[string]*assemble.Module, len(mods)),
		memo: make(map[string][]flatSymbol, len(mods)),
	}
	for _, m := range mods {
		x.mods[m.Name] = m
	}
	return x
}

// own returns the kinds of the symbols m defines itself.
func own(m *assemble.Module) map[string]symbolKind {
	kinds := make(map[string]symbolKind)
	for _, d := range m.Body {
		switch d := d.(type) {
		case *assemble.ConstDecl:
			kinds[d.Name] = symConst
		case *assemble.BindingDecl:
			kinds[d.Binding.GoName] = symFunc
		case *assemble.ReexportDecl:
			kinds[d.Binding.GoName] = symFunc
		case *assemble.ExtensionCheckDecl:
			kinds[d.Name] = symFunc
		case *assemble.TypeDecl:
			kinds[d.Def.Name] = symType
		case *assemble.HelperDecl:
			kinds[d.Signature.Short] = symType
		case *assemble.ModuleReexportDecl:
		}
	}
	return kinds
}

// flat returns every symbol visible through module name, in export order,
// without duplicates. Own declarations shadow re-exported names.
func (x *exportIndex) flat(name string) []flatSymbol {
	if syms, ok := x.memo[name]; ok {
		return syms
	}
	m, ok := x.mods[name]
	if !ok {
		return nil
	}

	kinds := own(m)
	seen := make(map[string]bool)
	var out []flatSymbol
	for _, e := range m.Exports {
		if e.Module != "" {
			for _, s := range x.flat(e.Module) {
				if _, mine := kinds[s.Name]; mine {
					continue
				}
				if !seen[s.Name] {
					seen[s.Name] = true
					out = append(out, s)
				}
			}
			continue
		}
		if !seen[e.Name] {
			seen[e.Name] = true
			out = append(out, flatSymbol{Name: e.Name, Kind: kinds[e.Name]})
		}
	}
	x.memo[name] = out
	return out
}
