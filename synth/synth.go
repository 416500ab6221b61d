// Package synth synthesizes exactly one binding per exported command and decides
// where it lives.
//
// An exclusive command's binding is defined by its sole owner. A shared command's
// binding is promoted into the shared artifact, and every owner re-exports it.
// Enumerants get no binding: each owner defines its own constant.
package synth

import (
	"fmt"
	"sort"

	"github.com/wippyai/glbind/errors"
	"github.com/wippyai/glbind/layout"
	"github.com/wippyai/glbind/partition"
	"github.com/wippyai/glbind/symtab"
)

// DefaultManualPageURL is the reference page location; %s is the command name.
const DefaultManualPageURL = "https://registry.khronos.org/OpenGL-Refpages/gl4/html/%s.xhtml"

// Options feeds the auxiliary documentation inputs.
type Options struct {
	// ManualPages lists commands with an upstream reference page.
	ManualPages []string
	// ManualPageURL formats a reference page URL. Defaults to DefaultManualPageURL.
	ManualPageURL string
}

// ParamDoc documents one parameter.
type ParamDoc struct {
	Name string // Go parameter name
	Type string // normalized C type
	// Group is the parameter group, with a link per owned member constant.
	Group     string
	Constants []Link
	// Len is the registry's length relationship, e.g. "n" or "COMPSIZE(pname)".
	Len string
}

// Doc is the documentation block of a binding.
type Doc struct {
	Summary    string
	Params     []ParamDoc
	Alias      string
	AliasLink  Link
	Vector     string
	VectorLink Link
	ManualPage string
}

// Binding is the single physical definition of a command.
type Binding struct {
	Function  *symtab.Function
	GoName    string
	Signature Signature
	Doc       Doc
	// Home is the artifact holding the definition.
	Home   string
	Shared bool
	Owners []string
}

// Set is every binding, in declaration order.
type Set struct {
	bindings []*Binding
	byName   map[string]*Binding
	byHome   map[string][]*Binding
}

// Synthesize builds the binding set for every command that appears in p. The table
// supplies group membership and cross-reference targets.
func Synthesize(p *partition.Partition, t *symtab.Table, opts Options) (*Set, error) {
	if opts.ManualPageURL == "" {
		opts.ManualPageURL = DefaultManualPageURL
	}
	manual := make(map[string]bool, len(opts.ManualPages))
	for _, name := range opts.ManualPages {
		manual[name] = true
	}

	s := &Set{
		byName: make(map[string]*Binding),
		byHome: make(map[string][]*Binding),
	}
	goNames := make(map[string]string)

	for _, e := range t.Owned() {
		switch sym := e.Symbol.(type) {
		case *symtab.Function:
			b := &Binding{
				Function:  sym,
				GoName:    FuncName(sym.Name),
				Signature: SignatureOf(sym),
				Shared:    e.Category.Shared(),
				Owners:    e.Category.Owners(),
			}
			if prev, dup := goNames[b.GoName]; dup {
				return nil, errors.New(errors.PhaseSynth, errors.KindDuplicateSymbol).
					Path("bindings", b.GoName).
					Detail("%s and %s both bind as %s", prev, sym.Name, b.GoName).
					Build()
			}
			goNames[b.GoName] = sym.Name

			b.Home = b.Owners[0]
			if b.Shared {
				b.Home = layout.Shared
			} else if _, ok := p.Artifact(b.Home); !ok {
				return nil, errors.NotFound(errors.PhaseSynth, "artifact", b.Home)
			}
			b.Doc = document(sym, b, t, manual, opts.ManualPageURL)

			s.bindings = append(s.bindings, b)
			s.byName[sym.Name] = b
			s.byHome[b.Home] = append(s.byHome[b.Home], b)
		case *symtab.Enumerant:
		default:
			return nil, errors.InvalidInput(errors.PhaseSynth, fmt.Sprintf("unexpected symbol %T", sym))
		}
	}
	return s, nil
}

func document(fn *symtab.Function, b *Binding, t *symtab.Table, manual map[string]bool, pageURL string) Doc {
	d := Doc{
		Summary: fmt.Sprintf("%s calls %s%s.", b.GoName, fn.Name, fn.Signature()[len("func"):]),
		Alias:   fn.Alias,
		Vector:  fn.Vector,
	}
	for _, p := range fn.Params {
		pd := ParamDoc{Name: ParamName(p.Name), Type: p.Type, Group: p.Group, Len: p.Len}
		if members, ok := t.Group(p.Group); ok {
			for _, m := range members {
				if e, ok := t.Lookup(symtab.EnumerantID(m)); ok {
					if l := LinkFor(e); l.Valid() {
						pd.Constants = append(pd.Constants, l)
					}
				}
			}
		}
		d.Params = append(d.Params, pd)
	}
	if fn.Alias != "" {
		d.AliasLink = linkTo(t, symtab.FunctionID(fn.Alias))
	}
	if fn.Vector != "" {
		d.VectorLink = linkTo(t, symtab.FunctionID(fn.Vector))
	}
	if manual[fn.Name] {
		d.ManualPage = fmt.Sprintf(pageURL, fn.Name)
	}
	return d
}

func linkTo(t *symtab.Table, id symtab.ID) Link {
	e, ok := t.Lookup(id)
	if !ok {
		return Link{}
	}
	return LinkFor(e)
}

// Bindings returns every binding in declaration order.
func (s *Set) Bindings() []*Binding {
	out := make([]*Binding, len(s.bindings))
	copy(out, s.bindings)
	return out
}

// Lookup returns the binding of the named command.
func (s *Set) Lookup(name string) (*Binding, bool) {
	b, ok := s.byName[name]
	return b, ok
}

// Shared returns the promoted bindings in declaration order.
func (s *Set) Shared() []*Binding {
	return append([]*Binding(nil), s.byHome[layout.Shared]...)
}

// DefinedIn returns the bindings whose home is artifact.
func (s *Set) DefinedIn(artifact string) []*Binding {
	return append([]*Binding(nil), s.byHome[artifact]...)
}

// Signatures returns one signature per distinct short name, sorted by it.
func (s *Set) Signatures() []Signature {
	seen := make(map[string]bool)
	var out []Signature
	for _, b := range s.bindings {
		if seen[b.Signature.Short] {
			continue
		}
		seen[b.Signature.Short] = true
		out = append(out, b.Signature)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Short < out[j].Short })
	return out
}
