// Package render turns assembled modules into Go source files.
//
// Every module becomes one package. Profile and extension packages hold constants,
// wrappers and re-exports; the shared package holds promoted bindings; the types
// and ffi packages hold the type vocabulary and the per-signature call helpers.
// Output is formatted with go/format and is byte-identical for identical input.
package render

import (
	"fmt"
	"go/format"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/glbind/assemble"
	"github.com/wippyai/glbind/errors"
	"github.com/wippyai/glbind/generator"
	"github.com/wippyai/glbind/layout"
	"github.com/wippyai/glbind/synth"
)

// Header opens every generated file.
const Header = "// Code generated by glgen. DO NOT EDIT."

// DefaultRuntimeImport is the native lookup runtime the bindings call into.
const DefaultRuntimeImport = "github.com/wippyai/glbind/glproc"

// fixedAliases are the import names of the fixed artifacts.
var fixedAliases = map[string]string{
	layout.Shared: "shared",
	layout.Types:  "types",
	layout.FFI:    "ffi",
	layout.Proc:   "glproc",
}

// Renderer renders modules under an import root.
type Renderer struct {
	// ImportRoot is the Go import path of the output directory.
	ImportRoot string
	// RuntimeImport is the import path of the native lookup runtime.
	// Defaults to DefaultRuntimeImport.
	RuntimeImport string
}

// File is one rendered source file.
type File struct {
	Path    string // slash separated, relative to the output root
	Module  string
	Content []byte
}

// Render renders every module of a generator result.
func (r *Renderer) Render(res *generator.Result) ([]File, error) {
	return r.RenderModules(res.Modules)
}

// RenderModules renders mods, one file per module, sorted by path.
func (r *Renderer) RenderModules(mods []*assemble.Module) ([]File, error) {
	if r.ImportRoot == "" {
		return nil, errors.InvalidInput(errors.PhaseRender, "import root is empty")
	}
	if r.RuntimeImport == "" {
		r.RuntimeImport = DefaultRuntimeImport
	}

	idx := newExportIndex(mods)
	files := make([]File, 0, len(mods))
	paths := make(map[string]string, len(mods))
	for _, m := range mods {
		p := Dir(m.Name) + "/" + PackageName(m.Name) + ".go"
		if prev, dup := paths[p]; dup {
			return nil, errors.New(errors.PhaseRender, errors.KindDuplicateSymbol).
				Path(p).
				Detail("%s and %s render to the same file", prev, m.Name).
				Build()
		}
		paths[p] = m.Name

		src, err := r.renderModule(m, idx)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: p, Module: m.Name, Content: src})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	Logger().Debug("rendered", zap.Int("files", len(files)))
	return files, nil
}

// fileWriter accumulates one file. Imports are resolved lazily so unused ones
// can be emitted as blank imports.
type fileWriter struct {
	mod     *assemble.Module
	aliases map[string]string
	used    map[string]bool
	unsafe  bool
	err     error
	body    strings.Builder
}

func (r *Renderer) renderModule(m *assemble.Module, idx *exportIndex) ([]byte, error) {
	f := &fileWriter{
		mod:     m,
		aliases: assignAliases(m.Imports),
		used:    make(map[string]bool),
	}
	if err := f.writeBody(idx); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}

	var out strings.Builder
	out.WriteString(Header)
	out.WriteString("\n\n")
	writePackageDoc(&out, m)
	fmt.Fprintf(&out, "package %s\n\n", PackageName(m.Name))

	var imports []string
	if f.unsafe {
		imports = append(imports, strconv.Quote("unsafe"))
	}
	for _, name := range m.Imports {
		alias := f.aliases[name]
		if !f.used[name] {
			alias = "_"
		}
		imports = append(imports, alias+" "+strconv.Quote(r.ImportPath(name)))
	}
	if len(imports) > 0 {
		out.WriteString("import (\n")
		for _, imp := range imports {
			out.WriteString("\t" + imp + "\n")
		}
		out.WriteString(")\n\n")
	}
	out.WriteString(f.body.String())

	src, err := format.Source([]byte(out.String()))
	if err != nil {
		return nil, errors.New(errors.PhaseRender, errors.KindInvalidData).
			Path(m.Name).
			Detail("generated source does not parse").
			Cause(err).
			Build()
	}
	return src, nil
}

func assignAliases(imports []string) map[string]string {
	taken := map[string]bool{"unsafe": true}
	for _, a := range fixedAliases {
		taken[a] = true
	}
	aliases := make(map[string]string, len(imports))
	for _, name := range imports {
		if a, ok := fixedAliases[name]; ok {
			aliases[name] = a
			continue
		}
		base := PackageName(name)
		alias := base
		for n := 2; taken[alias]; n++ {
			alias = base + strconv.Itoa(n)
		}
		taken[alias] = true
		aliases[name] = alias
	}
	return aliases
}

// use returns the alias of an imported module and marks it used.
func (f *fileWriter) use(module string) string {
	alias, ok := f.aliases[module]
	if !ok {
		if f.err == nil {
			f.err = errors.InvalidData(errors.PhaseRender, []string{f.mod.Name, module},
				"module referenced without being imported")
		}
		return PackageName(module)
	}
	f.used[module] = true
	return alias
}

// goType renders a C type, qualifying vocabulary names outside the types package.
func (f *fileWriter) goType(ct layout.CType) string {
	if ct.UsesUnsafe() {
		f.unsafe = true
	}
	qualifier := ""
	if _, ok := ct.Vocab(); ok && f.mod.Name != layout.Types {
		qualifier = f.use(layout.Types) + "."
	}
	return ct.GoExpr(qualifier)
}

func writePackageDoc(out *strings.Builder, m *assemble.Module) {
	pkg := PackageName(m.Name)
	switch m.Kind {
	case assemble.KindExtension:
		fmt.Fprintf(out, "// Package %s exposes the %s extension.\n", pkg, m.Extension.Name)
	case assemble.KindShared:
		fmt.Fprintf(out, "// Package %s defines the bindings owned by more than one artifact.\n", pkg)
	case assemble.KindTypes:
		fmt.Fprintf(out, "// Package %s is the OpenGL type vocabulary.\n", pkg)
	case assemble.KindFFI:
		fmt.Fprintf(out, "// Package %s declares one call helper per distinct native signature.\n", pkg)
	case assemble.KindGroup:
		fmt.Fprintf(out, "// Package %s re-exports every %s extension.\n", pkg, m.Name)
	case assemble.KindMeta:
		fmt.Fprintf(out, "// Package %s bundles related %s extensions.\n", pkg, m.Name)
	default:
		fmt.Fprintf(out, "// Package %s exposes the %s OpenGL profile.\n", pkg, m.Name)
	}
}

func (f *fileWriter) writeBody(idx *exportIndex) error {
	ownNames := own(f.mod)
	for _, e := range f.mod.Exports {
		if e.Module == "" && ownNames[e.Name] == 0 {
			return errors.InvalidData(errors.PhaseRender, []string{f.mod.Name, e.Name},
				"exported name has no declaration")
		}
	}

	seen := make(map[string]bool, len(ownNames))
	for name := range ownNames {
		seen[name] = true
	}

	var consts []*assemble.ConstDecl
	flushConsts := func() error {
		if len(consts) == 0 {
			return nil
		}
		err := f.writeConsts(consts)
		consts = nil
		return err
	}

	for _, d := range f.mod.Body {
		if c, ok := d.(*assemble.ConstDecl); ok {
			consts = append(consts, c)
			continue
		}
		if err := flushConsts(); err != nil {
			return err
		}
		switch d := d.(type) {
		case *assemble.ModuleReexportDecl:
			f.writeModuleReexport(d, idx, seen)
		case *assemble.BindingDecl:
			f.writeBinding(d.Binding)
		case *assemble.ReexportDecl:
			f.writeWrapper(d)
		case *assemble.ExtensionCheckDecl:
			f.writeCheck(d)
		case *assemble.TypeDecl:
			fmt.Fprintf(&f.body, "// %s is %s.\ntype %s %s\n\n", d.Def.Name, d.Def.C, d.Def.Name, d.Def.Go)
		case *assemble.HelperDecl:
			f.writeHelper(d.Signature)
		default:
			return errors.InvalidInput(errors.PhaseRender, fmt.Sprintf("unexpected declaration %T", d))
		}
	}
	return flushConsts()
}

func (f *fileWriter) writeConsts(consts []*assemble.ConstDecl) error {
	f.body.WriteString("const (\n")
	for _, c := range consts {
		v, ok := constValue(c.Value)
		if !ok {
			return errors.New(errors.PhaseRender, errors.KindInvalidData).
				Path(f.mod.Name, c.Symbol).
				Detail("value %q is not an integer literal", c.Value).
				Build()
		}
		fmt.Fprintf(&f.body, "\t%s = %s // %s\n", c.Name, v, c.Symbol)
	}
	f.body.WriteString(")\n\n")
	return nil
}

// writeModuleReexport aliases every symbol of another module that is not
// already declared here. Earlier declarations win.
func (f *fileWriter) writeModuleReexport(d *assemble.ModuleReexportDecl, idx *exportIndex, seen map[string]bool) {
	var consts, funcs, types []string
	for _, s := range idx.flat(d.Module) {
		if seen[s.Name] {
			continue
		}
		seen[s.Name] = true
		switch s.Kind {
		case symConst:
			consts = append(consts, s.Name)
		case symFunc:
			funcs = append(funcs, s.Name)
		case symType:
			types = append(types, s.Name)
		}
	}
	if len(consts)+len(funcs)+len(types) == 0 {
		return
	}

	alias := f.use(d.Module)
	fmt.Fprintf(&f.body, "// Re-exported from %s.\n", d.Module)
	block := func(keyword, sep string, names []string) {
		if len(names) == 0 {
			return
		}
		fmt.Fprintf(&f.body, "%s (\n", keyword)
		for _, n := range names {
			fmt.Fprintf(&f.body, "\t%s%s%s.%s\n", n, sep, alias, n)
		}
		f.body.WriteString(")\n\n")
	}
	block("const", " = ", consts)
	block("var", " = ", funcs)
	block("type", " = ", types)
}

type param struct {
	name string
	typ  string
}

func (f *fileWriter) params(b *synth.Binding) []param {
	out := make([]param, len(b.Function.Params))
	seen := make(map[string]bool, len(out))
	for i, p := range b.Function.Params {
		name := synth.ParamName(p.Name)
		if name == "_" || seen[name] {
			name = "arg" + strconv.Itoa(i)
		}
		seen[name] = true
		out[i] = param{name: name, typ: f.goType(b.Signature.Params[i])}
	}
	return out
}

// writeSignature writes "Name(params) result".
func (f *fileWriter) writeSignature(b *synth.Binding, ps []param) {
	f.body.WriteString(b.GoName)
	f.body.WriteByte('(')
	for i, p := range ps {
		if i > 0 {
			f.body.WriteString(", ")
		}
		f.body.WriteString(p.name + " " + p.typ)
	}
	f.body.WriteByte(')')
	if !b.Signature.Return.Void() {
		f.body.WriteString(" " + f.goType(b.Signature.Return))
	}
}

func (f *fileWriter) writeCall(b *synth.Binding, callee string, ps []param) {
	f.body.WriteString("\t")
	if !b.Signature.Return.Void() {
		f.body.WriteString("return ")
	}
	f.body.WriteString(callee + "(")
	for i, p := range ps {
		if i > 0 {
			f.body.WriteString(", ")
		}
		f.body.WriteString(p.name)
	}
	f.body.WriteString(")\n")
}

func (f *fileWriter) writeBinding(b *synth.Binding) {
	proc := "proc" + b.GoName
	fmt.Fprintf(&f.body, "var %s = %s.New(%s)\n\n", proc, f.use(layout.Proc), strconv.Quote(b.Function.Name))

	ps := f.params(b)
	writeDoc(&f.body, b)
	f.body.WriteString("func ")
	f.writeSignature(b, ps)
	f.body.WriteString(" {\n")
	callee := fmt.Sprintf("%s.Load[%s.%s](%s)", f.use(layout.Proc), f.use(layout.FFI), b.Signature.Short, proc)
	f.writeCall(b, callee, ps)
	f.body.WriteString("}\n\n")
}

func (f *fileWriter) writeWrapper(d *assemble.ReexportDecl) {
	b := d.Binding
	ps := f.params(b)
	writeDoc(&f.body, b)
	f.body.WriteString("func ")
	f.writeSignature(b, ps)
	f.body.WriteString(" {\n")
	f.writeCall(b, f.use(d.From)+"."+b.GoName, ps)
	f.body.WriteString("}\n\n")
}

func (f *fileWriter) writeCheck(d *assemble.ExtensionCheckDecl) {
	v := "ext" + strings.TrimPrefix(d.Name, "Has")
	fmt.Fprintf(&f.body, "var %s = %s.Extension(%s)\n\n", v, f.use(layout.Proc), strconv.Quote(d.Extension))
	fmt.Fprintf(&f.body, "// %s reports whether the current context advertises %s.\n", d.Name, d.Extension)
	if d.SpecLink != "" {
		fmt.Fprintf(&f.body, "//\n// Specification: %s\n", d.SpecLink)
	}
	fmt.Fprintf(&f.body, "func %s() bool {\n\treturn %s.Supported()\n}\n\n", d.Name, v)
}

func (f *fileWriter) writeHelper(sig synth.Signature) {
	fmt.Fprintf(&f.body, "type %s func(", sig.Short)
	for i, p := range sig.Params {
		if i > 0 {
			f.body.WriteString(", ")
		}
		f.body.WriteString(f.goType(p))
	}
	f.body.WriteByte(')')
	if !sig.Return.Void() {
		f.body.WriteString(" " + f.goType(sig.Return))
	}
	f.body.WriteString("\n\n")
}

func writeDoc(out *strings.Builder, b *synth.Binding) {
	d := b.Doc
	fmt.Fprintf(out, "// %s\n", d.Summary)

	var notes []string
	for _, p := range d.Params {
		var parts []string
		if p.Group != "" {
			g := "group " + p.Group
			if len(p.Constants) > 0 {
				links := make([]string, len(p.Constants))
				for i, l := range p.Constants {
					links[i] = l.String()
				}
				g += ": " + strings.Join(links, ", ")
			}
			parts = append(parts, g)
		}
		if p.Len != "" {
			parts = append(parts, "length "+p.Len)
		}
		if len(parts) > 0 {
			notes = append(notes, fmt.Sprintf("  - %s: %s", p.Name, strings.Join(parts, "; ")))
		}
	}
	if len(notes) > 0 {
		out.WriteString("//\n")
		for _, n := range notes {
			out.WriteString("//" + n + "\n")
		}
	}

	var refs []string
	if d.Alias != "" {
		refs = append(refs, "Alias of "+reference(d.Alias, d.AliasLink)+".")
	}
	if d.Vector != "" {
		refs = append(refs, "Vector form: "+reference(d.Vector, d.VectorLink)+".")
	}
	if d.ManualPage != "" {
		refs = append(refs, "Reference page: "+d.ManualPage)
	}
	if len(refs) > 0 {
		out.WriteString("//\n")
		for _, r := range refs {
			out.WriteString("// " + r + "\n")
		}
	}
}

func reference(name string, l synth.Link) string {
	if !l.Valid() {
		return name
	}
	return name + " (" + l.String() + ")"
}
