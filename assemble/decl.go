package assemble

import (
	"github.com/wippyai/glbind/layout"
	"github.com/wippyai/glbind/synth"
)

// Decl is one body declaration of a module. The concrete types are ConstDecl,
// BindingDecl, ReexportDecl, ModuleReexportDecl, ExtensionCheckDecl, TypeDecl and
// HelperDecl.
type Decl interface {
	isDecl()
}

// ConstDecl defines an enumerant as a literal constant.
type ConstDecl struct {
	Name   string // Go name
	Symbol string // registry name
	Value  string
}

// BindingDecl defines a binding: the lazily resolved entry point and its wrapper.
type BindingDecl struct {
	Binding *synth.Binding
}

// ReexportDecl re-exports a binding defined in another module.
type ReexportDecl struct {
	From    string
	Binding *synth.Binding
}

// ModuleReexportDecl re-exports everything another module exports.
type ModuleReexportDecl struct {
	Module string
}

// ExtensionCheckDecl defines the cached availability query of an extension.
type ExtensionCheckDecl struct {
	Extension string // GL_ARB_debug_output
	Name      string // HasARBDebugOutput
	SpecLink  string
}

// TypeDecl defines one vocabulary type.
type TypeDecl struct {
	Def layout.TypeDef
}

// HelperDecl defines the call helper type of one signature.
type HelperDecl struct {
	Signature synth.Signature
}

func (*ConstDecl) isDecl()          {}
func (*BindingDecl) isDecl()        {}
func (*ReexportDecl) isDecl()       {}
func (*ModuleReexportDecl) isDecl() {}
func (*ExtensionCheckDecl) isDecl() {}
func (*TypeDecl) isDecl()           {}
func (*HelperDecl) isDecl()         {}
