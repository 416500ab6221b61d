package generator

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/glbind/aggregate"
	"github.com/wippyai/glbind/assemble"
	"github.com/wippyai/glbind/errors"
	"github.com/wippyai/glbind/layout"
	"github.com/wippyai/glbind/registry"
	"github.com/wippyai/glbind/symtab"
)

func loadFixture(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.Load("../registry/testdata/minigl.yaml")
	require.NoError(t, err)
	return reg
}

func generate(t *testing.T, reg *registry.Registry, opts Options) *Result {
	t.Helper()
	res, err := Generate(reg, opts)
	require.NoError(t, err)
	return res
}

func mustModule(t *testing.T, res *Result, name string) *assemble.Module {
	t.Helper()
	m, ok := res.Module(name)
	require.True(t, ok, "module %s", name)
	return m
}

func moduleNames(res *Result) []string {
	out := make([]string, len(res.Modules))
	for i, m := range res.Modules {
		out[i] = m.Name
	}
	return out
}

func TestGenerateFixture(t *testing.T) {
	res := generate(t, loadFixture(t), Options{Strict: true})

	assert.Equal(t, []string{
		"Compatibility32", "Compatibility43", "Core32", "Core43", "Embedded20",
		"Ext", "Ext.ARB", "Ext.ARB.DebugOutput", "Ext.ARB.ES2Compatibility",
		"Ext.ARB.ES3Compatibility", "Ext.ARB.ESCompatibility", "Ext.ARB.VertexArrayObject",
		"Ext.EXT", "Ext.EXT.BlendColor", "Ext.KHR", "Ext.KHR.NoError",
		"Ext.SGIX", "Ext.SGIX.Async",
		"Internal.FFI", "Internal.Shared",
		"Standard10", "Standard11", "Standard14", "Standard30",
		"Types",
	}, moduleNames(res))
	assert.True(t, res.Table.Frozen())

	meta := mustModule(t, res, "Ext.ARB.ESCompatibility")
	assert.Equal(t, assemble.KindMeta, meta.Kind)
	assert.Equal(t, []string{"Ext.ARB.ES2Compatibility", "Ext.ARB.ES3Compatibility"}, meta.Imports)

	arb := mustModule(t, res, "Ext.ARB")
	assert.NotContains(t, arb.Imports, "Ext.ARB.ESCompatibility")
}

func TestUniqueness(t *testing.T) {
	res := generate(t, loadFixture(t), Options{Strict: true})

	defs := make(map[string][]string)
	for _, m := range res.Modules {
		for _, d := range m.Body {
			if bd, ok := d.(*assemble.BindingDecl); ok {
				defs[bd.Binding.Function.Name] = append(defs[bd.Binding.Function.Name], m.Name)
			}
		}
	}
	for _, b := range res.Bindings.Bindings() {
		assert.Equal(t, []string{b.Home}, defs[b.Function.Name], b.Function.Name)
	}

	for _, m := range res.Modules {
		for _, d := range m.Body {
			re, ok := d.(*assemble.ReexportDecl)
			if !ok {
				continue
			}
			assert.Equal(t, layout.Shared, re.From)
			assert.Contains(t, m.Imports, layout.Shared, m.Name)
		}
	}
}

func TestCoverage(t *testing.T) {
	res := generate(t, loadFixture(t), Options{Strict: true})

	for _, e := range res.Table.Owned() {
		id := e.Symbol.ID()
		for _, owner := range e.Category.Owners() {
			m := mustModule(t, res, owner)
			count := 0
			for _, d := range m.Body {
				switch d := d.(type) {
				case *assemble.BindingDecl:
					if id == d.Binding.Function.ID() {
						count++
					}
				case *assemble.ReexportDecl:
					if id == d.Binding.Function.ID() {
						count++
					}
				case *assemble.ConstDecl:
					if id == symtab.EnumerantID(d.Symbol) {
						count++
					}
				}
			}
			assert.Equal(t, 1, count, "%s in %s", id, owner)
		}
	}
}

func TestRemovalCorrectness(t *testing.T) {
	reg := &registry.Registry{
		Commands: []registry.Command{{Name: "glS"}},
		Features: []registry.Feature{{
			Name:     "GL_VERSION_3_3",
			API:      "gl",
			Number:   "3.3",
			Requires: []registry.Interface{{Profile: "core", Commands: []string{"glS"}}},
			Removes:  []registry.Interface{{Profile: "core", Commands: []string{"glS"}}},
		}},
	}
	res := generate(t, reg, Options{Strict: true})

	e, ok := res.Table.Lookup(symtab.FunctionID("glS"))
	require.True(t, ok)
	assert.Equal(t, []string{"Compatibility33"}, e.Category.Owners())

	b, ok := res.Bindings.Lookup("glS")
	require.True(t, ok)
	assert.Equal(t, "Compatibility33", b.Home)
	assert.Empty(t, mustModule(t, res, "Core33").Body)
}

func TestIdempotence(t *testing.T) {
	reg := loadFixture(t)
	a := generate(t, reg, Options{Strict: true})
	b := generate(t, reg, Options{Strict: true})

	require.Equal(t, moduleNames(a), moduleNames(b))
	for i := range a.Modules {
		assert.Equal(t, a.Modules[i].Exports, b.Modules[i].Exports)
		assert.Equal(t, a.Modules[i].Imports, b.Modules[i].Imports)
		assert.Equal(t, a.Modules[i].Body, b.Modules[i].Body)
	}
}

// A 1.0 symbol is defined once and inherited by later versions.
func TestUniversalSymbolInheritance(t *testing.T) {
	res := generate(t, loadFixture(t), Options{Strict: true, APIs: []string{"gl"}})

	e, ok := res.Table.Lookup(symtab.FunctionID("glClear"))
	require.True(t, ok)
	assert.Equal(t, []string{"Core32", "Standard10"}, e.Category.Owners())

	l := res.Partition.Layout()
	for _, later := range []string{"Standard11", "Standard14", "Standard30"} {
		assert.Contains(t, l.Chain(later), "Standard10", later)
		for _, d := range mustModule(t, res, later).Body {
			if re, ok := d.(*assemble.ReexportDecl); ok {
				assert.NotEqual(t, "glClear", re.Binding.Function.Name, later)
			}
		}
	}
	assert.Contains(t, l.Chain("Core43"), "Core32")
}

// A symbol required by two extensions is promoted.
func TestSharedExtensionSymbol(t *testing.T) {
	reg := &registry.Registry{
		Commands: []registry.Command{{Name: "glY"}},
		Extensions: []registry.Extension{
			{Name: "GL_VEND_Foo", Requires: []registry.Interface{{Commands: []string{"glY"}}}},
			{Name: "GL_VEND_Bar", Requires: []registry.Interface{{Commands: []string{"glY"}}}},
		},
	}
	res := generate(t, reg, Options{Strict: true})

	b, ok := res.Bindings.Lookup("glY")
	require.True(t, ok)
	assert.True(t, b.Shared)
	assert.Equal(t, layout.Shared, b.Home)

	for _, name := range []string{"Ext.VEND.Foo", "Ext.VEND.Bar"} {
		m := mustModule(t, res, name)
		assert.Contains(t, m.Imports, layout.Shared)
		assert.Contains(t, m.Exports, assemble.Export{Name: "Y"})
		for _, d := range m.Body {
			_, defines := d.(*assemble.BindingDecl)
			assert.False(t, defines, name)
		}
	}
}

// An extension without requires still yields a module with a check.
func TestEmptyExtension(t *testing.T) {
	reg := &registry.Registry{Extensions: []registry.Extension{{Name: "GL_VEND_Thing"}}}
	res := generate(t, reg, Options{Strict: true})

	m := mustModule(t, res, "Ext.VEND.Thing")
	require.Len(t, m.Body, 1)
	check, ok := m.Body[0].(*assemble.ExtensionCheckDecl)
	require.True(t, ok)
	assert.Equal(t, "GL_VEND_Thing", check.Extension)
	assert.Equal(t, "HasVENDThing", check.Name)
	assert.Equal(t, []string{layout.Proc}, m.Imports)
}

// Extensions group by vendor token.
func TestVendorGroups(t *testing.T) {
	reg := &registry.Registry{Extensions: []registry.Extension{
		{Name: "GL_A_2"}, {Name: "GL_A_1"}, {Name: "GL_B_x"},
	}}
	res := generate(t, reg, Options{Strict: true})

	a := mustModule(t, res, "Ext.A")
	assert.Equal(t, []assemble.Export{{Module: "Ext.A.One"}, {Module: "Ext.A.Two"}}, a.Exports)

	top := mustModule(t, res, layout.ExtAll)
	assert.Equal(t, []string{"Ext.A", "Ext.B"}, top.Imports)
}

func TestFilters(t *testing.T) {
	reg := loadFixture(t)
	res := generate(t, reg, Options{
		Strict:        true,
		APIs:          []string{"gl"},
		KeepExtension: func(name string) bool { return !strings.HasPrefix(name, "GL_SGIX_") },
		Bundles:       []aggregate.Bundle{},
		SpecLinks:     map[string]string{"GL_KHR_no_error": "https://example.invalid/KHR_no_error.txt"},
	})

	_, ok := res.Module("Ext.SGIX.Async")
	assert.False(t, ok)
	_, ok = res.Module("Embedded20")
	assert.False(t, ok)
	_, ok = res.Module("Ext.ARB.ESCompatibility")
	assert.False(t, ok)

	check := mustModule(t, res, "Ext.KHR.NoError").Body[0].(*assemble.ExtensionCheckDecl)
	assert.Equal(t, "https://example.invalid/KHR_no_error.txt", check.SpecLink)
}

func TestGenerateErrors(t *testing.T) {
	dangling := &registry.Registry{
		Features: []registry.Feature{{
			Name: "GL_VERSION_1_0", API: "gl",
			Requires: []registry.Interface{{Commands: []string{"glGhost"}}},
		}},
	}
	_, err := Generate(dangling, Options{Strict: true})
	var de *errors.DanglingError
	assert.True(t, stderrors.As(err, &de))

	_, err = Generate(dangling, Options{})
	assert.NoError(t, err)

	unknown := &registry.Registry{Features: []registry.Feature{{Name: "GL_VERSION_7_0", API: "gl"}}}
	_, err = Generate(unknown, Options{})
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseResolve, Kind: errors.KindUnknownProfile}))

	malformed := &registry.Registry{Extensions: []registry.Extension{{Name: "GL_bad"}}}
	_, err = Generate(malformed, Options{})
	var e *errors.Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, errors.KindMalformedExtension, e.Kind)

	invalid := &registry.Registry{Commands: []registry.Command{{Name: "glA"}, {Name: "glA"}}}
	_, err = Generate(invalid, Options{})
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseRegistry, Kind: errors.KindDuplicateSymbol}))
}
