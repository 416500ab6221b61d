package render

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/glbind/assemble"
	"github.com/wippyai/glbind/errors"
	"github.com/wippyai/glbind/generator"
	"github.com/wippyai/glbind/layout"
	"github.com/wippyai/glbind/registry"
)

const root = "example.com/gl"

func renderFixture(t *testing.T) map[string]string {
	t.Helper()
	reg, err := registry.Load("../registry/testdata/minigl.yaml")
	require.NoError(t, err)
	res, err := generator.Generate(reg, generator.Options{Strict: true})
	require.NoError(t, err)

	r := &Renderer{ImportRoot: root}
	files, err := r.Render(res)
	require.NoError(t, err)
	require.Len(t, files, len(res.Modules))

	out := make(map[string]string, len(files))
	for i, f := range files {
		if i > 0 {
			assert.Less(t, files[i-1].Path, f.Path)
		}
		assert.True(t, strings.HasPrefix(string(f.Content), Header+"\n"), f.Path)
		out[f.Path] = string(f.Content)
	}
	return out
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "ext/arb/debugoutput", Dir("Ext.ARB.DebugOutput"))
	assert.Equal(t, "internal/shared", Dir(layout.Shared))
	assert.Equal(t, "core32", Dir("Core32"))

	assert.Equal(t, "debugoutput", PackageName("Ext.ARB.DebugOutput"))
	assert.Equal(t, "threedfx", PackageName("Ext.ThreeDFX"))
	assert.Equal(t, "shared", PackageName(layout.Shared))
	assert.Equal(t, "pkggo", PackageName("Ext.VEND.Go"))

	r := &Renderer{ImportRoot: root, RuntimeImport: DefaultRuntimeImport}
	assert.Equal(t, "example.com/gl/ext/arb", r.ImportPath("Ext.ARB"))
	assert.Equal(t, DefaultRuntimeImport, r.ImportPath(layout.Proc))
}

func TestConstValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"0x00004000", "0x00004000", true},
		{"0xFFFFFFFFu", "0xFFFFFFFF", true},
		{"0xFFFFFFFFFFFFFFFFull", "0xFFFFFFFFFFFFFFFF", true},
		{"-1", "-1", true},
		{" 12 ", "12", true},
		{"((GLuint)-1)", "", false},
		{"", "", false},
		{"1_000", "", false},
		{"08", "", false},
	}
	for _, tt := range tests {
		got, ok := constValue(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestRenderFixture(t *testing.T) {
	files := renderFixture(t)

	std10 := files["standard10/standard10.go"]
	require.NotEmpty(t, std10)
	assert.Contains(t, std10, "package standard10\n")
	assert.Contains(t, std10, `shared "example.com/gl/internal/shared"`)
	assert.Contains(t, std10, `types "example.com/gl/types"`)
	assert.Contains(t, std10, "func Clear(mask types.Bitfield) {\n\tshared.Clear(mask)\n}")
	assert.Contains(t, std10, "// Reference page: https://registry.khronos.org/OpenGL-Refpages/gl4/html/glClear.xhtml")
	assert.Contains(t, std10, "COLOR_BUFFER_BIT = 0x00004000")
	assert.Contains(t, std10, "func End() {\n\tshared.End()\n}")

	shared := files["internal/shared/shared.go"]
	require.NotEmpty(t, shared)
	assert.Contains(t, shared, "package shared\n")
	assert.Contains(t, shared, `var procGetStringi = glproc.New("glGetStringi")`)
	assert.Contains(t, shared, "func GetStringi(name types.Enum, index types.Uint) *types.Ubyte {\n"+
		"\treturn glproc.Load[ffi.EnumUintToPUbyte](procGetStringi)(name, index)\n}")

	debug := files["ext/arb/debugoutput/debugoutput.go"]
	require.NotEmpty(t, debug)
	assert.Contains(t, debug, `"unsafe"`)
	assert.Contains(t, debug, "func DebugMessageCallbackARB(callback types.DebugProcARB, userParam unsafe.Pointer) {")
	assert.Contains(t, debug, "glproc.Load[ffi.DebugProcARBPtr](procDebugMessageCallbackARB)(callback, userParam)")
	assert.Contains(t, debug, `var extARBDebugOutput = glproc.Extension("GL_ARB_debug_output")`)
	assert.Contains(t, debug, "func HasARBDebugOutput() bool {\n\treturn extARBDebugOutput.Supported()\n}")
	assert.Contains(t, debug, "// Specification: https://registry.khronos.org/OpenGL/extensions/ARB/ARB_debug_output.txt")

	core43 := files["core43/core43.go"]
	require.NotEmpty(t, core43)
	assert.Contains(t, core43, `core32 "example.com/gl/core32"`)
	assert.Regexp(t, regexp.MustCompile(`\tClear\s+= core32\.Clear\n`), core43)
	assert.Regexp(t, regexp.MustCompile(`\tTRIANGLES\s+= core32\.TRIANGLES\n`), core43)
	assert.NotContains(t, core43, "QUADS", "removed from core")

	types := files["types/types.go"]
	assert.Contains(t, types, "type Enum uint32\n")
	assert.NotContains(t, types, "import")

	ffi := files["internal/ffi/ffi.go"]
	assert.Contains(t, ffi, "type Bitfield func(types.Bitfield)\n")
	assert.Contains(t, ffi, "type Void func()\n")
	assert.Contains(t, ffi, "type DebugProcARBPtr func(types.DebugProcARB, unsafe.Pointer)\n")

	noErr := files["ext/khr/noerror/noerror.go"]
	assert.Contains(t, noErr, "glproc \""+DefaultRuntimeImport+"\"")
	assert.Contains(t, noErr, "func HasKHRNoError() bool")

	ext := files["ext/ext.go"]
	assert.Contains(t, ext, "package ext\n")
	assert.Contains(t, ext, `arb "example.com/gl/ext/arb"`)
	assert.Regexp(t, regexp.MustCompile(`\tHasARBDebugOutput\s+= arb\.HasARBDebugOutput\n`), ext)
}

func TestRenderDeterministic(t *testing.T) {
	a := renderFixture(t)
	b := renderFixture(t)
	assert.Equal(t, a, b)
}

func TestBlankImportForShadowedPrelude(t *testing.T) {
	mods := []*assemble.Module{
		{
			Name:    "Base",
			Kind:    assemble.KindProfile,
			Exports: []assemble.Export{{Name: "X"}},
			Body:    []assemble.Decl{&assemble.ConstDecl{Name: "X", Symbol: "GL_X", Value: "1"}},
		},
		{
			Name:    "Top",
			Kind:    assemble.KindProfile,
			Exports: []assemble.Export{{Module: "Base"}, {Name: "X"}},
			Imports: []string{"Base"},
			Body: []assemble.Decl{
				&assemble.ModuleReexportDecl{Module: "Base"},
				&assemble.ConstDecl{Name: "X", Symbol: "GL_X", Value: "2"},
			},
		},
	}
	files, err := (&Renderer{ImportRoot: root}).RenderModules(mods)
	require.NoError(t, err)
	require.Len(t, files, 2)

	top := string(files[1].Content)
	assert.Equal(t, "top/top.go", files[1].Path)
	assert.Contains(t, top, "\t_ \"example.com/gl/base\"\n")
	assert.Contains(t, top, "X = 2 // GL_X")
	assert.NotContains(t, top, "base.X")
}

func TestRenderErrors(t *testing.T) {
	_, err := (&Renderer{}).RenderModules(nil)
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseRender, Kind: errors.KindInvalidInput}))

	r := &Renderer{ImportRoot: root}

	badValue := []*assemble.Module{{
		Name:    "Core32",
		Exports: []assemble.Export{{Name: "X"}},
		Body:    []assemble.Decl{&assemble.ConstDecl{Name: "X", Symbol: "GL_X", Value: "((GLuint)-1)"}},
	}}
	_, err = r.RenderModules(badValue)
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseRender, Kind: errors.KindInvalidData}))
	assert.Contains(t, err.Error(), "GL_X")

	notImported := []*assemble.Module{{
		Name: "Ext.A.B",
		Body: []assemble.Decl{&assemble.ExtensionCheckDecl{Extension: "GL_A_b", Name: "HasAB"}},
	}}
	_, err = r.RenderModules(notImported)
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseRender, Kind: errors.KindInvalidData}))

	undeclared := []*assemble.Module{{Name: "Core32", Exports: []assemble.Export{{Name: "Ghost"}}}}
	_, err = r.RenderModules(undeclared)
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseRender, Kind: errors.KindInvalidData}))

	samePath := []*assemble.Module{{Name: "Ext.A.B"}, {Name: "Ext.a.b"}}
	_, err = r.RenderModules(samePath)
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseRender, Kind: errors.KindDuplicateSymbol}))
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	files := []File{
		{Path: "core32/core32.go", Module: "Core32", Content: []byte("package core32\n")},
		{Path: "ext/arb/arb.go", Module: "Ext.ARB", Content: []byte("package arb\n")},
	}

	st, err := Write(dir, files)
	require.NoError(t, err)
	assert.Equal(t, Stats{Written: 2}, st)

	got, err := os.ReadFile(filepath.Join(dir, "ext", "arb", "arb.go"))
	require.NoError(t, err)
	assert.Equal(t, "package arb\n", string(got))

	st, err = Write(dir, files)
	require.NoError(t, err)
	assert.Equal(t, Stats{Unchanged: 2}, st)

	files[0].Content = []byte("package core32\n\nconst X = 1\n")
	st, err = Write(dir, files)
	require.NoError(t, err)
	assert.Equal(t, Stats{Written: 1, Unchanged: 1}, st)
}

func TestWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "core32")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := Write(dir, []File{{Path: "core32/core32.go", Content: []byte("package core32\n")}})
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseWrite, Kind: errors.KindIO}))
}
