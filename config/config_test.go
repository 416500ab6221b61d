package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/glbind/aggregate"
	"github.com/wippyai/glbind/errors"
	"github.com/wippyai/glbind/render"
)

func TestDecodeDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader("registry: gl.yaml\n"))
	require.NoError(t, err)

	assert.Equal(t, "gl.yaml", cfg.Registry)
	assert.Equal(t, "gl", cfg.Output)
	assert.Equal(t, []string{"gl", "gles2"}, cfg.APIs)
	assert.Equal(t, render.DefaultRuntimeImport, cfg.RuntimeImport)
	assert.True(t, cfg.Strict)
	assert.Nil(t, cfg.MetaExtensions)

	opts, err := cfg.GeneratorOptions()
	require.NoError(t, err)
	assert.True(t, opts.Strict)
	assert.Nil(t, opts.Bundles)
	assert.True(t, opts.KeepExtension("GL_ARB_debug_output"))
}

func TestDecodeFull(t *testing.T) {
	src := `
registry: registry/gl.yaml
output: out
import_root: example.com/gl
apis: [gl]
strict: false
extensions:
  include: ["GL_ARB_*", "GL_KHR_*"]
  exclude: ["*_compatibility"]
meta_extensions:
  - name: Ext.KHR.Everything
    extensions: [GL_KHR_no_error, GL_KHR_debug]
manual_pages: [glClear]
spec_links:
  GL_KHR_no_error: https://example.invalid/no_error.txt
`
	cfg, err := Decode(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"gl"}, cfg.APIs)
	assert.False(t, cfg.Strict)
	assert.Equal(t, []aggregate.Bundle{{
		Name:       "Ext.KHR.Everything",
		Extensions: []string{"GL_KHR_no_error", "GL_KHR_debug"},
	}}, cfg.MetaExtensions)

	opts, err := cfg.GeneratorOptions()
	require.NoError(t, err)
	assert.Equal(t, []string{"glClear"}, opts.ManualPages)
	assert.Equal(t, "https://example.invalid/no_error.txt", opts.SpecLinks["GL_KHR_no_error"])

	keep := opts.KeepExtension
	assert.True(t, keep("GL_ARB_debug_output"))
	assert.True(t, keep("GL_KHR_no_error"))
	assert.False(t, keep("GL_ARB_ES2_compatibility"))
	assert.False(t, keep("GL_EXT_blend_color"))

	r, err := cfg.Renderer()
	require.NoError(t, err)
	assert.Equal(t, "example.com/gl", r.ImportRoot)
}

func TestDisableMetaExtensions(t *testing.T) {
	cfg, err := Decode(strings.NewReader("registry: gl.yaml\nmeta_extensions: []\n"))
	require.NoError(t, err)
	assert.NotNil(t, cfg.MetaExtensions)
	assert.Empty(t, cfg.MetaExtensions)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind errors.Kind
	}{
		{"unknown key", "registry: gl.yaml\ncolour: blue\n", errors.KindInvalidData},
		{"missing registry", "output: out\n", errors.KindInvalidInput},
		{"empty file", "", errors.KindInvalidInput},
		{"bad glob", "registry: gl.yaml\nextensions:\n  exclude: [\"GL_[\"]\n", errors.KindInvalidInput},
		{"unnamed bundle", "registry: gl.yaml\nmeta_extensions:\n  - extensions: [GL_A_b]\n", errors.KindInvalidData},
		{"empty bundle", "registry: gl.yaml\nmeta_extensions:\n  - name: Ext.A.All\n", errors.KindInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseConfig, Kind: tt.kind}), "%v", err)
		})
	}
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("registry: gl.yaml\noutput: /abs/out\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "gl.yaml"), cfg.Registry)
	assert.Equal(t, "/abs/out", cfg.Output)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindIO}))
}

func TestRendererRequiresImportRoot(t *testing.T) {
	cfg := Default()
	cfg.Registry = "gl.yaml"
	_, err := cfg.Renderer()
	assert.Error(t, err)
}
