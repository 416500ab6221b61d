package layout

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/glbind/errors"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input  string
		want   Version
		wantOk bool
	}{
		{"3.2", Version{3, 2}, true},
		{"1.0", Version{1, 0}, true},
		{"4", Version{4, 0}, true},
		{"10.20", Version{10, 20}, true},
		{"", Version{}, false},
		{"abc", Version{}, false},
		{"1.2.3", Version{}, false},
		{"1.a", Version{}, false},
		{"4294967295", Version{4294967295, 0}, true}, // max uint32
		{"4294967296", Version{}, false},             // overflow
		{".1", Version{}, false},                     // leading dot
		{"1.", Version{}, false},                     // trailing dot
	}

	for _, tt := range tests {
		v, ok := ParseVersion(tt.input)
		if ok != tt.wantOk {
			t.Errorf("ParseVersion(%q) ok = %v, want %v", tt.input, ok, tt.wantOk)
		}
		if ok && v != tt.want {
			t.Errorf("ParseVersion(%q) = %v, want %v", tt.input, v, tt.want)
		}
	}
}

func TestVersionOrdering(t *testing.T) {
	assert.True(t, Version{3, 1}.Less(Version{3, 2}))
	assert.True(t, Version{2, 1}.Less(Version{3, 0}))
	assert.False(t, Version{3, 2}.Less(Version{3, 2}))
	assert.True(t, Version{3, 2}.AtLeast(Version{3, 2}))
	assert.False(t, Version{1, 5}.AtLeast(Version{3, 2}))
	assert.Equal(t, "4.6", Version{4, 6}.String())
	assert.Equal(t, "46", Version{4, 6}.Digits())
}

func TestLookup(t *testing.T) {
	tests := []struct {
		feature, profile string
		want             Target
	}{
		{"GL_VERSION_1_0", "", Target{Artifact: "Standard10", Also: []string{"Core32"}}},
		{"GL_VERSION_3_1", "", Target{Artifact: "Standard31", Also: []string{"Core32"}}},
		{"GL_VERSION_3_2", "", Target{Artifact: "Core32", Fallback: "Compatibility32"}},
		{"GL_VERSION_3_2", "core", Target{Artifact: "Core32", Fallback: "Compatibility32"}},
		{"GL_VERSION_4_5", "compatibility", Target{Artifact: "Compatibility45"}},
		{"GL_ES_VERSION_2_0", "", Target{Artifact: "Embedded20"}},
		{"GL_ES_VERSION_3_2", "common", Target{Artifact: "Embedded32"}},
	}
	for _, tt := range tests {
		got, err := Lookup(tt.feature, tt.profile)
		require.NoError(t, err, "%s/%s", tt.feature, tt.profile)
		assert.Equal(t, tt.want, got, "%s/%s", tt.feature, tt.profile)
	}
}

func TestLookupUnknownPair(t *testing.T) {
	cases := [][2]string{
		{"GL_VERSION_1_0", "core"},    // no profiles before 3.2
		{"GL_VERSION_9_9", ""},        // unknown version
		{"GL_ES_VERSION_2_0", "core"}, // no core profile for ES
		{"GL_SC_VERSION_2_0", ""},     // unsupported API
		{"GL_VERSION_4_6", "es"},      // unknown profile
	}
	for _, c := range cases {
		_, err := Lookup(c[0], c[1])
		require.Error(t, err, "%v", c)
		assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseResolve, Kind: errors.KindUnknownProfile}))
	}
}

func TestNewLayoutPreludes(t *testing.T) {
	l, err := New([]string{
		"GL_VERSION_1_0", "GL_VERSION_1_1", "GL_VERSION_1_3",
		"GL_VERSION_3_2", "GL_VERSION_3_3",
		"GL_ES_VERSION_2_0", "GL_ES_VERSION_3_0",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Compatibility32", "Compatibility33",
		"Core32", "Core33",
		"Embedded20", "Embedded30",
		"Standard10", "Standard11", "Standard13",
	}, l.Artifacts())

	assert.Nil(t, l.Prelude("Standard10"))
	assert.Equal(t, []string{"Standard10"}, l.Prelude("Standard11"))
	// 1.2 is not registered, so 1.3 chains straight to 1.1
	assert.Equal(t, []string{"Standard11"}, l.Prelude("Standard13"))
	assert.Nil(t, l.Prelude("Core32"))
	assert.Equal(t, []string{"Core32"}, l.Prelude("Core33"))
	assert.Equal(t, []string{"Core32"}, l.Prelude("Compatibility32"))
	assert.Equal(t, []string{"Compatibility32", "Core33"}, l.Prelude("Compatibility33"))
	assert.Equal(t, []string{"Embedded20"}, l.Prelude("Embedded30"))

	assert.Equal(t, []string{"Compatibility32", "Core33", "Core32"}, l.Chain("Compatibility33"))
	assert.Equal(t, []string{"Standard11", "Standard10"}, l.Chain("Standard13"))

	assert.True(t, l.Has("Core32"))
	assert.False(t, l.Has("Core45"))
}

func TestNewLayoutUnknownFeature(t *testing.T) {
	_, err := New([]string{"GL_VERSION_1_0", "GL_VERSION_7_0"})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, &errors.Error{Phase: errors.PhaseResolve, Kind: errors.KindUnknownProfile}))
}

func TestParseExtension(t *testing.T) {
	tests := []struct {
		name string
		want Extension
	}{
		{
			name: "GL_ARB_debug_output",
			want: Extension{
				Name: "GL_ARB_debug_output", Vendor: "ARB", Suffix: "debug_output",
				Artifact: "Ext.ARB.DebugOutput", Group: "Ext.ARB", Check: "HasARBDebugOutput",
			},
		},
		{
			name: "GL_ARB_ES2_compatibility",
			want: Extension{
				Name: "GL_ARB_ES2_compatibility", Vendor: "ARB", Suffix: "ES2_compatibility",
				Artifact: "Ext.ARB.ES2Compatibility", Group: "Ext.ARB", Check: "HasARBES2Compatibility",
			},
		},
		{
			name: "GL_3DFX_tbuffer",
			want: Extension{
				Name: "GL_3DFX_tbuffer", Vendor: "3DFX", Suffix: "tbuffer",
				Artifact: "Ext.ThreeDFX.Tbuffer", Group: "Ext.ThreeDFX", Check: "HasThreeDFXTbuffer",
			},
		},
		{
			name: "GL_EXT_422_pixels",
			want: Extension{
				Name: "GL_EXT_422_pixels", Vendor: "EXT", Suffix: "422_pixels",
				Artifact: "Ext.EXT.Pixels422", Group: "Ext.EXT", Check: "HasEXTPixels422",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExtension(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseExtensionMalformed(t *testing.T) {
	for _, name := range []string{"", "GL", "GL_ARB", "GL_ARB_", "GL__foo", "_ARB_foo"} {
		_, err := ParseExtension(name)
		require.Error(t, err, "%q", name)
		var e *errors.Error
		require.True(t, stderrors.As(err, &e))
		assert.Equal(t, errors.KindMalformedExtension, e.Kind, "%q", name)
	}
}

func TestCamelAndIdentifier(t *testing.T) {
	assert.Equal(t, "VertexArrayObject", Camel("vertex_array_object"))
	assert.Equal(t, "ES31Compatibility", Camel("ES3_1_compatibility"))
	assert.Equal(t, "Texture", Camel("_texture_"))
	assert.Equal(t, "Four22", Identifier("422"))
	assert.Equal(t, "ARB", Identifier("ARB"))
	assert.Equal(t, "", Identifier(""))
	assert.Equal(t, "Ext.NV", VendorGroup("NV"))
	assert.Equal(t, "Ext.ThreeDFX", VendorGroup("3DFX"))
}

func TestReferencesType(t *testing.T) {
	assert.True(t, ReferencesType("func(mode GLenum, first GLint, count GLsizei)"))
	assert.True(t, ReferencesType("func(v const GLfloat *)"))
	assert.True(t, ReferencesType("func() GLsync"))
	assert.False(t, ReferencesType("func()"))
	assert.False(t, ReferencesType("func(data const void *)"))
	assert.False(t, ReferencesType("0x0007"))
	assert.False(t, ReferencesType("func(GLenumX int)"))
}

func TestCType(t *testing.T) {
	tests := []struct {
		in    string
		token string
		expr  string
		void  bool
	}{
		{"GLenum", "Enum", "types.Enum", false},
		{"const GLfloat *", "PFloat", "*types.Float", false},
		{"const GLchar * const *", "PPChar", "**types.Char", false},
		{"const void *", "Ptr", "unsafe.Pointer", false},
		{"void **", "PPtr", "*unsafe.Pointer", false},
		{"void", "", "", true},
		{"", "", "", true},
		{"GLvoid", "", "", true},
		{"struct _cl_context *", "Ptr", "unsafe.Pointer", false},
		{"GLDEBUGPROC", "DebugProc", "types.DebugProc", false},
		{"khronos_mystery", "Uintptr", "uintptr", false},
	}
	for _, tt := range tests {
		ct := ParseCType(tt.in)
		assert.Equal(t, tt.token, ct.Token(), tt.in)
		assert.Equal(t, tt.expr, ct.GoExpr("types."), tt.in)
		assert.Equal(t, tt.void, ct.Void(), tt.in)
	}

	assert.True(t, ParseCType("const void *").UsesUnsafe())
	assert.False(t, ParseCType("const GLuint *").UsesUnsafe())
	assert.Equal(t, "Float", ParseCType("GLfloat").GoExpr(""))
}

func TestVocabulary(t *testing.T) {
	seen := make(map[string]bool)
	for _, td := range Vocabulary() {
		assert.False(t, seen[td.Name], "duplicate Go name %s", td.Name)
		seen[td.Name] = true
		got, ok := LookupType(td.C)
		require.True(t, ok)
		assert.Equal(t, td, got)
	}
	_, ok := LookupType("GLvoid")
	assert.False(t, ok)
}
