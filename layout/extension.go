package layout

import (
	"strings"
	"unicode"

	"github.com/wippyai/glbind/errors"
)

// Extension is the decomposed identity of an extension name like
// "GL_ARB_debug_output".
type Extension struct {
	Name     string // GL_ARB_debug_output
	Vendor   string // ARB
	Suffix   string // debug_output
	Artifact string // Ext.ARB.DebugOutput
	Group    string // Ext.ARB
	Check    string // HasARBDebugOutput
}

// irregular pins artifact names for extensions whose mechanical name is not a
// usable identifier or collides with another extension.
var irregular = map[string]string{
	"GL_EXT_422_pixels":                    "Ext.EXT.Pixels422",
	"GL_3DFX_multisample":                  "Ext.ThreeDFX.Multisample",
	"GL_3DFX_tbuffer":                      "Ext.ThreeDFX.Tbuffer",
	"GL_3DFX_texture_compression_FXT1":     "Ext.ThreeDFX.TextureCompressionFXT1",
	"GL_SGIX_ycrcba":                       "Ext.SGIX.YcrcbAlpha",
	"GL_EXT_texture_compression_s3tc":      "Ext.EXT.TextureCompressionS3TC",
	"GL_EXT_texture_compression_s3tc_srgb": "Ext.EXT.TextureCompressionS3TCSRGB",
}

// ParseExtension splits an extension name into prefix, vendor and suffix. Names
// that do not decompose into at least a vendor token and a suffix are rejected.
func ParseExtension(name string) (Extension, error) {
	parts := strings.SplitN(name, "_", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Extension{}, errors.MalformedExtension(errors.PhaseAssemble, name)
	}

	vendor := parts[1]
	suffix := parts[2]
	x := Extension{
		Name:   name,
		Vendor: vendor,
		Suffix: suffix,
		Group:  ExtAll + "." + Identifier(vendor),
	}

	if art, ok := irregular[name]; ok {
		x.Artifact = art
	} else {
		x.Artifact = x.Group + "." + Identifier(Camel(suffix))
	}
	segs := Segments(x.Artifact)
	x.Check = "Has" + segs[len(segs)-2] + segs[len(segs)-1]
	return x, nil
}

// VendorGroup returns the group artifact name for a vendor token.
func VendorGroup(vendor string) string {
	return ExtAll + "." + Identifier(vendor)
}

// Camel turns an underscore separated suffix into CamelCase, keeping upper-case
// and digit runs as they are: "ES2_compatibility" becomes "ES2Compatibility".
func Camel(s string) string {
	var b strings.Builder
	for _, tok := range strings.Split(s, "_") {
		if tok == "" {
			continue
		}
		r := []rune(tok)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

var digitWords = [...]string{"Zero", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}

// Identifier makes s start with a letter by spelling out a leading digit.
func Identifier(s string) string {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return s
	}
	return digitWords[s[0]-'0'] + s[1:]
}
