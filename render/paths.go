package render

import (
	"go/token"
	"path"
	"strings"

	"github.com/wippyai/glbind/layout"
)

// Dir is the output directory of a module relative to the output root:
// "Ext.ARB.DebugOutput" becomes "ext/arb/debugoutput".
func Dir(module string) string {
	return strings.ToLower(strings.Join(layout.Segments(module), "/"))
}

// PackageName is the Go package name of a module: its lower-cased last segment.
func PackageName(module string) string {
	segs := layout.Segments(module)
	name := strings.ToLower(segs[len(segs)-1])
	if token.IsKeyword(name) || !token.IsIdentifier(name) {
		return "pkg" + strings.Map(identRune, name)
	}
	return name
}

func identRune(r rune) rune {
	if r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' {
		return r
	}
	return -1
}

// ImportPath returns the Go import path of a module.
func (r *Renderer) ImportPath(module string) string {
	if module == layout.Proc {
		return r.RuntimeImport
	}
	return path.Join(r.ImportRoot, Dir(module))
}
