package layout

import (
	"strings"
)

// TypeDef is one entry of the type vocabulary exported by the Types artifact.
type TypeDef struct {
	C    string // GLenum
	Name string // Enum
	Go   string // uint32
}

// vocabulary follows the registry's <types> section. Handle, pointer and callback
// typedefs are carried as uintptr.
var vocabulary = []TypeDef{
	{"GLenum", "Enum", "uint32"},
	{"GLboolean", "Boolean", "uint8"},
	{"GLbitfield", "Bitfield", "uint32"},
	{"GLbyte", "Byte", "int8"},
	{"GLubyte", "Ubyte", "uint8"},
	{"GLshort", "Short", "int16"},
	{"GLushort", "Ushort", "uint16"},
	{"GLint", "Int", "int32"},
	{"GLuint", "Uint", "uint32"},
	{"GLclampx", "Clampx", "int32"},
	{"GLsizei", "Sizei", "int32"},
	{"GLfloat", "Float", "float32"},
	{"GLclampf", "Clampf", "float32"},
	{"GLdouble", "Double", "float64"},
	{"GLclampd", "Clampd", "float64"},
	{"GLchar", "Char", "int8"},
	{"GLcharARB", "CharARB", "int8"},
	{"GLhandleARB", "HandleARB", "uint32"},
	{"GLhalf", "Half", "uint16"},
	{"GLhalfARB", "HalfARB", "uint16"},
	{"GLhalfNV", "HalfNV", "uint16"},
	{"GLfixed", "Fixed", "int32"},
	{"GLintptr", "Intptr", "int"},
	{"GLintptrARB", "IntptrARB", "int"},
	{"GLsizeiptr", "Sizeiptr", "int"},
	{"GLsizeiptrARB", "SizeiptrARB", "int"},
	{"GLint64", "Int64", "int64"},
	{"GLint64EXT", "Int64EXT", "int64"},
	{"GLuint64", "Uint64", "uint64"},
	{"GLuint64EXT", "Uint64EXT", "uint64"},
	{"GLsync", "Sync", "uintptr"},
	{"GLeglClientBufferEXT", "EGLClientBufferEXT", "uintptr"},
	{"GLeglImageOES", "EGLImageOES", "uintptr"},
	{"GLvdpauSurfaceNV", "VDPAUSurfaceNV", "int"},
	{"GLDEBUGPROC", "DebugProc", "uintptr"},
	{"GLDEBUGPROCARB", "DebugProcARB", "uintptr"},
	{"GLDEBUGPROCKHR", "DebugProcKHR", "uintptr"},
	{"GLDEBUGPROCAMD", "DebugProcAMD", "uintptr"},
	{"GLVULKANPROCNV", "VulkanProcNV", "uintptr"},
}

var vocabularyIndex = func() map[string]TypeDef {
	m := make(map[string]TypeDef, len(vocabulary))
	for _, td := range vocabulary {
		m[td.C] = td
	}
	return m
}()

// Vocabulary returns the type vocabulary in declaration order.
func Vocabulary() []TypeDef {
	out := make([]TypeDef, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// LookupType returns the vocabulary entry for a C type name.
func LookupType(c string) (TypeDef, bool) {
	td, ok := vocabularyIndex[c]
	return td, ok
}

// ReferencesType reports whether a documentation key mentions any vocabulary type.
func ReferencesType(docKey string) bool {
	for _, tok := range strings.FieldsFunc(docKey, notIdent) {
		if _, ok := vocabularyIndex[tok]; ok {
			return true
		}
	}
	return false
}

func notIdent(r rune) bool {
	return !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
}

// CType is a C type spelling reduced to what the bindings need: the base name and
// the pointer depth. Qualifiers are dropped.
type CType struct {
	Base  string
	Stars int
}

// ParseCType reduces a normalized C type spelling like "const GLfloat *".
func ParseCType(s string) CType {
	var ct CType
	var base []string
	for _, tok := range strings.Fields(strings.ReplaceAll(s, "*", " * ")) {
		switch tok {
		case "*":
			ct.Stars++
		case "const":
		default:
			base = append(base, tok)
		}
	}
	ct.Base = strings.Join(base, " ")
	if ct.Base == "" || ct.Base == "GLvoid" {
		ct.Base = "void"
	}
	return ct
}

// Void reports a plain void type: no value.
func (c CType) Void() bool { return c.Base == "void" && c.Stars == 0 }

// Vocab returns the vocabulary entry of the base type.
func (c CType) Vocab() (TypeDef, bool) { return LookupType(c.Base) }

// Token is the base's contribution to a signature short name: the vocabulary name
// prefixed with one "P" per pointer level, "Ptr" for untyped pointers and "Uintptr"
// for unknown scalars.
func (c CType) Token() string {
	if td, ok := c.Vocab(); ok {
		return strings.Repeat("P", c.Stars) + td.Name
	}
	switch {
	case c.Void():
		return ""
	case c.Stars > 0:
		return strings.Repeat("P", c.Stars-1) + "Ptr"
	}
	return "Uintptr"
}

// GoExpr renders the Go type for c. qualifier prefixes vocabulary names, e.g.
// "types." outside the Types artifact. Untyped pointers become unsafe.Pointer.
func (c CType) GoExpr(qualifier string) string {
	if td, ok := c.Vocab(); ok {
		return strings.Repeat("*", c.Stars) + qualifier + td.Name
	}
	switch {
	case c.Void():
		return ""
	case c.Stars > 0:
		return strings.Repeat("*", c.Stars-1) + "unsafe.Pointer"
	}
	return "uintptr"
}

// UsesUnsafe reports whether GoExpr mentions unsafe.Pointer.
func (c CType) UsesUnsafe() bool {
	_, vocab := c.Vocab()
	return !vocab && c.Stars > 0
}
