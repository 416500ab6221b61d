package synth

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FuncName is the exported Go name of a command: the "gl" prefix is dropped.
func FuncName(name string) string {
	trimmed := strings.TrimPrefix(name, "gl")
	if trimmed == "" {
		trimmed = name
	}
	r, size := utf8.DecodeRuneInString(trimmed)
	if unicode.IsDigit(r) {
		return "GL" + trimmed
	}
	return string(unicode.ToUpper(r)) + trimmed[size:]
}

// ConstName is the exported Go name of an enumerant: "GL_TEXTURE_2D" becomes
// "TEXTURE_2D", while "GL_2D" keeps its prefix.
func ConstName(name string) string {
	trimmed := strings.TrimPrefix(name, "GL_")
	if trimmed == "" {
		return name
	}
	r, _ := utf8.DecodeRuneInString(trimmed)
	if !unicode.IsLetter(r) {
		return name
	}
	return trimmed
}

// reserved are identifiers a parameter must not shadow inside a generated body.
var reserved = map[string]bool{
	"types":  true,
	"ffi":    true,
	"glproc": true,
	"unsafe": true,
	"shared": true,
	"p":      true,
}

// ParamName makes a registry parameter name usable as a Go identifier.
func ParamName(name string) string {
	if name == "" {
		return "_"
	}
	if token.IsKeyword(name) || reserved[name] || !token.IsIdentifier(name) {
		return name + "_"
	}
	return name
}
