package synth

import (
	"strings"

	"github.com/wippyai/glbind/layout"
	"github.com/wippyai/glbind/symtab"
)

// Signature is the Go-level shape of a command. Commands with equal Short names
// share one call helper type in the FFI artifact.
type Signature struct {
	Short  string
	Params []layout.CType
	Return layout.CType
}

// SignatureOf computes the signature of fn. Short concatenates the parameter
// tokens, then "To" and the return token for non-void commands; a command with
// neither parameters nor result is "Void".
func SignatureOf(fn *symtab.Function) Signature {
	sig := Signature{Return: layout.ParseCType(fn.Return)}

	var b strings.Builder
	for _, p := range fn.Params {
		ct := layout.ParseCType(p.Type)
		sig.Params = append(sig.Params, ct)
		b.WriteString(ct.Token())
	}
	if !sig.Return.Void() {
		b.WriteString("To")
		b.WriteString(sig.Return.Token())
	}
	sig.Short = b.String()
	if sig.Short == "" {
		sig.Short = "Void"
	}
	return sig
}

// UsesTypes reports whether the Go rendering mentions a vocabulary type.
func (s Signature) UsesTypes() bool {
	if _, ok := s.Return.Vocab(); ok {
		return true
	}
	for _, p := range s.Params {
		if _, ok := p.Vocab(); ok {
			return true
		}
	}
	return false
}

// UsesUnsafe reports whether the Go rendering mentions unsafe.Pointer.
func (s Signature) UsesUnsafe() bool {
	if s.Return.UsesUnsafe() {
		return true
	}
	for _, p := range s.Params {
		if p.UsesUnsafe() {
			return true
		}
	}
	return false
}
