package synth

import (
	"github.com/wippyai/glbind/layout"
	"github.com/wippyai/glbind/symtab"
)

// Link points documentation at the artifact that defines a symbol.
type Link struct {
	Artifact string
	Symbol   string // Go name inside Artifact
}

// Valid reports whether the link targets anything.
func (l Link) Valid() bool { return l.Artifact != "" }

func (l Link) String() string {
	if !l.Valid() {
		return ""
	}
	return l.Artifact + "." + l.Symbol
}

// LinkFor derives the link descriptor of a finalized entry. Unowned symbols have
// none. A single owner is the home; a shared function lives in the shared
// artifact, while a shared enumerant is defined by every owner and links to the
// first in sorted order.
func LinkFor(e *symtab.Entry) Link {
	owners := e.Category.Owners()
	if len(owners) == 0 {
		return Link{}
	}

	switch s := e.Symbol.(type) {
	case *symtab.Function:
		l := Link{Artifact: owners[0], Symbol: FuncName(s.Name)}
		if len(owners) > 1 {
			l.Artifact = layout.Shared
		}
		return l
	case *symtab.Enumerant:
		return Link{Artifact: owners[0], Symbol: ConstName(s.Name)}
	}
	return Link{}
}
