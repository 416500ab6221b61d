package symtab

import (
	"sort"
	"strings"
)

// Kind tags the two symbol variants.
type Kind uint8

const (
	KindFunction Kind = iota + 1
	KindEnumerant
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindEnumerant:
		return "enumerant"
	}
	return "unknown"
}

// ID is a symbol's identity, unique within a registry.
type ID struct {
	Kind Kind
	Name string
}

func (id ID) String() string {
	return id.Kind.String() + ":" + id.Name
}

// Symbol is either a *Function or an *Enumerant.
type Symbol interface {
	ID() ID
	// DocKey is the signature for functions and the literal value for enumerants.
	DocKey() string
	// Order is the registry declaration index within the symbol's kind.
	Order() int
	isSymbol()
}

// Param is a function parameter.
type Param struct {
	Name  string
	Type  string
	Group string
	Len   string
}

// Function is a native entry point.
type Function struct {
	Name   string
	Params []Param
	Return string
	Alias  string
	Vector string
	order  int
}

func (f *Function) ID() ID         { return ID{Kind: KindFunction, Name: f.Name} }
func (f *Function) Order() int     { return f.order }
func (f *Function) DocKey() string { return f.Signature() }
func (*Function) isSymbol()        {}

// Signature renders the canonical signature text, e.g.
// "func(mode GLenum, first GLint, count GLsizei)".
func (f *Function) Signature() string {
	var b strings.Builder
	b.WriteString("func(")
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteByte(' ')
		b.WriteString(NormalizeType(p.Type))
	}
	b.WriteByte(')')
	if ret := NormalizeType(f.Return); ret != "" && ret != "void" {
		b.WriteByte(' ')
		b.WriteString(ret)
	}
	return b.String()
}

// Enumerant is a named literal constant.
type Enumerant struct {
	Name  string
	Value string
	order int
}

func (e *Enumerant) ID() ID         { return ID{Kind: KindEnumerant, Name: e.Name} }
func (e *Enumerant) Order() int     { return e.order }
func (e *Enumerant) DocKey() string { return e.Value }
func (*Enumerant) isSymbol()        {}

// Category tracks where a symbol is exported. The owner set is mutated only while
// the require/remove replay runs; once the table is frozen it is read-only.
type Category struct {
	DocKey string
	owners map[string]struct{}
}

// Owners returns the owning artifacts, sorted.
func (c *Category) Owners() []string {
	out := make([]string, 0, len(c.owners))
	for a := range c.owners {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Owns reports whether artifact is in the owner set.
func (c *Category) Owns(artifact string) bool {
	_, ok := c.owners[artifact]
	return ok
}

// Len returns the owner count.
func (c *Category) Len() int { return len(c.owners) }

// Shared reports whether more than one artifact owns the symbol.
func (c *Category) Shared() bool { return len(c.owners) > 1 }

// Entry pairs a symbol with its category.
type Entry struct {
	Symbol   Symbol
	Category *Category
}
