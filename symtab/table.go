// Package symtab builds the global symbol table: one entry per function and
// enumerant, each carrying a Category whose owner set records the artifacts that
// export it.
//
// The table is built empty of owners. The resolve package fills owner sets by
// replaying require/remove directives, then freezes the table; every later stage
// reads it only.
package symtab

import (
	"sort"

	"github.com/wippyai/glbind/errors"
	"github.com/wippyai/glbind/registry"
)

// Table is the symbol table in registry declaration order: functions first, then
// enumerants.
type Table struct {
	entries map[ID]*Entry
	order   []ID
	groups  map[string][]string
	frozen  bool
}

// Build creates one entry per registry command and enum with an empty owner set.
func Build(reg *registry.Registry) (*Table, error) {
	t := &Table{
		entries: make(map[ID]*Entry, len(reg.Commands)+len(reg.Enums)),
		order:   make([]ID, 0, len(reg.Commands)+len(reg.Enums)),
		groups:  make(map[string][]string, len(reg.Groups)),
	}

	for i, c := range reg.Commands {
		fn := &Function{
			Name:   c.Name,
			Return: NormalizeType(c.Return),
			Alias:  c.Alias,
			Vector: c.Vector,
			order:  i,
		}
		for _, p := range c.Params {
			fn.Params = append(fn.Params, Param{
				Name:  p.Name,
				Type:  NormalizeType(p.Type),
				Group: p.Group,
				Len:   p.Len,
			})
		}
		if err := t.add(fn); err != nil {
			return nil, err
		}
	}

	for i, e := range reg.Enums {
		name := EnumName(e.Name)
		if name == "" {
			return nil, errors.InvalidData(errors.PhaseSymtab, []string{"enums"}, "enumerant name "+e.Name+" is empty after normalization")
		}
		if err := t.add(&Enumerant{Name: name, Value: e.Value, order: i}); err != nil {
			return nil, err
		}
	}

	for _, g := range reg.Groups {
		members := make([]string, 0, len(g.Members))
		for _, m := range g.Members {
			members = append(members, EnumName(m))
		}
		t.groups[g.Name] = members
	}
	return t, nil
}

func (t *Table) add(s Symbol) error {
	id := s.ID()
	if _, dup := t.entries[id]; dup {
		return errors.DuplicateSymbol(errors.PhaseSymtab, id.Kind.String(), id.Name)
	}
	t.entries[id] = &Entry{
		Symbol:   s,
		Category: &Category{DocKey: s.DocKey(), owners: make(map[string]struct{})},
	}
	t.order = append(t.order, id)
	return nil
}

// FunctionID returns the identity of a command named in a require/remove entry.
func FunctionID(name string) ID {
	return ID{Kind: KindFunction, Name: name}
}

// EnumerantID returns the identity of an enum named in a require/remove entry.
func EnumerantID(name string) ID {
	return ID{Kind: KindEnumerant, Name: EnumName(name)}
}

// Lookup returns the entry for id.
func (t *Table) Lookup(id ID) (*Entry, bool) {
	e, ok := t.entries[id]
	return e, ok
}

// Insert adds artifact to the owner set of id. It reports false when id is not
// in the table.
func (t *Table) Insert(id ID, artifact string) (bool, error) {
	if t.frozen {
		return false, errors.Frozen("insert " + id.String())
	}
	e, ok := t.entries[id]
	if !ok {
		return false, nil
	}
	e.Category.owners[artifact] = struct{}{}
	return true, nil
}

// Delete removes artifact from the owner set of id. Deleting an absent owner is a
// no-op. It reports false when id is not in the table.
func (t *Table) Delete(id ID, artifact string) (bool, error) {
	if t.frozen {
		return false, errors.Frozen("delete " + id.String())
	}
	e, ok := t.entries[id]
	if !ok {
		return false, nil
	}
	delete(e.Category.owners, artifact)
	return true, nil
}

// Freeze makes the table read-only.
func (t *Table) Freeze() { t.frozen = true }

// Frozen reports whether Freeze was called.
func (t *Table) Frozen() bool { return t.frozen }

// Len returns the number of symbols.
func (t *Table) Len() int { return len(t.order) }

// Entries returns all entries in declaration order.
func (t *Table) Entries() []*Entry {
	out := make([]*Entry, len(t.order))
	for i, id := range t.order {
		out[i] = t.entries[id]
	}
	return out
}

// Group returns the canonical member enumerant names of a parameter group.
func (t *Table) Group(name string) ([]string, bool) {
	m, ok := t.groups[name]
	return m, ok
}

// Owned returns the entries with a non-empty owner set, in declaration order.
func (t *Table) Owned() []*Entry {
	var out []*Entry
	for _, id := range t.order {
		if e := t.entries[id]; e.Category.Len() > 0 {
			out = append(out, e)
		}
	}
	return out
}

// Artifacts returns every artifact named in any owner set, sorted.
func (t *Table) Artifacts() []string {
	seen := make(map[string]struct{})
	for _, e := range t.entries {
		for a := range e.Category.owners {
			seen[a] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
