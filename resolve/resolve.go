// Package resolve replays the registry's require and remove directives against the
// symbol table, filling each symbol's owner set.
//
// The replay is an explicit fold: Events flattens the registry into an ordered list
// of require/remove events, Apply folds that list over the table one event at a
// time. Order matters. A remove only deletes owners already present, so every
// require of a feature runs before its removes, and features replay in
// declaration order.
package resolve

import (
	"go.uber.org/zap"

	"github.com/wippyai/glbind/errors"
	"github.com/wippyai/glbind/layout"
	"github.com/wippyai/glbind/registry"
	"github.com/wippyai/glbind/symtab"
)

// Op is the event kind.
type Op uint8

const (
	OpRequire Op = iota + 1
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpRequire:
		return "require"
	case OpRemove:
		return "remove"
	}
	return "unknown"
}

// Event is one require or remove entry bound to concrete artifacts.
type Event struct {
	Op      Op
	Source  string // feature or extension name
	Profile string
	// Artifacts gain (require) or lose (remove) the symbols.
	Artifacts []string
	// Fallback receives removed symbols, if set.
	Fallback string
	Symbols  []symtab.ID
}

// Options controls the replay.
type Options struct {
	// Strict turns references to unknown symbols into a *errors.DanglingError.
	// Otherwise they are logged and skipped.
	Strict bool
}

// Events flattens the registry into the ordered event list: extensions in
// declaration order, then each feature's requires followed by its removes.
func Events(reg *registry.Registry) ([]Event, error) {
	var events []Event

	for _, x := range reg.Extensions {
		ext, err := layout.ParseExtension(x.Name)
		if err != nil {
			return nil, err
		}
		for _, req := range x.Requires {
			events = append(events, Event{
				Op:        OpRequire,
				Source:    x.Name,
				Profile:   req.Profile,
				Artifacts: []string{ext.Artifact},
				Symbols:   symbols(req),
			})
		}
	}

	for _, f := range reg.Features {
		for _, req := range f.Requires {
			target, err := layout.Lookup(f.Name, req.Profile)
			if err != nil {
				return nil, err
			}
			arts := append([]string{target.Artifact}, target.Also...)
			events = append(events, Event{
				Op:        OpRequire,
				Source:    f.Name,
				Profile:   req.Profile,
				Artifacts: arts,
				Symbols:   symbols(req),
			})
		}
		for _, rem := range f.Removes {
			target, err := layout.Lookup(f.Name, rem.Profile)
			if err != nil {
				return nil, err
			}
			events = append(events, Event{
				Op:        OpRemove,
				Source:    f.Name,
				Profile:   rem.Profile,
				Artifacts: []string{target.Artifact},
				Fallback:  target.Fallback,
				Symbols:   symbols(rem),
			})
		}
	}
	return events, nil
}

func symbols(in registry.Interface) []symtab.ID {
	ids := make([]symtab.ID, 0, len(in.Commands)+len(in.Enums))
	for _, c := range in.Commands {
		ids = append(ids, symtab.FunctionID(c))
	}
	for _, e := range in.Enums {
		ids = append(ids, symtab.EnumerantID(e))
	}
	return ids
}

// Apply folds events over the table in order.
func Apply(t *symtab.Table, events []Event, opts Options) error {
	var dangling []errors.DanglingRef

	for _, ev := range events {
		for _, id := range ev.Symbols {
			known, err := apply(t, ev, id)
			if err != nil {
				return err
			}
			if known {
				continue
			}
			if opts.Strict {
				dangling = append(dangling, errors.DanglingRef{Source: ev.Source, Symbol: id.Name})
				continue
			}
			Logger().Warn("skipping unknown symbol",
				zap.String("source", ev.Source),
				zap.Stringer("op", ev.Op),
				zap.Stringer("symbol", id))
		}
	}

	if len(dangling) > 0 {
		return errors.NewDanglingError(dangling)
	}
	return nil
}

func apply(t *symtab.Table, ev Event, id symtab.ID) (bool, error) {
	switch ev.Op {
	case OpRequire:
		for _, a := range ev.Artifacts {
			known, err := t.Insert(id, a)
			if err != nil || !known {
				return known, err
			}
		}
		return true, nil
	case OpRemove:
		e, ok := t.Lookup(id)
		if !ok {
			return false, nil
		}
		for _, a := range ev.Artifacts {
			had := e.Category.Owns(a)
			if _, err := t.Delete(id, a); err != nil {
				return true, err
			}
			if had && ev.Fallback != "" {
				if _, err := t.Insert(id, ev.Fallback); err != nil {
					return true, err
				}
			}
		}
		return true, nil
	}
	return false, errors.InvalidInput(errors.PhaseResolve, "unknown event op "+ev.Op.String())
}

// Resolve replays the registry against t and freezes it.
func Resolve(reg *registry.Registry, t *symtab.Table, opts Options) error {
	events, err := Events(reg)
	if err != nil {
		return err
	}
	Logger().Debug("replaying directives", zap.Int("events", len(events)))
	if err := Apply(t, events, opts); err != nil {
		return err
	}
	t.Freeze()
	return nil
}
