// Package generator runs the partitioning pipeline over a registry: symbol table,
// require/remove replay, partitioning, binding synthesis, assembly and extension
// aggregation. The result is deterministic: the same registry and options always
// yield the same modules in the same order.
package generator

import (
	"go.uber.org/zap"

	"github.com/wippyai/glbind/aggregate"
	"github.com/wippyai/glbind/assemble"
	"github.com/wippyai/glbind/partition"
	"github.com/wippyai/glbind/registry"
	"github.com/wippyai/glbind/resolve"
	"github.com/wippyai/glbind/symtab"
	"github.com/wippyai/glbind/synth"
)

// Options configures a run.
type Options struct {
	// APIs selects the feature APIs to generate. Empty keeps every API.
	APIs []string
	// KeepExtension filters extensions by name. Nil keeps every extension.
	KeepExtension func(name string) bool
	// Strict turns dangling symbol references into an error.
	Strict bool
	// Bundles are the meta-extensions. Nil selects aggregate.DefaultBundles.
	Bundles []aggregate.Bundle
	// ManualPages and SpecLinks extend the registry's auxiliary lists.
	ManualPages   []string
	SpecLinks     map[string]string
	ManualPageURL string
}

// Result is the outcome of a run.
type Result struct {
	Table     *symtab.Table
	Partition *partition.Partition
	Bindings  *synth.Set
	// Modules is every generated module, sorted by name.
	Modules []*assemble.Module

	byName map[string]*assemble.Module
}

// Module returns the named module.
func (r *Result) Module(name string) (*assemble.Module, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// Generate runs the pipeline over reg.
func Generate(reg *registry.Registry, opts Options) (*Result, error) {
	log := Logger()

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	reg = reg.FilterAPIs(opts.APIs)
	if opts.KeepExtension != nil {
		reg = reg.FilterExtensions(opts.KeepExtension)
	}
	log.Debug("registry filtered",
		zap.Strings("apis", opts.APIs),
		zap.Int("features", len(reg.Features)),
		zap.Int("extensions", len(reg.Extensions)))

	table, err := symtab.Build(reg)
	if err != nil {
		return nil, err
	}
	log.Debug("symbol table built", zap.Int("symbols", table.Len()))

	if err := resolve.Resolve(reg, table, resolve.Options{Strict: opts.Strict}); err != nil {
		return nil, err
	}
	log.Debug("directives replayed", zap.Int("owned", len(table.Owned())))

	names, err := partition.NamesFor(reg)
	if err != nil {
		return nil, err
	}
	part, err := partition.Build(table, names)
	if err != nil {
		return nil, err
	}
	log.Debug("partitioned", zap.Int("artifacts", len(part.Names())))

	set, err := synth.Synthesize(part, table, synth.Options{
		ManualPages:   append(append([]string(nil), reg.ManualPages...), opts.ManualPages...),
		ManualPageURL: opts.ManualPageURL,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("bindings synthesized",
		zap.Int("bindings", len(set.Bindings())),
		zap.Int("shared", len(set.Shared())))

	mods, err := assemble.Assemble(part, set, assemble.Options{SpecLinks: specLinks(reg.SpecLinks, opts.SpecLinks)})
	if err != nil {
		return nil, err
	}

	bundles := opts.Bundles
	if bundles == nil {
		bundles = aggregate.DefaultBundles
	}
	meta, err := aggregate.Meta(bundles, mods)
	if err != nil {
		return nil, err
	}
	mods = append(mods, aggregate.Groups(mods)...)
	mods = append(mods, meta...)
	assemble.SortModules(mods)

	if err := assemble.CheckGraph(mods); err != nil {
		return nil, err
	}
	log.Debug("modules assembled", zap.Int("modules", len(mods)))

	res := &Result{
		Table:     table,
		Partition: part,
		Bindings:  set,
		Modules:   mods,
		byName:    make(map[string]*assemble.Module, len(mods)),
	}
	for _, m := range mods {
		res.byName[m.Name] = m
	}
	return res, nil
}

func specLinks(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
