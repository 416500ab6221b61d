// Package aggregate emits the modules that only re-export other modules: one group
// per extension vendor, the top-level extension module, and meta-extensions that
// bundle a curated set of extensions under one name.
package aggregate

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/glbind/assemble"
	"github.com/wippyai/glbind/errors"
	"github.com/wippyai/glbind/layout"
)

// Bundle is a meta-extension: a named union of extensions with no symbols of its
// own.
type Bundle struct {
	Name       string   `yaml:"name"`       // artifact name, e.g. Ext.ARB.ESCompatibility
	Extensions []string `yaml:"extensions"` // registry extension names
}

// DefaultBundles are the built-in meta-extensions.
var DefaultBundles = []Bundle{
	{
		Name: "Ext.ARB.ESCompatibility",
		Extensions: []string{
			"GL_ARB_ES2_compatibility",
			"GL_ARB_ES3_compatibility",
			"GL_ARB_ES3_1_compatibility",
			"GL_ARB_ES3_2_compatibility",
		},
	},
}

// Groups builds one module per vendor re-exporting that vendor's extension modules
// sorted by name, and the top-level module re-exporting every vendor module sorted
// by vendor.
func Groups(mods []*assemble.Module) []*assemble.Module {
	members := make(map[string][]string)
	vendorOf := make(map[string]string)
	for _, m := range mods {
		if m.Kind != assemble.KindExtension || m.Extension == nil {
			continue
		}
		g := m.Extension.Group
		members[g] = append(members[g], m.Name)
		vendorOf[g] = m.Extension.Vendor
	}

	groups := make([]string, 0, len(members))
	for g := range members {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return vendorOf[groups[i]] < vendorOf[groups[j]] })

	out := make([]*assemble.Module, 0, len(groups)+1)
	for _, g := range groups {
		names := members[g]
		sort.Strings(names)
		out = append(out, reexport(g, assemble.KindGroup, names))
		Logger().Debug("vendor group", zap.String("group", g), zap.Int("extensions", len(names)))
	}
	out = append(out, reexport(layout.ExtAll, assemble.KindGroup, groups))
	return out
}

// Meta builds the meta-extension modules. Bundle members that were not generated
// are dropped with a warning, and a bundle left empty is skipped.
func Meta(bundles []Bundle, mods []*assemble.Module) ([]*assemble.Module, error) {
	byExtension := make(map[string]string)
	taken := make(map[string]bool, len(mods))
	for _, m := range mods {
		taken[m.Name] = true
		if m.Kind == assemble.KindExtension && m.Extension != nil {
			byExtension[m.Extension.Name] = m.Name
		}
	}

	var out []*assemble.Module
	for _, b := range bundles {
		if !validName(b.Name) {
			return nil, errors.New(errors.PhaseAggregate, errors.KindInvalidInput).
				Path("meta_extensions", b.Name).
				Detail("meta-extension name must be a dotted artifact name").
				Build()
		}
		if taken[b.Name] {
			return nil, errors.DuplicateSymbol(errors.PhaseAggregate, "module", b.Name)
		}

		var names []string
		for _, ext := range b.Extensions {
			name, ok := byExtension[ext]
			if !ok {
				Logger().Warn("meta-extension member not generated",
					zap.String("bundle", b.Name),
					zap.String("extension", ext))
				continue
			}
			names = append(names, name)
		}
		if len(names) == 0 {
			Logger().Warn("skipping empty meta-extension", zap.String("bundle", b.Name))
			continue
		}
		sort.Strings(names)
		taken[b.Name] = true
		out = append(out, reexport(b.Name, assemble.KindMeta, names))
	}
	return out, nil
}

func reexport(name string, kind assemble.Kind, modules []string) *assemble.Module {
	m := &assemble.Module{Name: name, Kind: kind}
	for _, mod := range modules {
		m.Body = append(m.Body, &assemble.ModuleReexportDecl{Module: mod})
		m.Exports = append(m.Exports, assemble.Export{Module: mod})
	}
	if len(modules) > 0 {
		m.Imports = append([]string(nil), modules...)
		sort.Strings(m.Imports)
	}
	return m
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, seg := range strings.Split(name, ".") {
		if seg == "" {
			return false
		}
	}
	return true
}
