// Package graph provides the module import graph of a generated artifact set.
//
// It tracks what each module provides (its name) and requires (its imports),
// so the assembler can verify that every import resolves and that no import
// chain loops back on itself.
package graph

import (
	"sort"
)

// visit states of the depth-first walk
const (
	white = iota
	gray
	black
)

// Graph represents the import graph of a module set.
// Thread-safe for reads after construction.
type Graph struct {
	// requires maps a module name to its imports, in import order
	requires map[string][]string

	// provided marks names that exist without being part of the set
	provided map[string]bool
}

// New creates an empty graph. builtin names are treated as provided.
func New(builtin ...string) *Graph {
	g := &Graph{
		requires: make(map[string][]string),
		provided: make(map[string]bool, len(builtin)),
	}
	for _, b := range builtin {
		g.provided[b] = true
	}
	return g
}

// Add records a module and its imports.
func (g *Graph) Add(name string, imports []string) {
	g.requires[name] = append([]string(nil), imports...)
}

// Modules returns every module name, sorted.
func (g *Graph) Modules() []string {
	out := make([]string, 0, len(g.requires))
	for name := range g.requires {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Missing returns, per importing module, the imports that name no module.
func (g *Graph) Missing() map[string][]string {
	result := make(map[string][]string)
	for name, imports := range g.requires {
		for _, imp := range imports {
			if _, ok := g.requires[imp]; ok || g.provided[imp] {
				continue
			}
			result[name] = append(result[name], imp)
		}
	}
	return result
}

// Cycle returns one import cycle as a closed path (first == last), or nil when
// the graph is acyclic. Modules are walked in sorted order, so the reported
// cycle is deterministic.
func (g *Graph) Cycle() []string {
	state := make(map[string]int, len(g.requires))
	var stack []string

	var visit func(name string) []string
	visit = func(name string) []string {
		state[name] = gray
		stack = append(stack, name)
		for _, imp := range g.requires[name] {
			switch state[imp] {
			case gray:
				// back edge: slice the stack from the first occurrence of imp
				for i, s := range stack {
					if s == imp {
						cycle := append([]string(nil), stack[i:]...)
						return append(cycle, imp)
					}
				}
			case white:
				if _, ok := g.requires[imp]; !ok {
					continue
				}
				if c := visit(imp); c != nil {
					return c
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = black
		return nil
	}

	for _, name := range g.Modules() {
		if state[name] != white {
			continue
		}
		if c := visit(name); c != nil {
			return c
		}
	}
	return nil
}

// Order returns the modules in dependency order: every module after all of its
// imports. It returns nil if the graph has a cycle.
func (g *Graph) Order() []string {
	if g.Cycle() != nil {
		return nil
	}
	done := make(map[string]bool, len(g.requires))
	var out []string
	var walk func(name string)
	walk = func(name string) {
		if done[name] {
			return
		}
		done[name] = true
		for _, imp := range g.requires[name] {
			if _, ok := g.requires[imp]; ok {
				walk(imp)
			}
		}
		out = append(out, name)
	}
	for _, name := range g.Modules() {
		walk(name)
	}
	return out
}
