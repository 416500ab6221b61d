package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/glbind/assemble"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	kindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98"))
)

func newListCmd(a *app) *cobra.Command {
	var (
		kind  string
		order bool
	)
	cmd := &cobra.Command{
		Use:   "list [pattern]",
		Short: "List the generated modules",
		Long: `List the modules a generation would produce with their declaration and
import counts. The optional pattern is a glob over module names: "*" stops at dots,
so "Ext.ARB.*" lists the ARB extensions and "**" lists everything. With --deps
every module is listed after the modules it imports.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, res, err := a.load()
			if err != nil {
				return err
			}
			pattern := "**"
			if len(args) == 1 {
				pattern = args[0]
			}
			mods := res.Modules
			if order {
				if mods, err = dependencyOrder(mods); err != nil {
					return err
				}
			}
			mods, err = filterModules(mods, pattern, kind)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			writeList(out, mods, isTerminal(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only list modules of this kind (profile, extension, group, meta, ...)")
	cmd.Flags().BoolVar(&order, "deps", false, "list modules in dependency order instead of by name")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func filterModules(mods []*assemble.Module, pattern, kind string) ([]*assemble.Module, error) {
	g, err := glob.Compile(pattern, '.')
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	var out []*assemble.Module
	for _, m := range mods {
		if kind != "" && m.Kind.String() != kind {
			continue
		}
		if g.Match(m.Name) {
			out = append(out, m)
		}
	}
	return out, nil
}

func dependencyOrder(mods []*assemble.Module) ([]*assemble.Module, error) {
	names, err := assemble.DependencyOrder(mods)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*assemble.Module, len(mods))
	for _, m := range mods {
		byName[m.Name] = m
	}
	out := make([]*assemble.Module, 0, len(mods))
	for _, n := range names {
		if m, ok := byName[n]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func writeList(w io.Writer, mods []*assemble.Module, styled bool) {
	width := len("MODULE")
	for _, m := range mods {
		width = max(width, len(m.Name))
	}

	pad := func(s string, n int) string {
		return fmt.Sprintf("%-*s", n, s)
	}
	header := pad("MODULE", width) + "  " + pad("KIND", 9) + "  " + pad("DECLS", 5) + "  IMPORTS"
	if styled {
		header = headerStyle.Render(header)
	}
	fmt.Fprintln(w, header)

	for _, m := range mods {
		kind := pad(m.Kind.String(), 9)
		decls := fmt.Sprintf("%5d", len(m.Body))
		imports := strconv.Itoa(len(m.Imports))
		if styled {
			kind = kindStyle.Render(kind)
			decls = countStyle.Render(decls)
			imports = countStyle.Render(imports)
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n", pad(m.Name, width), kind, decls, imports)
	}
}
