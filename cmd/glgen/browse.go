package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wippyai/glbind/assemble"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the generated modules interactively",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			load := func() ([]*assemble.Module, error) {
				_, res, err := a.load()
				if err != nil {
					return nil, err
				}
				return res.Modules, nil
			}
			p := tea.NewProgram(newBrowseModel(a.configPath, load), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}

type browseState int

const (
	stateList browseState = iota
	stateDetail
)

type browseModel struct {
	err      error
	title    string
	load     func() ([]*assemble.Module, error)
	loaded   bool
	mods     []*assemble.Module
	visible  []*assemble.Module
	filter   textinput.Model
	selected int
	scroll   int
	height   int
	state    browseState
}

type modulesMsg struct {
	err  error
	mods []*assemble.Module
}

func newBrowseModel(title string, load func() ([]*assemble.Module, error)) *browseModel {
	ti := textinput.New()
	ti.Placeholder = "filter modules and symbols"
	ti.Prompt = "/ "
	ti.Width = 40
	ti.Focus()
	return &browseModel{
		title:  title,
		load:   load,
		filter: ti,
		height: 20,
	}
}

func (m *browseModel) Init() tea.Cmd {
	return m.loadModules
}

func (m *browseModel) loadModules() tea.Msg {
	mods, err := m.load()
	return modulesMsg{mods: mods, err: err}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-6, 3)
		return m, nil

	case modulesMsg:
		m.loaded = true
		m.err = msg.err
		m.mods = msg.mods
		m.applyFilter()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "up":
			if m.state == stateList && m.selected > 0 {
				m.selected--
			} else if m.state == stateDetail && m.scroll > 0 {
				m.scroll--
			}
			return m, nil
		case "down":
			if m.state == stateList && m.selected < len(m.visible)-1 {
				m.selected++
			} else if m.state == stateDetail && m.scroll < len(m.detailLines())-1 {
				m.scroll++
			}
			return m, nil
		case "enter":
			switch m.state {
			case stateList:
				if len(m.visible) > 0 {
					m.state = stateDetail
					m.scroll = 0
				}
			case stateDetail:
				m.state = stateList
			}
			return m, nil
		case "esc":
			switch {
			case m.state == stateDetail:
				m.state = stateList
			case m.filter.Value() != "":
				m.filter.SetValue("")
				m.applyFilter()
			default:
				return m, tea.Quit
			}
			return m, nil
		}
	}

	if m.state != stateList {
		return m, nil
	}
	var cmd tea.Cmd
	before := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.applyFilter()
	}
	return m, cmd
}

// applyFilter keeps the modules whose name or any own export contains the
// query, case-insensitively.
func (m *browseModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for _, mod := range m.mods {
		if q == "" || matchesModule(mod, q) {
			m.visible = append(m.visible, mod)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func matchesModule(mod *assemble.Module, q string) bool {
	if strings.Contains(strings.ToLower(mod.Name), q) {
		return true
	}
	for _, e := range mod.Exports {
		if e.Name != "" && strings.Contains(strings.ToLower(e.Name), q) {
			return true
		}
	}
	return false
}

func (m *browseModel) current() *assemble.Module {
	if m.selected < len(m.visible) {
		return m.visible[m.selected]
	}
	return nil
}

func (m *browseModel) detailLines() []string {
	mod := m.current()
	if mod == nil {
		return nil
	}
	lines := []string{
		"kind     " + mod.Kind.String(),
		"imports  " + strings.Join(mod.Imports, ", "),
		"",
	}
	for _, d := range mod.Body {
		lines = append(lines, describeDecl(d))
	}
	return lines
}

func describeDecl(d assemble.Decl) string {
	switch d := d.(type) {
	case *assemble.ConstDecl:
		return fmt.Sprintf("const %s = %s  (%s)", d.Name, d.Value, d.Symbol)
	case *assemble.BindingDecl:
		return fmt.Sprintf("func  %s  defines %s as %s", d.Binding.GoName, d.Binding.Function.Name, d.Binding.Signature.Short)
	case *assemble.ReexportDecl:
		return fmt.Sprintf("func  %s  from %s", d.Binding.GoName, d.From)
	case *assemble.ModuleReexportDecl:
		return "all   " + d.Module
	case *assemble.ExtensionCheckDecl:
		return fmt.Sprintf("check %s  (%s)", d.Name, d.Extension)
	case *assemble.TypeDecl:
		return fmt.Sprintf("type  %s %s  (%s)", d.Def.Name, d.Def.Go, d.Def.C)
	case *assemble.HelperDecl:
		return "ffi   " + d.Signature.Short
	}
	return fmt.Sprintf("%T", d)
}

func (m *browseModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress esc to quit.", m.err))
	}
	if !m.loaded {
		return "Generating modules..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("glgen"))
	b.WriteString(" ")
	b.WriteString(m.title)
	b.WriteString("\n\n")

	switch m.state {
	case stateList:
		b.WriteString(m.filter.View())
		fmt.Fprintf(&b, "  %d/%d\n\n", len(m.visible), len(m.mods))
		start := max(m.selected-m.height+1, 0)
		end := min(start+m.height, len(m.visible))
		for i := start; i < end; i++ {
			mod := m.visible[i]
			line := fmt.Sprintf("%-40s %s", mod.Name, mod.Kind)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("type to filter • ↑/↓ select • enter open • esc clear/quit"))

	case stateDetail:
		mod := m.current()
		b.WriteString(nameStyle.Render(mod.Name))
		b.WriteString("\n\n")
		lines := m.detailLines()
		end := min(m.scroll+m.height, len(lines))
		for _, l := range lines[m.scroll:end] {
			b.WriteString(l)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ scroll • enter/esc back • ctrl+c quit"))
	}
	return b.String()
}
