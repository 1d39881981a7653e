// Package ui implements the interactive project picker shown before a
// cleanup when -i is given on a terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fenilsonani/devclean/internal/project"
	"github.com/fenilsonani/devclean/pkg/utils"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	All     key.Binding
	None    key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.All, k.None, k.Confirm, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultKeys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	All:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
	None:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "none")),
	Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "cancel")),
}

// SelectModel is a multi-select list of cleanable projects. Every project
// starts selected; confirming returns only the projects still checked.
type SelectModel struct {
	projects  project.Projects
	selected  []bool
	cursor    int
	confirmed bool
	keys      keyMap
	help      help.Model
	height    int
}

// NewSelectModel creates a picker with all projects preselected.
func NewSelectModel(projects project.Projects) *SelectModel {
	selected := make([]bool, len(projects))
	for i := range selected {
		selected[i] = true
	}
	return &SelectModel{
		projects: projects,
		selected: selected,
		keys:     defaultKeys,
		help:     help.New(),
		height:   24,
	}
}

func (m *SelectModel) Init() tea.Cmd {
	return nil
}

func (m *SelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.projects)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			if m.cursor < len(m.selected) {
				m.selected[m.cursor] = !m.selected[m.cursor]
			}
		case key.Matches(msg, m.keys.All):
			for i := range m.selected {
				m.selected[i] = true
			}
		case key.Matches(msg, m.keys.None):
			for i := range m.selected {
				m.selected[i] = false
			}
		case key.Matches(msg, m.keys.Confirm):
			m.confirmed = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *SelectModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Select projects to clean"))
	b.WriteString("\n")

	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		p := m.projects[i]

		box := UncheckedBox()
		if m.selected[i] {
			box = CheckedBox()
		}

		cursor := "  "
		line := fmt.Sprintf("%s %s %s  %s",
			box,
			p.Kind.Icon(),
			p.DisplayName(),
			SizeStyle.Render(utils.FormatBytes(p.Artifacts.Size)))
		if i == m.cursor {
			cursor = SelectedStyle.Render("> ")
			line = SelectedStyle.Render(line)
		}

		b.WriteString(cursor)
		b.WriteString(line)
		b.WriteString("\n")
		b.WriteString(DimStyle.Render("     " + p.Artifacts.Path))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(BoldStyle.Render(fmt.Sprintf("%d of %d selected, %s",
		len(m.Selected()), len(m.projects), utils.FormatBytes(m.Selected().TotalSize()))))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// visibleRange windows the list so it fits the terminal; each project takes
// two lines plus four lines of chrome.
func (m *SelectModel) visibleRange() (int, int) {
	rows := (m.height - 4) / 2
	if rows < 1 {
		rows = 1
	}
	if len(m.projects) <= rows {
		return 0, len(m.projects)
	}

	start := m.cursor - rows/2
	if start < 0 {
		start = 0
	}
	end := start + rows
	if end > len(m.projects) {
		end = len(m.projects)
		start = end - rows
	}
	return start, end
}

// Selected returns the projects still checked. Nil until Confirmed.
func (m *SelectModel) Selected() project.Projects {
	var out project.Projects
	for i, ok := range m.selected {
		if ok {
			out = append(out, m.projects[i])
		}
	}
	return out
}

// Confirmed reports whether the user confirmed rather than cancelled.
func (m *SelectModel) Confirmed() bool {
	return m.confirmed
}

// RunSelect shows the picker and returns the confirmed selection. A
// cancelled picker returns ok=false.
func RunSelect(projects project.Projects) (project.Projects, bool, error) {
	model := NewSelectModel(projects)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, false, err
	}

	m, ok := final.(*SelectModel)
	if !ok || !m.Confirmed() {
		return nil, false, nil
	}
	return m.Selected(), true, nil
}
