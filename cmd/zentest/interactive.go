package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/zentest/internal/report"
	"github.com/unbound-force/zentest/internal/stub"
	"github.com/unbound-force/zentest/internal/taxonomy"
)

// keyMap defines keybindings for the interactive TUI.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Quit     key.Binding
	Help     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Top, k.Bottom},
		{k.Quit, k.Help},
	}
}

var defaultKeyMap = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("^/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("v/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
	Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// Styles for the TUI.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	tuiHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	tuiBorderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	reportStyles    = report.DefaultStyles()
	classLevelStyle = reportStyles.ClassLevel
)

// analyzeModel is the Bubble Tea model for browsing analysis results.
type analyzeModel struct {
	result   *taxonomy.Result
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	ready    bool
	content  string
}

func newAnalyzeModel(result *taxonomy.Result) analyzeModel {
	return analyzeModel{
		result:  result,
		help:    help.New(),
		keys:    defaultKeyMap,
		content: renderAnalyzeContent(result),
	}
}

func renderAnalyzeContent(result *taxonomy.Result) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(
		fmt.Sprintf("ZenTest Analysis: %d missing method(s) in %d class(es)",
			result.MissingCount(), len(result.Stubs))))
	sb.WriteString("\n\n")

	if len(result.Coverage) > 0 {
		sb.WriteString(tuiHeaderStyle.Render("=== Coverage ==="))
		sb.WriteString("\n")
		rows := make([][]string, 0, len(result.Coverage))
		for _, row := range result.Coverage {
			rows = append(rows, []string{
				row.Class,
				fmt.Sprintf("%d", row.Assertions),
				fmt.Sprintf("%d", row.Methods),
				fmt.Sprintf("%.2f%%", row.Ratio),
			})
		}
		ratioStyle := func(row, col int) lipgloss.Style {
			if col == 3 {
				return reportStyles.RatioStyle(result.Coverage[row].Ratio)
			}
			return lipgloss.NewStyle()
		}
		sb.WriteString(newTUITable(rows, ratioStyle, "CLASS", "ASSERTS", "METHODS", "RATIO").String())
		sb.WriteString("\n\n")
	}

	for _, spec := range result.Stubs {
		sb.WriteString(tuiHeaderStyle.Render(fmt.Sprintf("=== %s ===", spec.FullName)))
		sb.WriteString("\n")

		kind := "implementation"
		if spec.IsTestClass {
			kind = "test"
		}
		sb.WriteString(statusStyle.Render(fmt.Sprintf("    %s class, %d missing",
			kind, len(spec.ClassMethods)+len(spec.InstanceMethods))))
		sb.WriteString("\n")

		rows := make([][]string, 0, len(spec.ClassMethods)+len(spec.InstanceMethods))
		for _, m := range spec.ClassMethods {
			rows = append(rows, []string{"class", m})
		}
		for _, m := range spec.InstanceMethods {
			rows = append(rows, []string{"instance", m})
		}
		levelStyle := func(row, col int) lipgloss.Style {
			if col == 0 && rows[row][0] == "class" {
				return classLevelStyle
			}
			return lipgloss.NewStyle()
		}
		sb.WriteString(newTUITable(rows, levelStyle, "LEVEL", "METHOD").String())
		sb.WriteString("\n\n")
	}

	if len(result.Stubs) == 0 {
		sb.WriteString(statusStyle.Render("No missing methods detected."))
		sb.WriteString("\n\n")
	}

	for _, d := range result.Diagnostics {
		if taxonomy.SeverityOf(d.Kind) == taxonomy.SeverityDebug {
			continue
		}
		sb.WriteString(statusStyle.Render(fmt.Sprintf("warning: %s: %s", d.Class, d.Message)))
		sb.WriteString("\n")
	}

	sb.WriteString(statusStyle.Render(stub.Summary(result.Errors)))
	sb.WriteString("\n")

	return sb.String()
}

// newTUITable builds a rounded table. cell, when set, styles the body
// cells.
func newTUITable(rows [][]string, cell func(row, col int) lipgloss.Style, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tuiBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tuiHeaderStyle
			}
			if cell != nil && row >= 0 && row < len(rows) {
				return cell(row, col)
			}
			return lipgloss.NewStyle()
		}).
		Headers(headers...).
		Rows(rows...)
}

func (m analyzeModel) Init() tea.Cmd {
	return nil
}

func (m analyzeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		footerHeight := 2

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-footerHeight)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - footerHeight
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m analyzeModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	footer := statusStyle.Render(
		fmt.Sprintf(" %3.f%% ", m.viewport.ScrollPercent()*100)) +
		" " + m.help.View(m.keys)

	return m.viewport.View() + "\n" + footer
}

// runInteractiveAnalyze launches the Bubble Tea TUI for browsing
// analysis results.
func runInteractiveAnalyze(result *taxonomy.Result) error {
	p := tea.NewProgram(newAnalyzeModel(result), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
