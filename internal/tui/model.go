package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/leapgantt/internal/engine"
)

var (
	styleHeader = lipgloss.NewStyle().Foreground(lipgloss.Color("#fe8019")).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
)

type keyMap struct {
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model is the bubbletea model of the timeline viewer.
type Model struct {
	report   *engine.Report
	vp       viewport.Model
	keys     keyMap
	ready    bool
	quitting bool
}

// New creates a viewer for report.
func New(report *engine.Report) Model {
	return Model{report: report, keys: defaultKeyMap()}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-lipgloss.Height(m.header())-1, 1)
		if !m.ready {
			m.vp = viewport.New(msg.Width, height)
			m.vp.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = height
		}
		m.vp.SetContent(RenderTimeline(m.report, msg.Width, colorize))
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	footer := styleDim.Render(fmt.Sprintf("↑/↓ scroll • q quit • %3.f%%", m.vp.ScrollPercent()*100))
	return m.header() + "\n" + m.vp.View() + "\n" + footer
}

// Quitting reports whether the user asked to leave.
func (m Model) Quitting() bool {
	return m.quitting
}

func (m Model) header() string {
	s := m.report.Summary
	parts := []string{
		fmt.Sprintf("%d tasks", s.Tasks),
		fmt.Sprintf("%d milestones", s.Milestones),
		fmt.Sprintf("%d days", s.DurationDays),
	}
	title := m.report.Spec.Title
	if title == "" {
		title = m.report.Filename
	}
	return styleHeader.Render(title) + "  " + styleDim.Render(strings.Join(parts, " · "))
}

func colorize(hex, s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(s)
}

// Run shows report full screen until the user quits.
func Run(report *engine.Report, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(New(report),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	_, err := p.Run()
	return err
}
