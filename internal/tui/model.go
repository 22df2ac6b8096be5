// Package tui provides the interactive terminal front-end for a population
// session: a genetic-weight slider, a reshuffle action and the tables and
// change lines that show regression to the mean.
//
// # Thread Safety
//
// The model mutates its session from the bubbletea event loop only.
package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"regressdemo/internal/population"
	"regressdemo/internal/report"
)

const (
	sliderWidth     = 40
	smallStep       = 1
	largeStep       = 10
	defaultPageSize = 20

	// rows taken by everything except the population table
	chromeHeight = 22
)

// =============================================================================
// Styles
// =============================================================================

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	fillStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// =============================================================================
// Model
// =============================================================================

// Model is the bubbletea model driving one session
type Model struct {
	session *population.Session

	// slider position in percent, the front-end's weight convention
	percent int

	offset   int
	pageSize int

	err      error
	quitting bool
}

// New creates a model for the session, placing the slider at its weight
func New(s *population.Session) Model {
	return Model{
		session:  s,
		percent:  int(math.Round(population.ToPercent(s.Weight()))),
		pageSize: defaultPageSize,
	}
}

// Percent returns the slider position
func (m Model) Percent() int {
	return m.percent
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.pageSize = max(msg.Height-chromeHeight, 5)
		m.offset = m.clampOffset(m.offset)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "left", "h":
			return m.slide(-smallStep), nil
		case "right", "l":
			return m.slide(smallStep), nil
		case "shift+left", "H":
			return m.slide(-largeStep), nil
		case "shift+right", "L":
			return m.slide(largeStep), nil
		case "r", " ", "space", "enter":
			m.session.Reshuffle()
			return m, nil
		case "down", "j", "pgdown":
			m.offset = m.clampOffset(m.offset + m.pageSize)
			return m, nil
		case "up", "k", "pgup":
			m.offset = m.clampOffset(m.offset - m.pageSize)
			return m, nil
		}
	}
	return m, nil
}

func (m Model) slide(step int) Model {
	p := min(max(m.percent+step, 0), 100)
	if p == m.percent {
		return m
	}
	m.percent = p
	m.err = m.session.SetWeight(population.FromPercent(float64(p)))
	return m
}

func (m Model) clampOffset(off int) int {
	last := m.session.Len() - m.pageSize
	return min(max(off, 0), max(last, 0))
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", titleStyle.Render("Regression to the Mean"),
		labelStyle.Render(fmt.Sprintf("round %d", m.session.Round())))
	fmt.Fprintf(&b, "%s\n%s\n\n", m.renderSlider(), report.FormatWeight(m.session.Weight()))

	tables := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTable("Population", m.page()),
		m.renderTable("New Top Five", m.session.Top()),
		m.renderTable("New Bottom Five", m.session.Bottom()),
	)
	b.WriteString(tables)
	b.WriteString("\n")

	for _, line := range report.DeltaLines(m.session.Deltas()) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	current, previous, ok := m.session.Statistics()
	b.WriteString(report.FormatStatistics(current, previous, ok))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(labelStyle.Render("←/→ weight ±1%  H/L ±10%  r reshuffle  ↑/↓ page  q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderSlider() string {
	filled := m.percent * sliderWidth / 100
	bar := fillStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", sliderWidth-filled))
	return fmt.Sprintf("genetic weight [%s] %3d%%", bar, m.percent)
}

func (m Model) page() []population.Row {
	rows := m.session.Rows()
	end := min(m.offset+m.pageSize, len(rows))
	return rows[m.offset:end]
}

func (m Model) renderTable(title string, rows []population.Row) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(report.RowHeader))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(report.FormatRow(r))
	}
	return boxStyle.Render(b.String())
}

// Run starts the interactive program on the terminal
func Run(s *population.Session) error {
	_, err := tea.NewProgram(New(s), tea.WithAltScreen()).Run()
	return err
}
