// Package tui provides a full-screen terminal front end over the same
// statement dispatch the line REPL uses.
package tui

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/c-bata/db-tutorial/pkg/logging"
	"github.com/c-bata/db-tutorial/pkg/repl"
	"github.com/c-bata/db-tutorial/pkg/table"
)

// statementResultMsg carries the outcome of one dispatched line back
// into the update loop.
type statementResultMsg struct {
	line     string
	output   string
	err      error
	quit     bool
	duration time.Duration
}

// Model represents the application state
type Model struct {
	table   *table.Table
	input   textinput.Model
	output  viewport.Model
	spinner spinner.Model
	help    help.Model

	width      int
	height     int
	executing  bool
	showHelp   bool
	lines      []string
	rowCount   uint32
	statements int

	lastErr      error
	lastDuration time.Duration
	keys         keyMap
}

func NewModel(tbl *table.Table) Model {
	ti := textinput.New()
	ti.Placeholder = "insert 1 user1 person1@example.com"
	ti.Prompt = repl.Prompt
	ti.PromptStyle = promptStyle
	ti.CharLimit = 512
	ti.Focus()

	ti.TextStyle = lipgloss.NewStyle().Foreground(textPrimary)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(textMuted)

	vp := viewport.New(80, 16)
	vp.Style = outputStyle

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		table:   tbl,
		input:   ti,
		output:  vp,
		spinner: sp,
		help:    help.New(),
		keys:    keys,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		textinput.Blink,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()

	case tea.KeyMsg:
		if m.executing {
			return m, nil // Ignore input while a statement runs
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Execute):
			line := strings.TrimSpace(m.input.Value())
			if line != "" {
				m.executing = true
				m.lastErr = nil
				return m, tea.Batch(m.spinner.Tick, m.runStatement(line))
			}

		case key.Matches(msg, m.keys.Clear):
			m.lines = nil
			m.output.SetContent("")
			m.input.Reset()
			m.lastErr = nil

		case key.Matches(msg, m.keys.ShowTree):
			m.executing = true
			return m, tea.Batch(m.spinner.Tick, m.runStatement(".btree"))

		case key.Matches(msg, m.keys.ShowConstants):
			m.executing = true
			return m, tea.Batch(m.spinner.Tick, m.runStatement(".constants"))

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
		}

	case statementResultMsg:
		m.executing = false
		m.lastErr = msg.err
		m.lastDuration = msg.duration
		m.statements++
		m.appendTranscript(msg.line, msg.output)
		m.input.Reset()

		if msg.quit {
			return m, tea.Quit
		}
		if sum, err := m.table.LeafSummary(); err == nil {
			m.rowCount = sum.NumCells
		}

	case spinner.TickMsg:
		if m.executing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	// Update sub-components
	if !m.executing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)

		m.output, cmd = m.output.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// runStatement dispatches one line on a background command. The update
// loop blocks further input until the result message lands, so only
// one statement ever touches the table at a time.
func (m Model) runStatement(line string) tea.Cmd {
	tbl := m.table
	return func() tea.Msg {
		start := time.Now()
		var buf bytes.Buffer
		quit, err := repl.Dispatch(tbl, line, &buf)
		return statementResultMsg{
			line:     line,
			output:   buf.String(),
			err:      err,
			quit:     quit,
			duration: time.Since(start),
		}
	}
}

func (m *Model) appendTranscript(line, output string) {
	m.lines = append(m.lines, promptStyle.Render(repl.Prompt)+line)
	if output != "" {
		m.lines = append(m.lines, strings.TrimRight(output, "\n"))
	}
	m.output.SetContent(strings.Join(m.lines, "\n"))
	m.output.GotoBottom()
}

func (m *Model) updateLayout() {
	outputWidth := m.width - 6
	if outputWidth < 20 {
		outputWidth = 20
	}
	outputHeight := m.height - 12
	if outputHeight < 3 {
		outputHeight = 3
	}

	m.output.Width = outputWidth
	m.output.Height = outputHeight
	m.input.Width = outputWidth - len(repl.Prompt) - 2
	m.help.Width = m.width
}

func (m Model) View() string {
	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.output.View())
	sections = append(sections, inputStyle.Render(m.input.View()))

	switch {
	case m.executing:
		sections = append(sections, m.renderExecuting())
	case m.lastErr != nil:
		sections = append(sections, m.renderError())
	}

	sections = append(sections, m.renderStatusBar())

	if m.showHelp {
		sections = append(sections, helpStyle.Render(m.help.FullHelpView(m.keys.FullHelp())))
	}

	return appStyle.Render(strings.Join(sections, "\n"))
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("db-tutorial")
	badge := dbBadgeStyle.Render(filepath.Base(m.table.Path()))

	header := lipgloss.JoinHorizontal(lipgloss.Left, title, "  ", badge)

	separatorWidth := m.width - 4
	if separatorWidth < 0 {
		separatorWidth = 0
	}
	separator := lipgloss.NewStyle().
		Foreground(bgLight).
		Render(strings.Repeat("─", separatorWidth))

	return header + "\n" + separator
}

func (m Model) renderExecuting() string {
	content := lipgloss.JoinHorizontal(
		lipgloss.Left,
		m.spinner.View(),
		" Executing statement...",
	)

	return lipgloss.NewStyle().
		Foreground(primaryColor).
		Padding(0, 1).
		Render(content)
}

func (m Model) renderError() string {
	icon := errorBannerStyle.Render(" ERROR ")
	message := lipgloss.NewStyle().
		Foreground(errorColor).
		Render(m.lastErr.Error())

	return fmt.Sprintf("%s %s", icon, message)
}

func (m Model) renderStatusBar() string {
	status := fmt.Sprintf("rows: %d | statements: %d", m.rowCount, m.statements)
	if m.lastDuration > 0 {
		status += fmt.Sprintf(" | last: %v", m.lastDuration.Round(time.Microsecond))
	}

	bar := statusBarStyle.Render(status)
	return bar + "\n" + m.help.View(m.keys)
}

// Run starts the terminal UI over tbl and blocks until the user quits.
// A ".exit" typed inside the UI closes the table itself; any other way
// out leaves the close to the caller.
func Run(tbl *table.Table) error {
	log := logging.WithComponent("tui")
	log.Info("starting terminal ui", "file", tbl.Path())

	p := tea.NewProgram(NewModel(tbl), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal ui failed: %w", err)
	}

	log.Info("terminal ui closed")
	return nil
}
