package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"product-reviews/models"
	"product-reviews/services"
)

var (
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// summaryMsg carries the finished (or fallen back) summary
type summaryMsg models.Summary

// Model is an interactive product page. Keys 1-5 toggle a star filter,
// c clears it and q quits.
type Model struct {
	session *services.Session
	wait    time.Duration
	summary *models.Summary
	status  string
}

// New creates a Model for an opened session; wait bounds how long the
// summary may take before the fallback is shown
func New(session *services.Session, wait time.Duration) Model {
	return Model{session: session, wait: wait}
}

// Init starts waiting for the session's summary
func (m Model) Init() tea.Cmd {
	return m.awaitSummary
}

func (m Model) awaitSummary() tea.Msg {
	return summaryMsg(m.session.SummaryService().Await(m.session.Summary, m.wait))
}

// Update handles key presses and the summary result
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryMsg:
		s := models.Summary(msg)
		m.summary = &s
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "c":
			m.session.Filter.Clear()
			m.status = ""
		case "1", "2", "3", "4", "5":
			rating := int(msg.Runes[0] - '0')
			if err := m.session.Filter.Toggle(rating); err != nil {
				m.status = err.Error()
			} else {
				m.status = ""
			}
		}
	}
	return m, nil
}

// View renders the product page under the current filter
func (m Model) View() string {
	var sb strings.Builder
	services.PrintProductPage(&sb, m.session.Page(m.summary))
	if m.status != "" {
		sb.WriteString(errorStyle.Render(m.status))
		sb.WriteString("\n")
	}
	sb.WriteString(helpStyle.Render("1-5 toggle rating • c clear filter • q quit"))
	sb.WriteString("\n")
	return sb.String()
}

// Run shows the model full screen until the user quits
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
