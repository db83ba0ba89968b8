package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ragaas/internal/domain"
)

// Model is the Bubble Tea model for the TUI application. It carries all
// per-session state (scope, submitted-document flag, last answer); a reset
// rebuilds it from scratch instead of mutating fields piecemeal.
type Model struct {
	pipeline    domain.Pipeline
	input       textinput.Model
	viewport    viewport.Model
	scope       string
	defaultMode string
	answer      string
	status      string
	lastQuery   string
	submitted   bool
	ready       bool
}

// New creates a new TUI model instance bound to the pipeline.
func New(pipeline domain.Pipeline, scope, defaultMode string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question, or /ingest <url> [name]"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		pipeline:    pipeline,
		input:       ti,
		viewport:    vp,
		scope:       scope,
		defaultMode: defaultMode,
		status:      "Ready. /ingest a document, then ask away.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ah := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2 // header + scope line
		totalFooterLines := 1 // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-ah)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyCtrlR {
			return m.reset(), nil
		}
		if msg.String() == "enter" {
			line := strings.TrimSpace(m.input.Value())
			if line != "" {
				m = m.execute(line)
				m.input.SetValue("")
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// execute dispatches a submitted input line to a pipeline operation.
func (m Model) execute(line string) Model {
	switch {
	case strings.HasPrefix(line, "/ingest "):
		fields := strings.Fields(strings.TrimPrefix(line, "/ingest "))
		if len(fields) == 0 {
			m.status = "Usage: /ingest <url> [name]"
			return m
		}
		name := ""
		if len(fields) > 1 {
			name = fields[1]
		}
		id, err := m.pipeline.IngestDocument(fields[0], name, m.defaultMode)
		if err != nil {
			m.status = "Error: " + err.Error()
			return m
		}
		m.submitted = true
		// Indexing continues on the backend; there is no completion signal.
		m.status = fmt.Sprintf("Document %s submitted; indexing continues in the background.", id)
	case strings.HasPrefix(line, "/scope "):
		m.scope = strings.TrimSpace(strings.TrimPrefix(line, "/scope "))
		m.status = fmt.Sprintf("Scope set to %q", m.scope)
	default:
		answer, err := m.pipeline.ProcessQuery(line, m.scope)
		if err != nil {
			m.status = "Error: " + err.Error()
			m.answer = ""
			return m
		}
		m.lastQuery = line
		m.answer = answer
		m.status = fmt.Sprintf("Answer for %q", line)
	}
	return m
}

// reset reconstructs the session state from scratch, keeping only the
// pipeline binding, the defaults, and the window geometry.
func (m Model) reset() Model {
	fresh := New(m.pipeline, m.scope, m.defaultMode)
	fresh.ready = m.ready
	fresh.viewport.Width = m.viewport.Width
	fresh.viewport.Height = m.viewport.Height
	fresh.status = "Session reset."
	fresh.viewport.SetContent(fresh.renderAnswer())
	return fresh
}

// View renders the TUI layout and current answer.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("RAG-as-a-Service")
	scope := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("scope: " + m.scope)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	answer := answerBoxStyle.Render(m.viewport.View())
	return header + "\n" + scope + "\n" + answer + "\n" + input + "\n" + status
}

func (m Model) renderAnswer() string {
	if m.answer == "" {
		if !m.submitted {
			return "No answer yet. Submit a document with /ingest <url> first."
		}
		return "No answer yet."
	}
	return m.answer
}

var (
	answerBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
