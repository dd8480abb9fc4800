package repl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/parmacl/foundation/cmdline"
	pmlog "github.com/msto63/parmacl/foundation/core/log"
	"github.com/msto63/parmacl/foundation/utils/stringx"
	"github.com/msto63/parmacl/internal/history"
)

const (
	recallLimit  = 100
	storeTimeout = 5 * time.Second
)

// result is one parsed line as shown in the transcript
type result struct {
	line string
	args []cmdline.Arg[string, string]
	err  error
}

// Model is the interactive parse loop
type Model struct {
	parser      *cmdline.Parser[string, string]
	store       history.Store
	sessionID   string
	profileName string
	logger      *pmlog.Logger

	results  []result
	recall   []string // oldest first
	recallAt int      // len(recall) means "not recalling"

	width    int
	height   int
	ready    bool
	quitting bool
	saving   int
	err      error

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
}

// Messages
type historyLoadedMsg struct {
	lines []string
	err   error
}

type historyRecordedMsg struct {
	err error
}

// NewModel creates the REPL model. store may be nil, in which case nothing
// is recorded.
func NewModel(parser *cmdline.Parser[string, string], store history.Store, profileName string) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a command line and press Enter..."
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	return Model{
		parser:      parser,
		store:       store,
		sessionID:   history.NewSessionID(),
		profileName: profileName,
		logger:      pmlog.GetDefault().WithField("component", "repl"),
		input:       ti,
		spinner:     sp,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}
	if m.store != nil {
		cmds = append(cmds, m.loadHistory())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			line := m.input.Value()
			if stringx.IsBlank(line) {
				return m, nil
			}
			m.input.Reset()
			if cmd := m.submit(line); cmd != nil {
				cmds = append(cmds, cmd)
			}

		case "up":
			if m.recallAt > 0 {
				m.recallAt--
				m.input.SetValue(m.recall[m.recallAt])
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.recallAt < len(m.recall) {
				m.recallAt++
				if m.recallAt == len(m.recall) {
					m.input.Reset()
				} else {
					m.input.SetValue(m.recall[m.recallAt])
					m.input.CursorEnd()
				}
			}
			return m, nil

		case "ctrl+l":
			m.results = nil
			m.err = nil
			m.updateContent()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 8

		vpHeight := msg.Height - 7
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = vpHeight
		}
		m.updateContent()

	case historyLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.recall = append(msg.lines, m.recall...)
			m.recallAt = len(m.recall)
		}

	case historyRecordedMsg:
		m.saving--
		if msg.err != nil {
			m.err = msg.err
			m.logger.WarnWithErr("Failed to record history entry", msg.err)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submit parses line, appends it to the transcript and returns the command
// recording it, if any
func (m *Model) submit(line string) tea.Cmd {
	args, err := m.parser.Parse(line)
	m.results = append(m.results, result{line: line, args: args, err: err})

	if n := len(m.recall); n == 0 || m.recall[n-1] != line {
		m.recall = append(m.recall, line)
	}
	m.recallAt = len(m.recall)
	m.updateContent()

	if m.store == nil {
		return nil
	}
	m.saving++
	return m.record(history.FromParse(m.sessionID, line, args, err))
}

func (m Model) record(entry *history.Entry) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return historyRecordedMsg{err: store.Record(ctx, entry)}
	}
}

func (m Model) loadHistory() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		entries, err := store.Recent(ctx, history.Filter{Limit: recallLimit})
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		lines := make([]string, 0, len(entries))
		for i := len(entries) - 1; i >= 0; i-- {
			lines = append(lines, entries[i].Line)
		}
		return historyLoadedMsg{lines: lines}
	}
}

func (m *Model) updateContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderResults())
	m.viewport.GotoBottom()
}

// View renders the model
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	var s strings.Builder
	s.WriteString(m.renderHeader())
	s.WriteString("\n")
	s.WriteString(m.viewport.View())
	s.WriteString("\n")
	s.WriteString(FocusedInputStyle.Render(m.input.View()))
	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

func (m Model) renderHeader() string {
	title := RenderTitle("parmacl")
	subtitle := SubtitleStyle.Render(fmt.Sprintf(" profile: %s", m.profileName))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, subtitle)
}

func (m Model) renderResults() string {
	if len(m.results) == 0 {
		return SubtitleStyle.Render("No command lines parsed yet.")
	}

	var s strings.Builder
	for i, r := range m.results {
		if i > 0 {
			s.WriteString("\n\n")
		}
		s.WriteString(LineStyle.Render("> " + r.line))
		s.WriteString("\n")
		if r.err != nil {
			s.WriteString(RenderError(r.line, r.err))
		} else {
			s.WriteString(RenderArgs(r.args))
		}
	}
	return s.String()
}

func (m Model) renderFooter() string {
	status := fmt.Sprintf("%d parsed", len(m.results))
	if m.store != nil {
		status += " | history on"
	}
	if m.saving > 0 {
		status += " " + m.spinner.View()
	}
	if m.err != nil {
		status += " | " + m.err.Error()
	}

	help := RenderHelp("Enter: parse | Up/Down: recall | Ctrl+L: clear | Esc: quit")
	return lipgloss.JoinVertical(lipgloss.Left, StatusBarStyle.Render(status), help)
}

// Run starts the REPL in the alternate screen
func Run(parser *cmdline.Parser[string, string], store history.Store, profileName string) error {
	p := tea.NewProgram(NewModel(parser, store, profileName), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
