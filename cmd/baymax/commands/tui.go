package commands

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// chatSession is the transport-facing side of a session.
type chatSession interface {
	Greeting() string
	Handle(ctx context.Context, data []byte) ([]byte, bool)
}

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// replyMsg carries a finished reply back to the UI.
type replyMsg struct {
	text string
	ok   bool
}

type chatLine struct {
	user bool
	text string
}

type chatModel struct {
	ctx     context.Context
	session chatSession

	input    textinput.Model
	viewport viewport.Model
	lines    []chatLine
	waiting  bool
	ready    bool
}

func newChatModel(ctx context.Context, s chatSession) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Type a message (quit to exit)"
	ti.Prompt = "You: "
	ti.CharLimit = 2000
	ti.Focus()

	m := chatModel{
		ctx:      ctx,
		session:  s,
		input:    ti,
		viewport: viewport.New(80, 20),
		lines:    []chatLine{{text: s.Greeting()}},
	}
	m.refresh()
	return m
}

func isQuit(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "quit", "exit", "q":
		return true
	}
	return false
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) send(text string) tea.Cmd {
	return func() tea.Msg {
		out, ok := m.session.Handle(m.ctx, []byte(text))
		return replyMsg{text: string(out), ok: ok}
	}
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.waiting {
				return m, nil
			}
			if isQuit(text) {
				return m, tea.Quit
			}
			m.input.Reset()
			m.lines = append(m.lines, chatLine{user: true, text: text})
			m.waiting = true
			m.refresh()
			return m, m.send(text)
		}

	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 3
		m.input.Width = msg.Width - len(m.input.Prompt) - 1
		m.ready = true
		m.refresh()

	case replyMsg:
		m.waiting = false
		if msg.ok {
			m.lines = append(m.lines, chatLine{text: msg.text})
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *chatModel) refresh() {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	wrap := lipgloss.NewStyle().Width(width)
	rendered := make([]string, len(m.lines))
	for i, l := range m.lines {
		if l.user {
			rendered[i] = wrap.Render(userStyle.Render("You: ") + l.text)
		} else {
			rendered[i] = wrap.Render(assistantStyle.Render(l.text))
		}
	}
	m.viewport.SetContent(strings.Join(rendered, "\n\n"))
	m.viewport.GotoBottom()
}

func (m chatModel) View() string {
	status := ""
	if m.waiting {
		status = statusStyle.Render("Baymax is thinking...")
	}
	return m.viewport.View() + "\n" + status + "\n" + m.input.View()
}
