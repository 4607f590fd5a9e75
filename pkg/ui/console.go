// Package ui provides the Bubble Tea operator console for the bot.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CommandFunc executes one operator command line and returns the reply.
type CommandFunc func(ctx context.Context, line string) string

// StatusFunc returns the short status line rendered in the header.
type StatusFunc func() StatusLine

// StatusLine is the data the header shows.
type StatusLine struct {
	Running   bool
	Phase     string
	Block     uint64
	Connected bool
	Mode      string // "simulated" or "live"
}

const prompt = "arb> "

// replyMsg carries a finished command's reply back into the model.
type replyMsg struct {
	line  string
	reply string
}

// statusTickMsg refreshes the header once a second.
type statusTickMsg struct{}

func statusTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return statusTickMsg{}
	})
}

// Model is the operator console: a scrolling transcript above a single
// input line. Commands run off the UI goroutine so a slow scan never
// freezes the terminal.
type Model struct {
	ctx    context.Context
	exec   CommandFunc
	status StatusFunc

	viewport   viewport.Model
	input      textinput.Model
	transcript []string

	ready    bool
	busy     bool
	quitting bool
	width    int
	height   int
}

// New creates the console model.
func New(ctx context.Context, exec CommandFunc, status StatusFunc) Model {
	ti := textinput.New()
	ti.Prompt = PromptStyle.Render(prompt)
	ti.Placeholder = "type help for commands"
	ti.CharLimit = 128
	ti.Focus()

	return Model{
		ctx:        ctx,
		exec:       exec,
		status:     status,
		input:      ti,
		transcript: welcomeLines(),
	}
}

func welcomeLines() []string {
	return []string{
		MutedStyle.Render("polygon arbitrage bot operator console"),
		MutedStyle.Render("commands: status scan startbot stopbot config setprofit setgas setslippage balance help"),
		"",
	}
}

// Init starts the status ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, statusTick())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			if line == "" || m.busy {
				return m, nil
			}
			m.input.Reset()
			m.busy = true
			m.appendLine(PromptStyle.Render(prompt) + CommandStyle.Render(line))
			return m, m.runCommand(line)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 3
		footerHeight := 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.viewport.SetContent(strings.Join(m.transcript, "\n"))
			m.viewport.GotoBottom()
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.input.Width = msg.Width - lipgloss.Width(prompt) - 4

	case replyMsg:
		m.busy = false
		style := ReplyStyle
		if strings.HasPrefix(msg.reply, "error:") || strings.HasPrefix(msg.reply, "rejected:") {
			style = ErrorStyle
		}
		for _, l := range strings.Split(msg.reply, "\n") {
			m.appendLine(style.Render(l))
		}
		m.appendLine("")

	case statusTickMsg:
		cmds = append(cmds, statusTick())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// runCommand executes the line off the UI goroutine.
func (m Model) runCommand(line string) tea.Cmd {
	return func() tea.Msg {
		return replyMsg{line: line, reply: m.exec(m.ctx, line)}
	}
}

func (m *Model) appendLine(line string) {
	m.transcript = append(m.transcript, line)
	if m.ready {
		m.viewport.SetContent(strings.Join(m.transcript, "\n"))
		m.viewport.GotoBottom()
	}
}

// View renders the console.
func (m Model) View() string {
	if m.quitting {
		return "\n  bye\n\n"
	}
	if !m.ready {
		return "\n  starting console..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("enter: run command • pgup/pgdn: scroll • esc: quit"))
	return b.String()
}

func (m Model) renderHeader() string {
	title := TitleStyle.Render(" Polygon Arb Bot ")

	s := m.status()

	var parts []string
	if s.Running {
		parts = append(parts, StatusRunning.Render("● running ("+s.Phase+")"))
	} else {
		parts = append(parts, StatusStopped.Render("○ stopped"))
	}
	parts = append(parts, MutedStyle.Render(s.Mode))
	if s.Connected {
		parts = append(parts, StatusRunning.Render("node ●"))
	} else {
		parts = append(parts, StatusStopped.Render("node ○"))
	}
	if s.Block > 0 {
		parts = append(parts, MutedStyle.Render(fmt.Sprintf("block #%d", s.Block)))
	}
	if m.busy {
		parts = append(parts, StatusRunning.Render("working..."))
	}

	return title + "  " + strings.Join(parts, "  │  ") + "\n"
}

// Run starts the console and blocks until it exits.
func Run(ctx context.Context, exec CommandFunc, status StatusFunc) error {
	p := tea.NewProgram(New(ctx, exec, status), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
