// Package tui is the interactive chat screen.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/weiawesome/paper-review-chat/chat-client/internal/session"
	"github.com/weiawesome/paper-review-chat/chat-client/internal/view"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	inputHeight   = 3
)

type keyMap struct {
	Send    key.Binding
	Newline key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Send:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Newline: key.NewBinding(key.WithKeys("alt+enter"), key.WithHelp("alt+enter", "newline")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

type loadedMsg struct{ err error }

type deliveredMsg struct{ err error }

// Model drives one Session.
type Model struct {
	ctx    context.Context
	sess   *session.Session
	styles view.Styles
	keys   keyMap

	spinner  spinner.Model
	input    textarea.Model
	viewport viewport.Model

	width    int
	height   int
	sending  int
	quitting bool
}

// New creates a Model for sess. The session is mounted by Init.
func New(ctx context.Context, sess *session.Session, styles view.Styles) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ta := textarea.New()
	ta.Placeholder = "Type a message... (Enter to send, Alt+Enter for newline)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 4096
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Blur()

	m := Model{
		ctx:      ctx,
		sess:     sess,
		styles:   styles,
		keys:     defaultKeys(),
		spinner:  sp,
		input:    ta,
		viewport: viewport.New(defaultWidth, defaultHeight),
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.layout()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.mount())
}

func (m Model) mount() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.sess.Mount(m.ctx)}
	}
}

func (m Model) deliver(out session.Outgoing) tea.Cmd {
	return func() tea.Msg {
		return deliveredMsg{err: m.sess.Deliver(m.ctx, out)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		if msg.Height > 0 {
			m.height = msg.Height
		}
		m.layout()
		return m, nil

	case spinner.TickMsg:
		if m.sess.Snapshot().State != session.StateLoading && m.sending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		var cmd tea.Cmd
		if m.sess.Snapshot().CanSend {
			cmd = m.input.Focus()
		}
		m.layout()
		return m, cmd

	case deliveredMsg:
		if m.sending > 0 {
			m.sending--
		}
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Newline):
		if m.input.Focused() {
			m.input.InsertString("\n")
			m.sess.SetInput(m.input.Value())
		}
		return m, nil

	case key.Matches(msg, m.keys.Send):
		if !m.sess.Snapshot().CanSend {
			return m, nil
		}
		m.sess.SetInput(m.input.Value())
		out, err := m.sess.Submit()
		if err != nil {
			return m, nil
		}
		m.input.Reset()
		m.sending++
		m.layout()
		return m, tea.Batch(m.deliver(out), m.spinner.Tick)
	}

	var cmds []tea.Cmd
	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.sess.SetInput(m.input.Value())
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// layout sizes the transcript to whatever the header, footer and input
// leave free and refreshes its content.
func (m *Model) layout() {
	snap := m.sess.Snapshot()
	m.input.SetWidth(m.width)

	used := lipgloss.Height(view.Header(snap, m.styles, m.width)) + 2
	if footer := view.Footer(snap, m.styles); footer != "" {
		used += lipgloss.Height(footer) + 1
	}
	if snap.CanSend {
		used += inputHeight + 1
	}

	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-used, 3)
	m.viewport.SetContent(view.Transcript(snap, m.styles, m.width))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.sess.Snapshot()
	switch snap.State {
	case session.StateLoading:
		return m.spinner.View() + " " + view.LoadingText
	case session.StateError:
		return view.ErrorScreen(snap, m.styles)
	}

	parts := []string{view.Header(snap, m.styles, m.width), m.viewport.View()}
	if footer := view.Footer(snap, m.styles); footer != "" {
		parts = append(parts, footer)
	}
	if snap.CanSend {
		status := ""
		if m.sending > 0 {
			status = " " + m.spinner.View() + " sending"
		}
		parts = append(parts, m.input.View()+"\n"+m.styles.Meta.Render(m.help()+status))
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) help() string {
	bindings := []key.Binding{m.keys.Send, m.keys.Newline, m.keys.Quit}
	items := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		items = append(items, h.Key+" "+h.Desc)
	}
	return strings.Join(items, " • ")
}

// Run mounts sess and runs the chat screen until the user quits.
func Run(ctx context.Context, sess *session.Session, styles view.Styles) error {
	p := tea.NewProgram(New(ctx, sess, styles), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
