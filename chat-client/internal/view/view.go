// Package view renders session snapshots as terminal text.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/weiawesome/paper-review-chat/chat-client/internal/domain"
	"github.com/weiawesome/paper-review-chat/chat-client/internal/session"
)

const (
	LoadingText = "Loading chat..."
	Title       = "Reviewer Chat"
	EmptyHint   = "No messages yet. Start a conversation with your reviewer."
	timeLayout  = "15:04"
)

// Styles holds the lipgloss styles used by Render.
type Styles struct {
	Title       lipgloss.Style
	Label       lipgloss.Style
	Status      lipgloss.Style
	User        lipgloss.Style
	Counterpart lipgloss.Style
	Meta        lipgloss.Style
	Hint        lipgloss.Style
	Banner      lipgloss.Style
	Error       lipgloss.Style
}

// DefaultStyles returns the colored theme.
func DefaultStyles() Styles {
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		Label:       lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Status:      lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244")),
		User:        lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("25")).Padding(0, 1),
		Counterpart: lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("238")).Padding(0, 1),
		Meta:        lipgloss.NewStyle().Faint(true),
		Hint:        lipgloss.NewStyle().Faint(true).Italic(true),
		Banner:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// PlainStyles returns unstyled output, for pipes and logs.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:       plain,
		Label:       plain,
		Status:      plain,
		User:        plain,
		Counterpart: plain,
		Meta:        plain,
		Hint:        plain,
		Banner:      plain,
		Error:       plain,
	}
}

// Render draws the whole screen for snap. width aligns user messages to the
// right; zero disables alignment.
func Render(snap session.Snapshot, st Styles, width int) string {
	switch snap.State {
	case session.StateLoading:
		return LoadingText
	case session.StateError:
		return ErrorScreen(snap, st)
	}

	parts := []string{Header(snap, st, width), Transcript(snap, st, width)}
	if footer := Footer(snap, st); footer != "" {
		parts = append(parts, footer)
	}
	return strings.Join(parts, "\n\n")
}

// ErrorScreen replaces the transcript when the session failed to load.
func ErrorScreen(snap session.Snapshot, st Styles) string {
	text := "unknown error"
	if snap.Err != nil {
		text = snap.Err.Error()
	}
	lines := []string{st.Error.Render("Error: " + text)}
	if snap.Status != "" {
		lines = append(lines, st.Status.Render("Chat status: "+string(snap.Status)))
	}
	return strings.Join(lines, "\n")
}

// Header shows the title, the counterpart and the chat status.
func Header(snap session.Snapshot, st Styles, width int) string {
	left := st.Label.Render(snap.CounterpartLabel)
	right := st.Status.Render("Status: " + string(snap.Status))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return st.Title.Render(Title) + "\n" + left + strings.Repeat(" ", gap) + right
}

// Transcript lists the messages in the order held by the session.
func Transcript(snap session.Snapshot, st Styles, width int) string {
	if len(snap.Messages) == 0 {
		return st.Hint.Render(EmptyHint)
	}

	blocks := make([]string, 0, len(snap.Messages))
	for _, m := range snap.Messages {
		blocks = append(blocks, message(m, st, width))
	}
	return strings.Join(blocks, "\n")
}

// Footer holds the closed-chat banner and the last send failure.
func Footer(snap session.Snapshot, st Styles) string {
	var lines []string
	if !snap.CanSend {
		lines = append(lines, st.Banner.Render(ClosedBanner(snap.Status)))
	}
	if snap.Err != nil {
		lines = append(lines, st.Error.Render("Error: "+snap.Err.Error()))
	}
	return strings.Join(lines, "\n")
}

// ClosedBanner explains why the input is disabled.
func ClosedBanner(status domain.Status) string {
	return fmt.Sprintf("Chat is %s. No new messages can be sent.", status)
}

func message(m domain.Message, st Styles, width int) string {
	bubble := st.Counterpart
	pos := lipgloss.Left
	if m.FromUser() {
		bubble = st.User
		pos = lipgloss.Right
	}
	if limit := width * 3 / 4; limit > 0 && lipgloss.Width(m.Text) > limit {
		bubble = bubble.Width(limit)
	}

	block := bubble.Render(m.Text)
	if ts := Clock(m); ts != "" {
		block = lipgloss.JoinVertical(pos, block, st.Meta.Render(ts))
	}
	if width <= 0 {
		return block
	}
	return lipgloss.PlaceHorizontal(width, pos, block)
}

// Clock formats a message time as local HH:MM. Messages without a time
// render no clock.
func Clock(m domain.Message) string {
	if m.Timestamp.IsZero() {
		return ""
	}
	return m.Timestamp.Local().Format(timeLayout)
}
