package tui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/paper-review-chat/chat-client/internal/domain"
	"github.com/weiawesome/paper-review-chat/chat-client/internal/identity"
	"github.com/weiawesome/paper-review-chat/chat-client/internal/session"
	"github.com/weiawesome/paper-review-chat/chat-client/internal/view"
)

type stubAPI struct {
	mu     sync.Mutex
	status domain.Status
	sendOK bool
	posts  []string
}

func (s *stubAPI) GetPaperChat(_ context.Context, paperID, userID string) (*domain.PaperChatEnvelope, error) {
	return &domain.PaperChatEnvelope{
		Success: true,
		Data: &domain.PaperChat{
			PaperID:  paperID,
			UserID:   userID,
			Status:   s.status,
			Messages: []domain.Message{{Text: "Welcome", Sender: domain.SenderCounterpart}},
		},
	}, nil
}

func (s *stubAPI) PostMessage(_ context.Context, _ string, req domain.SendMessageRequest) (*domain.SendMessageResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, req.Text)
	return &domain.SendMessageResponse{Success: s.sendOK}, nil
}

func loadedModel(t *testing.T, api *stubAPI) (Model, *session.Session) {
	t.Helper()
	ctx := context.Background()
	sess := session.New(api, identity.Static("u1"), "PRP01")
	m := New(ctx, sess, view.PlainStyles())

	assert.Contains(t, m.View(), view.LoadingText)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	next, _ = next.Update(loadedMsg{err: sess.Mount(ctx)})
	return next.(Model), sess
}

func typeText(m Model, text string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(Model)
}

// findDelivered runs a batched command and returns its deliveredMsg.
func findDelivered(t *testing.T, cmd tea.Cmd) deliveredMsg {
	t.Helper()
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c == nil {
			continue
		}
		if msg, ok := c().(deliveredMsg); ok {
			return msg
		}
	}
	t.Fatal("no delivery in batch")
	return deliveredMsg{}
}

func TestSendFromKeyboard(t *testing.T) {
	api := &stubAPI{status: domain.StatusPending, sendOK: true}
	m, sess := loadedModel(t, api)
	require.True(t, m.input.Focused())

	m = typeText(m, "Hello")
	assert.Equal(t, "Hello", sess.Snapshot().Input)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Empty(t, m.input.Value())
	assert.Equal(t, 1, m.sending)

	next, _ = m.Update(findDelivered(t, cmd))
	m = next.(Model)
	assert.Zero(t, m.sending)
	assert.Equal(t, []string{"Hello"}, api.posts)

	snap := sess.Snapshot()
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "Hello", snap.Messages[1].Text)
	assert.Empty(t, snap.Input)
}

func TestDeliveredMessageRendersInTranscript(t *testing.T) {
	api := &stubAPI{status: domain.StatusPending, sendOK: false}
	m, sess := loadedModel(t, api)

	m = typeText(m, "Hello")
	sess.SetInput(m.input.Value())
	out, err := sess.Submit()
	require.NoError(t, err)

	next, _ := m.Update(deliveredMsg{err: sess.Deliver(context.Background(), out)})
	m = next.(Model)

	screen := m.View()
	assert.Contains(t, screen, "Welcome")
	assert.Contains(t, screen, "Hello")
	assert.Contains(t, screen, "Error: Failed to send message")
	assert.Equal(t, []string{"Hello"}, api.posts)
}

func TestAltEnterInsertsNewline(t *testing.T) {
	api := &stubAPI{status: domain.StatusPending, sendOK: true}
	m, sess := loadedModel(t, api)

	m = typeText(m, "line one")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	m = next.(Model)
	m = typeText(m, "line two")

	assert.Equal(t, "line one\nline two", m.input.Value())
	assert.Empty(t, sess.Snapshot().Messages[1:])
}

func TestEnterOnBlankInputDoesNothing(t *testing.T) {
	api := &stubAPI{status: domain.StatusPending, sendOK: true}
	m, sess := loadedModel(t, api)

	m = typeText(m, "   ")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Len(t, sess.Snapshot().Messages, 1)
	assert.Empty(t, api.posts)
}

func TestClosedChatHasNoInput(t *testing.T) {
	api := &stubAPI{status: domain.StatusCompleted}
	m, sess := loadedModel(t, api)
	assert.False(t, m.input.Focused())

	m = typeText(m, "ignored")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	screen := m.View()
	assert.Contains(t, screen, "Chat is completed. No new messages can be sent.")
	assert.NotContains(t, screen, "enter send")
	assert.Len(t, sess.Snapshot().Messages, 1)
}

func TestLoadErrorScreen(t *testing.T) {
	ctx := context.Background()
	sess := session.New(&stubAPI{}, identity.Static(""), "PRP01")
	m := New(ctx, sess, view.PlainStyles())

	next, _ := m.Update(loadedMsg{err: sess.Mount(ctx)})
	assert.Contains(t, next.View(), "Error: User not logged in")
}

func TestQuitKeys(t *testing.T) {
	api := &stubAPI{status: domain.StatusPending}
	for _, k := range []tea.KeyMsg{{Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		m, _ := loadedModel(t, api)
		next, cmd := m.Update(k)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
		assert.Empty(t, next.View())
	}
}
