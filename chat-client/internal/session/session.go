package session

import (
	"context"
	"errors"
	"sync"

	"github.com/weiawesome/paper-review-chat/chat-client/internal/domain"
	"github.com/weiawesome/paper-review-chat/chat-client/internal/identity"
	"github.com/weiawesome/paper-review-chat/chat-client/internal/pagectx"
)

// ErrAlreadyMounted is returned by a second Mount on the same Session.
var ErrAlreadyMounted = errors.New("session already mounted")

// State is the send-eligibility state of a session.
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of a session for rendering.
type Snapshot struct {
	State            State
	PaperID          string
	Status           domain.Status
	CounterpartLabel string
	Messages         []domain.Message
	Input            string
	Err              error
	CanSend          bool
}

// Session is one mounted chat: loading, then either ready with a status
// or failed. It never leaves ready or error; a new Session is a remount.
type Session struct {
	loader  *Loader
	api     ChatAPI
	paperID string
	opts    []Option

	mu      sync.RWMutex
	mounted bool
	state   State
	loadErr error
	label   string
	input   string
	channel *Channel
}

// New creates a Session for paperID in the loading state. An empty paperID
// selects pagectx.DefaultPaperID.
func New(api ChatAPI, ids identity.Provider, paperID string, opts ...Option) *Session {
	if paperID == "" {
		paperID = pagectx.DefaultPaperID
	}
	return &Session{
		loader:  NewLoader(api, ids),
		api:     api,
		paperID: paperID,
		opts:    opts,
		state:   StateLoading,
		label:   InitialCounterpartLabel,
	}
}

// PaperID returns the paper this session is bound to.
func (s *Session) PaperID() string {
	return s.paperID
}

// Mount runs the load. It may be called once.
func (s *Session) Mount(ctx context.Context) error {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return ErrAlreadyMounted
	}
	s.mounted = true
	s.mu.Unlock()

	chat, err := s.loader.Load(ctx, s.paperID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateError
		s.loadErr = err
		return err
	}

	s.channel = NewChannel(s.api, chat, s.opts...)
	s.channel.SetInput(s.input)
	s.input = ""
	s.label = chat.CounterpartLabel
	s.state = StateReady
	return nil
}

// SetInput replaces the input buffer.
func (s *Session) SetInput(text string) {
	if ch := s.readyChannel(); ch != nil {
		ch.SetInput(text)
		return
	}
	s.mu.Lock()
	s.input = text
	s.mu.Unlock()
}

// Submit appends the input optimistically; see Channel.Submit.
func (s *Session) Submit() (Outgoing, error) {
	ch := s.readyChannel()
	if ch == nil {
		return Outgoing{}, domain.ErrNoSession
	}
	return ch.Submit()
}

// Deliver posts a submitted message; see Channel.Deliver.
func (s *Session) Deliver(ctx context.Context, out Outgoing) error {
	ch := s.readyChannel()
	if ch == nil {
		return domain.ErrNoSession
	}
	return ch.Deliver(ctx, out)
}

// Send submits and delivers the input buffer.
func (s *Session) Send(ctx context.Context) error {
	ch := s.readyChannel()
	if ch == nil {
		return domain.ErrNoSession
	}
	return ch.Send(ctx)
}

// Snapshot returns the current state for rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	snap := Snapshot{
		State:            s.state,
		PaperID:          s.paperID,
		CounterpartLabel: s.label,
		Input:            s.input,
		Err:              s.loadErr,
		Messages:         []domain.Message{},
	}
	ch := s.channel
	s.mu.RUnlock()

	if ch != nil {
		snap.Status = ch.Status()
		snap.Messages = ch.Messages()
		snap.Input = ch.Input()
		snap.Err = ch.Err()
		snap.CanSend = snap.Status.AcceptsMessages()
	}
	return snap
}

func (s *Session) readyChannel() *Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateReady {
		return nil
	}
	return s.channel
}
