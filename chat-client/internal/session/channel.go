package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/weiawesome/paper-review-chat/chat-client/internal/client"
	"github.com/weiawesome/paper-review-chat/chat-client/internal/domain"
	"github.com/weiawesome/paper-review-chat/pkg/log"
)

// Option configures a Channel.
type Option func(*Channel)

// WithExclusiveSend allows at most one send in flight. A Submit made while
// another message is still being delivered fails with ErrSendInFlight.
func WithExclusiveSend(enabled bool) Option {
	return func(c *Channel) {
		if enabled {
			c.inFlight = semaphore.NewWeighted(1)
		} else {
			c.inFlight = nil
		}
	}
}

// WithClock overrides the clock used to stamp optimistic messages.
func WithClock(now func() time.Time) Option {
	return func(c *Channel) {
		c.now = now
	}
}

// Outgoing is a message that has been appended locally and still has to be
// delivered. Every Outgoing returned by Submit must be passed to Deliver.
type Outgoing struct {
	PaperID string
	UserID  string
	Message domain.Message

	holdsLock bool
}

// Channel owns the transcript and input buffer of a loaded session and is
// the only writer of both.
type Channel struct {
	api ChatAPI
	now func() time.Time

	mu       sync.Mutex
	session  *domain.ChatSession
	input    string
	err      error
	seq      uint64
	inFlight *semaphore.Weighted
}

// NewChannel creates a Channel over s. A nil session rejects every send
// with ErrNoSession.
func NewChannel(api ChatAPI, s *domain.ChatSession, opts ...Option) *Channel {
	c := &Channel{
		api:     api,
		now:     time.Now,
		session: s,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetInput replaces the input buffer.
func (c *Channel) SetInput(text string) {
	c.mu.Lock()
	c.input = text
	c.mu.Unlock()
}

// Input returns the input buffer.
func (c *Channel) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Status returns the session status, or "" without a session.
func (c *Channel) Status() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.Status
}

// CanSend reports whether the send affordance should be enabled.
func (c *Channel) CanSend() bool {
	return c.Status().AcceptsMessages()
}

// Messages returns a copy of the transcript.
func (c *Channel) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return []domain.Message{}
	}
	return c.session.CloneMessages()
}

// Err returns the last send failure, if any.
func (c *Channel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Submit validates the input buffer and, if it may be sent, appends it to
// the transcript as an optimistic message and clears the buffer. Rejections
// leave the channel untouched.
func (c *Channel) Submit() (Outgoing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.session == nil:
		return Outgoing{}, domain.ErrNoSession
	case strings.TrimSpace(c.input) == "":
		return Outgoing{}, domain.ErrEmptyMessage
	case !c.session.Status.AcceptsMessages():
		return Outgoing{}, domain.ErrSendNotAllowed
	}

	holdsLock := false
	if c.inFlight != nil {
		if !c.inFlight.TryAcquire(1) {
			return Outgoing{}, domain.ErrSendInFlight
		}
		holdsLock = true
	}

	c.seq++
	msg := domain.Message{
		Text:      c.input,
		Sender:    domain.SenderUser,
		Timestamp: c.now(),
		LocalSeq:  c.seq,
	}
	c.session.Messages = append(c.session.Messages, msg)
	c.input = ""

	return Outgoing{
		PaperID:   c.session.PaperID,
		UserID:    c.session.UserID,
		Message:   msg,
		holdsLock: holdsLock,
	}, nil
}

// Deliver posts an optimistic message. A failure is recorded as
// ErrSendFailed and returned; the message stays in the transcript.
// A successful delivery clears a previous send failure.
func (c *Channel) Deliver(ctx context.Context, out Outgoing) error {
	if out.holdsLock {
		defer c.inFlight.Release(1)
	}

	logger := log.Ctx(ctx).With().
		Str(log.FieldPaperID, out.PaperID).
		Str(log.FieldUserID, out.UserID).
		Uint64(log.FieldSeq, out.Message.LocalSeq).
		Logger()

	resp, err := c.api.PostMessage(ctx, out.PaperID, domain.SendMessageRequest{
		UserID: out.UserID,
		Text:   out.Message.Text,
		Sender: domain.SenderUser,
	})

	var failure *domain.Condition
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("failed to send message")
		failure = domain.NewCondition(domain.ErrSendFailed, client.Describe(err), err)
	case resp == nil || !resp.Success:
		detail := "Failed to send message"
		if resp != nil && resp.Message != "" {
			detail = resp.Message
		}
		logger.Warn().Str("reason", detail).Msg("message rejected")
		failure = domain.NewCondition(domain.ErrSendFailed, detail, nil)
	default:
		logger.Debug().Msg("message sent")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if failure != nil {
		c.err = failure
		return failure
	}
	c.err = nil
	return nil
}

// Send is Submit followed by Deliver.
func (c *Channel) Send(ctx context.Context) error {
	out, err := c.Submit()
	if err != nil {
		return err
	}
	return c.Deliver(ctx, out)
}
