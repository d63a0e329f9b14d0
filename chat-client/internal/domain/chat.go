package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Status governs whether a chat accepts new messages.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusDeclined  Status = "declined"
)

// AcceptsMessages reports whether new messages may be sent.
func (s Status) AcceptsMessages() bool {
	return s == StatusPending
}

// Sender identifies which side of the chat authored a message.
type Sender string

const (
	SenderUser        Sender = "user"
	SenderCounterpart Sender = "counterpart"
)

// UnmarshalJSON folds the reviewer-side aliases used by the backend onto
// SenderCounterpart. Unknown values are kept verbatim.
func (s *Sender) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "user":
		*s = SenderUser
	case "counterpart", "evaluator", "reviewer":
		*s = SenderCounterpart
	default:
		*s = Sender(raw)
	}
	return nil
}

// Message is a single chat utterance.
type Message struct {
	ID        string    `json:"_id,omitempty"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`

	// LocalSeq numbers optimistic appends within one session, starting at 1.
	// Zero for messages that came from the server.
	LocalSeq uint64 `json:"-"`
}

// FromUser reports whether the message was authored by the local user.
func (m Message) FromUser() bool {
	return m.Sender == SenderUser
}

// UnmarshalJSON accepts the id as either `_id` or `id`. The timestamp may be
// an RFC 3339 string or epoch milliseconds; anything else leaves it zero.
func (m *Message) UnmarshalJSON(data []byte) error {
	var aux struct {
		MongoID   string          `json:"_id"`
		ID        string          `json:"id"`
		Text      string          `json:"text"`
		Sender    Sender          `json:"sender"`
		Timestamp json.RawMessage `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	m.ID = aux.MongoID
	if m.ID == "" {
		m.ID = aux.ID
	}
	m.Text = aux.Text
	m.Sender = aux.Sender
	m.Timestamp = parseTimestamp(aux.Timestamp)
	m.LocalSeq = 0
	return nil
}

func parseTimestamp(raw json.RawMessage) time.Time {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return ts
		}
		return time.Time{}
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil && ms > 0 {
		return time.UnixMilli(ms)
	}
	return time.Time{}
}

// ChatSession is the conversation state held for one (user, paper) pair.
type ChatSession struct {
	PaperID          string
	UserID           string
	CounterpartID    string
	CounterpartLabel string
	Status           Status
	Messages         []Message
}

// CloneMessages returns a copy of the transcript safe to hand out.
func (s *ChatSession) CloneMessages() []Message {
	out := make([]Message, len(s.Messages))
	copy(out, s.Messages)
	return out
}
