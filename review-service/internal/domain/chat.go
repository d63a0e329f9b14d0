package domain

import (
	"strings"
	"time"
)

// ChatStatus governs whether a chat accepts new messages.
type ChatStatus string

const (
	StatusPending   ChatStatus = "pending"
	StatusCompleted ChatStatus = "completed"
	StatusDeclined  ChatStatus = "declined"
)

// Valid reports whether s is a known status.
func (s ChatStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusDeclined:
		return true
	}
	return false
}

// Open reports whether messages may still be posted.
func (s ChatStatus) Open() bool {
	return s == StatusPending
}

// Sender values as stored and sent on the wire.
const (
	SenderUser      = "user"
	SenderEvaluator = "evaluator"
)

// ChatMessage is a stored chat message.
type ChatMessage struct {
	ID        string    `json:"_id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// PaperChat is the conversation between one user and the reviewer of one paper.
type PaperChat struct {
	ID           string        `json:"_id"`
	PaperID      string        `json:"paperId"`
	UserID       string        `json:"userId"`
	ReviewerID   string        `json:"reviewer_id,omitempty"`
	ReviewerName string        `json:"reviewer_name,omitempty"`
	Status       ChatStatus    `json:"status"`
	Messages     []ChatMessage `json:"messages"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// AssignedTo reports whether reviewerID is the chat's reviewer. A chat
// without a reviewer is assigned to nobody.
func (c *PaperChat) AssignedTo(reviewerID string) bool {
	return c.ReviewerID != "" && c.ReviewerID == reviewerID
}

// PostMessageRequest is the body of POST .../chat/message.
type PostMessageRequest struct {
	UserID string `json:"userId" binding:"required"`
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

// ReplyRequest is the body of POST .../chat/reply.
type ReplyRequest struct {
	UserID string `json:"userId" binding:"required"`
	Text   string `json:"text"`
}

// UpdateStatusRequest is the body of PUT .../chat/status.
type UpdateStatusRequest struct {
	UserID string     `json:"userId" binding:"required"`
	Status ChatStatus `json:"status" binding:"required"`
}

// Blank reports whether text has no visible content.
func Blank(text string) bool {
	return strings.TrimSpace(text) == ""
}
