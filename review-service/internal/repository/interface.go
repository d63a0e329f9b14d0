package repository

import (
	"context"
	"errors"

	"github.com/weiawesome/paper-review-chat/review-service/internal/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
	ErrChatNotFound = errors.New("chat not found")
	ErrChatExists   = errors.New("chat already exists")
)

// UserRepository defines the interface for account persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ChatRepository defines the interface for paper chat persistence.
type ChatRepository interface {
	// Get returns the chat of (paperID, userID) with its messages in
	// insertion order.
	Get(ctx context.Context, paperID, userID string) (*domain.PaperChat, error)
	// Create stores a new chat without messages. It fails with ErrChatExists
	// when the pair already has one.
	Create(ctx context.Context, chat *domain.PaperChat) error
	// AppendMessage stores msg at the end of the chat, filling its id and time.
	AppendMessage(ctx context.Context, chatID string, msg *domain.ChatMessage) error
	UpdateStatus(ctx context.Context, chatID string, status domain.ChatStatus) error
}
