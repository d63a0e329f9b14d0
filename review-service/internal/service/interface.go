package service

import (
	"context"
	"errors"

	"github.com/weiawesome/paper-review-chat/review-service/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyText          = errors.New("message text is required")
	ErrChatClosed         = errors.New("chat is not accepting messages")
	ErrChatNotFound       = errors.New("chat not found")
	ErrInvalidStatus      = errors.New("invalid chat status")
	ErrNotReviewer        = errors.New("caller is not the chat's reviewer")
)

// ChatService manages paper chats.
type ChatService interface {
	// GetChat returns the chat of (paperID, userID), opening a pending one
	// with the default reviewer on first access.
	GetChat(ctx context.Context, paperID, userID string) (*domain.PaperChat, error)
	// PostMessage appends a user message to a pending chat.
	PostMessage(ctx context.Context, paperID, userID, text string) (*domain.ChatMessage, error)
	// Reply appends a reviewer message to a pending chat. reviewerID must be
	// the chat's assigned reviewer.
	Reply(ctx context.Context, paperID, userID, reviewerID, text string) (*domain.ChatMessage, error)
	// UpdateStatus moves the chat to status. reviewerID must be the chat's
	// assigned reviewer.
	UpdateStatus(ctx context.Context, paperID, userID, reviewerID string, status domain.ChatStatus) (*domain.PaperChat, error)
}

// AuthService registers and logs in users.
type AuthService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResult, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResult, error)
}

// TokenIssuer is satisfied by *jwt.Manager.
type TokenIssuer interface {
	GenerateAccessToken(userID, email, name string) (string, int64, error)
}
