// Package session holds the chat session core: the loader that seeds a
// conversation and the channel that sends into it.
package session

import (
	"context"

	"github.com/weiawesome/paper-review-chat/chat-client/internal/domain"
)

// ChatAPI is the part of the backend contract the core depends on.
type ChatAPI interface {
	GetPaperChat(ctx context.Context, paperID, userID string) (*domain.PaperChatEnvelope, error)
	PostMessage(ctx context.Context, paperID string, req domain.SendMessageRequest) (*domain.SendMessageResponse, error)
}
