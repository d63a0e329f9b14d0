package session

import (
	"context"

	"github.com/weiawesome/paper-review-chat/chat-client/internal/client"
	"github.com/weiawesome/paper-review-chat/chat-client/internal/domain"
	"github.com/weiawesome/paper-review-chat/chat-client/internal/identity"
	"github.com/weiawesome/paper-review-chat/chat-client/internal/pagectx"
	"github.com/weiawesome/paper-review-chat/pkg/log"
)

const (
	// InitialCounterpartLabel is shown until the server names a reviewer.
	InitialCounterpartLabel = "Assigned Reviewer"
	// PlaceholderCounterpartLabel is used when a reviewer id arrives without a name.
	PlaceholderCounterpartLabel = "Dr. Smith (assigned reviewer)"
)

// Loader fetches the chat record of one (user, paper) pair.
type Loader struct {
	api      ChatAPI
	identity identity.Provider
}

// NewLoader creates a Loader.
func NewLoader(api ChatAPI, ids identity.Provider) *Loader {
	return &Loader{api: api, identity: ids}
}

// Load issues exactly one read for paperID and returns the seeded session.
// Without an identity it fails with ErrUnauthenticated and makes no request.
// Any failure yields a *domain.Condition and no session.
func (l *Loader) Load(ctx context.Context, paperID string) (*domain.ChatSession, error) {
	if paperID == "" {
		paperID = pagectx.DefaultPaperID
	}
	logger := log.Ctx(ctx).With().Str(log.FieldPaperID, paperID).Logger()

	userID, ok := l.identity.UserID()
	if !ok {
		logger.Debug().Msg("no identity, chat not loaded")
		return nil, domain.NewCondition(domain.ErrUnauthenticated, "User not logged in", nil)
	}
	logger = logger.With().Str(log.FieldUserID, userID).Logger()

	env, err := l.api.GetPaperChat(ctx, paperID, userID)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to fetch chat")
		return nil, domain.NewCondition(domain.ErrLoadFailed, client.Describe(err), err)
	}
	if !env.Success || env.Data == nil {
		detail := env.Message
		if detail == "" {
			detail = "Failed to fetch chat data"
		}
		logger.Warn().Str("reason", detail).Msg("chat load rejected")
		return nil, domain.NewCondition(domain.ErrLoadFailed, detail, nil)
	}

	data := env.Data
	messages := make([]domain.Message, 0, len(data.Messages))
	for _, m := range data.Messages {
		m.LocalSeq = 0
		messages = append(messages, m)
	}

	s := &domain.ChatSession{
		PaperID:          paperID,
		UserID:           userID,
		CounterpartID:    data.ReviewerID,
		CounterpartLabel: counterpartLabel(data.ReviewerID, data.ReviewerName),
		Status:           data.Status,
		Messages:         messages,
	}

	logger.Debug().
		Str(log.FieldChatStatus, string(s.Status)).
		Int("messages", len(s.Messages)).
		Msg("chat loaded")

	return s, nil
}

func counterpartLabel(id, name string) string {
	switch {
	case name != "":
		return name
	case id != "":
		return PlaceholderCounterpartLabel
	default:
		return InitialCounterpartLabel
	}
}
