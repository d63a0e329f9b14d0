package cache

import (
	"context"
	"errors"
	"time"

	"github.com/weiawesome/paper-review-chat/review-service/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// ChatCache stores rendered paper chats keyed by (paper, user).
type ChatCache interface {
	Get(ctx context.Context, key string) (*domain.PaperChat, error)
	Set(ctx context.Context, key string, chat *domain.PaperChat, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	BuildKey(paperID, userID string) string
	Close() error
}
