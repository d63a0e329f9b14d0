package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/weiawesome/paper-review-chat/review-service/internal/domain"
)

// NopChatCache is used when caching is disabled. Every read misses.
type NopChatCache struct {
	prefix string
}

func NewNopChatCache(prefix string) *NopChatCache {
	return &NopChatCache{prefix: prefix}
}

func (c *NopChatCache) BuildKey(paperID, userID string) string {
	return fmt.Sprintf("%s:chat:%s:%s", c.prefix, paperID, userID)
}

func (c *NopChatCache) Get(context.Context, string) (*domain.PaperChat, error) {
	return nil, ErrCacheMiss
}

func (c *NopChatCache) Set(context.Context, string, *domain.PaperChat, time.Duration) error {
	return nil
}

func (c *NopChatCache) Delete(context.Context, string) error {
	return nil
}

func (c *NopChatCache) Close() error {
	return nil
}
