package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/weiawesome/paper-review-chat/review-service/internal/config"
	"github.com/weiawesome/paper-review-chat/review-service/internal/domain"
)

type RedisChatCache struct {
	client *redis.Client
	prefix string
}

func NewRedisChatCache(cfg config.RedisConfig, prefix string) (*RedisChatCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisChatCache{
		client: client,
		prefix: prefix,
	}, nil
}

func (c *RedisChatCache) BuildKey(paperID, userID string) string {
	return fmt.Sprintf("%s:chat:%s:%s", c.prefix, paperID, userID)
}

func (c *RedisChatCache) Get(ctx context.Context, key string) (*domain.PaperChat, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var chat domain.PaperChat
	if err := json.Unmarshal(data, &chat); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}

	return &chat, nil
}

func (c *RedisChatCache) Set(ctx context.Context, key string, chat *domain.PaperChat, ttl time.Duration) error {
	data, err := json.Marshal(chat)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}

	return nil
}

func (c *RedisChatCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

func (c *RedisChatCache) Close() error {
	return c.client.Close()
}
