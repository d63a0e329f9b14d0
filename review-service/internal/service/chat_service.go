package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/weiawesome/paper-review-chat/pkg/log"
	"github.com/weiawesome/paper-review-chat/pkg/metrics"
	"github.com/weiawesome/paper-review-chat/pkg/pubsub"
	"github.com/weiawesome/paper-review-chat/review-service/internal/audit"
	"github.com/weiawesome/paper-review-chat/review-service/internal/cache"
	"github.com/weiawesome/paper-review-chat/review-service/internal/domain"
	"github.com/weiawesome/paper-review-chat/review-service/internal/repository"
)

// Reviewer identifies who new chats are assigned to.
type Reviewer struct {
	ID   string
	Name string
}

type chatServiceImpl struct {
	repo     repository.ChatRepository
	cache    cache.ChatCache
	cacheTTL time.Duration
	reviewer Reviewer
	events   pubsub.Publisher
	sf       singleflight.Group

	// fills tracks in-flight cache fills so a write can stop them from
	// caching what they read before it.
	fillMu sync.Mutex
	fills  map[string]*cacheFill
}

type cacheFill struct {
	stale bool
}

func NewChatService(
	repo repository.ChatRepository,
	chatCache cache.ChatCache,
	cacheTTL time.Duration,
	reviewer Reviewer,
	events pubsub.Publisher,
) ChatService {
	return &chatServiceImpl{
		repo:     repo,
		cache:    chatCache,
		cacheTTL: cacheTTL,
		reviewer: reviewer,
		events:   events,
		fills:    make(map[string]*cacheFill),
	}
}

func (s *chatServiceImpl) GetChat(ctx context.Context, paperID, userID string) (*domain.PaperChat, error) {
	l := log.Ctx(ctx)
	cacheKey := s.cache.BuildKey(paperID, userID)

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		metrics.ChatLoads.WithLabelValues("hit").Inc()
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		l.Warn().Err(err).Str("key", cacheKey).Msg("cache get error")
	}

	// Use singleflight so concurrent first loads open the chat only once
	result, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		fill := s.startFill(cacheKey)
		chat, err := s.loadOrOpen(ctx, paperID, userID)
		s.finishFill(ctx, cacheKey, fill, chat, err)
		return chat, err
	})
	if err != nil {
		metrics.ChatLoads.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ChatLoads.WithLabelValues("miss").Inc()

	chat, ok := result.(*domain.PaperChat)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from singleflight")
	}
	return chat, nil
}

func (s *chatServiceImpl) startFill(key string) *cacheFill {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	fill := &cacheFill{}
	s.fills[key] = fill
	return fill
}

// finishFill caches the loaded chat unless a write invalidated the key
// while it was being read.
func (s *chatServiceImpl) finishFill(ctx context.Context, key string, fill *cacheFill, chat *domain.PaperChat, loadErr error) {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	if s.fills[key] == fill {
		delete(s.fills, key)
	}
	if loadErr != nil || fill.stale {
		return
	}
	if err := s.cache.Set(ctx, key, chat, s.cacheTTL); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str("key", key).Msg("cache set error")
	}
}

func (s *chatServiceImpl) loadOrOpen(ctx context.Context, paperID, userID string) (*domain.PaperChat, error) {
	chat, err := s.repo.Get(ctx, paperID, userID)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, repository.ErrChatNotFound) {
		return nil, fmt.Errorf("failed to get chat from repository: %w", err)
	}

	chat = &domain.PaperChat{
		PaperID:      paperID,
		UserID:       userID,
		ReviewerID:   s.reviewer.ID,
		ReviewerName: s.reviewer.Name,
		Status:       domain.StatusPending,
		Messages:     []domain.ChatMessage{},
	}
	if err := s.repo.Create(ctx, chat); err != nil {
		if errors.Is(err, repository.ErrChatExists) {
			// Another replica opened it first.
			return s.repo.Get(ctx, paperID, userID)
		}
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}

	audit.LogWithDetail(ctx, audit.ActionChatOpened, userID, paperID, "chat opened")
	return chat, nil
}

func (s *chatServiceImpl) PostMessage(ctx context.Context, paperID, userID, text string) (*domain.ChatMessage, error) {
	msg, err := s.appendMessage(ctx, paperID, userID, userID, text, domain.SenderUser)
	if err != nil {
		return nil, err
	}
	audit.LogWithDetail(ctx, audit.ActionMessagePosted, userID, paperID, "message posted")
	s.publishMessage(ctx, pubsub.EventMessagePosted, paperID, userID, msg)
	return msg, nil
}

func (s *chatServiceImpl) Reply(ctx context.Context, paperID, userID, reviewerID, text string) (*domain.ChatMessage, error) {
	msg, err := s.appendMessage(ctx, paperID, userID, reviewerID, text, domain.SenderEvaluator)
	if err != nil {
		return nil, err
	}
	audit.LogWithDetail(ctx, audit.ActionReplyPosted, reviewerID, paperID, "reviewer replied to "+userID)
	s.publishMessage(ctx, pubsub.EventReplyPosted, paperID, userID, msg)
	return msg, nil
}

// appendMessage stores text in the chat of (paperID, userID). actorID is the
// authenticated caller; evaluator messages require it to be the chat's reviewer.
func (s *chatServiceImpl) appendMessage(ctx context.Context, paperID, userID, actorID, text, sender string) (*domain.ChatMessage, error) {
	l := log.Ctx(ctx).With().
		Str(log.FieldPaperID, paperID).
		Str(log.FieldUserID, userID).
		Logger()

	if domain.Blank(text) {
		metrics.MessagesRejected.WithLabelValues("empty").Inc()
		return nil, ErrEmptyText
	}

	// Status is checked against the store, never the cache.
	chat, err := s.repo.Get(ctx, paperID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrChatNotFound) {
			metrics.MessagesRejected.WithLabelValues("not_found").Inc()
			return nil, ErrChatNotFound
		}
		return nil, fmt.Errorf("failed to get chat from repository: %w", err)
	}
	if sender == domain.SenderEvaluator && !chat.AssignedTo(actorID) {
		metrics.MessagesRejected.WithLabelValues("forbidden").Inc()
		return nil, ErrNotReviewer
	}
	if !chat.Status.Open() {
		metrics.MessagesRejected.WithLabelValues("closed").Inc()
		return nil, fmt.Errorf("%w: chat is %s", ErrChatClosed, chat.Status)
	}

	msg := &domain.ChatMessage{Text: text, Sender: sender}
	if err := s.repo.AppendMessage(ctx, chat.ID, msg); err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}
	metrics.MessagesPosted.WithLabelValues(sender).Inc()

	s.invalidate(ctx, paperID, userID)
	l.Debug().Str("sender", sender).Str("message_id", msg.ID).Msg("message stored")
	return msg, nil
}

func (s *chatServiceImpl) UpdateStatus(ctx context.Context, paperID, userID, reviewerID string, status domain.ChatStatus) (*domain.PaperChat, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	chat, err := s.repo.Get(ctx, paperID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrChatNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, fmt.Errorf("failed to get chat from repository: %w", err)
	}
	if !chat.AssignedTo(reviewerID) {
		return nil, ErrNotReviewer
	}

	if chat.Status != status {
		if err := s.repo.UpdateStatus(ctx, chat.ID, status); err != nil {
			return nil, fmt.Errorf("failed to update status: %w", err)
		}
		audit.LogWithDetail(ctx, audit.ActionStatusChanged, reviewerID, string(status), "chat status changed for "+userID)
		s.publish(ctx, pubsub.EventStatusChanged, paperID, userID, pubsub.StatusPayload{
			From: string(chat.Status),
			To:   string(status),
		})
		chat.Status = status
		s.invalidate(ctx, paperID, userID)
	}
	return chat, nil
}

func (s *chatServiceImpl) invalidate(ctx context.Context, paperID, userID string) {
	key := s.cache.BuildKey(paperID, userID)

	s.fillMu.Lock()
	if fill, ok := s.fills[key]; ok {
		fill.stale = true
	}
	s.fillMu.Unlock()

	if err := s.cache.Delete(ctx, key); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str("key", key).Msg("cache delete error")
	}
}

func (s *chatServiceImpl) publishMessage(ctx context.Context, eventType, paperID, userID string, msg *domain.ChatMessage) {
	s.publish(ctx, eventType, paperID, userID, pubsub.MessagePayload{
		MessageID: msg.ID,
		Sender:    msg.Sender,
		Text:      msg.Text,
	})
}

// publish is best effort; the write has already been committed.
func (s *chatServiceImpl) publish(ctx context.Context, eventType, paperID, userID string, payload interface{}) {
	l := log.Ctx(ctx)
	event, err := pubsub.NewEvent(eventType, paperID, userID, payload)
	if err != nil {
		l.Error().Err(err).Str("event_type", eventType).Msg("failed to build event")
		return
	}
	if err := s.events.Publish(ctx, pubsub.PaperEventsChannel(paperID), event); err != nil {
		l.Warn().Err(err).Str("event_type", eventType).Str(log.FieldPaperID, paperID).Msg("failed to publish event")
	}
}
