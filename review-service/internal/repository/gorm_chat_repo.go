package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/weiawesome/paper-review-chat/pkg/idgen"
	"github.com/weiawesome/paper-review-chat/review-service/internal/domain"
)

// GormChatRepository implements ChatRepository using GORM.
type GormChatRepository struct {
	db  *gorm.DB
	ids idgen.Generator
}

// NewGormChatRepository creates a new GORM-based chat repository. ids mints
// chat and message IDs.
func NewGormChatRepository(db *gorm.DB, ids idgen.Generator) *GormChatRepository {
	return &GormChatRepository{db: db, ids: ids}
}

func (r *GormChatRepository) Get(ctx context.Context, paperID, userID string) (*domain.PaperChat, error) {
	db := r.db.WithContext(ctx)

	var chat domain.PaperChatModel
	if err := db.First(&chat, "paper_id = ? AND user_id = ?", paperID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}

	var messages []domain.PaperChatMessageModel
	if err := db.Where("chat_id = ?", chat.ID).Order("seq ASC").Find(&messages).Error; err != nil {
		return nil, err
	}

	return chat.ToDomain(messages), nil
}

func (r *GormChatRepository) Create(ctx context.Context, chat *domain.PaperChat) error {
	id, err := r.ids.Generate()
	if err != nil {
		return err
	}
	chat.ID = id
	if chat.Status == "" {
		chat.Status = domain.StatusPending
	}

	model := &domain.PaperChatModel{
		ID:           chat.ID,
		PaperID:      chat.PaperID,
		UserID:       chat.UserID,
		ReviewerID:   chat.ReviewerID,
		ReviewerName: chat.ReviewerName,
		Status:       string(chat.Status),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrChatExists
		}
		return err
	}

	chat.CreatedAt = model.CreatedAt
	chat.UpdatedAt = model.UpdatedAt
	if chat.Messages == nil {
		chat.Messages = []domain.ChatMessage{}
	}
	return nil
}

func (r *GormChatRepository) AppendMessage(ctx context.Context, chatID string, msg *domain.ChatMessage) error {
	id, err := r.ids.Generate()
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.PaperChatModel{}).Where("id = ?", chatID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrChatNotFound
		}

		model := &domain.PaperChatMessageModel{
			ID:     id,
			ChatID: chatID,
			Text:   msg.Text,
			Sender: msg.Sender,
		}
		if err := tx.Create(model).Error; err != nil {
			return err
		}

		// Touch the chat so updatedAt tracks the last message.
		if err := tx.Model(&domain.PaperChatModel{}).Where("id = ?", chatID).
			Update("updated_at", model.CreatedAt).Error; err != nil {
			return err
		}

		msg.ID = model.ID
		msg.Timestamp = model.CreatedAt
		return nil
	})
}

func (r *GormChatRepository) UpdateStatus(ctx context.Context, chatID string, status domain.ChatStatus) error {
	result := r.db.WithContext(ctx).Model(&domain.PaperChatModel{}).
		Where("id = ?", chatID).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}
	return nil
}
