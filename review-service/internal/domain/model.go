package domain

import (
	"time"

	"gorm.io/gorm"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           string         `gorm:"type:varchar(36);primaryKey"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string         `gorm:"type:varchar(100)"`
	PasswordHash string         `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts UserModel to domain User.
func (m *UserModel) ToDomain() *User {
	return &User{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// UserToModel converts domain User to UserModel.
func UserToModel(u *User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// PaperChatModel is one row per (paper, user) pair.
type PaperChatModel struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	PaperID      string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_paper_chats_paper_user"`
	UserID       string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_paper_chats_paper_user"`
	ReviewerID   string    `gorm:"type:varchar(64)"`
	ReviewerName string    `gorm:"type:varchar(100)"`
	Status       string    `gorm:"type:varchar(16);not null;default:pending"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (PaperChatModel) TableName() string {
	return "paper_chats"
}

// PaperChatMessageModel stores messages. Seq is the display order.
type PaperChatMessageModel struct {
	Seq       uint64    `gorm:"primaryKey;autoIncrement"`
	ID        string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	ChatID    string    `gorm:"type:varchar(36);index;not null"`
	Text      string    `gorm:"type:text;not null"`
	Sender    string    `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (PaperChatMessageModel) TableName() string {
	return "paper_chat_messages"
}

// ToDomain converts a chat row and its messages to a PaperChat.
func (m *PaperChatModel) ToDomain(messages []PaperChatMessageModel) *PaperChat {
	chat := &PaperChat{
		ID:           m.ID,
		PaperID:      m.PaperID,
		UserID:       m.UserID,
		ReviewerID:   m.ReviewerID,
		ReviewerName: m.ReviewerName,
		Status:       ChatStatus(m.Status),
		Messages:     make([]ChatMessage, 0, len(messages)),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	for i := range messages {
		chat.Messages = append(chat.Messages, messages[i].ToDomain())
	}
	return chat
}

// ToDomain converts a message row.
func (m *PaperChatMessageModel) ToDomain() ChatMessage {
	return ChatMessage{
		ID:        m.ID,
		Text:      m.Text,
		Sender:    m.Sender,
		Timestamp: m.CreatedAt,
	}
}
