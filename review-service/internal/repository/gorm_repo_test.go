package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/weiawesome/paper-review-chat/pkg/database"
	"github.com/weiawesome/paper-review-chat/pkg/idgen"
	"github.com/weiawesome/paper-review-chat/review-service/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.New(&database.Config{
		Driver:       "sqlite",
		FilePath:     filepath.Join(t.TempDir(), "review.db"),
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db,
		&domain.UserModel{},
		&domain.PaperChatModel{},
		&domain.PaperChatMessageModel{},
	))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestChatLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewGormChatRepository(newTestDB(t), idgen.NewULIDGenerator())

	_, err := repo.Get(ctx, "PRP01", "u1")
	assert.ErrorIs(t, err, ErrChatNotFound)

	chat := &domain.PaperChat{PaperID: "PRP01", UserID: "u1", ReviewerID: "r1", ReviewerName: "Dr. Rao"}
	require.NoError(t, repo.Create(ctx, chat))
	assert.NotEmpty(t, chat.ID)
	assert.Equal(t, domain.StatusPending, chat.Status)

	dup := &domain.PaperChat{PaperID: "PRP01", UserID: "u1"}
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrChatExists)

	for _, m := range []domain.ChatMessage{
		{Text: "first", Sender: domain.SenderUser},
		{Text: "second", Sender: domain.SenderEvaluator},
		{Text: "third", Sender: domain.SenderUser},
	} {
		msg := m
		require.NoError(t, repo.AppendMessage(ctx, chat.ID, &msg))
		_, err := ulid.ParseStrict(msg.ID)
		assert.NoError(t, err)
		assert.False(t, msg.Timestamp.IsZero())
	}

	got, err := repo.Get(ctx, "PRP01", "u1")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Rao", got.ReviewerName)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "first", got.Messages[0].Text)
	assert.Equal(t, domain.SenderEvaluator, got.Messages[1].Sender)
	assert.Equal(t, "third", got.Messages[2].Text)

	require.NoError(t, repo.UpdateStatus(ctx, chat.ID, domain.StatusCompleted))
	got, err = repo.Get(ctx, "PRP01", "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)

	other, err := repo.Get(ctx, "PRP01", "u2")
	assert.Nil(t, other)
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestAppendToMissingChat(t *testing.T) {
	repo := NewGormChatRepository(newTestDB(t), idgen.NewUUIDGenerator())
	msg := &domain.ChatMessage{Text: "hi", Sender: domain.SenderUser}
	assert.ErrorIs(t, repo.AppendMessage(context.Background(), "nope", msg), ErrChatNotFound)
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), "nope", domain.StatusDeclined), ErrChatNotFound)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(newTestDB(t), idgen.NewUUIDGenerator())

	u := &domain.User{Email: " Ana@Example.com ", Name: "Ana", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "ana@example.com", u.Email)

	assert.ErrorIs(t, repo.Create(ctx, &domain.User{Email: "ana@example.com", PasswordHash: "x"}), ErrEmailExists)

	byEmail, err := repo.GetByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", byID.Name)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
