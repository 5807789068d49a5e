package messages

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kisanbazar/kisanbazar-backend/pkg/db/models"
)

func setupMessagesTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := "file:" + name + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS messages (
  id TEXT PRIMARY KEY,
  sender_id TEXT NOT NULL,
  receiver_id TEXT NOT NULL,
  content TEXT NOT NULL,
  related_order_id TEXT,
  is_read INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedMessage(t *testing.T, repo *Repository, sender, receiver uuid.UUID, content string, at time.Time) *models.Message {
	t.Helper()
	m, err := repo.Create(context.Background(), &models.Message{
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    content,
		CreatedAt:  at,
	})
	require.NoError(t, err)
	return m
}

func TestMessageRepoListForUserOrdering(t *testing.T) {
	db := setupMessagesTestDB(t, "messages_ordering")
	repo := NewRepository(db)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	stranger := uuid.New()
	base := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	seedMessage(t, repo, alice, bob, "first", base)
	seedMessage(t, repo, bob, alice, "second", base.Add(time.Second))
	seedMessage(t, repo, stranger, uuid.New(), "unrelated", base.Add(2*time.Second))

	list, err := repo.ListForUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Content, "most recent first")
	assert.Equal(t, "first", list[1].Content)
}

func TestMessageRepoThreadChronological(t *testing.T) {
	db := setupMessagesTestDB(t, "messages_thread")
	repo := NewRepository(db)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()
	base := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	seedMessage(t, repo, alice, bob, "hi", base)
	seedMessage(t, repo, bob, alice, "hello", base.Add(time.Second))
	seedMessage(t, repo, alice, carol, "other thread", base.Add(2*time.Second))

	thread, err := repo.ListThread(ctx, alice, bob)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "hi", thread[0].Content, "oldest first")
	assert.Equal(t, "hello", thread[1].Content)
}

func TestMessageRepoMarkReadIdempotent(t *testing.T) {
	db := setupMessagesTestDB(t, "messages_markread")
	repo := NewRepository(db)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	base := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	seedMessage(t, repo, bob, alice, "one", base)
	seedMessage(t, repo, bob, alice, "two", base.Add(time.Second))
	// Outbound message must not be flipped by the caller's own mark-read.
	outbound := seedMessage(t, repo, alice, bob, "mine", base.Add(2*time.Second))

	flipped, err := repo.MarkRead(ctx, alice, bob)
	require.NoError(t, err)
	assert.EqualValues(t, 2, flipped)

	again, err := repo.MarkRead(ctx, alice, bob)
	require.NoError(t, err)
	assert.Zero(t, again, "second call flips nothing")

	var mine models.Message
	require.NoError(t, db.First(&mine, "id = ?", outbound.ID).Error)
	assert.False(t, mine.IsRead)
}
