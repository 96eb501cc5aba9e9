package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"farm-assist-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conversationBackends(t *testing.T) map[string]ConversationRepository {
	_, rdb := newTestRedis(t)
	return map[string]ConversationRepository{
		ConversationStoreDatabase: NewConversationRepository(newTestDB(t)),
		ConversationStoreRedis:    NewRedisConversationRepository(rdb),
		ConversationStoreMemory:   NewMemoryConversationRepository(),
	}
}

func TestConversationAppendAndList(t *testing.T) {
	for name, repo := range conversationBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 3; i++ {
				u := &model.ChatMessage{UserID: 1, Role: model.RoleUser, Content: fmt.Sprintf("q%d", i)}
				require.NoError(t, repo.Append(ctx, u))
				assert.NotZero(t, u.ID)
				assert.False(t, u.CreatedAt.IsZero())
				a := &model.ChatMessage{UserID: 1, Role: model.RoleAssistant, Content: fmt.Sprintf("a%d", i)}
				require.NoError(t, repo.Append(ctx, a))
				assert.Greater(t, a.ID, u.ID)
			}
			require.NoError(t, repo.Append(ctx, &model.ChatMessage{UserID: 2, Role: model.RoleUser, Content: "other"}))

			msgs, err := repo.ListByUser(ctx, 1)
			require.NoError(t, err)
			require.Len(t, msgs, 6)
			for i, m := range msgs {
				if i%2 == 0 {
					assert.Equal(t, model.RoleUser, m.Role)
					assert.Equal(t, fmt.Sprintf("q%d", i/2), m.Content)
				} else {
					assert.Equal(t, model.RoleAssistant, m.Role)
					assert.Equal(t, fmt.Sprintf("a%d", i/2), m.Content)
				}
				if i > 0 {
					assert.False(t, m.CreatedAt.Before(msgs[i-1].CreatedAt))
				}
			}

			empty, err := repo.ListByUser(ctx, 99)
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	}
}

func TestConversationOrderTieBrokenByID(t *testing.T) {
	for name, repo := range conversationBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
			later := &model.ChatMessage{UserID: 7, Role: model.RoleUser, Content: "later", CreatedAt: at.Add(time.Minute)}
			first := &model.ChatMessage{UserID: 7, Role: model.RoleUser, Content: "first", CreatedAt: at}
			second := &model.ChatMessage{UserID: 7, Role: model.RoleAssistant, Content: "second", CreatedAt: at}
			require.NoError(t, repo.Append(ctx, later))
			require.NoError(t, repo.Append(ctx, first))
			require.NoError(t, repo.Append(ctx, second))

			msgs, err := repo.ListByUser(ctx, 7)
			require.NoError(t, err)
			require.Len(t, msgs, 3)
			assert.Equal(t, []string{"first", "second", "later"}, []string{msgs[0].Content, msgs[1].Content, msgs[2].Content})
		})
	}
}

func TestMemoryConversationConcurrentAppend(t *testing.T) {
	repo := NewMemoryConversationRepository()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Append(ctx, &model.ChatMessage{UserID: 3, Role: model.RoleUser, Content: fmt.Sprint(i)})
		}(i)
	}
	wg.Wait()

	msgs, err := repo.ListByUser(ctx, 3)
	require.NoError(t, err)
	require.Len(t, msgs, 50)
	seen := map[uint]bool{}
	for _, m := range msgs {
		assert.False(t, seen[m.ID], "duplicate id %d", m.ID)
		seen[m.ID] = true
	}
}

func TestMemoryConversationListReturnsCopy(t *testing.T) {
	repo := NewMemoryConversationRepository()
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, &model.ChatMessage{UserID: 1, Role: model.RoleUser, Content: "q"}))

	msgs, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	msgs[0].Content = "changed"

	again, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "q", again[0].Content)
}
