package service

import (
	"context"
	"sync"
	"testing"

	"farm-assist-go/internal/model"
	"farm-assist-go/internal/repository"
	"farm-assist-go/pkg/database"
	"farm-assist-go/pkg/llm"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeLLM struct {
	mu       sync.Mutex
	answer   string
	err      error
	onCall   func(ctx context.Context)
	calls    int
	messages [][]llm.Message
	params   []*llm.GenerationParams
}

func (f *fakeLLM) Chat(ctx context.Context, messages []llm.Message, params *llm.GenerationParams) (string, error) {
	f.mu.Lock()
	f.calls++
	f.messages = append(f.messages, append([]llm.Message(nil), messages...))
	f.params = append(f.params, params)
	onCall := f.onCall
	f.mu.Unlock()
	if onCall != nil {
		onCall(ctx)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// countingStore 统计存储调用次数，并可注入失败。
type countingStore struct {
	inner repository.ConversationRepository

	mu         sync.Mutex
	appends    int
	lists      int
	failAppend int
	appendErr  error
	listErr    error
}

func newCountingStore() *countingStore {
	return &countingStore{inner: repository.NewMemoryConversationRepository()}
}

func (s *countingStore) Append(ctx context.Context, msg *model.ChatMessage) error {
	s.mu.Lock()
	s.appends++
	n := s.appends
	s.mu.Unlock()
	if s.appendErr != nil && (s.failAppend == 0 || s.failAppend == n) {
		return s.appendErr
	}
	return s.inner.Append(ctx, msg)
}

func (s *countingStore) ListByUser(ctx context.Context, userID uint) ([]model.ChatMessage, error) {
	s.mu.Lock()
	s.lists++
	s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.inner.ListByUser(ctx, userID)
}

func (s *countingStore) calls() (appends, lists int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appends, s.lists
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.AssistantEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event model.AssistantEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) all() []model.AssistantEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.AssistantEvent(nil), p.events...)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db,
		&model.User{}, &model.ChatMessage{}, &model.SoilReading{},
		&model.WaterTip{}, &model.PaddyInfo{}, &model.FarmingTip{},
	))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func uintPtr(v uint) *uint { return &v }
