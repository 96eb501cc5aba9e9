package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"farm-assist-go/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ConversationRepository 是只追加的对话存储，按用户分区。
type ConversationRepository interface {
	// Append 写入一条消息，并回填 ID 和 CreatedAt。
	Append(ctx context.Context, msg *model.ChatMessage) error
	// ListByUser 返回该用户的全部消息，按 (CreatedAt, ID) 升序。
	ListByUser(ctx context.Context, userID uint) ([]model.ChatMessage, error)
}

// 对话存储后端
const (
	ConversationStoreDatabase = "database"
	ConversationStoreRedis    = "redis"
	ConversationStoreMemory   = "memory"
)

// sortMessages 显式排序，不依赖底层存储的返回顺序。
func sortMessages(msgs []model.ChatMessage) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		}
		return msgs[i].ID < msgs[j].ID
	})
}

// ---- gorm ----

type gormConversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository 创建基于数据库表 chat_messages 的存储。
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &gormConversationRepository{db: db}
}

func (r *gormConversationRepository) Append(ctx context.Context, msg *model.ChatMessage) error {
	msg.ID = 0
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	return nil
}

func (r *gormConversationRepository) ListByUser(ctx context.Context, userID uint) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	sortMessages(msgs)
	return msgs, nil
}

// ---- redis ----

const (
	conversationSeqKey = "conversation:message:seq"
	conversationKeyFmt = "conversation:user:%d"
)

type redisConversationRepository struct {
	redisClient *redis.Client
}

// NewRedisConversationRepository 创建基于 Redis 列表的存储，每个用户一个列表。
func NewRedisConversationRepository(redisClient *redis.Client) ConversationRepository {
	return &redisConversationRepository{redisClient: redisClient}
}

func (r *redisConversationRepository) Append(ctx context.Context, msg *model.ChatMessage) error {
	id, err := r.redisClient.Incr(ctx, conversationSeqKey).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate message id: %w", err)
	}
	msg.ID = uint(id)
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal chat message: %w", err)
	}
	if err := r.redisClient.RPush(ctx, fmt.Sprintf(conversationKeyFmt, msg.UserID), data).Err(); err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	return nil
}

func (r *redisConversationRepository) ListByUser(ctx context.Context, userID uint) ([]model.ChatMessage, error) {
	items, err := r.redisClient.LRange(ctx, fmt.Sprintf(conversationKeyFmt, userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation history: %w", err)
	}
	msgs := make([]model.ChatMessage, 0, len(items))
	for _, item := range items {
		var m model.ChatMessage
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chat message: %w", err)
		}
		msgs = append(msgs, m)
	}
	sortMessages(msgs)
	return msgs, nil
}

// ---- memory ----

type memoryConversationRepository struct {
	mu     sync.RWMutex
	nextID uint
	byUser map[uint][]model.ChatMessage
}

// NewMemoryConversationRepository 创建进程内存储，用于本地开发和测试。
func NewMemoryConversationRepository() ConversationRepository {
	return &memoryConversationRepository{byUser: make(map[uint][]model.ChatMessage)}
}

func (r *memoryConversationRepository) Append(ctx context.Context, msg *model.ChatMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	msg.ID = r.nextID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	r.byUser[msg.UserID] = append(r.byUser[msg.UserID], *msg)
	return nil
}

func (r *memoryConversationRepository) ListByUser(ctx context.Context, userID uint) ([]model.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	msgs := make([]model.ChatMessage, len(r.byUser[userID]))
	copy(msgs, r.byUser[userID])
	r.mu.RUnlock()
	sortMessages(msgs)
	return msgs, nil
}
