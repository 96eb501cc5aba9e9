package service

import (
	"context"
	"fmt"

	"farm-assist-go/internal/model"
	"farm-assist-go/internal/repository"
)

// ConversationService 定义了对话业务逻辑的接口。
type ConversationService interface {
	GetHistory(ctx context.Context, userID uint) ([]model.ChatMessage, error)
}

type conversationService struct {
	repo repository.ConversationRepository
}

// NewConversationService 创建一个新的 ConversationService。
func NewConversationService(repo repository.ConversationRepository) ConversationService {
	return &conversationService{repo: repo}
}

// GetHistory 返回用户的完整对话快照，按时间升序。
func (s *conversationService) GetHistory(ctx context.Context, userID uint) ([]model.ChatMessage, error) {
	msgs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}
	return msgs, nil
}
