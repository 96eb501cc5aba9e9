// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"farm-assist-go/internal/model"
	"farm-assist-go/internal/repository"
	"farm-assist-go/pkg/advisor"
	"farm-assist-go/pkg/events"
	"farm-assist-go/pkg/llm"
	"farm-assist-go/pkg/log"
)

// 模型调用的固定生成参数。
const (
	chatTemperature = 0.7
	chatMaxTokens   = 500
)

// ReasonAnonymous 标记未登录用户走离线回答。
const ReasonAnonymous = "anonymous"

// FallbackNotice 是使用兜底回答时返回给客户端的提示。
const FallbackNotice = "Used fallback response due to API error"

// ChatResult 是一次问答的结果。匿名请求的消息不落库，ID 为 0。
type ChatResult struct {
	UserMessage      model.ChatMessage `json:"userMessage"`
	AssistantMessage model.ChatMessage `json:"assistantMessage"`
	UsedFallback     bool              `json:"usedFallback"`
	Topic            advisor.Topic     `json:"topic"`
	FallbackReason   string            `json:"-"`
}

// ChatService 定义了聊天操作的接口。
type ChatService interface {
	// Handle 处理一条问题。userID 为 nil 表示匿名用户，此时不访问存储也不调用模型。
	Handle(ctx context.Context, userID *uint, content string) (*ChatResult, error)
}

// ChatServiceConfig 是问答服务的可调参数。
type ChatServiceConfig struct {
	MaxQuestionLength int
	ModelTimeout      time.Duration
}

type chatService struct {
	llmClient        llm.Client
	conversationRepo repository.ConversationRepository
	publisher        events.Publisher
	cfg              ChatServiceConfig
	now              func() time.Time
}

// NewChatService 创建一个新的 ChatService 实例。llmClient 为 nil 时所有回答都走兜底。
func NewChatService(llmClient llm.Client, conversationRepo repository.ConversationRepository, publisher events.Publisher, cfg ChatServiceConfig) ChatService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if cfg.ModelTimeout <= 0 {
		cfg.ModelTimeout = 30 * time.Second
	}
	return &chatService{
		llmClient:        llmClient,
		conversationRepo: conversationRepo,
		publisher:        publisher,
		cfg:              cfg,
		now:              time.Now,
	}
}

// validate 只检查内容，不修改内容；保存的是用户提交的原文。
func (s *chatService) validate(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content is required", ErrValidation)
	}
	if s.cfg.MaxQuestionLength > 0 && utf8.RuneCountInString(content) > s.cfg.MaxQuestionLength {
		return fmt.Errorf("%w: content exceeds %d characters", ErrValidation, s.cfg.MaxQuestionLength)
	}
	return nil
}

func (s *chatService) Handle(ctx context.Context, userID *uint, content string) (*ChatResult, error) {
	start := s.now()
	if err := s.validate(content); err != nil {
		return nil, err
	}
	topic := advisor.Classify(content)

	if userID == nil {
		res := &ChatResult{
			UserMessage:      model.ChatMessage{Role: model.RoleUser, Content: content, CreatedAt: start},
			AssistantMessage: model.ChatMessage{Role: model.RoleAssistant, Content: advisor.Lookup(topic), CreatedAt: start},
			UsedFallback:     true,
			Topic:            topic,
			FallbackReason:   ReasonAnonymous,
		}
		s.publish(ctx, nil, res, start)
		return res, nil
	}

	userMsg := &model.ChatMessage{UserID: *userID, Role: model.RoleUser, Content: content}
	if err := s.conversationRepo.Append(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("%w: save user message: %w", ErrStorage, err)
	}

	// 模型调用和回答落库不随调用方取消，客户端断开后结果仍会保存。
	detached := context.WithoutCancel(ctx)

	var answer string
	var modelErr error
	if s.llmClient == nil {
		modelErr = llm.ErrDisabled
	} else {
		history, err := s.conversationRepo.ListByUser(detached, *userID)
		if err != nil {
			return nil, fmt.Errorf("%w: load history: %w", ErrStorage, err)
		}
		answer, modelErr = s.callModel(detached, BuildContextWindow(history))
	}

	res := &ChatResult{UserMessage: *userMsg, Topic: topic}
	if modelErr != nil {
		if !errors.Is(modelErr, llm.ErrDisabled) {
			log.Warnw("外部模型调用失败，使用兜底回答", "userId", *userID, "topic", topic, "reason", llm.Reason(modelErr), "error", modelErr)
		}
		answer = advisor.Lookup(topic)
		res.UsedFallback = true
		res.FallbackReason = llm.Reason(modelErr)
	}

	assistantMsg := &model.ChatMessage{UserID: *userID, Role: model.RoleAssistant, Content: answer}
	if err := s.conversationRepo.Append(detached, assistantMsg); err != nil {
		return nil, fmt.Errorf("%w: save assistant message: %w", ErrStorage, err)
	}
	res.AssistantMessage = *assistantMsg

	s.publish(ctx, userID, res, start)
	return res, nil
}

// callModel 只调用一次，不重试。
func (s *chatService) callModel(ctx context.Context, messages []llm.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ModelTimeout)
	defer cancel()

	temperature, maxTokens := chatTemperature, chatMaxTokens
	return s.llmClient.Chat(ctx, messages, &llm.GenerationParams{
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
}

func (s *chatService) publish(ctx context.Context, userID *uint, res *ChatResult, start time.Time) {
	event := model.AssistantEvent{
		Anonymous:    userID == nil,
		Topic:        string(res.Topic),
		UsedFallback: res.UsedFallback,
		Reason:       res.FallbackReason,
		LatencyMs:    s.now().Sub(start).Milliseconds(),
		At:           s.now(),
	}
	if userID != nil {
		event.UserID = *userID
	}
	if event.Reason == "" {
		event.Reason = llm.Reason(nil)
	}
	s.publisher.Publish(ctx, event)
}
