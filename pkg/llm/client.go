// Package llm provides a client for OpenAI-compatible chat completion APIs.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"farm-assist-go/internal/config"

	"github.com/sashabaranov/go-openai"
)

// Client defines the interface for an LLM client.
type Client interface {
	// Chat 发送 role-based 消息并返回第一条 choice 的文本内容。
	Chat(ctx context.Context, messages []Message, gen *GenerationParams) (string, error)
}

// Message 表示一条角色消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerationParams 控制生成行为，nil 字段使用配置中的默认值。
type GenerationParams struct {
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

type openaiClient struct {
	cfg    config.LLMConfig
	client *openai.Client
}

// NewClient 根据配置创建客户端。llm.enabled 为 false 或缺少 api key 时返回 nil，
// 调用方据此判断是否具备在线回答能力。
func NewClient(cfg config.LLMConfig) Client {
	if !cfg.Enabled || strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}
	return &openaiClient{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

func (c *openaiClient) Chat(ctx context.Context, messages []Message, gen *GenerationParams) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.cfg.Model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	c.applyGeneration(&req, gen)

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrEmptyResponse)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: first choice has no content", ErrEmptyResponse)
	}
	return content, nil
}

// applyGeneration 传参优先，其次使用配置中的非零值。
func (c *openaiClient) applyGeneration(req *openai.ChatCompletionRequest, gen *GenerationParams) {
	if c.cfg.Generation.Temperature != 0 {
		req.Temperature = float32(c.cfg.Generation.Temperature)
	}
	if c.cfg.Generation.TopP != 0 {
		req.TopP = float32(c.cfg.Generation.TopP)
	}
	if c.cfg.Generation.MaxTokens != 0 {
		req.MaxTokens = c.cfg.Generation.MaxTokens
	}
	if gen == nil {
		return
	}
	if gen.Temperature != nil {
		req.Temperature = float32(*gen.Temperature)
	}
	if gen.TopP != nil {
		req.TopP = float32(*gen.TopP)
	}
	if gen.MaxTokens != nil {
		req.MaxTokens = *gen.MaxTokens
	}
}
