// Package events 定义助手事件的发布接口。
package events

import (
	"context"

	"farm-assist-go/internal/model"
)

// Publisher 发布助手事件。实现必须是尽力而为的，不能阻塞或影响回答。
type Publisher interface {
	Publish(ctx context.Context, event model.AssistantEvent)
}

// Handler 消费一条助手事件。
type Handler interface {
	Handle(ctx context.Context, event model.AssistantEvent) error
}

// NopPublisher 丢弃所有事件。
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.AssistantEvent) {}

// HandlerFunc 将普通函数适配为 Handler。
type HandlerFunc func(ctx context.Context, event model.AssistantEvent) error

func (f HandlerFunc) Handle(ctx context.Context, event model.AssistantEvent) error {
	return f(ctx, event)
}

// inlinePublisher 不经过消息队列，直接在进程内交给 Handler。
type inlinePublisher struct {
	handler Handler
	onError func(error)
}

// NewInlinePublisher 在 Kafka 关闭时使用，事件同步交给 handler，错误只交给 onError。
func NewInlinePublisher(handler Handler, onError func(error)) Publisher {
	return &inlinePublisher{handler: handler, onError: onError}
}

func (p *inlinePublisher) Publish(ctx context.Context, event model.AssistantEvent) {
	if err := p.handler.Handle(context.WithoutCancel(ctx), event); err != nil && p.onError != nil {
		p.onError(err)
	}
}
