// Package pipeline 消费助手事件并汇总为统计数据。
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"farm-assist-go/internal/model"
	"farm-assist-go/internal/repository"
	"farm-assist-go/pkg/advisor"
	"farm-assist-go/pkg/events"
	"farm-assist-go/pkg/log"
)

// Processor 封装了事件处理的所有依赖和逻辑。
type Processor struct {
	statsRepo repository.StatsRepository
}

// NewProcessor 创建一个新的 Processor 实例。
func NewProcessor(statsRepo repository.StatsRepository) *Processor {
	return &Processor{statsRepo: statsRepo}
}

var _ events.Handler = (*Processor)(nil)

// Handle 是事件处理的主函数：规范化字段后写入计数器。
func (p *Processor) Handle(ctx context.Context, event model.AssistantEvent) error {
	event = normalize(event)
	log.Debugw("[Processor] 收到助手事件", "userId", event.UserID, "topic", event.Topic, "fallback", event.UsedFallback, "reason", event.Reason)

	if err := p.statsRepo.Record(ctx, event); err != nil {
		log.Errorf("[Processor] 记录助手事件失败, topic: %s, error: %v", event.Topic, err)
		return fmt.Errorf("record assistant event: %w", err)
	}
	return nil
}

// normalize 把未知主题归为 none，补全原因和非负耗时，避免计数器键无限增长。
func normalize(event model.AssistantEvent) model.AssistantEvent {
	if !advisor.Topic(event.Topic).Valid() {
		event.Topic = string(advisor.TopicNone)
	}
	event.Reason = strings.TrimSpace(event.Reason)
	if event.Reason == "" {
		if event.UsedFallback {
			event.Reason = "unknown"
		} else {
			event.Reason = "none"
		}
	}
	if event.LatencyMs < 0 {
		event.LatencyMs = 0
	}
	return event
}
