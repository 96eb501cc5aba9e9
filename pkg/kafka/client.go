// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"farm-assist-go/internal/config"
	"farm-assist-go/internal/model"
	"farm-assist-go/pkg/events"
	"farm-assist-go/pkg/log"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
)

// 单条消息处理失败的最大次数，超过后提交 offset 放弃。
const maxAttempts = 3

// Producer 以异步方式写入助手事件。
type Producer struct {
	writer *kafka.Writer
}

// NewProducer 创建 Kafka 生产者。
func NewProducer(cfg config.KafkaConfig) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.BrokerList()...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		Async:        true,
		BatchTimeout: 200 * time.Millisecond,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Warnw("Kafka 事件写入失败", "count", len(messages), "error", err)
			}
		},
	}
	log.Infow("Kafka 生产者初始化成功", "topic", cfg.Topic)
	return &Producer{writer: w}
}

// Publish 实现 events.Publisher。按用户分区，保证同一用户的事件有序。
func (p *Producer) Publish(ctx context.Context, event model.AssistantEvent) {
	value, err := json.Marshal(event)
	if err != nil {
		log.Error("序列化助手事件失败", err)
		return
	}
	msg := kafka.Message{Key: []byte(strconv.FormatUint(uint64(event.UserID), 10)), Value: value}
	if err := p.writer.WriteMessages(context.WithoutCancel(ctx), msg); err != nil {
		log.Warnw("发送助手事件失败", "error", err)
	}
}

// Close 刷新缓冲并关闭生产者。
func (p *Producer) Close() error {
	return p.writer.Close()
}

var _ events.Publisher = (*Producer)(nil)

// StartConsumer 启动消费循环，直到 ctx 被取消。
// 处理失败的消息不提交 offset，借助 Redis 计数，失败达到 maxAttempts 次后提交跳过。
func StartConsumer(ctx context.Context, cfg config.KafkaConfig, rdb *redis.Client, handler events.Handler) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.BrokerList(),
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer func() {
		if err := r.Close(); err != nil {
			log.Errorf("关闭 Kafka 消费者失败: %v", err)
		}
	}()

	log.Infof("Kafka 消费者已启动，正在监听主题 '%s'", cfg.Topic)

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("Kafka 消费者已停止")
				return
			}
			log.Error("从 Kafka 读取消息失败", err)
			return
		}

		if process(ctx, rdb, handler, m) {
			commit(ctx, r, m)
		}
	}
}

// process 处理单条消息，返回是否应提交 offset。
func process(ctx context.Context, rdb *redis.Client, handler events.Handler, m kafka.Message) bool {
	var event model.AssistantEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		log.Errorf("无法解析 Kafka 消息: %v, value: %s", err, string(m.Value))
		return true
	}

	err := handler.Handle(ctx, event)
	if err == nil {
		return true
	}
	attemptsKey := fmt.Sprintf("kafka:attempts:%s:%d:%d", m.Topic, m.Partition, m.Offset)
	attempts, incErr := rdb.Incr(ctx, attemptsKey).Result()
	if incErr != nil {
		// Redis 不可用时不提交，等待重投
		log.Errorf("处理助手事件失败且无法计数: %v", err)
		return false
	}
	_ = rdb.Expire(ctx, attemptsKey, 24*time.Hour).Err()
	if attempts >= maxAttempts {
		log.Errorf("助手事件多次处理失败(>=%d)，提交 offset 跳过: offset=%d, err=%v", maxAttempts, m.Offset, err)
		return true
	}
	return false
}

func commit(ctx context.Context, r *kafka.Reader, m kafka.Message) {
	if err := r.CommitMessages(ctx, m); err != nil {
		log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
	}
}
