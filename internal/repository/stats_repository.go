package repository

import (
	"context"
	"fmt"
	"strconv"

	"farm-assist-go/internal/model"

	"github.com/go-redis/redis/v8"
)

const (
	statsTotalsKey = "assistant:stats:totals"
	statsTopicKey  = "assistant:stats:topic"
	statsReasonKey = "assistant:stats:reason"
)

// StatsRepository 将助手事件累加为 Redis 计数器。
type StatsRepository interface {
	Record(ctx context.Context, event model.AssistantEvent) error
	Snapshot(ctx context.Context) (*model.AssistantStats, error)
}

type redisStatsRepository struct {
	redisClient *redis.Client
}

func NewStatsRepository(redisClient *redis.Client) StatsRepository {
	return &redisStatsRepository{redisClient: redisClient}
}

func (r *redisStatsRepository) Record(ctx context.Context, event model.AssistantEvent) error {
	pipe := r.redisClient.TxPipeline()
	pipe.HIncrBy(ctx, statsTotalsKey, "total", 1)
	if event.UsedFallback {
		pipe.HIncrBy(ctx, statsTotalsKey, "fallback", 1)
		pipe.HIncrBy(ctx, statsReasonKey, event.Reason, 1)
	} else {
		pipe.HIncrBy(ctx, statsTotalsKey, "online", 1)
	}
	if event.Anonymous {
		pipe.HIncrBy(ctx, statsTotalsKey, "anonymous", 1)
	}
	pipe.HIncrBy(ctx, statsTotalsKey, "latency_ms", event.LatencyMs)
	pipe.HIncrBy(ctx, statsTopicKey, event.Topic, 1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record assistant event: %w", err)
	}
	return nil
}

func (r *redisStatsRepository) Snapshot(ctx context.Context) (*model.AssistantStats, error) {
	totals, err := r.redisClient.HGetAll(ctx, statsTotalsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read assistant totals: %w", err)
	}
	topics, err := r.redisClient.HGetAll(ctx, statsTopicKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read assistant topics: %w", err)
	}
	reasons, err := r.redisClient.HGetAll(ctx, statsReasonKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read assistant reasons: %w", err)
	}
	return &model.AssistantStats{
		Total:          parseCount(totals["total"]),
		Online:         parseCount(totals["online"]),
		Fallback:       parseCount(totals["fallback"]),
		Anonymous:      parseCount(totals["anonymous"]),
		TotalLatencyMs: parseCount(totals["latency_ms"]),
		ByTopic:        parseCounts(topics),
		ByReason:       parseCounts(reasons),
	}, nil
}

func parseCount(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseCounts(m map[string]string) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = parseCount(v)
	}
	return out
}
