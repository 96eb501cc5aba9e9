package model

import "time"

// AssistantEvent 记录一次助手回答，发送到 Kafka 后汇总为统计数据。
type AssistantEvent struct {
	UserID       uint      `json:"userId"`
	Anonymous    bool      `json:"anonymous"`
	Topic        string    `json:"topic"`
	UsedFallback bool      `json:"usedFallback"`
	Reason       string    `json:"reason"`
	LatencyMs    int64     `json:"latencyMs"`
	At           time.Time `json:"at"`
}

// AssistantStats 是助手回答情况的汇总。
type AssistantStats struct {
	Total          int64            `json:"total"`
	Online         int64            `json:"online"`
	Fallback       int64            `json:"fallback"`
	Anonymous      int64            `json:"anonymous"`
	ByTopic        map[string]int64 `json:"byTopic"`
	ByReason       map[string]int64 `json:"byReason"`
	TotalLatencyMs int64            `json:"totalLatencyMs"`
}
