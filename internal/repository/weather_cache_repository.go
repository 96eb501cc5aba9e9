package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"farm-assist-go/internal/model"

	"github.com/go-redis/redis/v8"
)

// WeatherCacheRepository 按地点缓存天气数据。是否过期由调用方根据 LastUpdated 判断。
type WeatherCacheRepository interface {
	// Get 未命中时返回 (nil, nil)。
	Get(ctx context.Context, location string) (*model.WeatherSnapshot, error)
	Put(ctx context.Context, snapshot *model.WeatherSnapshot) error
}

// 键在 Redis 中保留的时间，远大于新鲜度窗口。
const weatherCacheRetention = 24 * time.Hour

type redisWeatherCacheRepository struct {
	redisClient *redis.Client
}

func NewWeatherCacheRepository(redisClient *redis.Client) WeatherCacheRepository {
	return &redisWeatherCacheRepository{redisClient: redisClient}
}

func weatherKey(location string) string {
	return "weather:" + strings.ToLower(strings.TrimSpace(location))
}

func (r *redisWeatherCacheRepository) Get(ctx context.Context, location string) (*model.WeatherSnapshot, error) {
	data, err := r.redisClient.Get(ctx, weatherKey(location)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get weather cache: %w", err)
	}
	var snap model.WeatherSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weather cache: %w", err)
	}
	return &snap, nil
}

func (r *redisWeatherCacheRepository) Put(ctx context.Context, snapshot *model.WeatherSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal weather cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, weatherKey(snapshot.Location), data, weatherCacheRetention).Err(); err != nil {
		return fmt.Errorf("failed to set weather cache: %w", err)
	}
	return nil
}
