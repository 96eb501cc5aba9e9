package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"farm-assist-go/internal/model"
	"farm-assist-go/internal/repository"
	"farm-assist-go/pkg/log"
	"farm-assist-go/pkg/weather"

	"golang.org/x/sync/singleflight"
)

// ErrWeatherUnavailable 表示上游天气服务不可用且没有任何缓存可用。
var ErrWeatherUnavailable = errors.New("failed to fetch weather data")

// WeatherService 提供带缓存的天气查询。
type WeatherService interface {
	GetWeather(ctx context.Context, location string) (*model.WeatherReport, error)
}

type weatherService struct {
	cacheRepo repository.WeatherCacheRepository
	client    weather.Client
	maxAge    time.Duration
	group     singleflight.Group
	now       func() time.Time
}

// NewWeatherService 创建天气服务。maxAge 内的缓存直接返回，否则回源并覆盖缓存。
func NewWeatherService(cacheRepo repository.WeatherCacheRepository, client weather.Client, maxAge time.Duration) WeatherService {
	if maxAge <= 0 {
		maxAge = 30 * time.Minute
	}
	return &weatherService{
		cacheRepo: cacheRepo,
		client:    client,
		maxAge:    maxAge,
		now:       time.Now,
	}
}

func normalizeLocation(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return weather.DefaultLocation
	}
	return location
}

func (s *weatherService) GetWeather(ctx context.Context, location string) (*model.WeatherReport, error) {
	location = normalizeLocation(location)

	snap, err := s.cacheRepo.Get(ctx, location)
	if err != nil {
		// 缓存读失败按未命中处理
		log.Warnw("读取天气缓存失败", "location", location, "error", err)
		snap = nil
	}
	if snap != nil && s.now().Sub(snap.LastUpdated) < s.maxAge {
		return toReport(snap, true), nil
	}

	// 同一地点的并发未命中只回源一次
	key := strings.ToLower(location)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		data, err := s.client.Forecast(context.WithoutCancel(ctx), location)
		if err != nil {
			return nil, err
		}
		fresh := &model.WeatherSnapshot{Location: location, Data: data, LastUpdated: s.now()}
		if err := s.cacheRepo.Put(context.WithoutCancel(ctx), fresh); err != nil {
			log.Warnw("写入天气缓存失败", "location", location, "error", err)
		}
		return fresh, nil
	})
	if err != nil {
		log.Errorf("获取天气数据失败, location: %s, error: %v", location, err)
		return nil, fmt.Errorf("%w: %w", ErrWeatherUnavailable, err)
	}
	return toReport(v.(*model.WeatherSnapshot), false), nil
}

func toReport(snap *model.WeatherSnapshot, cached bool) *model.WeatherReport {
	advice, rainChance := weather.Summarize(snap.Data)
	return &model.WeatherReport{
		Location:    snap.Location,
		Data:        snap.Data,
		Advice:      advice,
		RainChance:  rainChance,
		LastUpdated: snap.LastUpdated,
		Cached:      cached,
	}
}
