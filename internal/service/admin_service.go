package service

import (
	"context"
	"fmt"
	"time"

	"farm-assist-go/internal/repository"
)

// UserListResponse 定义了用户列表 API 的响应结构。
type UserListResponse struct {
	Content       []UserDetailResponse `json:"content"`
	TotalElements int64                `json:"totalElements"`
	TotalPages    int                  `json:"totalPages"`
	Size          int                  `json:"size"`
	Number        int                  `json:"number"`
}

// UserDetailResponse 定义了用户列表项的详细结构。
type UserDetailResponse struct {
	UserID            uint      `json:"userId"`
	DisplayName       string    `json:"displayName"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	PreferredLanguage string    `json:"preferredLanguage"`
	CreatedAt         time.Time `json:"createdAt"`
}

// AssistantStatsResponse 是助手统计接口的返回体。
type AssistantStatsResponse struct {
	Total        int64            `json:"total"`
	Online       int64            `json:"online"`
	Fallback     int64            `json:"fallback"`
	Anonymous    int64            `json:"anonymous"`
	FallbackRate float64          `json:"fallbackRate"`
	AvgLatencyMs float64          `json:"avgLatencyMs"`
	ByTopic      map[string]int64 `json:"byTopic"`
	ByReason     map[string]int64 `json:"byReason"`
}

// AdminService 接口定义了所有管理员相关的业务操作。
type AdminService interface {
	GetAssistantStats(ctx context.Context) (*AssistantStatsResponse, error)
	ListUsers(page, size int) (*UserListResponse, error)
}

// adminService 是 AdminService 接口的实现。
type adminService struct {
	statsRepo repository.StatsRepository
	userRepo  repository.UserRepository
}

// NewAdminService 创建一个新的 AdminService 实例。
func NewAdminService(statsRepo repository.StatsRepository, userRepo repository.UserRepository) AdminService {
	return &adminService{statsRepo: statsRepo, userRepo: userRepo}
}

// GetAssistantStats 汇总助手回答的在线/兜底次数、主题和失败原因分布。
func (s *adminService) GetAssistantStats(ctx context.Context) (*AssistantStatsResponse, error) {
	stats, err := s.statsRepo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	resp := &AssistantStatsResponse{
		Total:     stats.Total,
		Online:    stats.Online,
		Fallback:  stats.Fallback,
		Anonymous: stats.Anonymous,
		ByTopic:   stats.ByTopic,
		ByReason:  stats.ByReason,
	}
	if resp.ByTopic == nil {
		resp.ByTopic = map[string]int64{}
	}
	if resp.ByReason == nil {
		resp.ByReason = map[string]int64{}
	}
	if stats.Total > 0 {
		resp.FallbackRate = float64(stats.Fallback) / float64(stats.Total)
		resp.AvgLatencyMs = float64(stats.TotalLatencyMs) / float64(stats.Total)
	}
	return resp, nil
}

// ListUsers 分页列出用户，page 从 1 开始。
func (s *adminService) ListUsers(page, size int) (*UserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size
	users, total, err := s.userRepo.FindWithPagination(offset, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	userResponses := make([]UserDetailResponse, 0, len(users))
	for _, u := range users {
		userResponses = append(userResponses, UserDetailResponse{
			UserID:            u.ID,
			DisplayName:       u.DisplayName,
			Email:             u.Email,
			Role:              u.Role,
			PreferredLanguage: u.PreferredLanguage,
			CreatedAt:         u.CreatedAt,
		})
	}

	totalPages := 0
	if total > 0 {
		totalPages = (int(total) + size - 1) / size
	}
	return &UserListResponse{
		Content:       userResponses,
		TotalElements: total,
		TotalPages:    totalPages,
		Size:          size,
		Number:        page,
	}, nil
}
