package repository

import (
	"context"
	"fmt"
	"strings"

	"farm-assist-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentRepository 提供节水建议、水稻指南和农事建议的读取与初始化。
type ContentRepository interface {
	ListWaterTips(ctx context.Context) ([]model.WaterTip, error)
	GetWaterTip(ctx context.Context, id uint) (*model.WaterTip, error)
	ListPaddyInfo(ctx context.Context, category string) ([]model.PaddyInfo, error)
	GetPaddyInfo(ctx context.Context, id uint) (*model.PaddyInfo, error)
	ListFarmingTips(ctx context.Context) ([]model.FarmingTip, error)
	// Search 用 LIKE 在标题和正文中查找，搜索引擎不可用时使用。
	Search(ctx context.Context, query string, limit int) ([]model.ContentSearchResult, error)
	// Seed 按标题幂等写入初始内容。
	Seed(ctx context.Context, water []model.WaterTip, paddy []model.PaddyInfo, farming []model.FarmingTip) error
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) ListWaterTips(ctx context.Context) ([]model.WaterTip, error) {
	var tips []model.WaterTip
	err := r.db.WithContext(ctx).Order("id ASC").Find(&tips).Error
	return tips, err
}

func (r *contentRepository) GetWaterTip(ctx context.Context, id uint) (*model.WaterTip, error) {
	var tip model.WaterTip
	if err := r.db.WithContext(ctx).First(&tip, id).Error; err != nil {
		return nil, err
	}
	return &tip, nil
}

// ListPaddyInfo category 为空时返回全部。
func (r *contentRepository) ListPaddyInfo(ctx context.Context, category string) ([]model.PaddyInfo, error) {
	var infos []model.PaddyInfo
	db := r.db.WithContext(ctx).Order("id ASC")
	if category != "" {
		db = db.Where("category = ?", category)
	}
	err := db.Find(&infos).Error
	return infos, err
}

func (r *contentRepository) GetPaddyInfo(ctx context.Context, id uint) (*model.PaddyInfo, error) {
	var info model.PaddyInfo
	if err := r.db.WithContext(ctx).First(&info, id).Error; err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *contentRepository) ListFarmingTips(ctx context.Context) ([]model.FarmingTip, error) {
	var tips []model.FarmingTip
	err := r.db.WithContext(ctx).Order("id ASC").Find(&tips).Error
	return tips, err
}

func (r *contentRepository) Search(ctx context.Context, query string, limit int) ([]model.ContentSearchResult, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	where := "LOWER(title) LIKE ? OR LOWER(content) LIKE ?"
	var results []model.ContentSearchResult

	var water []model.WaterTip
	if err := r.db.WithContext(ctx).Where(where, pattern, pattern).Order("id ASC").Limit(limit).Find(&water).Error; err != nil {
		return nil, fmt.Errorf("failed to search water tips: %w", err)
	}
	for _, t := range water {
		results = append(results, model.ContentSearchResult{Kind: model.ContentKindWaterTip, RecordID: t.ID, Title: t.Title, Content: t.Content})
	}

	var paddy []model.PaddyInfo
	if err := r.db.WithContext(ctx).Where(where, pattern, pattern).Order("id ASC").Limit(limit).Find(&paddy).Error; err != nil {
		return nil, fmt.Errorf("failed to search paddy info: %w", err)
	}
	for _, p := range paddy {
		results = append(results, model.ContentSearchResult{Kind: model.ContentKindPaddyInfo, RecordID: p.ID, Title: p.Title, Content: p.Content, Category: p.Category})
	}

	var farming []model.FarmingTip
	if err := r.db.WithContext(ctx).Where(where, pattern, pattern).Order("id ASC").Limit(limit).Find(&farming).Error; err != nil {
		return nil, fmt.Errorf("failed to search farming tips: %w", err)
	}
	for _, f := range farming {
		results = append(results, model.ContentSearchResult{Kind: model.ContentKindFarmingTip, RecordID: f.ID, Title: f.Title, Content: f.Content, Category: f.Category})
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (r *contentRepository) Seed(ctx context.Context, water []model.WaterTip, paddy []model.PaddyInfo, farming []model.FarmingTip) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		skip := clause.OnConflict{Columns: []clause.Column{{Name: "title"}}, DoNothing: true}
		if len(water) > 0 {
			if err := tx.Clauses(skip).Create(&water).Error; err != nil {
				return fmt.Errorf("failed to seed water tips: %w", err)
			}
		}
		if len(paddy) > 0 {
			if err := tx.Clauses(skip).Create(&paddy).Error; err != nil {
				return fmt.Errorf("failed to seed paddy info: %w", err)
			}
		}
		if len(farming) > 0 {
			if err := tx.Clauses(skip).Create(&farming).Error; err != nil {
				return fmt.Errorf("failed to seed farming tips: %w", err)
			}
		}
		return nil
	})
}
