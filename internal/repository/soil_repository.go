package repository

import (
	"context"
	"fmt"

	"farm-assist-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SoilRepository 保存每个用户最近一次的土壤读数。
type SoilRepository interface {
	FindByUser(ctx context.Context, userID uint) (*model.SoilReading, error)
	Upsert(ctx context.Context, reading *model.SoilReading) error
}

type soilRepository struct {
	db *gorm.DB
}

func NewSoilRepository(db *gorm.DB) SoilRepository {
	return &soilRepository{db: db}
}

// FindByUser 用户没有读数时返回 gorm.ErrRecordNotFound。
func (r *soilRepository) FindByUser(ctx context.Context, userID uint) (*model.SoilReading, error) {
	var reading model.SoilReading
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&reading).Error; err != nil {
		return nil, err
	}
	return &reading, nil
}

// Upsert 按 user_id 插入或覆盖读数。
func (r *soilRepository) Upsert(ctx context.Context, reading *model.SoilReading) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"location", "moisture_level", "status", "last_updated"}),
	}).Create(reading).Error
	if err != nil {
		return fmt.Errorf("failed to upsert soil reading: %w", err)
	}
	return nil
}
