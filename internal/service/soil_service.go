package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"farm-assist-go/internal/model"
	"farm-assist-go/internal/repository"

	"gorm.io/gorm"
)

// SoilService 管理每个用户的土壤湿度读数。
type SoilService interface {
	Get(ctx context.Context, userID uint) (*model.SoilReading, error)
	Save(ctx context.Context, userID uint, location string, moisture int) (*model.SoilReading, error)
}

type soilService struct {
	soilRepo repository.SoilRepository
	now      func() time.Time
}

func NewSoilService(soilRepo repository.SoilRepository) SoilService {
	return &soilService{soilRepo: soilRepo, now: time.Now}
}

// Get 返回用户最近的读数，没有记录时返回默认读数。
func (s *soilService) Get(ctx context.Context, userID uint) (*model.SoilReading, error) {
	reading, err := s.soilRepo.FindByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		def := model.DefaultSoilReading()
		def.UserID = userID
		return &def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return reading, nil
}

func (s *soilService) Save(ctx context.Context, userID uint, location string, moisture int) (*model.SoilReading, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: location is required", ErrValidation)
	}
	if moisture < 0 || moisture > 100 {
		return nil, fmt.Errorf("%w: moistureLevel must be between 0 and 100", ErrValidation)
	}
	reading := &model.SoilReading{
		UserID:        userID,
		Location:      location,
		MoistureLevel: moisture,
		Status:        model.SoilStatusFor(moisture),
		LastUpdated:   s.now(),
	}
	if err := s.soilRepo.Upsert(ctx, reading); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return reading, nil
}
