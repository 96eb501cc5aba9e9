package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"farm-assist-go/internal/model"
	"farm-assist-go/internal/repository"
	"farm-assist-go/pkg/es"
	"farm-assist-go/pkg/log"
	"farm-assist-go/pkg/storage"

	"gorm.io/gorm"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// ContentService 提供农事内容的查询、搜索和初始化。
type ContentService interface {
	ListWaterTips(ctx context.Context) ([]model.WaterTip, error)
	GetWaterTip(ctx context.Context, id uint) (*model.WaterTip, error)
	ListPaddyInfo(ctx context.Context, category string) ([]model.PaddyInfo, error)
	GetPaddyInfo(ctx context.Context, id uint) (*model.PaddyInfo, error)
	ListFarmingTips(ctx context.Context) ([]model.FarmingTip, error)
	Search(ctx context.Context, query string, limit int) ([]model.ContentSearchResult, error)
	// Seed 写入初始内容，并在配置了索引时重建索引文档。
	Seed(ctx context.Context) error
}

type contentService struct {
	contentRepo repository.ContentRepository
	index       es.ContentIndex
	images      storage.ImageStore
}

// NewContentService 创建内容服务。index 和 images 可以为 nil：
// 没有索引时搜索走数据库，没有对象存储时保留 imageUrl。
func NewContentService(contentRepo repository.ContentRepository, index es.ContentIndex, images storage.ImageStore) ContentService {
	return &contentService{contentRepo: contentRepo, index: index, images: images}
}

func (s *contentService) ListWaterTips(ctx context.Context) ([]model.WaterTip, error) {
	tips, err := s.contentRepo.ListWaterTips(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	for i := range tips {
		tips[i].ImageURL = s.resolveImage(ctx, tips[i].ImageKey, tips[i].ImageURL)
	}
	return nonNil(tips), nil
}

func (s *contentService) GetWaterTip(ctx context.Context, id uint) (*model.WaterTip, error) {
	tip, err := s.contentRepo.GetWaterTip(ctx, id)
	if err != nil {
		return nil, wrapLookup(err, "water tip")
	}
	tip.ImageURL = s.resolveImage(ctx, tip.ImageKey, tip.ImageURL)
	return tip, nil
}

func (s *contentService) ListPaddyInfo(ctx context.Context, category string) ([]model.PaddyInfo, error) {
	infos, err := s.contentRepo.ListPaddyInfo(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	for i := range infos {
		infos[i].ImageURL = s.resolveImage(ctx, infos[i].ImageKey, infos[i].ImageURL)
	}
	return nonNil(infos), nil
}

func (s *contentService) GetPaddyInfo(ctx context.Context, id uint) (*model.PaddyInfo, error) {
	info, err := s.contentRepo.GetPaddyInfo(ctx, id)
	if err != nil {
		return nil, wrapLookup(err, "paddy info")
	}
	info.ImageURL = s.resolveImage(ctx, info.ImageKey, info.ImageURL)
	return info, nil
}

func (s *contentService) ListFarmingTips(ctx context.Context) ([]model.FarmingTip, error) {
	tips, err := s.contentRepo.ListFarmingTips(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	for i := range tips {
		tips[i].ImageURL = s.resolveImage(ctx, tips[i].ImageKey, tips[i].ImageURL)
	}
	return nonNil(tips), nil
}

// Search 优先使用 Elasticsearch，失败或未配置时退回数据库 LIKE 查询。
func (s *contentService) Search(ctx context.Context, query string, limit int) ([]model.ContentSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: q is required", ErrValidation)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	if s.index != nil {
		results, err := s.index.Search(ctx, query, limit)
		if err == nil {
			return nonNil(results), nil
		}
		log.Warnw("Elasticsearch 搜索失败，改用数据库查询", "query", query, "error", err)
	}

	results, err := s.contentRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nonNil(results), nil
}

func (s *contentService) Seed(ctx context.Context) error {
	if err := s.contentRepo.Seed(ctx, SeedWaterTips, SeedPaddyInfo, SeedFarmingTips); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if s.index == nil {
		return nil
	}

	docs, err := s.documents(ctx)
	if err != nil {
		return err
	}
	if err := s.index.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure content index: %w", err)
	}
	if err := s.index.IndexDocuments(ctx, docs); err != nil {
		return fmt.Errorf("index content: %w", err)
	}
	log.Infof("内容索引完成，共 %d 篇", len(docs))
	return nil
}

// documents 读取数据库中的全部内容并转换成索引文档，文档 ID 为 kind-recordId。
func (s *contentService) documents(ctx context.Context) ([]model.ContentDocument, error) {
	water, err := s.contentRepo.ListWaterTips(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	paddy, err := s.contentRepo.ListPaddyInfo(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	farming, err := s.contentRepo.ListFarmingTips(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	docs := make([]model.ContentDocument, 0, len(water)+len(paddy)+len(farming))
	for _, t := range water {
		docs = append(docs, newDocument(model.ContentKindWaterTip, t.ID, t.Title, t.Content, ""))
	}
	for _, p := range paddy {
		docs = append(docs, newDocument(model.ContentKindPaddyInfo, p.ID, p.Title, p.Content, p.Category))
	}
	for _, f := range farming {
		docs = append(docs, newDocument(model.ContentKindFarmingTip, f.ID, f.Title, f.Content, f.Category))
	}
	return docs, nil
}

func newDocument(kind string, id uint, title, content, category string) model.ContentDocument {
	return model.ContentDocument{
		ID:       fmt.Sprintf("%s-%d", kind, id),
		Kind:     kind,
		RecordID: id,
		Title:    title,
		Content:  content,
		Category: category,
	}
}

// resolveImage 有对象键时返回预签名地址，签名失败时退回原地址。
func (s *contentService) resolveImage(ctx context.Context, key, fallback string) string {
	if key == "" || s.images == nil {
		return fallback
	}
	u, err := s.images.PresignedURL(ctx, key)
	if err != nil {
		log.Warnw("生成图片地址失败", "key", key, "error", err)
		return fallback
	}
	return u
}

func wrapLookup(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
