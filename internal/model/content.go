package model

// WaterTip 是一条节水建议。ImageKey 指向对象存储中的图片，优先于 ImageURL。
type WaterTip struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	ImageURL string `gorm:"type:varchar(1024)" json:"imageUrl"`
	ImageKey string `gorm:"type:varchar(512)" json:"-"`
}

func (WaterTip) TableName() string {
	return "water_tips"
}

// PaddyInfo 是一条水稻种植指南，按 Category 分组。
type PaddyInfo struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	Category string `gorm:"type:varchar(64);index;not null" json:"category"`
	ImageURL string `gorm:"type:varchar(1024)" json:"imageUrl"`
	ImageKey string `gorm:"type:varchar(512)" json:"-"`
}

func (PaddyInfo) TableName() string {
	return "paddy_infos"
}

// FarmingTip 是一条通用农事建议。
type FarmingTip struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	Category string `gorm:"type:varchar(64);index" json:"category"`
	ImageURL string `gorm:"type:varchar(1024)" json:"imageUrl"`
	ImageKey string `gorm:"type:varchar(512)" json:"-"`
}

func (FarmingTip) TableName() string {
	return "farming_tips"
}

// 内容类型，用于搜索索引中的 kind 字段。
const (
	ContentKindWaterTip   = "water_tip"
	ContentKindPaddyInfo  = "paddy_info"
	ContentKindFarmingTip = "farming_tip"
)

// ContentDocument 是写入 Elasticsearch 的内容文档。
type ContentDocument struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	RecordID uint   `json:"recordId"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category,omitempty"`
}

// ContentSearchResult 是内容搜索的单条结果。
type ContentSearchResult struct {
	Kind     string  `json:"kind"`
	RecordID uint    `json:"recordId"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Category string  `json:"category,omitempty"`
	Score    float64 `json:"score"`
}
