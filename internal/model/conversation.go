// Package model 包含了应用的数据模型定义。
package model

import "time"

// 消息角色
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage 是一条持久化的对话消息，只追加不修改。
// 同一用户的消息按 (CreatedAt, ID) 升序排列。
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Role      string    `gorm:"type:varchar(16);not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
