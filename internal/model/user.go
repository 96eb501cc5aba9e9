package model

import "time"

// 用户角色
const (
	UserRoleUser  = "USER"
	UserRoleAdmin = "ADMIN"
)

// 支持的界面语言
const (
	LanguageEnglish = "en"
	LanguageHindi   = "hi"
	LanguageTelugu  = "te"
)

// SupportedLanguages 是 PreferredLanguage 的全部合法取值。
var SupportedLanguages = []string{LanguageEnglish, LanguageHindi, LanguageTelugu}

// IsSupportedLanguage 判断语言代码是否合法。
func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// User 代表一个通过 Google 登录的用户。UID 为身份提供方的 subject。
type User struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UID               string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"uid"`
	DisplayName       string    `gorm:"type:varchar(255)" json:"displayName"`
	Email             string    `gorm:"type:varchar(255);index" json:"email"`
	PhotoURL          string    `gorm:"type:varchar(1024)" json:"photoURL"`
	PreferredLanguage string    `gorm:"type:varchar(8);default:en" json:"preferredLanguage"`
	Role              string    `gorm:"type:varchar(16);default:USER" json:"role"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
