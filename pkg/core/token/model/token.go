package model

import (
	"time"

	"gorm.io/gorm"
)

// AbilityAll grants every capability.
const AbilityAll = "*"

// AccessToken 个人访问令牌；只保存令牌的 SHA-256 摘要
type AccessToken struct {
	ID         string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID     uint64     `gorm:"index;not null" json:"user_id"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`
	TokenHash  string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	Abilities  []string   `gorm:"serializer:json;type:text" json:"abilities"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AccessToken) TableName() string {
	return "personal_access_tokens"
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&AccessToken{})
}
