package model

import (
	"time"

	"gorm.io/gorm"
)

type Song struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Artist      string    `gorm:"type:varchar(255);not null" json:"artist"`
	Album       string    `gorm:"type:varchar(255);not null" json:"album"`
	Duration    int       `gorm:"not null;default:0" json:"duration"` // 单位：秒
	CoverArtURL *string   `gorm:"column:cover_art_url;type:varchar(2048)" json:"cover_art_url"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Song) TableName() string {
	return "songs"
}

// ImageURL returns the stored cover URL or "".
func (s *Song) ImageURL() string {
	if s == nil || s.CoverArtURL == nil {
		return ""
	}
	return *s.CoverArtURL
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Song{})
}
