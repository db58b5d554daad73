package model

import (
	"time"

	"gorm.io/gorm"
)

// User 用户账号；JSON 字段名沿用对外接口的西语命名
type User struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string    `gorm:"column:nombre;type:varchar(255);not null" json:"nombre"`
	Surname         string    `gorm:"column:apellido;type:varchar(255);not null" json:"apellido"`
	Email           string    `gorm:"column:correo_electronico;type:varchar(255);uniqueIndex;not null" json:"correo_electronico"`
	PasswordHash    string    `gorm:"column:contrasena;type:varchar(255);not null" json:"-"` // 只保存哈希，永不序列化
	BirthDate       time.Time `gorm:"column:fecha_nacimiento;type:date" json:"fecha_nacimiento"`
	ProfileImageURL *string   `gorm:"column:url_imagen_perfil;type:varchar(2048)" json:"url_imagenPerfil"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 定义映射表名
func (User) TableName() string {
	return "usuarios"
}

// ImageURL returns the stored profile image URL or "".
func (u *User) ImageURL() string {
	if u == nil || u.ProfileImageURL == nil {
		return ""
	}
	return *u.ProfileImageURL
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{})
}
