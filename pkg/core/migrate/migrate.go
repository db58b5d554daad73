// Package migrate creates or updates every table the service owns.
package migrate

import (
	"fmt"

	"gorm.io/gorm"

	songmodel "music-hub/pkg/core/song/model"
	tokenmodel "music-hub/pkg/core/token/model"
	usermodel "music-hub/pkg/core/user/model"
)

func Run(db *gorm.DB) error {
	steps := []struct {
		name string
		fn   func(*gorm.DB) error
	}{
		{"usuarios", usermodel.AutoMigrate},
		{"songs", songmodel.AutoMigrate},
		{"personal_access_tokens", tokenmodel.AutoMigrate},
	}
	for _, s := range steps {
		if err := s.fn(db); err != nil {
			return fmt.Errorf("migrate %s: %w", s.name, err)
		}
	}
	return nil
}
