package dao

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	apperrors "music-hub/pkg/common/errors"
	"music-hub/pkg/core/song/model"
	"music-hub/pkg/core/song/repository/dao"
)

type GormSongRepository struct {
	db *gorm.DB
}

var _ dao.SongRepository = (*GormSongRepository)(nil)

func NewGormSongRepository(db *gorm.DB) *GormSongRepository {
	return &GormSongRepository{db: db}
}

func (r *GormSongRepository) List(ctx context.Context) ([]model.Song, error) {
	var songs []model.Song
	if err := r.db.WithContext(ctx).Order("id").Find(&songs).Error; err != nil {
		return nil, fmt.Errorf("%w: song list failed", apperrors.WrapGormError(err))
	}
	return songs, nil
}

func (r *GormSongRepository) QueryByID(ctx context.Context, id uint64) (model.Song, error) {
	var song model.Song
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&song).Error; err != nil {
		return model.Song{}, apperrors.WrapGormError(err)
	}
	return song, nil
}

func (r *GormSongRepository) CreateSong(ctx context.Context, song *model.Song) error {
	if err := r.db.WithContext(ctx).Create(song).Error; err != nil {
		return fmt.Errorf("%w: song creation failed", apperrors.WrapGormError(err))
	}
	return nil
}

// Update only the given columns, then reload
func (r *GormSongRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) (model.Song, error) {
	var song model.Song
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&song).Error; err != nil {
			return apperrors.WrapGormError(err)
		}
		if len(fields) > 0 {
			if err := tx.Model(&song).Updates(fields).Error; err != nil {
				return fmt.Errorf("%w: song update failed", apperrors.WrapGormError(err))
			}
		}
		return tx.Where("id = ?", id).First(&song).Error
	})
	if err != nil {
		return model.Song{}, err
	}
	return song, nil
}

func (r *GormSongRepository) DeleteSong(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&model.Song{}, id)
	if result.Error != nil {
		return fmt.Errorf("%w: song delete failed", apperrors.WrapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
