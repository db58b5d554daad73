package dao

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "music-hub/pkg/common/errors"
	"music-hub/pkg/core/token/model"
	"music-hub/pkg/core/token/repository/dao"
)

type GormTokenRepository struct {
	db *gorm.DB
}

var _ dao.TokenRepository = (*GormTokenRepository)(nil)

func NewGormTokenRepository(db *gorm.DB) *GormTokenRepository {
	return &GormTokenRepository{db: db}
}

func (r *GormTokenRepository) Create(ctx context.Context, token *model.AccessToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("%w: token creation failed", apperrors.WrapGormError(err))
	}
	return nil
}

func (r *GormTokenRepository) FindByID(ctx context.Context, id string) (model.AccessToken, error) {
	var token model.AccessToken
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&token).Error; err != nil {
		return model.AccessToken{}, apperrors.WrapGormError(err)
	}
	return token, nil
}

func (r *GormTokenRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.AccessToken{})
	if result.Error != nil {
		return fmt.Errorf("%w: token delete failed", apperrors.WrapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Only last_used_at changes; updated_at is left alone
func (r *GormTokenRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&model.AccessToken{}).
		Where("id = ?", id).
		UpdateColumn("last_used_at", at).Error
	return apperrors.WrapGormError(err)
}
