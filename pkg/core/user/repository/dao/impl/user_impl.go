package dao

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	apperrors "music-hub/pkg/common/errors"
	"music-hub/pkg/core/user/model"
	"music-hub/pkg/core/user/repository/dao"
)

type GormUserRepository struct {
	db *gorm.DB
}

var _ dao.UserRepository = (*GormUserRepository)(nil)

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("%w: user list failed", apperrors.WrapGormError(err))
	}
	return users, nil
}

func (r *GormUserRepository) QueryByID(ctx context.Context, id uint64) (model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return model.User{}, apperrors.WrapGormError(err)
	}
	return user, nil
}

func (r *GormUserRepository) QueryByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("correo_electronico = ?", email).First(&user).Error
	if err != nil {
		return model.User{}, apperrors.WrapGormError(err)
	}
	return user, nil
}

// Check email existence, optionally excluding one record
func (r *GormUserRepository) IsEmailTaken(ctx context.Context, email string, excludeID uint64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.User{}).Where("correo_electronico = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("%w: failed to check email", apperrors.WrapGormError(err))
	}
	return count > 0, nil
}

// Create new user with transaction
func (r *GormUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if apperrors.IsDuplicateError(apperrors.WrapGormError(err)) {
				return apperrors.ErrDuplicateEntry
			}
			return fmt.Errorf("%w: user creation failed", apperrors.WrapGormError(err))
		}
		return nil
	})
}

// Update only the given columns, then reload
func (r *GormUserRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) (model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			return apperrors.WrapGormError(err)
		}
		if len(fields) > 0 {
			if err := tx.Model(&user).Updates(fields).Error; err != nil {
				wrapped := apperrors.WrapGormError(err)
				if apperrors.IsDuplicateError(wrapped) {
					return apperrors.ErrDuplicateEntry
				}
				return fmt.Errorf("%w: user update failed", wrapped)
			}
		}
		return tx.Where("id = ?", id).First(&user).Error
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (r *GormUserRepository) DeleteUser(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("%w: user delete failed", apperrors.WrapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
