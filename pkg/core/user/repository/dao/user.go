package dao

import (
	"context"

	"music-hub/pkg/core/user/model"
)

// UserRepository is the credential store: persisted user records keyed by
// id and, uniquely, by email.
type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	QueryByID(ctx context.Context, id uint64) (model.User, error)
	QueryByEmail(ctx context.Context, email string) (model.User, error)
	// IsEmailTaken checks uniqueness, ignoring the record with excludeID (0 = none).
	IsEmailTaken(ctx context.Context, email string, excludeID uint64) (bool, error)
	CreateUser(ctx context.Context, user *model.User) error
	// UpdateFields applies a partial update and returns the reloaded record.
	UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) (model.User, error)
	DeleteUser(ctx context.Context, id uint64) error
}
