package dao

import (
	"context"
	"time"

	"music-hub/pkg/core/token/model"
)

// TokenRepository persists issued access tokens by id.
type TokenRepository interface {
	Create(ctx context.Context, token *model.AccessToken) error
	FindByID(ctx context.Context, id string) (model.AccessToken, error)
	Delete(ctx context.Context, id string) error
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
}
