package dao

import (
	"context"

	"music-hub/pkg/core/song/model"
)

type SongRepository interface {
	List(ctx context.Context) ([]model.Song, error)
	QueryByID(ctx context.Context, id uint64) (model.Song, error)
	CreateSong(ctx context.Context, song *model.Song) error
	// UpdateFields applies a partial update and returns the reloaded record.
	UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) (model.Song, error)
	DeleteSong(ctx context.Context, id uint64) error
}
