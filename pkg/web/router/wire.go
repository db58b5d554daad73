package router

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"music-hub/pkg/common/config"
	"music-hub/pkg/common/hashing"
	"music-hub/pkg/common/sentry"
	"music-hub/pkg/common/storage"
	authservice "music-hub/pkg/core/auth/service"
	songimpl "music-hub/pkg/core/song/repository/dao/impl"
	songservice "music-hub/pkg/core/song/service"
	tokenimpl "music-hub/pkg/core/token/repository/dao/impl"
	tokenservice "music-hub/pkg/core/token/service"
	userimpl "music-hub/pkg/core/user/repository/dao/impl"
	userservice "music-hub/pkg/core/user/service"
)

// Wire 按配置装配仓储与服务
func Wire(ctx context.Context, cfg *config.Config, db *gorm.DB, reporter *sentry.Reporter) (Services, error) {
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return Services{}, err
	}

	logger := hlog.DefaultLogger()
	images := storage.NewImages(store, logger)
	hasher := hashing.NewBcryptHasher(bcrypt.DefaultCost)

	users := userimpl.NewGormUserRepository(db)
	songs := songimpl.NewGormSongRepository(db)
	tokens, err := tokenservice.NewTokenService(cfg.Token, tokenimpl.NewGormTokenRepository(db), users, logger)
	if err != nil {
		return Services{}, err
	}

	return Services{
		DB:       db,
		Store:    store,
		Reporter: reporter,
		Auth:     authservice.NewAuthService(users, tokens, hasher, logger),
		Master:   authservice.NewMasterService(cfg.Master, users, tokens, hasher, reporter, logger),
		Users:    userservice.NewUserService(users, hasher, images, logger),
		Songs:    songservice.NewSongService(songs, images, logger),
	}, nil
}
