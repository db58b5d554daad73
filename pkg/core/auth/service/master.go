package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"music-hub/pkg/common/config"
	apperrors "music-hub/pkg/common/errors"
	"music-hub/pkg/common/hashing"
	"music-hub/pkg/common/logging"
	"music-hub/pkg/common/sentry"
	tokenmodel "music-hub/pkg/core/token/model"
	tokenservice "music-hub/pkg/core/token/service"
	usermodel "music-hub/pkg/core/user/model"
	userdao "music-hub/pkg/core/user/repository/dao"
)

const (
	FieldSecretKey = "secret_key"
	masterSurname  = "Master"
)

// MasterService provisions the operator account and hands out master tokens.
type MasterService interface {
	Bootstrap(ctx context.Context, secretKey string) (string, error)
}

type masterService struct {
	cfg      config.MasterConfig
	users    userdao.UserRepository
	tokens   tokenservice.TokenService
	hasher   hashing.Hasher
	reporter *sentry.Reporter
	logger   hlog.FullLogger
	now      func() time.Time
}

func NewMasterService(cfg config.MasterConfig, users userdao.UserRepository, tokens tokenservice.TokenService, hasher hashing.Hasher, reporter *sentry.Reporter, logger hlog.FullLogger) MasterService {
	if logger == nil {
		logger = hlog.DefaultLogger()
	}
	return &masterService{
		cfg:      cfg,
		users:    users,
		tokens:   tokens,
		hasher:   hasher,
		reporter: reporter,
		logger:   logger,
		now:      time.Now,
	}
}

// secretMatches 常量时间比较；未配置密钥时一律拒绝
func (s *masterService) secretMatches(secretKey string) bool {
	if s.cfg.SecretKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secretKey), []byte(s.cfg.SecretKey)) == 1
}

func (s *masterService) Bootstrap(ctx context.Context, secretKey string) (string, error) {
	s.logger.CtxInfof(ctx, "master token requested %s", logging.KV(FieldSecretKey, secretKey))

	if secretKey == "" {
		return "", apperrors.FieldError(FieldSecretKey, "The secret key field is required.")
	}
	if !s.secretMatches(secretKey) {
		s.logger.CtxWarnf(ctx, "master token rejected: invalid secret key")
		return "", apperrors.ErrUnauthorized
	}

	s.logger.CtxInfof(ctx, "master account settings %s", logging.KV(
		"MASTER_USER_EMAIL", s.cfg.UserEmail,
		"MASTER_USER_NAME", s.cfg.UserName,
		"MASTER_USER_PASSWORD", s.cfg.UserPassword,
	))
	if !s.cfg.Complete() {
		err := apperrors.Configuration("MASTER_USER_EMAIL, MASTER_USER_NAME and MASTER_USER_PASSWORD must all be set")
		s.logger.CtxErrorf(ctx, "master token failed: %v", err)
		s.reporter.CaptureMessage(err.Error())
		return "", err
	}
	if len(s.cfg.UserPassword) > hashing.MaxPasswordBytes {
		err := apperrors.Configuration("MASTER_USER_PASSWORD must not exceed %d bytes", hashing.MaxPasswordBytes)
		s.logger.CtxErrorf(ctx, "master token failed: %v", err)
		s.reporter.CaptureMessage(err.Error())
		return "", err
	}

	user, err := s.upsertMaster(ctx)
	if err != nil {
		s.logger.CtxErrorf(ctx, "master account upsert failed err=%v", err)
		s.reporter.CaptureException(err)
		return "", apperrors.Internal(err, "upsert master account")
	}
	s.logger.CtxInfof(ctx, "master account ready user_id=%d", user.ID)

	token, err := s.tokens.Issue(ctx, user, tokenservice.NameMaster, tokenmodel.AbilityAll)
	if err != nil {
		s.logger.CtxErrorf(ctx, "master token issue failed err=%v", err)
		s.reporter.CaptureException(err)
		return "", apperrors.Internal(err, "issue master token")
	}
	s.logger.CtxInfof(ctx, "master token issued user_id=%d", user.ID)
	return token, nil
}

// upsertMaster 按邮箱创建或覆盖主账号
func (s *masterService) upsertMaster(ctx context.Context) (usermodel.User, error) {
	hash, err := s.hasher.Hash(s.cfg.UserPassword)
	if err != nil {
		return usermodel.User{}, err
	}
	birth := s.now().AddDate(-30, 0, 0)

	existing, err := s.users.QueryByEmail(ctx, s.cfg.UserEmail)
	switch {
	case err == nil:
		return s.users.UpdateFields(ctx, existing.ID, map[string]interface{}{
			"nombre":           s.cfg.UserName,
			"apellido":         masterSurname,
			"contrasena":       hash,
			"fecha_nacimiento": birth,
		})
	case errors.Is(err, apperrors.ErrNotFound):
		user := usermodel.User{
			Name:         s.cfg.UserName,
			Surname:      masterSurname,
			Email:        s.cfg.UserEmail,
			PasswordHash: hash,
			BirthDate:    birth,
		}
		if err := s.users.CreateUser(ctx, &user); err != nil {
			return usermodel.User{}, err
		}
		return user, nil
	default:
		return usermodel.User{}, err
	}
}
