// Package service issues and validates personal access tokens.
//
// A token is a signed JWT whose jti names the stored record. Only the SHA-256
// digest of the token is persisted, so a token must pass both the signature
// check and the digest comparison, and deleting the record revokes it.
package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"music-hub/pkg/common/config"
	apperrors "music-hub/pkg/common/errors"
	tokenmodel "music-hub/pkg/core/token/model"
	tokendao "music-hub/pkg/core/token/repository/dao"
	usermodel "music-hub/pkg/core/user/model"
	userdao "music-hub/pkg/core/user/repository/dao"
)

const (
	NameAuth   = "auth_token"
	NameMaster = "master_token"
)

// Claims 令牌载荷；不设置 exp，令牌只能通过撤销失效
type Claims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

type TokenService interface {
	Issue(ctx context.Context, user usermodel.User, name string, scopes ...string) (string, error)
	Validate(ctx context.Context, plaintext string) (usermodel.User, tokenmodel.AccessToken, error)
	Revoke(ctx context.Context, tokenID string) error
}

type tokenService struct {
	tokens tokendao.TokenRepository
	users  userdao.UserRepository
	secret []byte
	issuer string
	method jwt.SigningMethod
	logger hlog.FullLogger
	now    func() time.Time
}

func NewTokenService(cfg config.TokenConfig, tokens tokendao.TokenRepository, users userdao.UserRepository, logger hlog.FullLogger) (TokenService, error) {
	if cfg.Secret == "" {
		return nil, apperrors.Configuration("token secret is empty")
	}
	method := jwt.GetSigningMethod(cfg.SigningMethod)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, apperrors.Configuration("unsupported token signing method %q", cfg.SigningMethod)
	}
	if logger == nil {
		logger = hlog.DefaultLogger()
	}
	return &tokenService{
		tokens: tokens,
		users:  users,
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		method: method,
		logger: logger,
		now:    time.Now,
	}, nil
}

func digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

func (s *tokenService) Issue(ctx context.Context, user usermodel.User, name string, scopes ...string) (string, error) {
	if len(scopes) == 0 {
		scopes = []string{tokenmodel.AbilityAll}
	}

	id := uuid.NewString()
	claims := Claims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       id,
			Subject:  strconv.FormatUint(user.ID, 10),
			Issuer:   s.issuer,
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
	}
	plaintext, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", apperrors.Internal(err, "sign token")
	}

	record := &tokenmodel.AccessToken{
		ID:        id,
		UserID:    user.ID,
		Name:      name,
		TokenHash: digest(plaintext),
		Abilities: scopes,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return "", err
	}

	s.logger.CtxInfof(ctx, "token issued token_id=%s user_id=%d name=%s", id, user.ID, name)
	return plaintext, nil
}

func (s *tokenService) parse(plaintext string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{s.method.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	_, err := jwt.ParseWithClaims(plaintext, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, errors.New("token has no id")
	}
	return claims, nil
}

func (s *tokenService) Validate(ctx context.Context, plaintext string) (usermodel.User, tokenmodel.AccessToken, error) {
	claims, err := s.parse(plaintext)
	if err != nil {
		s.logger.CtxDebugf(ctx, "token rejected err=%v", err)
		return usermodel.User{}, tokenmodel.AccessToken{}, apperrors.ErrUnauthorized
	}

	record, err := s.tokens.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return usermodel.User{}, tokenmodel.AccessToken{}, apperrors.ErrUnauthorized
		}
		return usermodel.User{}, tokenmodel.AccessToken{}, err
	}
	if subtle.ConstantTimeCompare([]byte(record.TokenHash), []byte(digest(plaintext))) != 1 {
		return usermodel.User{}, tokenmodel.AccessToken{}, apperrors.ErrUnauthorized
	}
	if claims.Subject != strconv.FormatUint(record.UserID, 10) {
		return usermodel.User{}, tokenmodel.AccessToken{}, apperrors.ErrUnauthorized
	}

	user, err := s.users.QueryByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return usermodel.User{}, tokenmodel.AccessToken{}, apperrors.ErrUnauthorized
		}
		return usermodel.User{}, tokenmodel.AccessToken{}, err
	}

	// 最近使用时间仅作记录，失败不影响鉴权
	now := s.now()
	if err := s.tokens.TouchLastUsed(ctx, record.ID, now); err != nil {
		s.logger.CtxWarnf(ctx, "token last_used_at update failed token_id=%s err=%v", record.ID, err)
	} else {
		record.LastUsedAt = &now
	}

	return user, record, nil
}

func (s *tokenService) Revoke(ctx context.Context, tokenID string) error {
	if err := s.tokens.Delete(ctx, tokenID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrUnauthorized
		}
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.CtxInfof(ctx, "token revoked token_id=%s", tokenID)
	return nil
}
