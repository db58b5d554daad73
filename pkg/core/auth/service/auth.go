package service

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	apperrors "music-hub/pkg/common/errors"
	"music-hub/pkg/common/hashing"
	"music-hub/pkg/common/validate"
	tokenmodel "music-hub/pkg/core/token/model"
	tokenservice "music-hub/pkg/core/token/service"
	usermodel "music-hub/pkg/core/user/model"
	userdao "music-hub/pkg/core/user/repository/dao"
)

const (
	FieldEmail    = "correo_electronico"
	FieldPassword = "contraseña"

	// MsgInvalidCredentials 未知邮箱与密码错误使用同一提示
	MsgInvalidCredentials = "Las credenciales proporcionadas son incorrectas."
)

type AuthService interface {
	// Login checks the credentials and issues an auth_token.
	Login(ctx context.Context, in *validate.Input) (string, usermodel.User, error)
	// Authenticate resolves a bearer token to its user.
	Authenticate(ctx context.Context, plaintext string) (usermodel.User, tokenmodel.AccessToken, error)
	// Logout revokes only the token used for the current request.
	Logout(ctx context.Context, token tokenmodel.AccessToken) error
}

type authService struct {
	users  userdao.UserRepository
	tokens tokenservice.TokenService
	hasher hashing.Hasher
	logger hlog.FullLogger
}

func NewAuthService(users userdao.UserRepository, tokens tokenservice.TokenService, hasher hashing.Hasher, logger hlog.FullLogger) AuthService {
	if logger == nil {
		logger = hlog.DefaultLogger()
	}
	return &authService{users: users, tokens: tokens, hasher: hasher, logger: logger}
}

func (s *authService) Login(ctx context.Context, in *validate.Input) (string, usermodel.User, error) {
	v := validate.New(in)
	v.Field(FieldEmail).Required().Email()
	v.Field(FieldPassword).Required()
	if err := v.Err(); err != nil {
		return "", usermodel.User{}, err
	}

	email := strings.TrimSpace(in.Value(FieldEmail))
	user, err := s.users.QueryByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return "", usermodel.User{}, err
	}
	if err != nil || !s.hasher.Check(in.Value(FieldPassword), user.PasswordHash) {
		s.logger.CtxWarnf(ctx, "login rejected email=%s", email)
		return "", usermodel.User{}, apperrors.FieldError(FieldEmail, MsgInvalidCredentials)
	}

	token, err := s.tokens.Issue(ctx, user, tokenservice.NameAuth)
	if err != nil {
		return "", usermodel.User{}, err
	}
	s.logger.CtxInfof(ctx, "login succeeded user_id=%d", user.ID)
	return token, user, nil
}

func (s *authService) Authenticate(ctx context.Context, plaintext string) (usermodel.User, tokenmodel.AccessToken, error) {
	if plaintext == "" {
		return usermodel.User{}, tokenmodel.AccessToken{}, apperrors.ErrUnauthorized
	}
	return s.tokens.Validate(ctx, plaintext)
}

func (s *authService) Logout(ctx context.Context, token tokenmodel.AccessToken) error {
	if err := s.tokens.Revoke(ctx, token.ID); err != nil {
		return err
	}
	s.logger.CtxInfof(ctx, "logout user_id=%d token_id=%s", token.UserID, token.ID)
	return nil
}
