package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	apperrors "music-hub/pkg/common/errors"
	authservice "music-hub/pkg/core/auth/service"
	"music-hub/pkg/web/middleware"
	"music-hub/pkg/web/model"
)

type AuthHandler struct {
	auth   authservice.AuthService
	master authservice.MasterService
}

func NewAuthHandler(auth authservice.AuthService, master authservice.MasterService) *AuthHandler {
	return &AuthHandler{auth: auth, master: master}
}

// Login 邮箱密码登录，签发 auth_token
func (h *AuthHandler) Login(ctx context.Context, c *app.RequestContext) {
	in, err := bindInput(c)
	if err != nil {
		respondResourceError(c, err, "")
		return
	}

	token, user, err := h.auth.Login(ctx, in)
	if err != nil {
		respondResourceError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, model.LoginRes{
		AccessToken: token,
		TokenType:   model.TokenTypeBearer,
		Usuario:     user,
	})
}

// Logout 仅撤销本次请求使用的令牌
func (h *AuthHandler) Logout(ctx context.Context, c *app.RequestContext) {
	token, ok := middleware.CurrentToken(c)
	if !ok {
		respondResourceError(c, apperrors.ErrUnauthorized, "")
		return
	}
	if err := h.auth.Logout(ctx, token); err != nil {
		respondResourceError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, model.MessageRes{Message: "Sesión cerrada correctamente"})
}

// Me 返回当前认证用户
func (h *AuthHandler) Me(ctx context.Context, c *app.RequestContext) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondResourceError(c, apperrors.ErrUnauthorized, "")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GenerateMasterToken 用主密钥换取 master_token
func (h *AuthHandler) GenerateMasterToken(ctx context.Context, c *app.RequestContext) {
	in, err := bindInput(c)
	if err != nil {
		respondResourceError(c, err, "")
		return
	}

	token, err := h.master.Bootstrap(ctx, in.Value(authservice.FieldSecretKey))
	if err != nil {
		record(c, err)
		if ve, ok := apperrors.AsValidation(err); ok {
			c.JSON(http.StatusUnprocessableEntity, ve.Fields)
			return
		}
		switch {
		case errors.Is(err, apperrors.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, utils.H{"error": "Unauthorized"})
		case errors.Is(err, apperrors.ErrConfiguration):
			c.JSON(http.StatusInternalServerError, utils.H{"error": "Configuración incompleta"})
		default:
			c.JSON(http.StatusInternalServerError, utils.H{"error": msgInternal})
		}
		return
	}

	c.JSON(http.StatusOK, model.MasterTokenRes{MasterToken: token})
}
