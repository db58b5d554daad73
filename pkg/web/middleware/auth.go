package middleware

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"

	authservice "music-hub/pkg/core/auth/service"
	tokenmodel "music-hub/pkg/core/token/model"
	usermodel "music-hub/pkg/core/user/model"
)

const (
	ctxKeyUser  = "auth_user"
	ctxKeyToken = "auth_token"
)

// TokenAuthMiddleware 校验 Bearer 令牌并把用户与令牌挂到请求上下文
func TokenAuthMiddleware(auth authservice.AuthService) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		plaintext := bearerToken(string(ctx.GetHeader("Authorization")))

		user, token, err := auth.Authenticate(c, plaintext)
		if err != nil {
			hlog.CtxInfof(c, "unauthenticated request path=%s err=%v", ctx.Path(), err)
			ctx.AbortWithStatusJSON(401, utils.H{"message": "Unauthenticated."})
			return
		}

		ctx.Set(ctxKeyUser, user)
		ctx.Set(ctxKeyToken, token)
		ctx.Next(c)
	}
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// CurrentUser 返回已认证的用户
func CurrentUser(ctx *app.RequestContext) (usermodel.User, bool) {
	v, ok := ctx.Get(ctxKeyUser)
	if !ok {
		return usermodel.User{}, false
	}
	user, ok := v.(usermodel.User)
	return user, ok
}

// CurrentToken 返回本次请求使用的令牌
func CurrentToken(ctx *app.RequestContext) (tokenmodel.AccessToken, bool) {
	v, ok := ctx.Get(ctxKeyToken)
	if !ok {
		return tokenmodel.AccessToken{}, false
	}
	token, ok := v.(tokenmodel.AccessToken)
	return token, ok
}
