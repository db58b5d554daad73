package handler

import (
	"errors"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	apperrors "music-hub/pkg/common/errors"
	"music-hub/pkg/web/model"
)

const msgInternal = "Error interno del servidor"

// record 把错误挂到请求上下文，由日志中间件统一输出
func record(c *app.RequestContext, err error) {
	_ = c.Error(apperrors.ToHertz(err, c.Path()))
}

// respondResourceError 用户与认证接口的错误响应：422 直接返回字段映射
func respondResourceError(c *app.RequestContext, err error, notFound string) {
	record(c, err)

	if ve, ok := apperrors.AsValidation(err); ok {
		c.JSON(http.StatusUnprocessableEntity, ve.Fields)
		return
	}
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, model.MessageRes{Message: notFound})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, model.MessageRes{Message: "Unauthenticated."})
	default:
		c.JSON(http.StatusInternalServerError, utils.H{"error": msgInternal})
	}
}

// respondSongError 歌曲接口的错误响应格式
func respondSongError(c *app.RequestContext, err error, action string) {
	record(c, err)

	if ve, ok := apperrors.AsValidation(err); ok {
		c.JSON(http.StatusUnprocessableEntity, model.ErrorRes{Error: "Validation error", Details: ve.Fields})
		return
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, model.ErrorRes{Error: "Song not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, model.ErrorRes{Error: "Error " + action + " song", Details: err.Error()})
}
