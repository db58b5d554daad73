package handler

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	userservice "music-hub/pkg/core/user/service"
)

const msgUserNotFound = "Usuario no encontrado"

type UserHandler struct {
	users userservice.UserService
}

func NewUserHandler(users userservice.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Index(ctx context.Context, c *app.RequestContext) {
	users, err := h.users.List(ctx)
	if err != nil {
		respondResourceError(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Store(ctx context.Context, c *app.RequestContext) {
	in, err := bindInput(c)
	if err != nil {
		respondResourceError(c, err, msgUserNotFound)
		return
	}
	user, err := h.users.Create(ctx, in)
	if err != nil {
		respondResourceError(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Show(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c)
	if err != nil {
		respondResourceError(c, err, msgUserNotFound)
		return
	}
	user, err := h.users.Show(ctx, id)
	if err != nil {
		respondResourceError(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c)
	if err != nil {
		respondResourceError(c, err, msgUserNotFound)
		return
	}
	in, err := bindInput(c)
	if err != nil {
		respondResourceError(c, err, msgUserNotFound)
		return
	}
	user, err := h.users.Update(ctx, id, in)
	if err != nil {
		respondResourceError(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Destroy(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c)
	if err != nil {
		respondResourceError(c, err, msgUserNotFound)
		return
	}
	if err := h.users.Destroy(ctx, id); err != nil {
		respondResourceError(c, err, msgUserNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
