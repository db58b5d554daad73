package handler

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	songservice "music-hub/pkg/core/song/service"
	"music-hub/pkg/web/model"
)

type SongHandler struct {
	songs songservice.SongService
}

func NewSongHandler(songs songservice.SongService) *SongHandler {
	return &SongHandler{songs: songs}
}

func (h *SongHandler) Index(ctx context.Context, c *app.RequestContext) {
	songs, err := h.songs.List(ctx)
	if err != nil {
		record(c, err)
		c.JSON(http.StatusInternalServerError, model.ErrorRes{Error: "Error fetching songs"})
		return
	}
	c.JSON(http.StatusOK, songs)
}

func (h *SongHandler) Store(ctx context.Context, c *app.RequestContext) {
	in, err := bindInput(c)
	if err != nil {
		respondSongError(c, err, "creating")
		return
	}
	song, err := h.songs.Create(ctx, in)
	if err != nil {
		respondSongError(c, err, "creating")
		return
	}
	c.JSON(http.StatusCreated, song)
}

// Show 任何查找失败都按未找到返回
func (h *SongHandler) Show(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c)
	if err != nil {
		respondSongError(c, err, "fetching")
		return
	}
	song, err := h.songs.Show(ctx, id)
	if err != nil {
		record(c, err)
		c.JSON(http.StatusNotFound, model.ErrorRes{Error: "Song not found"})
		return
	}
	c.JSON(http.StatusOK, song)
}

func (h *SongHandler) Update(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c)
	if err != nil {
		respondSongError(c, err, "updating")
		return
	}
	in, err := bindInput(c)
	if err != nil {
		respondSongError(c, err, "updating")
		return
	}
	song, err := h.songs.Update(ctx, id, in)
	if err != nil {
		respondSongError(c, err, "updating")
		return
	}
	c.JSON(http.StatusOK, song)
}

func (h *SongHandler) Destroy(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c)
	if err != nil {
		respondSongError(c, err, "deleting")
		return
	}
	if err := h.songs.Destroy(ctx, id); err != nil {
		respondSongError(c, err, "deleting")
		return
	}
	c.Status(http.StatusNoContent)
}
