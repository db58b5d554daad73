package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	apperrors "music-hub/pkg/common/errors"
	"music-hub/pkg/common/logging"
	"music-hub/pkg/common/storage"
	"music-hub/pkg/common/validate"
	"music-hub/pkg/core/song/model"
	"music-hub/pkg/core/song/repository/dao"
)

const (
	FieldTitle    = "title"
	FieldArtist   = "artist"
	FieldAlbum    = "album"
	FieldDuration = "duration"
	FieldCoverArt = "cover_art"

	imageDir   = "covers"
	maxImageKB = 2048
)

type SongService interface {
	List(ctx context.Context) ([]model.Song, error)
	Create(ctx context.Context, in *validate.Input) (model.Song, error)
	Show(ctx context.Context, id uint64) (model.Song, error)
	Update(ctx context.Context, id uint64, in *validate.Input) (model.Song, error)
	Destroy(ctx context.Context, id uint64) error
}

type songService struct {
	repo   dao.SongRepository
	images storage.ImageStore
	logger hlog.FullLogger
}

func NewSongService(repo dao.SongRepository, images storage.ImageStore, logger hlog.FullLogger) SongService {
	if logger == nil {
		logger = hlog.DefaultLogger()
	}
	return &songService{repo: repo, images: images, logger: logger}
}

func (s *songService) List(ctx context.Context) ([]model.Song, error) {
	s.logger.CtxInfof(ctx, "fetching all songs")
	return s.repo.List(ctx)
}

func (s *songService) Show(ctx context.Context, id uint64) (model.Song, error) {
	s.logger.CtxInfof(ctx, "fetching song id=%d", id)
	return s.repo.QueryByID(ctx, id)
}

func duration(in *validate.Input) int {
	d, _ := strconv.Atoi(strings.TrimSpace(in.Value(FieldDuration)))
	return d
}

func (s *songService) Create(ctx context.Context, in *validate.Input) (model.Song, error) {
	s.logger.CtxInfof(ctx, "starting creation of new song %s", logging.Fields(in.Values()))

	v := validate.New(in)
	v.Field(FieldTitle).Required().Text().Max(255)
	v.Field(FieldArtist).Required().Text().Max(255)
	v.Field(FieldAlbum).Required().Text().Max(255)
	v.Field(FieldDuration).Required().Integer().Min(0)
	v.Field(FieldCoverArt).Image(maxImageKB)
	if err := v.Err(); err != nil {
		s.logger.CtxWarnf(ctx, "song validation failed err=%v", err)
		return model.Song{}, err
	}

	song := model.Song{
		Title:    in.Value(FieldTitle),
		Artist:   in.Value(FieldArtist),
		Album:    in.Value(FieldAlbum),
		Duration: duration(in),
	}

	if img := in.File(FieldCoverArt); img != nil {
		url, err := s.images.Save(ctx, imageDir, img)
		if err != nil {
			return model.Song{}, apperrors.Internal(err, "store cover art")
		}
		song.CoverArtURL = &url
		s.logger.CtxInfof(ctx, "cover art image saved url=%s", url)
	}

	if err := s.repo.CreateSong(ctx, &song); err != nil {
		s.images.Discard(ctx, song.ImageURL())
		return model.Song{}, err
	}

	s.logger.CtxInfof(ctx, "song saved song_id=%d", song.ID)
	return song, nil
}

func (s *songService) Update(ctx context.Context, id uint64, in *validate.Input) (model.Song, error) {
	s.logger.CtxInfof(ctx, "starting update of song id=%d %s", id, logging.Fields(in.Values()))

	song, err := s.repo.QueryByID(ctx, id)
	if err != nil {
		return model.Song{}, err
	}

	v := validate.New(in)
	v.Field(FieldTitle).Sometimes().Required().Text().Max(255)
	v.Field(FieldArtist).Sometimes().Required().Text().Max(255)
	v.Field(FieldAlbum).Sometimes().Required().Text().Max(255)
	v.Field(FieldDuration).Sometimes().Required().Integer().Min(0)
	v.Field(FieldCoverArt).Image(maxImageKB)
	if err := v.Err(); err != nil {
		s.logger.CtxWarnf(ctx, "song validation failed id=%d err=%v", id, err)
		return model.Song{}, err
	}

	fields := map[string]interface{}{}
	for _, f := range []string{FieldTitle, FieldArtist, FieldAlbum} {
		if in.Has(f) {
			fields[f] = in.Value(f)
		}
	}
	if in.Has(FieldDuration) {
		fields["duration"] = duration(in)
	}

	oldImage := song.ImageURL()
	newImage := ""
	if img := in.File(FieldCoverArt); img != nil {
		s.logger.CtxInfof(ctx, "processing new cover art image id=%d", id)
		newImage, err = s.images.Save(ctx, imageDir, img)
		if err != nil {
			return model.Song{}, apperrors.Internal(err, "store cover art")
		}
		fields["cover_art_url"] = newImage
		s.logger.CtxInfof(ctx, "new cover art image saved url=%s", newImage)
	}

	updated, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		s.images.Discard(ctx, newImage)
		return model.Song{}, err
	}
	if newImage != "" {
		s.images.Discard(ctx, oldImage)
	}

	s.logger.CtxInfof(ctx, "song updated song_id=%d", id)
	return updated, nil
}

func (s *songService) Destroy(ctx context.Context, id uint64) error {
	s.logger.CtxInfof(ctx, "starting deletion of song id=%d", id)

	song, err := s.repo.QueryByID(ctx, id)
	if err != nil {
		return err
	}

	s.images.Discard(ctx, song.ImageURL())

	if err := s.repo.DeleteSong(ctx, id); err != nil {
		return err
	}
	s.logger.CtxInfof(ctx, "song deleted song_id=%d", id)
	return nil
}
