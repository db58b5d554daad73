package service

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	apperrors "music-hub/pkg/common/errors"
	"music-hub/pkg/common/hashing"
	"music-hub/pkg/common/logging"
	"music-hub/pkg/common/storage"
	"music-hub/pkg/common/validate"
	"music-hub/pkg/core/user/model"
	"music-hub/pkg/core/user/repository/dao"
)

// 请求字段名与对外接口保持一致
const (
	FieldName      = "nombre"
	FieldSurname   = "apellido"
	FieldEmail     = "correo_electronico"
	FieldPassword  = "contraseña"
	FieldBirthDate = "fecha_nacimiento"
	FieldImage     = "imagen_perfil"

	imageDir   = "perfiles"
	maxImageKB = 2048
)

type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, in *validate.Input) (model.User, error)
	Show(ctx context.Context, id uint64) (model.User, error)
	Update(ctx context.Context, id uint64, in *validate.Input) (model.User, error)
	Destroy(ctx context.Context, id uint64) error
}

type userService struct {
	repo   dao.UserRepository
	hasher hashing.Hasher
	images storage.ImageStore
	logger hlog.FullLogger
}

func NewUserService(repo dao.UserRepository, hasher hashing.Hasher, images storage.ImageStore, logger hlog.FullLogger) UserService {
	if logger == nil {
		logger = hlog.DefaultLogger()
	}
	return &userService{repo: repo, hasher: hasher, images: images, logger: logger}
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) Show(ctx context.Context, id uint64) (model.User, error) {
	return s.repo.QueryByID(ctx, id)
}

// checkEmailUnique 邮箱格式无误时才查询唯一性
func (s *userService) checkEmailUnique(ctx context.Context, v *validate.Validator, in *validate.Input, excludeID uint64) error {
	if ve, ok := apperrors.AsValidation(v.Err()); ok && ve.Has(FieldEmail) {
		return nil
	}
	if !in.Has(FieldEmail) {
		return nil
	}
	taken, err := s.repo.IsEmailTaken(ctx, strings.TrimSpace(in.Value(FieldEmail)), excludeID)
	if err != nil {
		return err
	}
	if taken {
		v.Fail(FieldEmail, validate.Taken(FieldEmail))
	}
	return nil
}

func (s *userService) Create(ctx context.Context, in *validate.Input) (model.User, error) {
	s.logger.CtxInfof(ctx, "creating user %s", logging.Fields(in.Values()))

	v := validate.New(in)
	v.Field(FieldName).Required().Text().Max(255)
	v.Field(FieldSurname).Required().Text().Max(255)
	v.Field(FieldEmail).Required().Text().Email().Max(255)
	v.Field(FieldPassword).Required().Text().MinLen(8).MaxBytes(hashing.MaxPasswordBytes)
	v.Field(FieldBirthDate).Required().Date()
	v.Field(FieldImage).Image(maxImageKB)
	if err := s.checkEmailUnique(ctx, v, in, 0); err != nil {
		return model.User{}, err
	}
	if err := v.Err(); err != nil {
		return model.User{}, err
	}

	hash, err := s.hasher.Hash(in.Value(FieldPassword))
	if err != nil {
		return model.User{}, apperrors.Internal(err, "hash password")
	}
	birth, _ := validate.ParseDate(in.Value(FieldBirthDate))

	user := model.User{
		Name:         in.Value(FieldName),
		Surname:      in.Value(FieldSurname),
		Email:        strings.TrimSpace(in.Value(FieldEmail)),
		PasswordHash: hash,
		BirthDate:    birth,
	}

	if img := in.File(FieldImage); img != nil {
		url, err := s.images.Save(ctx, imageDir, img)
		if err != nil {
			return model.User{}, apperrors.Internal(err, "store profile image")
		}
		user.ProfileImageURL = &url
		s.logger.CtxInfof(ctx, "profile image stored url=%s", url)
	}

	if err := s.repo.CreateUser(ctx, &user); err != nil {
		s.images.Discard(ctx, user.ImageURL())
		if errors.Is(err, apperrors.ErrDuplicateEntry) {
			return model.User{}, apperrors.FieldError(FieldEmail, validate.Taken(FieldEmail))
		}
		return model.User{}, err
	}

	s.logger.CtxInfof(ctx, "user created id=%d", user.ID)
	return user, nil
}

func (s *userService) Update(ctx context.Context, id uint64, in *validate.Input) (model.User, error) {
	user, err := s.repo.QueryByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	s.logger.CtxInfof(ctx, "updating user id=%d %s", id, logging.Fields(in.Values()))

	v := validate.New(in)
	v.Field(FieldName).Sometimes().Required().Text().Max(255)
	v.Field(FieldSurname).Sometimes().Required().Text().Max(255)
	v.Field(FieldEmail).Sometimes().Required().Text().Email().Max(255)
	v.Field(FieldPassword).Nullable().Text().MinLen(8).MaxBytes(hashing.MaxPasswordBytes)
	v.Field(FieldBirthDate).Sometimes().Required().Date()
	v.Field(FieldImage).Image(maxImageKB)
	if err := s.checkEmailUnique(ctx, v, in, id); err != nil {
		return model.User{}, err
	}
	if err := v.Err(); err != nil {
		return model.User{}, err
	}

	fields := map[string]interface{}{}
	if in.Has(FieldName) {
		fields["nombre"] = in.Value(FieldName)
	}
	if in.Has(FieldSurname) {
		fields["apellido"] = in.Value(FieldSurname)
	}
	if in.Has(FieldEmail) {
		fields["correo_electronico"] = strings.TrimSpace(in.Value(FieldEmail))
	}
	if in.Has(FieldBirthDate) {
		birth, _ := validate.ParseDate(in.Value(FieldBirthDate))
		fields["fecha_nacimiento"] = birth
	}
	if in.Filled(FieldPassword) {
		hash, err := s.hasher.Hash(in.Value(FieldPassword))
		if err != nil {
			return model.User{}, apperrors.Internal(err, "hash password")
		}
		fields["contrasena"] = hash
	}

	oldImage := user.ImageURL()
	newImage := ""
	if img := in.File(FieldImage); img != nil {
		s.logger.CtxInfof(ctx, "replacing profile image id=%d", id)
		newImage, err = s.images.Save(ctx, imageDir, img)
		if err != nil {
			return model.User{}, apperrors.Internal(err, "store profile image")
		}
		fields["url_imagen_perfil"] = newImage
		s.logger.CtxInfof(ctx, "profile image stored url=%s", newImage)
	}

	updated, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		s.images.Discard(ctx, newImage)
		if errors.Is(err, apperrors.ErrDuplicateEntry) {
			return model.User{}, apperrors.FieldError(FieldEmail, validate.Taken(FieldEmail))
		}
		return model.User{}, err
	}
	if newImage != "" {
		s.images.Discard(ctx, oldImage)
	}

	s.logger.CtxInfof(ctx, "user updated id=%d", id)
	return updated, nil
}

func (s *userService) Destroy(ctx context.Context, id uint64) error {
	user, err := s.repo.QueryByID(ctx, id)
	if err != nil {
		return err
	}
	s.logger.CtxInfof(ctx, "deleting user id=%d", id)

	s.images.Discard(ctx, user.ImageURL())

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.CtxInfof(ctx, "user deleted id=%d", id)
	return nil
}
