package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "music-hub/pkg/common/errors"
	"music-hub/pkg/common/hashing"
	"music-hub/pkg/common/storage"
	"music-hub/pkg/common/testutil"
	"music-hub/pkg/common/validate"
	userimpl "music-hub/pkg/core/user/repository/dao/impl"
)

type fakeImages struct {
	saved     []string
	discarded []string
	saveErr   error
}

func (f *fakeImages) Save(_ context.Context, dir string, _ *storage.Upload) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	url := fmt.Sprintf("/storage/%s/img-%d.png", dir, len(f.saved)+1)
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeImages) Discard(_ context.Context, url string) {
	if url == "" {
		return
	}
	f.discarded = append(f.discarded, url)
}

func newService(t *testing.T) (UserService, *fakeImages) {
	t.Helper()
	images := &fakeImages{}
	repo := userimpl.NewGormUserRepository(testutil.OpenDB(t))
	return NewUserService(repo, hashing.NewBcryptHasher(bcrypt.MinCost), images, nil), images
}

func validInput() map[string]string {
	return map[string]string{
		FieldName:      "Ana",
		FieldSurname:   "García",
		FieldEmail:     "ana@example.com",
		FieldPassword:  "secret123",
		FieldBirthDate: "1990-05-17",
	}
}

func validationFields(t *testing.T, err error) map[string][]string {
	t.Helper()
	ve, ok := apperrors.AsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	return ve.Fields
}

func TestCreate(t *testing.T) {
	svc, images := newService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, validate.NewInput(validInput()))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, 1990, user.BirthDate.Year())
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
	assert.Nil(t, user.ProfileImageURL)
	assert.Empty(t, images.saved)
}

func TestCreateWithImage(t *testing.T) {
	svc, images := newService(t)
	in := validate.NewInput(validInput())
	in.SetFile(FieldImage, &storage.Upload{Filename: "me.png", Data: testutil.PNG(t)})

	user, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, user.ProfileImageURL)
	assert.Equal(t, "/storage/perfiles/img-1.png", *user.ProfileImageURL)
	assert.Equal(t, []string{"/storage/perfiles/img-1.png"}, images.saved)
}

func TestCreateWithExtensionlessImage(t *testing.T) {
	svc, images := newService(t)
	in := validate.NewInput(validInput())
	in.SetFile(FieldImage, &storage.Upload{Filename: "blob", Data: testutil.PNG(t)})

	user, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.NotNil(t, user.ProfileImageURL)
	assert.Len(t, images.saved, 1)
}

func TestPasswordByteLimit(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	long := validInput()
	long[FieldPassword] = strings.Repeat("a", 80)
	_, err := svc.Create(ctx, validate.NewInput(long))
	assert.Equal(t, []string{"The contraseña field must not be greater than 72 bytes."}, validationFields(t, err)[FieldPassword])

	atLimit := validInput()
	atLimit[FieldPassword] = strings.Repeat("a", 72)
	user, err := svc.Create(ctx, validate.NewInput(atLimit))
	require.NoError(t, err)

	_, err = svc.Update(ctx, user.ID, validate.NewInput(map[string]string{FieldPassword: strings.Repeat("b", 80)}))
	assert.Contains(t, validationFields(t, err), FieldPassword)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validate.NewInput(map[string]string{
		FieldEmail:     "not-an-email",
		FieldPassword:  "short",
		FieldBirthDate: "yesterday",
	}))
	got := validationFields(t, err)
	assert.Equal(t, []string{"The nombre field is required."}, got[FieldName])
	assert.Equal(t, []string{"The apellido field is required."}, got[FieldSurname])
	assert.Equal(t, []string{"The correo electronico field must be a valid email address."}, got[FieldEmail])
	assert.Equal(t, []string{"The contraseña field must be at least 8 characters."}, got[FieldPassword])
	assert.Equal(t, []string{"The fecha nacimiento field must be a valid date."}, got[FieldBirthDate])
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validate.NewInput(validInput()))
	require.NoError(t, err)

	_, err = svc.Create(ctx, validate.NewInput(validInput()))
	assert.Equal(t, []string{"The correo electronico has already been taken."}, validationFields(t, err)[FieldEmail])

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestCreateImageFailure(t *testing.T) {
	svc, images := newService(t)
	images.saveErr = errors.New("disk full")
	in := validate.NewInput(validInput())
	in.SetFile(FieldImage, &storage.Upload{Filename: "me.png", Data: testutil.PNG(t)})

	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, apperrors.ErrInternal)
}

func TestUpdatePartial(t *testing.T) {
	svc, images := newService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, validate.NewInput(validInput()))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, user.ID, validate.NewInput(map[string]string{FieldName: "Beatriz"}))
	require.NoError(t, err)
	assert.Equal(t, "Beatriz", updated.Name)
	assert.Equal(t, "García", updated.Surname)
	assert.Equal(t, user.PasswordHash, updated.PasswordHash)
	assert.Empty(t, images.discarded, "no image sent, nothing discarded")
}

func TestUpdatePassword(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, validate.NewInput(validInput()))
	require.NoError(t, err)

	_, err = svc.Update(ctx, user.ID, validate.NewInput(map[string]string{FieldPassword: "short"}))
	assert.Contains(t, validationFields(t, err), FieldPassword)

	updated, err := svc.Update(ctx, user.ID, validate.NewInput(map[string]string{FieldPassword: ""}))
	require.NoError(t, err)
	assert.Equal(t, user.PasswordHash, updated.PasswordHash, "empty password is ignored")

	updated, err = svc.Update(ctx, user.ID, validate.NewInput(map[string]string{FieldPassword: "another-secret"}))
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("another-secret")))
}

func TestUpdateEmailUniqueness(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	ana, err := svc.Create(ctx, validate.NewInput(validInput()))
	require.NoError(t, err)
	other := validInput()
	other[FieldEmail] = "bea@example.com"
	_, err = svc.Create(ctx, validate.NewInput(other))
	require.NoError(t, err)

	// own email is not a conflict
	_, err = svc.Update(ctx, ana.ID, validate.NewInput(map[string]string{FieldEmail: "ana@example.com"}))
	assert.NoError(t, err)

	_, err = svc.Update(ctx, ana.ID, validate.NewInput(map[string]string{FieldEmail: "bea@example.com"}))
	assert.Equal(t, []string{"The correo electronico has already been taken."}, validationFields(t, err)[FieldEmail])
}

func TestUpdateReplacesImage(t *testing.T) {
	svc, images := newService(t)
	ctx := context.Background()

	in := validate.NewInput(validInput())
	in.SetFile(FieldImage, &storage.Upload{Filename: "a.png", Data: testutil.PNG(t)})
	user, err := svc.Create(ctx, in)
	require.NoError(t, err)

	upd := validate.NewInput(nil)
	upd.SetFile(FieldImage, &storage.Upload{Filename: "b.png", Data: testutil.PNG(t)})
	updated, err := svc.Update(ctx, user.ID, upd)
	require.NoError(t, err)

	assert.Equal(t, "/storage/perfiles/img-2.png", updated.ImageURL())
	assert.Equal(t, []string{"/storage/perfiles/img-1.png"}, images.discarded)
}

func TestUpdateNotFound(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Update(context.Background(), 404, validate.NewInput(nil))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDestroy(t *testing.T) {
	svc, images := newService(t)
	ctx := context.Background()

	plain, err := svc.Create(ctx, validate.NewInput(validInput()))
	require.NoError(t, err)
	require.NoError(t, svc.Destroy(ctx, plain.ID))
	assert.Empty(t, images.discarded, "user without image triggers no store call")

	_, err = svc.Show(ctx, plain.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.Destroy(ctx, plain.ID), apperrors.ErrNotFound)

	in := validate.NewInput(validInput())
	in.SetFile(FieldImage, &storage.Upload{Filename: "a.png", Data: testutil.PNG(t)})
	withImage, err := svc.Create(ctx, in)
	require.NoError(t, err)
	require.NoError(t, svc.Destroy(ctx, withImage.ID))
	assert.Equal(t, []string{withImage.ImageURL()}, images.discarded)
}
