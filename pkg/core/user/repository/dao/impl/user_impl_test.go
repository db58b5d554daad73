package dao

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "music-hub/pkg/common/errors"
	"music-hub/pkg/common/testutil"
	"music-hub/pkg/core/user/model"
)

func newUser(email string) *model.User {
	return &model.User{
		Name:         "Ana",
		Surname:      "García",
		Email:        email,
		PasswordHash: "$2a$10$hash",
		BirthDate:    time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
	}
}

func TestGormUserRepository_CreateAndQuery(t *testing.T) {
	repo := NewGormUserRepository(testutil.OpenDB(t))
	ctx := context.Background()

	u := newUser("ana@example.com")
	require.NoError(t, repo.CreateUser(ctx, u))
	require.NotZero(t, u.ID)

	byID, err := repo.QueryByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", byID.Email)
	assert.Equal(t, "$2a$10$hash", byID.PasswordHash)

	byEmail, err := repo.QueryByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.QueryByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = repo.QueryByID(ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGormUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewGormUserRepository(testutil.OpenDB(t))
	ctx := context.Background()

	first := newUser("dup@example.com")
	require.NoError(t, repo.CreateUser(ctx, first))

	err := repo.CreateUser(ctx, newUser("dup@example.com"))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEntry)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, first.ID, users[0].ID)
}

func TestGormUserRepository_IsEmailTaken(t *testing.T) {
	repo := NewGormUserRepository(testutil.OpenDB(t))
	ctx := context.Background()

	u := newUser("taken@example.com")
	require.NoError(t, repo.CreateUser(ctx, u))

	taken, err := repo.IsEmailTaken(ctx, "taken@example.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.IsEmailTaken(ctx, "taken@example.com", u.ID)
	require.NoError(t, err)
	assert.False(t, taken, "own record is excluded")

	taken, err = repo.IsEmailTaken(ctx, "free@example.com", 0)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestGormUserRepository_UpdateFields(t *testing.T) {
	repo := NewGormUserRepository(testutil.OpenDB(t))
	ctx := context.Background()

	u := newUser("upd@example.com")
	require.NoError(t, repo.CreateUser(ctx, u))
	other := newUser("other@example.com")
	require.NoError(t, repo.CreateUser(ctx, other))

	updated, err := repo.UpdateFields(ctx, u.ID, map[string]interface{}{"nombre": "Beatriz"})
	require.NoError(t, err)
	assert.Equal(t, "Beatriz", updated.Name)
	assert.Equal(t, "García", updated.Surname)
	assert.Equal(t, "upd@example.com", updated.Email)

	_, err = repo.UpdateFields(ctx, u.ID, map[string]interface{}{"correo_electronico": "other@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEntry)

	_, err = repo.UpdateFields(ctx, 4242, map[string]interface{}{"nombre": "x"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGormUserRepository_Delete(t *testing.T) {
	repo := NewGormUserRepository(testutil.OpenDB(t))
	ctx := context.Background()

	u := newUser("del@example.com")
	require.NoError(t, repo.CreateUser(ctx, u))

	require.NoError(t, repo.DeleteUser(ctx, u.ID))
	_, err := repo.QueryByID(ctx, u.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteUser(ctx, u.ID), apperrors.ErrNotFound)
}
