package dao

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "music-hub/pkg/common/errors"
	"music-hub/pkg/common/testutil"
	"music-hub/pkg/core/token/model"
)

func newToken(userID uint64, hash string) *model.AccessToken {
	return &model.AccessToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      "auth_token",
		TokenHash: hash,
		Abilities: []string{model.AbilityAll},
	}
}

func TestGormTokenRepository_Lifecycle(t *testing.T) {
	repo := NewGormTokenRepository(testutil.OpenDB(t))
	ctx := context.Background()

	tok := newToken(1, "hash-a")
	require.NoError(t, repo.Create(ctx, tok))

	got, err := repo.FindByID(ctx, tok.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash-a", got.TokenHash)
	assert.Equal(t, []string{"*"}, got.Abilities)
	assert.Nil(t, got.LastUsedAt)

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.TouchLastUsed(ctx, tok.ID, at))
	got, err = repo.FindByID(ctx, tok.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastUsedAt)
	assert.True(t, at.Equal(got.LastUsedAt.UTC()))

	require.NoError(t, repo.Delete(ctx, tok.ID))
	_, err = repo.FindByID(ctx, tok.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, tok.ID), apperrors.ErrNotFound)
}

func TestGormTokenRepository_DuplicateHash(t *testing.T) {
	repo := NewGormTokenRepository(testutil.OpenDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newToken(1, "h1")))
	require.NoError(t, repo.Create(ctx, newToken(1, "h2")))

	var count int64
	require.NoError(t, repo.db.Model(&model.AccessToken{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	err := repo.Create(ctx, newToken(3, "h1"))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEntry)
}
