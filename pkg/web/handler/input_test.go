package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "music-hub/pkg/common/errors"
	"music-hub/pkg/common/validate"
)

func TestBindJSON_NullMeansAbsent(t *testing.T) {
	in, err := bindJSON([]byte(`{"title":"Song 2","album":null,"duration":121}`))
	require.NoError(t, err)

	assert.Equal(t, "Song 2", in.Value("title"))
	assert.False(t, in.Has("album"))
	assert.Equal(t, "121", in.Value("duration"))
}

func TestBindJSON_NonStringsFailText(t *testing.T) {
	in, err := bindJSON([]byte(`{"title":true,"artist":["Blur"],"album":{"n":1},"genre":"Britpop","duration":121}`))
	require.NoError(t, err)

	v := validate.New(in)
	for _, f := range []string{"title", "artist", "album", "genre"} {
		v.Field(f).Required().Text().Max(255)
	}
	v.Field("duration").Required().Integer().Min(0)

	ve, ok := apperrors.AsValidation(v.Err())
	require.True(t, ok)
	assert.Equal(t, []string{"The title field must be a string."}, ve.Fields["title"])
	assert.Equal(t, []string{"The artist field must be a string."}, ve.Fields["artist"])
	assert.Equal(t, []string{"The album field must be a string."}, ve.Fields["album"])
	assert.NotContains(t, ve.Fields, "genre")
	assert.NotContains(t, ve.Fields, "duration")
}

func TestBindJSON_Invalid(t *testing.T) {
	_, err := bindJSON([]byte(`[1,2]`))
	_, ok := apperrors.AsValidation(err)
	assert.True(t, ok)

	in, err := bindJSON(nil)
	require.NoError(t, err)
	assert.Empty(t, in.Values())
}
