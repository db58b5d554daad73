package validate

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "music-hub/pkg/common/errors"
	"music-hub/pkg/common/storage"
)

func fields(t *testing.T, err error) map[string][]string {
	t.Helper()
	v, ok := apperrors.AsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	return v.Fields
}

func TestRequired(t *testing.T) {
	in := NewInput(map[string]string{"title": "  ", "artist": "Queen"})
	v := New(in)
	v.Field("title").Required().Text().Max(255)
	v.Field("artist").Required().Text().Max(255)
	v.Field("album").Required()

	got := fields(t, v.Err())
	assert.Equal(t, []string{"The title field is required."}, got["title"])
	assert.Equal(t, []string{"The album field is required."}, got["album"])
	assert.NotContains(t, got, "artist")
}

func TestSometimesSkipsAbsentFields(t *testing.T) {
	v := New(NewInput(map[string]string{"duration": "abc"}))
	v.Field("title").Sometimes().Text().Max(255)
	v.Field("duration").Sometimes().Integer().Min(0)

	got := fields(t, v.Err())
	assert.Equal(t, []string{"The duration field must be an integer."}, got["duration"])
	assert.NotContains(t, got, "title")
}

func TestNullable(t *testing.T) {
	v := New(NewInput(map[string]string{"contraseña": ""}))
	v.Field("contraseña").Nullable().MinLen(8)
	assert.NoError(t, v.Err())

	v = New(NewInput(map[string]string{"contraseña": "short"}))
	v.Field("contraseña").Nullable().MinLen(8)
	assert.Equal(t, []string{"The contraseña field must be at least 8 characters."}, fields(t, v.Err())["contraseña"])
}

func TestMaxCountsRunes(t *testing.T) {
	v := New(NewInput(map[string]string{"nombre": strings.Repeat("ñ", 255)}))
	v.Field("nombre").Required().Max(255)
	assert.NoError(t, v.Err())

	v = New(NewInput(map[string]string{"nombre": strings.Repeat("a", 256)}))
	v.Field("nombre").Required().Max(255)
	assert.Error(t, v.Err())
}

func TestMaxBytes(t *testing.T) {
	v := New(NewInput(map[string]string{"contraseña": strings.Repeat("a", 72)}))
	v.Field("contraseña").Required().MinLen(8).MaxBytes(72)
	assert.NoError(t, v.Err())

	// 多字节字符按字节计
	v = New(NewInput(map[string]string{"contraseña": strings.Repeat("ñ", 37)}))
	v.Field("contraseña").Required().MinLen(8).MaxBytes(72)
	assert.Equal(t, []string{"The contraseña field must not be greater than 72 bytes."}, fields(t, v.Err())["contraseña"])
}

func TestTextRejectsNonStrings(t *testing.T) {
	in := NewInput(map[string]string{"title": "true", "artist": "Queen", "duration": "354"})
	in.MarkNonText("title")
	in.MarkNonText("duration")
	v := New(in)
	v.Field("title").Required().Text().Max(255)
	v.Field("artist").Required().Text().Max(255)
	v.Field("duration").Required().Integer().Min(0)

	got := fields(t, v.Err())
	assert.Equal(t, []string{"The title field must be a string."}, got["title"])
	assert.NotContains(t, got, "artist")
	assert.NotContains(t, got, "duration")
}

func TestEmailAndDate(t *testing.T) {
	in := NewInput(map[string]string{
		"correo_electronico": "Ana <ana@example.com>",
		"fecha_nacimiento":   "31/31/1999",
	})
	v := New(in)
	v.Field("correo_electronico").Required().Email()
	v.Field("fecha_nacimiento").Required().Date()

	got := fields(t, v.Err())
	assert.Equal(t, []string{"The correo electronico field must be a valid email address."}, got["correo_electronico"])
	assert.Equal(t, []string{"The fecha nacimiento field must be a valid date."}, got["fecha_nacimiento"])

	v = New(NewInput(map[string]string{"correo_electronico": "ana@example.com", "fecha_nacimiento": "1990-05-17"}))
	v.Field("correo_electronico").Required().Email()
	v.Field("fecha_nacimiento").Required().Date()
	assert.NoError(t, v.Err())
}

func TestMin(t *testing.T) {
	v := New(NewInput(map[string]string{"duration": "-3"}))
	v.Field("duration").Required().Integer().Min(0)
	assert.Equal(t, []string{"The duration field must be at least 0."}, fields(t, v.Err())["duration"])
}

func TestImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(2, 2, color.White), imaging.PNG))

	in := NewInput(nil)
	in.SetFile("cover_art", &storage.Upload{Filename: "c.png", Data: buf.Bytes()})
	v := New(in)
	v.Field("cover_art").Image(2048)
	assert.NoError(t, v.Err())

	in.SetFile("cover_art", &storage.Upload{Filename: "c.png", Data: []byte("text")})
	v = New(in)
	v.Field("cover_art").Image(2048)
	assert.Equal(t, []string{"The cover art field must be an image."}, fields(t, v.Err())["cover_art"])

	in.SetFile("cover_art", &storage.Upload{Filename: "blob", Data: buf.Bytes()})
	v = New(in)
	v.Field("cover_art").Image(2048)
	assert.NoError(t, v.Err(), "format comes from the content, not the filename")

	v = New(NewInput(nil))
	v.Field("cover_art").Image(2048)
	assert.NoError(t, v.Err(), "a missing optional image is fine")
}

func TestFailAndTaken(t *testing.T) {
	v := New(NewInput(nil))
	v.Fail("correo_electronico", Taken("correo_electronico"))
	assert.Equal(t, []string{"The correo electronico has already been taken."}, fields(t, v.Err())["correo_electronico"])
}

func TestInputValuesIsACopy(t *testing.T) {
	in := NewInput(map[string]string{"a": "1"})
	vals := in.Values()
	vals["a"] = "2"
	assert.Equal(t, "1", in.Value("a"))
}
